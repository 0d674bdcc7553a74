// Package client holds the terminal-side cart state machine: one current cart
// slot, a short-lived list cache and the HTTP calls that feed both. All
// methods are safe for concurrent use.
package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hsallam/matjar-pos/pkg/i18n"
	"github.com/hsallam/matjar-pos/pkg/logger"
	"github.com/hsallam/matjar-pos/pkg/types"
)

// Result is the outcome every cart operation reports to its caller.
type Result struct {
	Success bool
	Message string
	Cart    *types.Cart
}

// ListResult is the outcome of a cart list fetch.
type ListResult struct {
	Success bool
	Message string
	Carts   []types.Cart
}

// Options configures a CartStore.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	// Token supplies the bearer token attached to every request. Nil or an
	// empty return means unauthenticated.
	Token        func() string
	Lang         i18n.Lang
	Logger       *logger.Logger
	Now          func() time.Time
	ListCacheTTL time.Duration
}

// CartStore owns the single current-cart slot of a terminal.
//
// Switching carts bumps a generation counter; a response that arrives after a
// newer switch started is discarded instead of clobbering the newer cart.
type CartStore struct {
	api  *api
	lang i18n.Lang
	logg *logger.Logger
	now  func() time.Time

	mu         sync.Mutex
	current    *types.Cart
	loading    bool
	generation uint64
	lastErr    *i18n.Message

	listTTL   time.Duration
	listCache map[listKey]cachedList

	subMu   sync.Mutex
	subs    map[int]func(*types.Cart)
	nextSub int
}

// NewCartStore builds a store talking to the cart API at opts.BaseURL.
func NewCartStore(opts Options) (*CartStore, error) {
	if opts.BaseURL == "" {
		return nil, errBaseURLRequired
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ttl := opts.ListCacheTTL
	if ttl <= 0 {
		ttl = DefaultListCacheTTL
	}
	lang := opts.Lang
	if lang == "" {
		lang = i18n.LangEn
	}
	return &CartStore{
		api:       newAPI(opts.BaseURL, opts.HTTPClient, opts.Token),
		lang:      lang,
		logg:      opts.Logger,
		now:       now,
		listTTL:   ttl,
		listCache: map[listKey]cachedList{},
		subs:      map[int]func(*types.Cart){},
	}, nil
}

var errBaseURLRequired = &configError{"cart api base url is required"}

type configError struct{ msg string }

func (e *configError) Error() string { return e.msg }

// Current returns the cart in the slot, or nil while switching or before any
// load.
func (s *CartStore) Current() *types.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Loading reports whether a cart switch is in flight.
func (s *CartStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the localized message of the most recent failure, cleared
// by the next successful operation.
func (s *CartStore) LastError() *i18n.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers fn to run after every slot change. The returned func
// unregisters it.
func (s *CartStore) Subscribe(fn func(*types.Cart)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *CartStore) notify(cart *types.Cart) {
	s.subMu.Lock()
	fns := make([]func(*types.Cart), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(cart)
	}
}

// CreateCart opens a new cart and installs it as current.
func (s *CartStore) CreateCart(ctx context.Context, storeID uuid.UUID) Result {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	cart, err := s.api.createCart(ctx, storeID)
	if err != nil {
		return s.fail(ctx, err)
	}
	Normalize(cart)
	s.invalidateLists()
	return s.install(gen, cart, "cart created")
}

// GetCart makes cartID the current cart.
//
// Asking for the cart already in the slot is a no-op success with no network
// call. Switching to a different cart clears the slot first so the register
// never renders the previous sale against the new tab, then loads.
func (s *CartStore) GetCart(ctx context.Context, cartID uuid.UUID) Result {
	s.mu.Lock()
	if s.current != nil && s.current.ID == cartID && !s.loading {
		cart := s.current
		s.mu.Unlock()
		return Result{Success: true, Cart: cart}
	}
	s.current = nil
	s.loading = true
	s.generation++
	gen := s.generation
	s.mu.Unlock()
	s.notify(nil)

	cart, err := s.api.getCart(ctx, cartID)
	if err != nil {
		s.mu.Lock()
		if s.generation == gen {
			s.loading = false
			s.lastErr = ptr(i18n.FromError(s.lang, err))
		}
		s.mu.Unlock()
		s.logFailure(ctx, err)
		return Result{Success: false, Message: i18n.FromError(s.lang, err).Message}
	}
	Normalize(cart)
	return s.install(gen, cart, "cart loaded")
}

// GetAllCarts lists the store's carts, reusing an answer fetched within the
// cache TTL.
func (s *CartStore) GetAllCarts(ctx context.Context, storeID uuid.UUID, status types.CartStatus) ListResult {
	key := listKey{storeID: storeID, status: status}

	s.mu.Lock()
	entry, ok := s.listCache[key]
	if ok && freshAt(entry.fetchedAt, s.now(), s.listTTL) {
		carts := entry.value
		s.mu.Unlock()
		return ListResult{Success: true, Carts: carts}
	}
	s.mu.Unlock()

	carts, err := s.api.listCarts(ctx, storeID, status)
	if err != nil {
		s.mu.Lock()
		s.lastErr = ptr(i18n.FromError(s.lang, err))
		s.mu.Unlock()
		s.logFailure(ctx, err)
		return ListResult{Success: false, Message: i18n.FromError(s.lang, err).Message}
	}
	for i := range carts {
		Normalize(&carts[i])
	}

	s.mu.Lock()
	s.listCache[key] = cachedList{value: carts, fetchedAt: s.now()}
	s.lastErr = nil
	s.mu.Unlock()
	return ListResult{Success: true, Carts: carts}
}

// AddToCart snapshots the product at its effective price and appends a line.
func (s *CartStore) AddToCart(ctx context.Context, cartID uuid.UUID, product types.Product, quantity int, variantID *uuid.UUID, specs []types.SpecificationChoice, colors []types.ColorChoice) Result {
	if quantity <= 0 {
		return s.failLocal("quantity must be positive")
	}
	return s.mutation(ctx, cartID, "item added", func(ctx context.Context) (*types.Cart, error) {
		return s.api.addItem(ctx, cartID, addItemBody{
			Product:        product.Snapshot(),
			Quantity:       quantity,
			VariantID:      variantID,
			PriceAtAdd:     product.EffectivePrice(),
			Specifications: specs,
			Colors:         colors,
		})
	})
}

// UpdateItem changes a line's quantity. Zero and below never reach the
// server; callers route those through RemoveItem.
func (s *CartStore) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, quantity int) Result {
	if quantity <= 0 {
		return s.failLocal("quantity must be positive; remove the item instead")
	}
	return s.mutation(ctx, cartID, "item updated", func(ctx context.Context) (*types.Cart, error) {
		return s.api.updateItem(ctx, cartID, itemID, quantity)
	})
}

// RemoveItem deletes a line.
func (s *CartStore) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) Result {
	return s.mutation(ctx, cartID, "item removed", func(ctx context.Context) (*types.Cart, error) {
		return s.api.removeItem(ctx, cartID, itemID)
	})
}

// SetCustomer attaches customer details.
func (s *CartStore) SetCustomer(ctx context.Context, cartID uuid.UUID, customer types.Customer) Result {
	return s.mutation(ctx, cartID, "customer set", func(ctx context.Context) (*types.Cart, error) {
		return s.api.setCustomer(ctx, cartID, customer)
	})
}

// ApplyDiscount sets the cart-level discount.
func (s *CartStore) ApplyDiscount(ctx context.Context, cartID uuid.UUID, discountType types.DiscountType, value decimal.Decimal, reason string) Result {
	return s.mutation(ctx, cartID, "discount applied", func(ctx context.Context) (*types.Cart, error) {
		return s.api.applyDiscount(ctx, cartID, types.Discount{
			Type:   discountType,
			Value:  value,
			Reason: reason,
		})
	})
}

// ClearCart removes every line, keeping the cart open.
func (s *CartStore) ClearCart(ctx context.Context, cartID uuid.UUID) Result {
	return s.mutation(ctx, cartID, "cart cleared", func(ctx context.Context) (*types.Cart, error) {
		return s.api.clearCart(ctx, cartID)
	})
}

// CompleteCart marks the sale completed. The record stays on the server until
// DeleteCart is called.
func (s *CartStore) CompleteCart(ctx context.Context, cartID uuid.UUID, notes string) Result {
	res := s.mutation(ctx, cartID, "sale completed", func(ctx context.Context) (*types.Cart, error) {
		return s.api.completeCart(ctx, cartID, notes)
	})
	if res.Success {
		s.invalidateLists()
	}
	return res
}

// DeleteCart removes the cart server-side and empties the slot if it was
// current.
func (s *CartStore) DeleteCart(ctx context.Context, cartID uuid.UUID) Result {
	if err := s.api.deleteCart(ctx, cartID); err != nil {
		return s.fail(ctx, err)
	}
	s.invalidateLists()

	s.mu.Lock()
	cleared := false
	if s.current != nil && s.current.ID == cartID {
		s.current = nil
		s.generation++
		cleared = true
	}
	s.lastErr = nil
	s.mu.Unlock()
	if cleared {
		s.notify(nil)
	}
	return Result{Success: true, Message: "cart deleted"}
}

// mutation runs one server mutation and installs the returned cart unless a
// newer switch started while the request was in flight.
func (s *CartStore) mutation(ctx context.Context, cartID uuid.UUID, message string, call func(context.Context) (*types.Cart, error)) Result {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	cart, err := call(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	Normalize(cart)
	return s.install(gen, cart, message)
}

// install places cart into the slot if generation gen is still current.
func (s *CartStore) install(gen uint64, cart *types.Cart, message string) Result {
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return Result{Success: true, Message: "superseded by a newer cart switch", Cart: cart}
	}
	s.current = cart
	s.loading = false
	s.lastErr = nil
	s.mu.Unlock()
	s.notify(cart)
	return Result{Success: true, Message: message, Cart: cart}
}

func (s *CartStore) fail(ctx context.Context, err error) Result {
	msg := i18n.FromError(s.lang, err)
	s.mu.Lock()
	s.lastErr = &msg
	s.mu.Unlock()
	s.logFailure(ctx, err)
	return Result{Success: false, Message: msg.Message}
}

func (s *CartStore) failLocal(message string) Result {
	return Result{Success: false, Message: message}
}

func (s *CartStore) invalidateLists() {
	s.mu.Lock()
	s.listCache = map[listKey]cachedList{}
	s.mu.Unlock()
}

func (s *CartStore) logFailure(ctx context.Context, err error) {
	if s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart operation failed")
	}
}

func ptr[T any](v T) *T { return &v }
