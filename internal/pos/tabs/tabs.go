// Package tabs keeps the register's open-sale tab strip in sync with the cart
// store: one tab per open cart, exactly one active.
package tabs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hsallam/matjar-pos/internal/pos/client"
	"github.com/hsallam/matjar-pos/pkg/logger"
	"github.com/hsallam/matjar-pos/pkg/types"
)

// DefaultRefreshDebounce spaces out server-backed tab refreshes triggered by
// rapid cart updates.
const DefaultRefreshDebounce = 300 * time.Millisecond

// Tab is one entry of the strip: the cart's identity plus the cached summary
// the strip renders without a server round-trip.
type Tab struct {
	CartID    uuid.UUID
	Name      types.LocalizedText
	ItemCount int
	Total     decimal.Decimal
	Status    types.CartStatus
}

// CartStore is the slice of the cart store the controller needs.
type CartStore interface {
	CreateCart(ctx context.Context, storeID uuid.UUID) client.Result
	GetCart(ctx context.Context, cartID uuid.UUID) client.Result
	GetAllCarts(ctx context.Context, storeID uuid.UUID, status types.CartStatus) client.ListResult
	DeleteCart(ctx context.Context, cartID uuid.UUID) client.Result
	Current() *types.Cart
	Loading() bool
	Subscribe(fn func(*types.Cart)) func()
}

// Options tunes a Controller.
type Options struct {
	Logger *logger.Logger
	// ConfirmClose is asked before closing a tab that still has items. Nil
	// means close without asking.
	ConfirmClose func(Tab) bool
	// RefreshDebounce overrides DefaultRefreshDebounce.
	RefreshDebounce time.Duration
}

// Controller owns the tab strip for one store.
type Controller struct {
	store    CartStore
	storeID  uuid.UUID
	logg     *logger.Logger
	confirm  func(Tab) bool
	debounce time.Duration

	mu       sync.Mutex
	tabs     []Tab
	activeID uuid.UUID
	timer    *time.Timer
	unsub    func()
	closed   bool
}

// NewController builds the controller and starts following the cart store so
// the active tab's badge tracks the cart as lines change.
func NewController(store CartStore, storeID uuid.UUID, opts Options) (*Controller, error) {
	if store == nil {
		return nil, errStoreRequired
	}
	if storeID == uuid.Nil {
		return nil, errStoreIDRequired
	}
	debounce := opts.RefreshDebounce
	if debounce <= 0 {
		debounce = DefaultRefreshDebounce
	}
	c := &Controller{
		store:    store,
		storeID:  storeID,
		logg:     opts.Logger,
		confirm:  opts.ConfirmClose,
		debounce: debounce,
	}
	c.unsub = store.Subscribe(c.onCartChanged)
	return c, nil
}

var (
	errStoreRequired   = &optionError{"cart store is required"}
	errStoreIDRequired = &optionError{"store id is required"}
)

type optionError struct{ msg string }

func (e *optionError) Error() string { return e.msg }

// Close stops the subscription and any pending refresh.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	unsub := c.unsub
	c.unsub = nil
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Tabs returns a copy of the strip.
func (c *Controller) Tabs() []Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Tab(nil), c.tabs...)
}

// ActiveID returns the active tab's cart id, or uuid.Nil when no tab is open.
func (c *Controller) ActiveID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// LoadTabs fetches the store's active carts and rebuilds the strip. The
// previously active tab stays active when it survives; otherwise the first
// tab is selected.
func (c *Controller) LoadTabs(ctx context.Context) error {
	res := c.store.GetAllCarts(ctx, c.storeID, types.CartStatusActive)
	if !res.Success {
		return &optionError{res.Message}
	}

	c.mu.Lock()
	previous := c.activeID
	c.tabs = c.tabs[:0]
	keepActive := false
	for i := range res.Carts {
		cart := &res.Carts[i]
		c.tabs = append(c.tabs, newTab(cart))
		if cart.ID == previous {
			keepActive = true
		}
	}
	var nextActive uuid.UUID
	if keepActive {
		nextActive = previous
	} else if len(c.tabs) > 0 {
		nextActive = c.tabs[0].CartID
	}
	c.activeID = nextActive
	c.mu.Unlock()

	if nextActive != uuid.Nil {
		return c.activate(ctx, nextActive)
	}
	return nil
}

// CreateNewTab opens a fresh cart and makes its tab active.
func (c *Controller) CreateNewTab(ctx context.Context) (Tab, error) {
	res := c.store.CreateCart(ctx, c.storeID)
	if !res.Success || res.Cart == nil {
		return Tab{}, &optionError{res.Message}
	}
	tab := newTab(res.Cart)
	c.mu.Lock()
	c.tabs = append(c.tabs, tab)
	c.activeID = tab.CartID
	c.mu.Unlock()
	return tab, nil
}

// SelectTab switches the register to the given tab. Selecting the active tab
// with its cart already loaded is a no-op. The chosen tab becomes active
// before the load; a failed load keeps it active with an empty cart slot so
// the operator retries from the tab they picked.
func (c *Controller) SelectTab(ctx context.Context, cartID uuid.UUID) error {
	c.mu.Lock()
	if c.activeID == cartID {
		current := c.store.Current()
		if current != nil && current.ID == cartID {
			c.mu.Unlock()
			return nil
		}
	}
	c.mu.Unlock()
	return c.activate(ctx, cartID)
}

func (c *Controller) activate(ctx context.Context, cartID uuid.UUID) error {
	c.mu.Lock()
	c.activeID = cartID
	c.mu.Unlock()
	res := c.store.GetCart(ctx, cartID)
	if !res.Success {
		return &optionError{res.Message}
	}
	return nil
}

// CloseTab deletes the tab's cart server-side and removes the tab. A tab that
// still holds items goes through the ConfirmClose hook first.
func (c *Controller) CloseTab(ctx context.Context, cartID uuid.UUID) error {
	c.mu.Lock()
	tab, ok := c.findTab(cartID)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	if tab.ItemCount > 0 && c.confirm != nil && !c.confirm(tab) {
		return nil
	}

	if res := c.store.DeleteCart(ctx, cartID); !res.Success {
		return &optionError{res.Message}
	}
	return c.removeTab(ctx, cartID)
}

// CloseTabByCartID removes a tab whose cart is already gone server-side, for
// example after a completed sale was deleted. No delete request is issued.
func (c *Controller) CloseTabByCartID(ctx context.Context, cartID uuid.UUID) error {
	return c.removeTab(ctx, cartID)
}

func (c *Controller) removeTab(ctx context.Context, cartID uuid.UUID) error {
	c.mu.Lock()
	idx := -1
	for i, tab := range c.tabs {
		if tab.CartID == cartID {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return nil
	}
	c.tabs = append(c.tabs[:idx], c.tabs[idx+1:]...)

	wasActive := c.activeID == cartID
	var next uuid.UUID
	if wasActive && len(c.tabs) > 0 {
		// Prefer the neighbour that took the closed tab's position.
		if idx >= len(c.tabs) {
			idx = len(c.tabs) - 1
		}
		next = c.tabs[idx].CartID
	}
	if wasActive {
		c.activeID = next
	}
	c.mu.Unlock()

	if wasActive && next != uuid.Nil {
		return c.activate(ctx, next)
	}
	return nil
}

// NotifyCartUpdated schedules a debounced strip refresh. Bursts collapse into
// one fetch, and nothing is scheduled while a cart switch is loading since
// the follow-up select refreshes anyway.
func (c *Controller) NotifyCartUpdated() {
	if c.store.Loading() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.refreshNow)
}

func (c *Controller) refreshNow() {
	c.mu.Lock()
	c.timer = nil
	closed := c.closed
	c.mu.Unlock()
	if closed || c.store.Loading() {
		return
	}
	if err := c.LoadTabs(context.Background()); err != nil && c.logg != nil {
		ctx := c.logg.WithStoreID(context.Background(), c.storeID.String())
		c.logg.Warn(ctx, "tab refresh failed: "+err.Error())
	}
}

// onCartChanged mirrors the loaded cart into its tab so badges update without
// a server round-trip.
func (c *Controller) onCartChanged(cart *types.Cart) {
	if cart == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tabs {
		if c.tabs[i].CartID == cart.ID {
			c.tabs[i] = newTab(cart)
			return
		}
	}
}

// newTab projects the cart summary the strip caches. A non-positive server
// total against a non-empty cart is replaced with the line-derived total.
func newTab(cart *types.Cart) Tab {
	total := cart.Total
	if !total.IsPositive() && len(cart.Items) > 0 {
		total = client.DerivedTotal(cart)
	}
	return Tab{
		CartID:    cart.ID,
		Name:      cart.Name,
		ItemCount: cart.ItemCount(),
		Total:     total,
		Status:    cart.Status,
	}
}

func (c *Controller) findTab(cartID uuid.UUID) (Tab, bool) {
	for _, tab := range c.tabs {
		if tab.CartID == cartID {
			return tab, true
		}
	}
	return Tab{}, false
}
