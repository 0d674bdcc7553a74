// Package workspace coordinates the sale screen: catalog browsing, smart
// search, line edits and the completion flow, all against the current cart.
package workspace

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hsallam/matjar-pos/internal/catalog"
	"github.com/hsallam/matjar-pos/internal/pos/client"
	"github.com/hsallam/matjar-pos/internal/pos/specpicker"
	"github.com/hsallam/matjar-pos/pkg/logger"
	"github.com/hsallam/matjar-pos/pkg/types"
)

// CartStore is the slice of the cart store the workspace drives.
type CartStore interface {
	Current() *types.Cart
	AddToCart(ctx context.Context, cartID uuid.UUID, product types.Product, quantity int, variantID *uuid.UUID, specs []types.SpecificationChoice, colors []types.ColorChoice) client.Result
	UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, quantity int) client.Result
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) client.Result
	ClearCart(ctx context.Context, cartID uuid.UUID) client.Result
	CompleteCart(ctx context.Context, cartID uuid.UUID, notes string) client.Result
	DeleteCart(ctx context.Context, cartID uuid.UUID) client.Result
	ApplyDiscount(ctx context.Context, cartID uuid.UUID, discountType types.DiscountType, value decimal.Decimal, reason string) client.Result
	SetCustomer(ctx context.Context, cartID uuid.UUID, customer types.Customer) client.Result
}

// Options wires the workspace's collaborators.
type Options struct {
	Logger *logger.Logger
	// ConfirmClear is asked before wiping a non-empty cart. Nil confirms.
	ConfirmClear func() bool
	// OnSaleCompleted fires after a completed sale's cart was deleted, so the
	// tab strip can drop the tab without another server call.
	OnSaleCompleted func(cartID uuid.UUID)
	// OnCartMutated fires after any server-confirmed cart change.
	OnCartMutated func()
}

// Workspace is the sale screen's controller for one store.
type Workspace struct {
	store   CartStore
	source  catalog.Source
	storeID uuid.UUID
	logg    *logger.Logger

	confirmClear    func() bool
	onSaleCompleted func(uuid.UUID)
	onCartMutated   func()

	mu         sync.Mutex
	products   []types.Product
	categories []types.Category
	specs      []types.Specification
	clearing   bool
	completing bool
}

// New builds a workspace bound to one store's catalog and cart store.
func New(store CartStore, source catalog.Source, storeID uuid.UUID, opts Options) (*Workspace, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if source == nil {
		return nil, fmt.Errorf("catalog source is required")
	}
	if storeID == uuid.Nil {
		return nil, fmt.Errorf("store id is required")
	}
	return &Workspace{
		store:           store,
		source:          source,
		storeID:         storeID,
		logg:            opts.Logger,
		confirmClear:    opts.ConfirmClear,
		onSaleCompleted: opts.OnSaleCompleted,
		onCartMutated:   opts.OnCartMutated,
	}, nil
}

// LoadCatalog pulls products, categories and specification axes for the store.
func (w *Workspace) LoadCatalog(ctx context.Context) error {
	products, err := w.source.ProductsByStore(ctx, w.storeID)
	if err != nil {
		return fmt.Errorf("loading products: %w", err)
	}
	categories, err := w.source.CategoriesByStore(ctx, w.storeID)
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}
	specs, err := w.source.Specifications(ctx)
	if err != nil {
		return fmt.Errorf("loading specifications: %w", err)
	}

	w.mu.Lock()
	w.products = products
	w.categories = categories
	w.specs = specs
	w.mu.Unlock()
	return nil
}

// Products returns the loaded catalog.
func (w *Workspace) Products() []types.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]types.Product(nil), w.products...)
}

// Categories returns the loaded category list.
func (w *Workspace) Categories() []types.Category {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]types.Category(nil), w.categories...)
}

// Filter narrows the browse grid by term and category.
func (w *Workspace) Filter(term string, categoryID uuid.UUID) []types.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return FilterProducts(w.products, term, categoryID)
}

// Search runs smart search over the loaded catalog. A barcode hit is added to
// the cart immediately, matching the scanner flow; when the scanned product
// needs a specification or color choice the picker is returned instead of a
// cart mutation.
func (w *Workspace) Search(ctx context.Context, term string) (SearchResult, *specpicker.Picker, client.Result) {
	w.mu.Lock()
	products := w.products
	w.mu.Unlock()

	result := SmartSearch(products, term)
	if result.Kind == SearchBarcode && result.Product != nil {
		picker, addRes := w.AddProduct(ctx, *result.Product)
		if picker != nil {
			return result, picker, client.Result{Success: true, Message: "specification choice required"}
		}
		return result, nil, addRes
	}
	return result, nil, client.Result{Success: true}
}

// AddProduct puts one unit of the product into the current cart, or returns a
// picker when the product needs a specification or color choice first.
func (w *Workspace) AddProduct(ctx context.Context, product types.Product) (*specpicker.Picker, client.Result) {
	w.mu.Lock()
	specs := w.specs
	w.mu.Unlock()

	picker := specpicker.New(product, specs)
	if picker.Required() {
		return picker, client.Result{}
	}

	cart := w.store.Current()
	if cart == nil {
		return nil, client.Result{Success: false, Message: "no active cart"}
	}
	res := w.store.AddToCart(ctx, cart.ID, product, 1, nil, nil, nil)
	w.mutated(res)
	return nil, res
}

// AddSelection adds the picker's confirmed choice to the current cart.
func (w *Workspace) AddSelection(ctx context.Context, sel specpicker.Selection) client.Result {
	cart := w.store.Current()
	if cart == nil {
		return client.Result{Success: false, Message: "no active cart"}
	}
	res := w.store.AddToCart(ctx, cart.ID, sel.Product, sel.Quantity, nil, sel.Specifications, sel.Colors)
	w.mutated(res)
	return res
}

// IncrementItem raises a line's quantity by one.
func (w *Workspace) IncrementItem(ctx context.Context, itemID uuid.UUID) client.Result {
	cart, item := w.findItem(itemID)
	if item == nil {
		return client.Result{Success: false, Message: "item not in the current cart"}
	}
	res := w.store.UpdateItem(ctx, cart.ID, itemID, item.Quantity+1)
	w.mutated(res)
	return res
}

// DecrementItem lowers a line's quantity by one; reaching zero removes the
// line instead of sending a zero quantity to the server.
func (w *Workspace) DecrementItem(ctx context.Context, itemID uuid.UUID) client.Result {
	cart, item := w.findItem(itemID)
	if item == nil {
		return client.Result{Success: false, Message: "item not in the current cart"}
	}
	var res client.Result
	if item.Quantity <= 1 {
		res = w.store.RemoveItem(ctx, cart.ID, itemID)
	} else {
		res = w.store.UpdateItem(ctx, cart.ID, itemID, item.Quantity-1)
	}
	w.mutated(res)
	return res
}

// RemoveItem deletes a line outright.
func (w *Workspace) RemoveItem(ctx context.Context, itemID uuid.UUID) client.Result {
	cart, item := w.findItem(itemID)
	if item == nil {
		return client.Result{Success: false, Message: "item not in the current cart"}
	}
	res := w.store.RemoveItem(ctx, cart.ID, itemID)
	w.mutated(res)
	return res
}

// ClearSale wipes the current cart after confirmation. Re-entrant calls while
// a clear is running are ignored.
func (w *Workspace) ClearSale(ctx context.Context) client.Result {
	cart := w.store.Current()
	if cart == nil {
		return client.Result{Success: false, Message: "no active cart"}
	}
	if len(cart.Items) == 0 {
		return client.Result{Success: true, Message: "cart already empty", Cart: cart}
	}
	if w.confirmClear != nil && !w.confirmClear() {
		return client.Result{Success: false, Message: "clear cancelled"}
	}

	w.mu.Lock()
	if w.clearing {
		w.mu.Unlock()
		return client.Result{Success: false, Message: "clear already in progress"}
	}
	w.clearing = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.clearing = false
		w.mu.Unlock()
	}()

	res := w.store.ClearCart(ctx, cart.ID)
	w.mutated(res)
	return res
}

// CompleteSale finishes the current sale: the cart is completed, then its
// server record deleted, then the tab layer is told to drop the tab. Exactly
// two server calls, in that order.
func (w *Workspace) CompleteSale(ctx context.Context, notes string) client.Result {
	cart := w.store.Current()
	if cart == nil {
		return client.Result{Success: false, Message: "no active cart"}
	}
	if len(cart.Items) == 0 {
		return client.Result{Success: false, Message: "cannot complete an empty sale"}
	}

	w.mu.Lock()
	if w.completing {
		w.mu.Unlock()
		return client.Result{Success: false, Message: "completion already in progress"}
	}
	w.completing = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.completing = false
		w.mu.Unlock()
	}()

	cartID := cart.ID
	res := w.store.CompleteCart(ctx, cartID, notes)
	if !res.Success {
		return res
	}
	if del := w.store.DeleteCart(ctx, cartID); !del.Success {
		// The sale is recorded; a stuck record is an operator cleanup, not a
		// failed sale.
		if w.logg != nil {
			w.logg.Warn(w.logg.WithCartID(ctx, cartID.String()),
				"completed cart could not be deleted: "+del.Message)
		}
	}
	if w.onSaleCompleted != nil {
		w.onSaleCompleted(cartID)
	}
	return res
}

// ApplyDiscount forwards a discount to the current cart.
func (w *Workspace) ApplyDiscount(ctx context.Context, discountType types.DiscountType, value decimal.Decimal, reason string) client.Result {
	cart := w.store.Current()
	if cart == nil {
		return client.Result{Success: false, Message: "no active cart"}
	}
	res := w.store.ApplyDiscount(ctx, cart.ID, discountType, value, reason)
	w.mutated(res)
	return res
}

// SetCustomer attaches customer details to the current cart.
func (w *Workspace) SetCustomer(ctx context.Context, customer types.Customer) client.Result {
	cart := w.store.Current()
	if cart == nil {
		return client.Result{Success: false, Message: "no active cart"}
	}
	res := w.store.SetCustomer(ctx, cart.ID, customer)
	w.mutated(res)
	return res
}

func (w *Workspace) findItem(itemID uuid.UUID) (*types.Cart, *types.CartItem) {
	cart := w.store.Current()
	if cart == nil {
		return nil, nil
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			return cart, &cart.Items[i]
		}
	}
	return cart, nil
}

func (w *Workspace) mutated(res client.Result) {
	if res.Success && w.onCartMutated != nil {
		w.onCartMutated()
	}
}
