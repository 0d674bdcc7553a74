package carts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hsallam/matjar-pos/pkg/db/models"
	pkgerrors "github.com/hsallam/matjar-pos/pkg/errors"
	"github.com/hsallam/matjar-pos/pkg/types"
)

type stubRepo struct {
	carts map[uuid.UUID]*models.CartRecord
	items map[uuid.UUID][]*models.CartLineItem
	count int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		carts: map[uuid.UUID]*models.CartRecord{},
		items: map[uuid.UUID][]*models.CartLineItem{},
	}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	s.carts[record.ID] = record
	s.count++
	return record, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CartRecord, error) {
	record, ok := s.carts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *record
	clone.Items = nil
	for _, item := range s.items[id] {
		clone.Items = append(clone.Items, *item)
	}
	return &clone, nil
}

func (s *stubRepo) ListByStore(ctx context.Context, storeID uuid.UUID, status types.CartStatus) ([]models.CartRecord, error) {
	var out []models.CartRecord
	for id, record := range s.carts {
		if record.StoreID != storeID {
			continue
		}
		if status != "" && record.Status != status {
			continue
		}
		clone, _ := s.FindByID(ctx, id)
		out = append(out, *clone)
	}
	return out, nil
}

func (s *stubRepo) CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	return s.count, nil
}

func (s *stubRepo) Save(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	clone := *record
	s.carts[record.ID] = &clone
	return record, nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.carts, id)
	delete(s.items, id)
	return nil
}

func (s *stubRepo) AddItem(ctx context.Context, item *models.CartLineItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.CartID] = append(s.items[item.CartID], item)
	return nil
}

func (s *stubRepo) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartLineItem, error) {
	for _, item := range s.items[cartID] {
		if item.ID == itemID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) SaveItem(ctx context.Context, item *models.CartLineItem) error {
	for i, existing := range s.items[item.CartID] {
		if existing.ID == item.ID {
			s.items[item.CartID][i] = item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubRepo) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	kept := s.items[cartID][:0]
	for _, item := range s.items[cartID] {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	s.items[cartID] = kept
	return nil
}

func (s *stubRepo) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	s.items[cartID] = nil
	return nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T) (Service, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	svc, err := NewService(repo, stubTx{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

func snapshot(price float64) types.ProductSnapshot {
	return types.ProductSnapshot{
		ID:    uuid.New(),
		Name:  types.LocalizedText{En: "Espresso Beans", Ar: "حبوب إسبريسو"},
		Price: decimal.NewFromFloat(price),
	}
}

func addItem(t *testing.T, svc Service, cartID uuid.UUID, price float64, qty int) *models.CartRecord {
	t.Helper()
	record, err := svc.AddItem(context.Background(), cartID, AddItemInput{
		Product:    snapshot(price),
		Quantity:   qty,
		PriceAtAdd: decimal.NewFromFloat(price),
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	return record
}

func TestCreateNamesCartsSequentially(t *testing.T) {
	svc, _ := newTestService(t)
	storeID := uuid.New()

	first, err := svc.Create(context.Background(), storeID, "admin-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Name.En != "Cart 1" || first.Name.Ar != "سلة 1" {
		t.Fatalf("unexpected first name: %+v", first.Name)
	}
	if first.Status != types.CartStatusActive {
		t.Fatalf("expected active status, got %s", first.Status)
	}

	second, err := svc.Create(context.Background(), storeID, "admin-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if second.Name.En != "Cart 2" {
		t.Fatalf("unexpected second name: %+v", second.Name)
	}
}

func TestCreateRequiresStore(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Create(context.Background(), uuid.Nil, ""); pkgerrors.As(err) == nil {
		t.Fatalf("expected typed validation error, got %v", err)
	}
}

func TestAddItemRecomputesTotals(t *testing.T) {
	svc, _ := newTestService(t)
	cart, _ := svc.Create(context.Background(), uuid.New(), "")

	record := addItem(t, svc, cart.ID, 12.50, 2)
	if got := record.Subtotal.StringFixed(2); got != "25.00" {
		t.Fatalf("subtotal = %s, want 25.00", got)
	}
	if got := record.Total.StringFixed(2); got != "25.00" {
		t.Fatalf("total = %s, want 25.00", got)
	}

	record = addItem(t, svc, cart.ID, 3.00, 1)
	if got := record.Total.StringFixed(2); got != "28.00" {
		t.Fatalf("total after second add = %s, want 28.00", got)
	}
	if len(record.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(record.Items))
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	svc, _ := newTestService(t)
	cart, _ := svc.Create(context.Background(), uuid.New(), "")

	_, err := svc.AddItem(context.Background(), cart.ID, AddItemInput{
		Product:    snapshot(5),
		Quantity:   0,
		PriceAtAdd: decimal.NewFromInt(5),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateItemQuantityKeepsPriceAtAdd(t *testing.T) {
	svc, repo := newTestService(t)
	cart, _ := svc.Create(context.Background(), uuid.New(), "")
	record := addItem(t, svc, cart.ID, 10, 1)
	itemID := record.Items[0].ID

	// Mutating the live product price must not move the captured line price.
	repo.items[cart.ID][0].Product.Price = decimal.NewFromInt(99)

	updated, err := svc.UpdateItemQuantity(context.Background(), cart.ID, itemID, 3)
	if err != nil {
		t.Fatalf("UpdateItemQuantity: %v", err)
	}
	if got := updated.Items[0].PriceAtAdd.StringFixed(2); got != "10.00" {
		t.Fatalf("priceAtAdd = %s, want 10.00", got)
	}
	if got := updated.Total.StringFixed(2); got != "30.00" {
		t.Fatalf("total = %s, want 30.00", got)
	}
}

func TestUpdateItemQuantityRejectsNonPositive(t *testing.T) {
	svc, _ := newTestService(t)
	cart, _ := svc.Create(context.Background(), uuid.New(), "")
	record := addItem(t, svc, cart.ID, 10, 1)

	for _, qty := range []int{0, -1} {
		_, err := svc.UpdateItemQuantity(context.Background(), cart.ID, record.Items[0].ID, qty)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("qty %d: expected validation error, got %v", qty, err)
		}
	}
}

func TestRemoveLastItemZeroesTotals(t *testing.T) {
	svc, _ := newTestService(t)
	cart, _ := svc.Create(context.Background(), uuid.New(), "")
	record := addItem(t, svc, cart.ID, 7, 2)

	updated, err := svc.RemoveItem(context.Background(), cart.ID, record.Items[0].ID)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(updated.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(updated.Items))
	}
	if !updated.Subtotal.IsZero() || !updated.Total.IsZero() {
		t.Fatalf("totals not zeroed: subtotal=%s total=%s", updated.Subtotal, updated.Total)
	}
}

func TestApplyDiscountBounds(t *testing.T) {
	svc, _ := newTestService(t)
	cart, _ := svc.Create(context.Background(), uuid.New(), "")
	addItem(t, svc, cart.ID, 100, 1)

	_, err := svc.ApplyDiscount(context.Background(), cart.ID, DiscountInput{
		Type:  types.DiscountPercentage,
		Value: decimal.NewFromInt(150),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for >100%%, got %v", err)
	}

	record, err := svc.ApplyDiscount(context.Background(), cart.ID, DiscountInput{
		Type:  types.DiscountPercentage,
		Value: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("ApplyDiscount: %v", err)
	}
	if got := record.Total.StringFixed(2); got != "90.00" {
		t.Fatalf("total = %s, want 90.00", got)
	}

	// A fixed discount larger than the subtotal clamps; total floors at zero.
	record, err = svc.ApplyDiscount(context.Background(), cart.ID, DiscountInput{
		Type:  types.DiscountFixed,
		Value: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("ApplyDiscount fixed: %v", err)
	}
	if !record.Total.IsZero() {
		t.Fatalf("total = %s, want 0", record.Total)
	}
}

func TestClearEmptiesCartAndDropsDiscount(t *testing.T) {
	svc, _ := newTestService(t)
	cart, _ := svc.Create(context.Background(), uuid.New(), "")
	addItem(t, svc, cart.ID, 20, 2)
	if _, err := svc.ApplyDiscount(context.Background(), cart.ID, DiscountInput{
		Type:  types.DiscountFixed,
		Value: decimal.NewFromInt(5),
	}); err != nil {
		t.Fatalf("ApplyDiscount: %v", err)
	}

	record, err := svc.Clear(context.Background(), cart.ID)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(record.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(record.Items))
	}
	if record.Discount != nil {
		t.Fatalf("discount should be dropped on clear")
	}
	if !record.Subtotal.IsZero() || !record.Total.IsZero() {
		t.Fatalf("totals not zeroed: subtotal=%s total=%s", record.Subtotal, record.Total)
	}
}

func TestCompleteTransitionsOnlyActiveNonEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	cart, _ := svc.Create(context.Background(), uuid.New(), "")

	_, err := svc.Complete(context.Background(), cart.ID, "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}

	addItem(t, svc, cart.ID, 15, 1)
	record, err := svc.Complete(context.Background(), cart.ID, "paid cash")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if record.Status != types.CartStatusCompleted {
		t.Fatalf("status = %s, want completed", record.Status)
	}
	if record.Notes == nil || record.Notes.Admin != "paid cash" {
		t.Fatalf("notes not recorded: %+v", record.Notes)
	}

	_, err = svc.Complete(context.Background(), cart.ID, "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on re-complete, got %v", err)
	}
}

func TestMutationsRejectNonActiveCart(t *testing.T) {
	svc, _ := newTestService(t)
	cart, _ := svc.Create(context.Background(), uuid.New(), "")
	addItem(t, svc, cart.ID, 5, 1)
	if _, err := svc.Complete(context.Background(), cart.ID, ""); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	_, err := svc.AddItem(context.Background(), cart.ID, AddItemInput{
		Product:    snapshot(5),
		Quantity:   1,
		PriceAtAdd: decimal.NewFromInt(5),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestGetUnknownCartReturnsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListByStoreDefaultsToActive(t *testing.T) {
	svc, _ := newTestService(t)
	storeID := uuid.New()
	open, _ := svc.Create(context.Background(), storeID, "")
	done, _ := svc.Create(context.Background(), storeID, "")
	addItem(t, svc, done.ID, 2.00, 1)
	if _, err := svc.Complete(context.Background(), done.ID, ""); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	records, err := svc.ListByStore(context.Background(), storeID, "")
	if err != nil {
		t.Fatalf("ListByStore: %v", err)
	}
	if len(records) != 1 || records[0].ID != open.ID {
		t.Fatalf("unfiltered list returned %d carts, want only the active one", len(records))
	}

	completed, err := svc.ListByStore(context.Background(), storeID, types.CartStatusCompleted)
	if err != nil {
		t.Fatalf("ListByStore completed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != done.ID {
		t.Fatalf("completed list = %d carts, want the completed one", len(completed))
	}
}
