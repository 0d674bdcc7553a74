package carts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hsallam/matjar-pos/pkg/db/models"
	pkgerrors "github.com/hsallam/matjar-pos/pkg/errors"
	"github.com/hsallam/matjar-pos/pkg/types"
)

var oneHundred = decimal.NewFromInt(100)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the POS cart session operations.
type Service interface {
	Create(ctx context.Context, storeID uuid.UUID, adminID string) (*models.CartRecord, error)
	Get(ctx context.Context, cartID uuid.UUID) (*models.CartRecord, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, status types.CartStatus) ([]models.CartRecord, error)
	Delete(ctx context.Context, cartID uuid.UUID) error
	AddItem(ctx context.Context, cartID uuid.UUID, input AddItemInput) (*models.CartRecord, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*models.CartRecord, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartRecord, error)
	SetCustomer(ctx context.Context, cartID uuid.UUID, customer types.Customer) (*models.CartRecord, error)
	ApplyDiscount(ctx context.Context, cartID uuid.UUID, input DiscountInput) (*models.CartRecord, error)
	Clear(ctx context.Context, cartID uuid.UUID) (*models.CartRecord, error)
	Complete(ctx context.Context, cartID uuid.UUID, notes string) (*models.CartRecord, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// AddItemInput carries the client-computed line snapshot. PriceAtAdd is the
// effective unit price at the moment of adding; the server never re-derives it.
type AddItemInput struct {
	Product        types.ProductSnapshot
	Quantity       int
	VariantID      *uuid.UUID
	PriceAtAdd     decimal.Decimal
	Specifications []types.SpecificationChoice
	Colors         []types.ColorChoice
}

// DiscountInput is a cart-level discount request.
type DiscountInput struct {
	Type   types.DiscountType
	Value  decimal.Decimal
	Reason string
}

// Create opens a new active cart for the store with a generated bilingual name.
func (s *service) Create(ctx context.Context, storeID uuid.UUID, adminID string) (*models.CartRecord, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}

	count, err := s.repo.CountByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count carts")
	}

	record := &models.CartRecord{
		StoreID: storeID,
		AdminID: adminID,
		Name: types.LocalizedText{
			En: fmt.Sprintf("Cart %d", count+1),
			Ar: fmt.Sprintf("سلة %d", count+1),
		},
		Subtotal: decimal.Zero,
		Total:    decimal.Zero,
		Status:   types.CartStatusActive,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return created, nil
}

// Get loads one cart with its items.
func (s *service) Get(ctx context.Context, cartID uuid.UUID) (*models.CartRecord, error) {
	return s.load(ctx, s.repo, cartID)
}

// ListByStore returns the store's carts filtered by status. An empty status
// lists the active carts.
func (s *service) ListByStore(ctx context.Context, storeID uuid.UUID, status types.CartStatus) ([]models.CartRecord, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if status == "" {
		status = types.CartStatusActive
	}
	if status != types.CartStatusActive && status != types.CartStatusCompleted && status != types.CartStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart status")
	}
	records, err := s.repo.ListByStore(ctx, storeID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list carts")
	}
	return records, nil
}

// Delete removes the cart and its items.
func (s *service) Delete(ctx context.Context, cartID uuid.UUID) error {
	if cartID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	if _, err := s.load(ctx, s.repo, cartID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, cartID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}

// AddItem appends a line item and recomputes totals atomically.
func (s *service) AddItem(ctx context.Context, cartID uuid.UUID, input AddItemInput) (*models.CartRecord, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.PriceAtAdd.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Product.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}

	return s.mutate(ctx, cartID, func(txRepo Repository, record *models.CartRecord) error {
		item := &models.CartLineItem{
			CartID:         record.ID,
			Product:        input.Product,
			Quantity:       input.Quantity,
			VariantID:      input.VariantID,
			PriceAtAdd:     input.PriceAtAdd,
			Specifications: input.Specifications,
			Colors:         input.Colors,
		}
		return txRepo.AddItem(ctx, item)
	})
}

// UpdateItemQuantity sets a line's quantity. A non-positive quantity is a
// documented precondition violation; callers must remove the line instead.
func (s *service) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*models.CartRecord, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive; remove the item instead")
	}

	return s.mutate(ctx, cartID, func(txRepo Repository, record *models.CartRecord) error {
		item, err := txRepo.FindItem(ctx, record.ID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
			}
			return err
		}
		// PriceAtAdd stays frozen; only the quantity moves.
		item.Quantity = quantity
		return txRepo.SaveItem(ctx, item)
	})
}

// RemoveItem deletes a line item.
func (s *service) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartRecord, error) {
	return s.mutate(ctx, cartID, func(txRepo Repository, record *models.CartRecord) error {
		if _, err := txRepo.FindItem(ctx, record.ID, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
			}
			return err
		}
		return txRepo.DeleteItem(ctx, record.ID, itemID)
	})
}

// SetCustomer attaches the customer sub-record.
func (s *service) SetCustomer(ctx context.Context, cartID uuid.UUID, customer types.Customer) (*models.CartRecord, error) {
	return s.mutate(ctx, cartID, func(txRepo Repository, record *models.CartRecord) error {
		record.Customer = &customer
		return nil
	})
}

// ApplyDiscount validates and stores a cart-level discount.
func (s *service) ApplyDiscount(ctx context.Context, cartID uuid.UUID, input DiscountInput) (*models.CartRecord, error) {
	if input.Type != types.DiscountPercentage && input.Type != types.DiscountFixed {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type")
	}
	if input.Value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value cannot be negative")
	}
	if input.Type == types.DiscountPercentage && input.Value.GreaterThan(oneHundred) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}

	return s.mutate(ctx, cartID, func(txRepo Repository, record *models.CartRecord) error {
		record.Discount = &types.Discount{
			Type:   input.Type,
			Value:  input.Value,
			Reason: input.Reason,
		}
		return nil
	})
}

// Clear wipes items, zeroes totals and drops the discount.
func (s *service) Clear(ctx context.Context, cartID uuid.UUID) (*models.CartRecord, error) {
	return s.mutate(ctx, cartID, func(txRepo Repository, record *models.CartRecord) error {
		if err := txRepo.DeleteItems(ctx, record.ID); err != nil {
			return err
		}
		record.Discount = nil
		record.Tax = nil
		return nil
	})
}

// Complete transitions an active, non-empty cart to completed. The working
// record stays in place; the client issues the follow-up delete.
func (s *service) Complete(ctx context.Context, cartID uuid.UUID, notes string) (*models.CartRecord, error) {
	var saved *models.CartRecord
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		record, err := s.load(ctx, txRepo, cartID)
		if err != nil {
			return err
		}
		if record.Status != types.CartStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only active carts can be completed")
		}
		if len(record.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cannot complete an empty cart")
		}

		record.Status = types.CartStatusCompleted
		if notes != "" {
			if record.Notes == nil {
				record.Notes = &types.Notes{}
			}
			record.Notes.Admin = notes
		}
		recomputeTotals(record)

		saved, err = txRepo.Save(ctx, record)
		return err
	})
	if err != nil {
		return nil, wrapDependency(err, "complete cart")
	}
	return saved, nil
}

// mutate runs fn against the cart inside a transaction and recomputes totals
// from the surviving items before saving.
func (s *service) mutate(ctx context.Context, cartID uuid.UUID, fn func(txRepo Repository, record *models.CartRecord) error) (*models.CartRecord, error) {
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}

	var saved *models.CartRecord
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		record, err := s.load(ctx, txRepo, cartID)
		if err != nil {
			return err
		}
		if record.Status != types.CartStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is not active")
		}

		if err := fn(txRepo, record); err != nil {
			return err
		}

		// Re-read items so totals reflect the mutation just applied.
		fresh, err := s.load(ctx, txRepo, record.ID)
		if err != nil {
			return err
		}
		fresh.Customer = record.Customer
		fresh.Discount = record.Discount
		fresh.Tax = record.Tax
		fresh.Notes = record.Notes
		recomputeTotals(fresh)

		if _, err := txRepo.Save(ctx, fresh); err != nil {
			return err
		}
		saved = fresh
		return nil
	})
	if err != nil {
		return nil, wrapDependency(err, "update cart")
	}
	return saved, nil
}

func (s *service) load(ctx context.Context, repo Repository, cartID uuid.UUID) (*models.CartRecord, error) {
	record, err := repo.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return record, nil
}

// recomputeTotals derives subtotal, discount amount, tax amount and total
// from the line items. Total never goes negative.
func recomputeTotals(record *models.CartRecord) {
	subtotal := decimal.Zero
	for _, item := range record.Items {
		subtotal = subtotal.Add(item.PriceAtAdd.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	record.Subtotal = subtotal

	discount := decimal.Zero
	if record.Discount != nil {
		switch record.Discount.Type {
		case types.DiscountPercentage:
			discount = subtotal.Mul(record.Discount.Value).Div(oneHundred)
		case types.DiscountFixed:
			discount = record.Discount.Value
		}
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
	}

	taxable := subtotal.Sub(discount)
	tax := decimal.Zero
	if record.Tax != nil && record.Tax.Rate.IsPositive() {
		tax = taxable.Mul(record.Tax.Rate).Div(oneHundred)
		record.Tax.Amount = tax
	}

	total := taxable.Add(tax)
	if total.IsNegative() {
		total = decimal.Zero
	}
	record.Total = total
}

// wrapDependency keeps typed errors intact and tags raw storage failures.
func wrapDependency(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
