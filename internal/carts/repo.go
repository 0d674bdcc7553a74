package carts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hsallam/matjar-pos/pkg/db/models"
	"github.com/hsallam/matjar-pos/pkg/types"
)

// GormRepository persists POS carts through the shared GORM connection.
type GormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormRepository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &GormRepository{db: tx}
}

// Create inserts a new CartRecord.
func (r *GormRepository) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	if record.Status == "" {
		record.Status = types.CartStatusActive
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindByID loads one CartRecord with its items in insertion order.
func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByStore returns the store's carts filtered by status, oldest first so
// tab ordering is stable.
func (r *GormRepository) ListByStore(ctx context.Context, storeID uuid.UUID, status types.CartStatus) ([]models.CartRecord, error) {
	var records []models.CartRecord
	q := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("store_id = ?", storeID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountByStore counts every cart ever opened for the store, used to number
// new cart names.
func (r *GormRepository) CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	return count, err
}

// Save persists the provided cart record.
func (r *GormRepository) Save(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes the cart and, via cascade, its items.
func (r *GormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("cart_id = ?", id).Delete(&models.CartLineItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.CartRecord{}).Error
}

// AddItem appends a line item.
func (r *GormRepository) AddItem(ctx context.Context, item *models.CartLineItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindItem loads one line item scoped to its cart.
func (r *GormRepository) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartLineItem, error) {
	var item models.CartLineItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SaveItem persists a line item.
func (r *GormRepository) SaveItem(ctx context.Context, item *models.CartLineItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes one line item scoped to its cart.
func (r *GormRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartLineItem{}).Error
}

// DeleteItems removes every line item of a cart.
func (r *GormRepository) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartLineItem{}).Error
}
