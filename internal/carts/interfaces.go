package carts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hsallam/matjar-pos/pkg/db/models"
	"github.com/hsallam/matjar-pos/pkg/types"
)

// Repository defines the persistence surface required by the cart service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CartRecord, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, status types.CartStatus) ([]models.CartRecord, error)
	CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error)
	Save(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddItem(ctx context.Context, item *models.CartLineItem) error
	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartLineItem, error)
	SaveItem(ctx context.Context, item *models.CartLineItem) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
}
