package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hsallam/matjar-pos/pkg/types"
)

// CartLineItem persists one line of a CartRecord with the product snapshot and
// the immutable price captured at add time.
type CartLineItem struct {
	ID             uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey"`
	CartID         uuid.UUID                   `gorm:"column:cart_id;type:uuid;not null;index"`
	Product        types.ProductSnapshot       `gorm:"column:product;serializer:json"`
	Quantity       int                         `gorm:"column:quantity;not null"`
	VariantID      *uuid.UUID                  `gorm:"column:variant_id;type:uuid"`
	PriceAtAdd     decimal.Decimal             `gorm:"column:price_at_add;type:numeric;not null"`
	Specifications []types.SpecificationChoice `gorm:"column:specifications;serializer:json"`
	Colors         []types.ColorChoice         `gorm:"column:colors;serializer:json"`
	CreatedAt      time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartLineItem) TableName() string { return "pos_cart_items" }

func (i *CartLineItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
