package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hsallam/matjar-pos/pkg/types"
)

// CartRecord persists one open POS sale session and its line items.
type CartRecord struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	StoreID   uuid.UUID           `gorm:"column:store_id;type:uuid;not null;index"`
	AdminID   string              `gorm:"column:admin_id"`
	Name      types.LocalizedText `gorm:"column:name;serializer:json"`
	Customer  *types.Customer     `gorm:"column:customer;serializer:json"`
	Subtotal  decimal.Decimal     `gorm:"column:subtotal;type:numeric;not null"`
	Tax       *types.Tax          `gorm:"column:tax;serializer:json"`
	Discount  *types.Discount     `gorm:"column:discount;serializer:json"`
	Total     decimal.Decimal     `gorm:"column:total;type:numeric;not null"`
	Payment   *types.Payment      `gorm:"column:payment;serializer:json"`
	Notes     *types.Notes        `gorm:"column:notes;serializer:json"`
	Status    types.CartStatus    `gorm:"column:status;not null;default:'active';index"`
	Items     []CartLineItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartRecord) TableName() string { return "pos_carts" }

// BeforeCreate assigns the id client-side so the sqlite dev/test path works
// without a server-side uuid default.
func (r *CartRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
