package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hsallam/matjar-pos/pkg/types"
)

// ProductRecord persists one sellable product of a store. Spec values and
// colors are denormalized json, the catalog is read-heavy and small.
type ProductRecord struct {
	ID                  uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	StoreID             uuid.UUID                `gorm:"column:store_id;type:uuid;not null;index"`
	Name                types.LocalizedText      `gorm:"column:name;serializer:json"`
	Barcode             string                   `gorm:"column:barcode;index"`
	Price               decimal.Decimal          `gorm:"column:price;type:numeric;not null"`
	SalePrice           decimal.Decimal          `gorm:"column:sale_price;type:numeric"`
	OnSale              bool                     `gorm:"column:on_sale;not null;default:false"`
	Stock               int                      `gorm:"column:stock;not null;default:0"`
	Images              []string                 `gorm:"column:images;serializer:json"`
	CategoryID          uuid.UUID                `gorm:"column:category_id;type:uuid;index"`
	SpecificationValues []types.ProductSpecValue `gorm:"column:specification_values;serializer:json"`
	Colors              []types.ProductColor     `gorm:"column:colors;serializer:json"`
	CreatedAt           time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductRecord) TableName() string { return "products" }

func (p *ProductRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Product maps the record to the wire/domain shape.
func (p *ProductRecord) Product() types.Product {
	return types.Product{
		ID:                  p.ID,
		StoreID:             p.StoreID,
		Name:                p.Name,
		Barcode:             p.Barcode,
		Price:               p.Price,
		SalePrice:           p.SalePrice,
		OnSale:              p.OnSale,
		Stock:               p.Stock,
		Images:              p.Images,
		CategoryID:          p.CategoryID,
		SpecificationValues: p.SpecificationValues,
		Colors:              p.Colors,
	}
}

// CategoryRecord persists one store category.
type CategoryRecord struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	StoreID   uuid.UUID           `gorm:"column:store_id;type:uuid;not null;index"`
	Name      types.LocalizedText `gorm:"column:name;serializer:json"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (CategoryRecord) TableName() string { return "categories" }

func (c *CategoryRecord) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *CategoryRecord) Category() types.Category {
	return types.Category{ID: c.ID, StoreID: c.StoreID, Name: c.Name}
}

// SpecificationRecord persists one global specification axis with its values.
type SpecificationRecord struct {
	ID        uuid.UUID                  `gorm:"column:id;type:uuid;primaryKey"`
	Title     types.LocalizedText        `gorm:"column:title;serializer:json"`
	Values    []types.SpecificationValue `gorm:"column:values;serializer:json"`
	CreatedAt time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

func (SpecificationRecord) TableName() string { return "specifications" }

func (s *SpecificationRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *SpecificationRecord) Specification() types.Specification {
	return types.Specification{ID: s.ID, Title: s.Title, Values: s.Values}
}
