package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog entity the POS surfaces search and sell from. The
// catalog is a read-only collaborator of the cart flow; products are loaded per
// store and never mutated by the POS.
type Product struct {
	ID                  uuid.UUID          `json:"id"`
	StoreID             uuid.UUID          `json:"storeId"`
	Name                LocalizedText      `json:"name"`
	Barcode             string             `json:"barcode,omitempty"`
	Price               decimal.Decimal    `json:"price"`
	SalePrice           decimal.Decimal    `json:"salePrice"`
	OnSale              bool               `json:"onSale"`
	Stock               int                `json:"stock"`
	Images              []string           `json:"images,omitempty"`
	CategoryID          uuid.UUID          `json:"categoryId,omitempty"`
	SpecificationValues []ProductSpecValue `json:"specificationValues,omitempty"`
	Colors              []ProductColor     `json:"colors,omitempty"`
}

// EffectivePrice is the unit price a new cart line must snapshot: the sale
// price while a sale is active, the list price otherwise.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.OnSale && p.SalePrice.IsPositive() {
		return p.SalePrice
	}
	return p.Price
}

// Snapshot freezes the fields a cart line embeds at add time.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:      p.ID,
		Name:    p.Name,
		Barcode: p.Barcode,
		Price:   p.Price,
		Images:  p.Images,
		Stock:   p.Stock,
	}
}

// ProductSpecValue links a product to one selectable specification value,
// optionally with a tracked remaining quantity. A nil Quantity means the value
// is not stock-tracked.
type ProductSpecValue struct {
	SpecificationID uuid.UUID `json:"specificationId"`
	ValueID         uuid.UUID `json:"valueId"`
	Quantity        *int      `json:"quantity,omitempty"`
}

type ProductColor struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Value string    `json:"value"`
}

type Category struct {
	ID      uuid.UUID     `json:"id"`
	StoreID uuid.UUID     `json:"storeId"`
	Name    LocalizedText `json:"name"`
}

// Specification is a global attribute axis (size, material, ...) whose values
// products reference by id.
type Specification struct {
	ID     uuid.UUID            `json:"id"`
	Title  LocalizedText        `json:"title"`
	Values []SpecificationValue `json:"values"`
}

type SpecificationValue struct {
	ID    uuid.UUID     `json:"id"`
	Value LocalizedText `json:"value"`
}
