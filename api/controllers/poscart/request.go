package poscart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hsallam/matjar-pos/pkg/types"
)

// addItemRequest carries the line snapshot the terminal computed at add time.
type addItemRequest struct {
	Product        productSnapshotRequest       `json:"product" validate:"required"`
	Quantity       int                          `json:"quantity" validate:"required,gt=0"`
	VariantID      *uuid.UUID                   `json:"variantId,omitempty"`
	PriceAtAdd     decimal.Decimal              `json:"priceAtAdd" validate:"required"`
	Specifications []specificationChoiceRequest `json:"selectedSpecifications,omitempty" validate:"omitempty,dive"`
	Colors         []colorChoiceRequest         `json:"selectedColors,omitempty" validate:"omitempty,dive"`
}

type productSnapshotRequest struct {
	ID      uuid.UUID           `json:"id" validate:"required"`
	Name    types.LocalizedText `json:"name"`
	Barcode string              `json:"barcode,omitempty"`
	Price   decimal.Decimal     `json:"price"`
	Images  []string            `json:"images,omitempty"`
	Stock   int                 `json:"stock"`
}

type specificationChoiceRequest struct {
	SpecificationID uuid.UUID `json:"specificationId" validate:"required"`
	ValueID         uuid.UUID `json:"valueId" validate:"required"`
	Title           string    `json:"title"`
	Value           string    `json:"value"`
}

type colorChoiceRequest struct {
	ColorID uuid.UUID `json:"colorId" validate:"required"`
	Name    string    `json:"name"`
	Value   string    `json:"value"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

type setCustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone,omitempty" validate:"omitempty,min=6"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

type applyDiscountRequest struct {
	Type   types.DiscountType `json:"type" validate:"required,oneof=percentage fixed"`
	Value  decimal.Decimal    `json:"value" validate:"required"`
	Reason string             `json:"reason,omitempty"`
}

type completeCartRequest struct {
	Notes string `json:"notes,omitempty"`
}

func (r addItemRequest) snapshot() types.ProductSnapshot {
	return types.ProductSnapshot{
		ID:      r.Product.ID,
		Name:    r.Product.Name,
		Barcode: r.Product.Barcode,
		Price:   r.Product.Price,
		Images:  r.Product.Images,
		Stock:   r.Product.Stock,
	}
}

func (r addItemRequest) specificationChoices() []types.SpecificationChoice {
	if len(r.Specifications) == 0 {
		return nil
	}
	out := make([]types.SpecificationChoice, 0, len(r.Specifications))
	for _, s := range r.Specifications {
		out = append(out, types.SpecificationChoice{
			SpecificationID: s.SpecificationID,
			ValueID:         s.ValueID,
			Title:           s.Title,
			Value:           s.Value,
		})
	}
	return out
}

func (r addItemRequest) colorChoices() []types.ColorChoice {
	if len(r.Colors) == 0 {
		return nil
	}
	out := make([]types.ColorChoice, 0, len(r.Colors))
	for _, c := range r.Colors {
		out = append(out, types.ColorChoice{
			ColorID: c.ColorID,
			Name:    c.Name,
			Value:   c.Value,
		})
	}
	return out
}
