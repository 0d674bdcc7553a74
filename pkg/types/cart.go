package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Cart totals and prices travel as plain JSON numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true
}

type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusCompleted CartStatus = "completed"
	CartStatusCancelled CartStatus = "cancelled"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Cart is the server-owned sale session aggregate.
type Cart struct {
	ID        uuid.UUID       `json:"id"`
	StoreID   uuid.UUID       `json:"storeId"`
	AdminID   string          `json:"adminId,omitempty"`
	Name      LocalizedText   `json:"name"`
	Customer  *Customer       `json:"customer,omitempty"`
	Items     []CartItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       *Tax            `json:"tax,omitempty"`
	Discount  *Discount       `json:"discount,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Payment   *Payment        `json:"payment,omitempty"`
	Notes     *Notes          `json:"notes,omitempty"`
	Status    CartStatus      `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ItemCount sums line quantities.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// CartItem is one purchasable line. PriceAtAdd is frozen at add time and never
// re-derived from the product snapshot afterwards.
type CartItem struct {
	ID             uuid.UUID             `json:"id"`
	Product        ProductSnapshot       `json:"product"`
	Quantity       int                   `json:"quantity"`
	VariantID      *uuid.UUID            `json:"variantId,omitempty"`
	PriceAtAdd     decimal.Decimal       `json:"priceAtAdd"`
	Specifications []SpecificationChoice `json:"selectedSpecifications,omitempty"`
	Colors         []ColorChoice         `json:"selectedColors,omitempty"`
}

// LineTotal is PriceAtAdd times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.PriceAtAdd.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ProductSnapshot embeds the product fields a line needs to render without the
// catalog.
type ProductSnapshot struct {
	ID      uuid.UUID       `json:"id"`
	Name    LocalizedText   `json:"name"`
	Barcode string          `json:"barcode,omitempty"`
	Price   decimal.Decimal `json:"price"`
	Images  []string        `json:"images,omitempty"`
	Stock   int             `json:"stock"`
}

type SpecificationChoice struct {
	SpecificationID uuid.UUID `json:"specificationId"`
	ValueID         uuid.UUID `json:"valueId"`
	Title           string    `json:"title"`
	Value           string    `json:"value"`
}

type ColorChoice struct {
	ColorID uuid.UUID `json:"colorId"`
	Name    string    `json:"name"`
	Value   string    `json:"value"`
}

type Customer struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type Tax struct {
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

type Discount struct {
	Type   DiscountType    `json:"type"`
	Value  decimal.Decimal `json:"value"`
	Reason string          `json:"reason,omitempty"`
}

type Payment struct {
	Method string          `json:"method,omitempty"`
	Amount decimal.Decimal `json:"amount"`
	Change decimal.Decimal `json:"change"`
	Notes  string          `json:"notes,omitempty"`
}

type Notes struct {
	Admin    string `json:"admin,omitempty"`
	Customer string `json:"customer,omitempty"`
}
