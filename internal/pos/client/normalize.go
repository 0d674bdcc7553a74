package client

import (
	"github.com/shopspring/decimal"

	"github.com/hsallam/matjar-pos/pkg/types"
)

// Normalize repairs a server cart payload in place so the UI layer never sees
// a structurally broken cart: items are always a slice, the status always one
// of the known values, and the totals always consistent with the lines.
func Normalize(cart *types.Cart) {
	if cart == nil {
		return
	}
	if cart.Items == nil {
		cart.Items = []types.CartItem{}
	}
	switch cart.Status {
	case types.CartStatusActive, types.CartStatusCompleted, types.CartStatusCancelled:
	default:
		cart.Status = types.CartStatusActive
	}

	if len(cart.Items) == 0 {
		cart.Subtotal = decimal.Zero
		cart.Total = decimal.Zero
		return
	}

	// A cart with items but a missing or non-positive total gets the derived
	// fallback so the register never shows 0.00 for a priced sale.
	if !cart.Total.IsPositive() {
		cart.Total = DerivedTotal(cart)
	}
	if !cart.Subtotal.IsPositive() {
		cart.Subtotal = DerivedTotal(cart)
	}
}

// DerivedTotal sums priceAtAdd times quantity across the lines.
func DerivedTotal(cart *types.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
