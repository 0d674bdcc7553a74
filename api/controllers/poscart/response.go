package poscart

import (
	"github.com/hsallam/matjar-pos/pkg/db/models"
	"github.com/hsallam/matjar-pos/pkg/types"
)

// newCart maps a persisted record to the wire shape.
func newCart(record *models.CartRecord) *types.Cart {
	if record == nil {
		return nil
	}
	cart := &types.Cart{
		ID:        record.ID,
		StoreID:   record.StoreID,
		AdminID:   record.AdminID,
		Name:      record.Name,
		Customer:  record.Customer,
		Items:     make([]types.CartItem, 0, len(record.Items)),
		Subtotal:  record.Subtotal,
		Tax:       record.Tax,
		Discount:  record.Discount,
		Total:     record.Total,
		Payment:   record.Payment,
		Notes:     record.Notes,
		Status:    record.Status,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	for _, item := range record.Items {
		cart.Items = append(cart.Items, types.CartItem{
			ID:             item.ID,
			Product:        item.Product,
			Quantity:       item.Quantity,
			VariantID:      item.VariantID,
			PriceAtAdd:     item.PriceAtAdd,
			Specifications: item.Specifications,
			Colors:         item.Colors,
		})
	}
	return cart
}

func newCartList(records []models.CartRecord) []*types.Cart {
	out := make([]*types.Cart, 0, len(records))
	for i := range records {
		out = append(out, newCart(&records[i]))
	}
	return out
}
