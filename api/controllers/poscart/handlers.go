// Package poscart exposes the POS cart session endpoints. Every response uses
// the {success, message, data, error} envelope.
package poscart

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hsallam/matjar-pos/api/middleware"
	"github.com/hsallam/matjar-pos/api/responses"
	"github.com/hsallam/matjar-pos/api/validators"
	"github.com/hsallam/matjar-pos/internal/carts"
	pkgerrors "github.com/hsallam/matjar-pos/pkg/errors"
	"github.com/hsallam/matjar-pos/pkg/logger"
	"github.com/hsallam/matjar-pos/pkg/types"
)

// Create opens a new cart for the store in the path.
func Create(svc carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), storeID, middleware.AdminIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteStatus(w, http.StatusCreated, "cart created", newCart(record))
	}
}

// Get returns one cart by its id.
func Get(svc carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "cart loaded", newCart(record))
	}
}

// ListByStore returns the store's carts, optionally filtered by ?status=.
func ListByStore(svc carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := types.CartStatus(r.URL.Query().Get("status"))
		records, err := svc.ListByStore(r.Context(), storeID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "carts loaded", newCartList(records))
	}
}

// Delete removes a cart and its items.
func Delete(svc carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "cart deleted", nil)
	}
}

// AddItem appends a line to the cart.
func AddItem(svc carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req addItemRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddItem(r.Context(), cartID, carts.AddItemInput{
			Product:        req.snapshot(),
			Quantity:       req.Quantity,
			VariantID:      req.VariantID,
			PriceAtAdd:     req.PriceAtAdd,
			Specifications: req.specificationChoices(),
			Colors:         req.colorChoices(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "item added", newCart(record))
	}
}

// UpdateItem changes a line's quantity. Zero and negative quantities are
// rejected; removal has its own endpoint.
func UpdateItem(svc carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, itemID, err := pathItemIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateItemRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateItemQuantity(r.Context(), cartID, itemID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "item updated", newCart(record))
	}
}

// RemoveItem deletes a line from the cart.
func RemoveItem(svc carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, itemID, err := pathItemIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.RemoveItem(r.Context(), cartID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "item removed", newCart(record))
	}
}

// SetCustomer attaches customer details to the cart.
func SetCustomer(svc carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req setCustomerRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.SetCustomer(r.Context(), cartID, types.Customer{
			Name:  req.Name,
			Phone: req.Phone,
			Email: req.Email,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "customer set", newCart(record))
	}
}

// ApplyDiscount sets the cart-level discount.
func ApplyDiscount(svc carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req applyDiscountRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.ApplyDiscount(r.Context(), cartID, carts.DiscountInput{
			Type:   req.Type,
			Value:  req.Value,
			Reason: req.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "discount applied", newCart(record))
	}
}

// Clear removes every item and resets totals, keeping the cart open.
func Clear(svc carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Clear(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "cart cleared", newCart(record))
	}
}

// Complete marks the sale as completed. The cart record stays until the
// client deletes it.
func Complete(svc carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req completeCartRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(w, r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		record, err := svc.Complete(r.Context(), cartID, req.Notes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "sale completed", newCart(record))
	}
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id in path")
	}
	return id, nil
}

func pathItemIDs(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	cartID, err := pathID(r, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return cartID, itemID, nil
}
