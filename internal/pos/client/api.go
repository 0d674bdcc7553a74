package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/hsallam/matjar-pos/pkg/errors"
	"github.com/hsallam/matjar-pos/pkg/types"
)

// api is the thin HTTP transport under the cart store. Every call returns the
// decoded envelope or a typed error carrying the server's error code.
type api struct {
	baseURL string
	http    *http.Client
	token   func() string
}

func newAPI(baseURL string, httpClient *http.Client, token func() string) *api {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &api{baseURL: baseURL, http: httpClient, token: token}
}

func (a *api) do(ctx context.Context, method, path string, body any) (*types.RawEnvelope, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request")
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != nil {
		if token := a.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "request failed")
	}
	defer resp.Body.Close()

	var env types.RawEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		message := env.Message
		if message == "" {
			message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return nil, pkgerrors.New(codeFromWire(env.Error, resp.StatusCode), message)
	}
	return &env, nil
}

func (a *api) cart(ctx context.Context, method, path string, body any) (*types.Cart, error) {
	env, err := a.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	var cart types.Cart
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &cart); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode cart payload")
		}
	}
	return &cart, nil
}

func (a *api) createCart(ctx context.Context, storeID uuid.UUID) (*types.Cart, error) {
	return a.cart(ctx, http.MethodPost, "/api/pos-cart/"+storeID.String(), nil)
}

func (a *api) getCart(ctx context.Context, cartID uuid.UUID) (*types.Cart, error) {
	return a.cart(ctx, http.MethodGet, "/api/pos-cart/cart/"+cartID.String(), nil)
}

func (a *api) listCarts(ctx context.Context, storeID uuid.UUID, status types.CartStatus) ([]types.Cart, error) {
	path := "/api/pos-cart/" + storeID.String()
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	env, err := a.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var carts []types.Cart
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &carts); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode cart list")
		}
	}
	return carts, nil
}

func (a *api) addItem(ctx context.Context, cartID uuid.UUID, body addItemBody) (*types.Cart, error) {
	return a.cart(ctx, http.MethodPost, "/api/pos-cart/"+cartID.String()+"/add", body)
}

func (a *api) updateItem(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*types.Cart, error) {
	return a.cart(ctx, http.MethodPut,
		"/api/pos-cart/"+cartID.String()+"/item/"+itemID.String(),
		map[string]int{"quantity": quantity})
}

func (a *api) removeItem(ctx context.Context, cartID, itemID uuid.UUID) (*types.Cart, error) {
	return a.cart(ctx, http.MethodDelete,
		"/api/pos-cart/"+cartID.String()+"/item/"+itemID.String(), nil)
}

func (a *api) setCustomer(ctx context.Context, cartID uuid.UUID, customer types.Customer) (*types.Cart, error) {
	return a.cart(ctx, http.MethodPut, "/api/pos-cart/"+cartID.String()+"/customer", customer)
}

func (a *api) applyDiscount(ctx context.Context, cartID uuid.UUID, discount types.Discount) (*types.Cart, error) {
	return a.cart(ctx, http.MethodPut, "/api/pos-cart/"+cartID.String()+"/discount", discount)
}

func (a *api) clearCart(ctx context.Context, cartID uuid.UUID) (*types.Cart, error) {
	return a.cart(ctx, http.MethodPost, "/api/pos-cart/"+cartID.String()+"/clear", nil)
}

func (a *api) completeCart(ctx context.Context, cartID uuid.UUID, notes string) (*types.Cart, error) {
	var body any
	if notes != "" {
		body = map[string]string{"notes": notes}
	}
	return a.cart(ctx, http.MethodPost, "/api/pos-cart/"+cartID.String()+"/complete", body)
}

func (a *api) deleteCart(ctx context.Context, cartID uuid.UUID) error {
	_, err := a.do(ctx, http.MethodDelete, "/api/pos-cart/"+cartID.String(), nil)
	return err
}

// addItemBody mirrors the add endpoint's request shape.
type addItemBody struct {
	Product        types.ProductSnapshot       `json:"product"`
	Quantity       int                         `json:"quantity"`
	VariantID      *uuid.UUID                  `json:"variantId,omitempty"`
	PriceAtAdd     decimal.Decimal             `json:"priceAtAdd"`
	Specifications []types.SpecificationChoice `json:"selectedSpecifications,omitempty"`
	Colors         []types.ColorChoice         `json:"selectedColors,omitempty"`
}

func codeFromWire(code string, status int) pkgerrors.Code {
	switch pkgerrors.Code(code) {
	case pkgerrors.CodeValidation, pkgerrors.CodeUnauthorized, pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict, pkgerrors.CodeStateConflict, pkgerrors.CodeIdempotency,
		pkgerrors.CodeInternal, pkgerrors.CodeDependency:
		return pkgerrors.Code(code)
	}
	switch {
	case status == http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case status == http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case status >= http.StatusInternalServerError:
		return pkgerrors.CodeDependency
	default:
		return pkgerrors.CodeInternal
	}
}
