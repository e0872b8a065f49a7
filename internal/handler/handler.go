// Package handler exposes the ordering engine over a small local HTTP API,
// the kiosk-side stand-in for the original browser UI layer. One handler
// serves one kiosk's cart.
package handler

import (
	"context"
	"net/http"

	"github.com/kusina/kiosk/internal/domain/cart"
	"github.com/kusina/kiosk/internal/domain/order"
	"github.com/kusina/kiosk/internal/gateway"
)

// MenuFetcher loads the storefront catalog from the backend.
type MenuFetcher interface {
	FetchMenu(ctx context.Context) (*gateway.Menu, error)
}

// Handler wires the cart store, checkout service, and catalog client to
// HTTP routes.
type Handler struct {
	carts    *cart.Store
	checkout *order.Checkout
	menu     MenuFetcher
}

// New constructs a Handler with the required dependencies.
func New(carts *cart.Store, checkout *order.Checkout, menu MenuFetcher) *Handler {
	return &Handler{carts: carts, checkout: checkout, menu: menu}
}

// Routes registers all kiosk API routes on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/menu", h.GetMenu)
	mux.HandleFunc("POST /api/menu/items/{id}/select", h.SelectItem)
	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/items", h.AddItem)
	mux.HandleFunc("PATCH /api/cart/items/{id}", h.SetQuantity)
	mux.HandleFunc("POST /api/cart/items/{id}/decrement", h.DecrementItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.RemoveItem)
	mux.HandleFunc("DELETE /api/cart", h.ClearCart)
	mux.HandleFunc("POST /api/checkout", h.Checkout)
}
