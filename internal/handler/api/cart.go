// Package api holds the JSON handlers of the storefront API.
package api

import (
	"net/http"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/dukerupert/forever/internal/handler"
	"github.com/dukerupert/forever/internal/service"
	"github.com/dukerupert/forever/internal/validation"
)

// CartHandler handles the /cart routes. Every route runs behind
// middleware.RequireUser.
type CartHandler struct {
	cart service.CartService
	rs   *handler.Responder
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cart service.CartService, rs *handler.Responder) *CartHandler {
	return &CartHandler{cart: cart, rs: rs}
}

// Add handles POST /cart/add
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req validation.CartRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := validation.ValidateCartAdd(req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	state, err := h.cart.AddItem(r.Context(), domain.RequireUserID(r.Context()), req.ItemID, req.Size)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	handler.OK(w, handler.Envelope{Message: "Item added to cart", Data: state})
}

// Update handles PUT /cart/update
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req validation.CartRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := validation.ValidateCartUpdate(req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	quantity, _ := req.QuantityValue()

	state, err := h.cart.SetItemQuantity(r.Context(), domain.RequireUserID(r.Context()), req.ItemID, req.Size, quantity)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	handler.OK(w, handler.Envelope{Message: "Cart updated successfully", Data: state})
}

// Get handles GET /cart/
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.GetCart(r.Context(), domain.RequireUserID(r.Context()))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	handler.OK(w, handler.Envelope{Data: view})
}

// Clear handles DELETE /cart/clear
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context(), domain.RequireUserID(r.Context())); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	handler.OK(w, handler.Envelope{Message: "Cart cleared successfully"})
}
