package handlers

import (
	"net/http"

	"github.com/cresenventures/backend/internal/models"
)

type saveCartRequest struct {
	Email string            `json:"email" validate:"required,email"`
	Cart  []models.LineItem `json:"cart" validate:"required"`
}

type getCartRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SaveCart replaces the customer's cart wholesale. An empty cart is a
// valid save (the customer emptied it), hence required-but-may-be-empty.
func (h *Handlers) SaveCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req saveCartRequest
	if err := decodeRequest(r, &req); err != nil {
		h.badRequest(w, ctx, err)
		return
	}

	if err := h.lifecycle.SaveCart(ctx, req.Email, req.Cart); err != nil {
		h.writeError(w, ctx, err)
		return
	}

	h.writeSuccess(w, ctx, nil)
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req getCartRequest
	if err := decodeRequest(r, &req); err != nil {
		h.badRequest(w, ctx, err)
		return
	}

	cart, err := h.lifecycle.GetCart(ctx, req.Email)
	if err != nil {
		h.writeError(w, ctx, err)
		return
	}

	h.writeSuccess(w, ctx, map[string]any{"cart": cart.Items})
}
