package handlers

import (
	"fmt"
	"net/http"

	"github.com/cresenventures/backend/internal/models"
	"github.com/cresenventures/backend/internal/storefront"
)

type saveShippingRequest struct {
	Email    string         `json:"email" validate:"required,email"`
	Shipping models.Address `json:"shipping" validate:"required"`
}

type calculateShippingRequest struct {
	Email    string            `json:"email" validate:"required,email"`
	Shipping models.Address    `json:"shipping" validate:"required"`
	Cart     []models.LineItem `json:"cart" validate:"omitempty"`
}

func (h *Handlers) SaveShipping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req saveShippingRequest
	if err := decodeRequest(r, &req); err != nil {
		h.badRequest(w, ctx, err)
		return
	}
	if !storefront.IsValidPincode(req.Shipping.Pincode) {
		h.badRequest(w, ctx, fmt.Errorf("invalid pincode %q", req.Shipping.Pincode))
		return
	}

	if err := h.customers.SaveShipping(ctx, req.Email, req.Shipping); err != nil {
		h.writeError(w, ctx, fmt.Errorf("failed to save shipping address: %w", err))
		return
	}

	h.writeSuccess(w, ctx, nil)
}

// CalculateShipping quotes a delivery fee for the customer's pincode. The
// posted address is persisted onto the customer profile before the quote,
// so the lookup is not a pure read.
func (h *Handlers) CalculateShipping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req calculateShippingRequest
	if err := decodeRequest(r, &req); err != nil {
		h.badRequest(w, ctx, err)
		return
	}
	if !storefront.IsValidPincode(req.Shipping.Pincode) {
		h.badRequest(w, ctx, fmt.Errorf("invalid pincode %q", req.Shipping.Pincode))
		return
	}

	if err := h.customers.SaveShipping(ctx, req.Email, req.Shipping); err != nil {
		h.writeError(w, ctx, fmt.Errorf("failed to save shipping address: %w", err))
		return
	}

	shipping := h.storefront.Shipping
	fee, err := h.rates.Rate(ctx, shipping.PickupPincode, req.Shipping.Pincode, shipping.PackageWeightKg)
	if err != nil {
		h.writeError(w, ctx, fmt.Errorf("%w: %w", errUpstream, err))
		return
	}

	h.writeSuccess(w, ctx, map[string]any{"shippingFee": fee})
}
