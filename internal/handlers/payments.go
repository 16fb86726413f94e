package handlers

import (
	"fmt"
	"net/http"
)

type createRazorpayOrderRequest struct {
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
	Receipt  string `json:"receipt" validate:"omitempty,max=40"`
}

// CreateRazorpayOrder opens a gateway order for the given amount in the
// smallest currency unit. The storefront currency applies when the request
// names none.
func (h *Handlers) CreateRazorpayOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.gateway.Configured() {
		h.writeError(w, ctx, fmt.Errorf("payment gateway is not configured"))
		return
	}

	var req createRazorpayOrderRequest
	if err := decodeRequest(r, &req); err != nil {
		h.badRequest(w, ctx, err)
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = h.storefront.Store.Currency
	}

	order, err := h.gateway.CreateOrder(req.Amount, currency, req.Receipt)
	if err != nil {
		h.writeError(w, ctx, fmt.Errorf("%w: failed to create gateway order: %w", errUpstream, err))
		return
	}

	h.loggerFromContext(ctx).Info("gateway order created", "amount", req.Amount, "currency", currency)
	h.writeSuccess(w, ctx, map[string]any{"order": order})
}

// GetRazorpayKey exposes the public key id the frontend needs to open the
// checkout widget.
func (h *Handlers) GetRazorpayKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.gateway.Configured() {
		h.writeError(w, ctx, fmt.Errorf("payment gateway is not configured"))
		return
	}

	h.writeSuccess(w, ctx, map[string]any{"key": h.gateway.KeyID()})
}
