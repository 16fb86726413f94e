package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cresenventures/backend/internal/crypto"
	"github.com/cresenventures/backend/internal/services"
)

const maintenanceTokenHeader = "X-Maintenance-Token"

type adminUpdateShippingRequest struct {
	OrderID      string `json:"orderId" validate:"required"`
	ShippingCode string `json:"shippingCode" validate:"required"`
}

// AdminOrders lists orders by lifecycle stage. The tab query parameter
// selects attempted, new (preparing), dispatched, or all.
func (h *Handlers) AdminOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tab := strings.TrimSpace(r.URL.Query().Get("tab"))
	if tab == "" {
		tab = string(services.FilterAll)
	}

	listing, err := h.admin.ListOrders(ctx, services.OrderFilter(tab))
	if err != nil {
		h.writeError(w, ctx, err)
		return
	}

	h.writeSuccess(w, ctx, map[string]any{"orders": listing.Entries()})
}

// AdminUpdateShipping sets an order's shipping code and marks it
// dispatched.
func (h *Handlers) AdminUpdateShipping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req adminUpdateShippingRequest
	if err := decodeRequest(r, &req); err != nil {
		h.badRequest(w, ctx, err)
		return
	}

	if err := h.lifecycle.Dispatch(ctx, req.OrderID, req.ShippingCode); err != nil {
		h.writeError(w, ctx, err)
		return
	}

	h.writeSuccess(w, ctx, nil)
}

// ClearDB wipes all attempted orders and orders. Pre-production only: in
// production the route answers 404 as if it did not exist, elsewhere the
// maintenance token must decrypt to the configured phrase.
func (h *Handlers) ClearDB(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.config.IsProduction() {
		h.NotFoundJSON(w, r)
		return
	}

	token := strings.TrimSpace(r.Header.Get(maintenanceTokenHeader))
	if token == "" || !crypto.TokenMatches(h.encryptor, token, h.config.MaintenancePhrase) {
		h.writeError(w, ctx, fmt.Errorf("maintenance token rejected: %w", errUnauthorized))
		return
	}

	if err := h.admin.Reset(ctx); err != nil {
		h.writeError(w, ctx, err)
		return
	}

	h.writeSuccess(w, ctx, nil)
}
