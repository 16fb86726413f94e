package handlers

import (
	"net/http"

	"github.com/cresenventures/backend/internal/models"
	"github.com/cresenventures/backend/internal/services"
)

type checkoutRequest struct {
	Name            string            `json:"name" validate:"required"`
	Email           string            `json:"email" validate:"required,email"`
	Phone           string            `json:"phone" validate:"required"`
	Items           []models.LineItem `json:"items" validate:"required,min=1"`
	ShippingAddress models.Address    `json:"shippingAddress" validate:"required"`
	ShippingFee     float64           `json:"shippingFee" validate:"gte=0"`
}

func (req *checkoutRequest) input() services.CheckoutInput {
	return services.CheckoutInput{
		Email:           req.Email,
		Name:            req.Name,
		Phone:           req.Phone,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		ShippingFee:     req.ShippingFee,
	}
}

type saveOrderRequest struct {
	checkoutRequest
	PaymentID string `json:"paymentId" validate:"required"`
}

type confirmOrderRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SaveAttemptedOrder records a checkout in progress. Re-checkouts overwrite
// the customer's previous attempt.
func (h *Handlers) SaveAttemptedOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkoutRequest
	if err := decodeRequest(r, &req); err != nil {
		h.badRequest(w, ctx, err)
		return
	}

	if _, err := h.lifecycle.RecordAttempt(ctx, req.input()); err != nil {
		h.writeError(w, ctx, err)
		return
	}

	h.writeSuccess(w, ctx, nil)
}

// SaveOrder finalizes a gateway-paid checkout.
func (h *Handlers) SaveOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req saveOrderRequest
	if err := decodeRequest(r, &req); err != nil {
		h.badRequest(w, ctx, err)
		return
	}

	if _, err := h.lifecycle.FinalizePaidOrder(ctx, req.input(), req.PaymentID); err != nil {
		h.writeError(w, ctx, err)
		return
	}

	h.writeSuccess(w, ctx, nil)
}

// ConfirmOrder converts the customer's attempted order into a preparing
// order (pay on delivery).
func (h *Handlers) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req confirmOrderRequest
	if err := decodeRequest(r, &req); err != nil {
		h.badRequest(w, ctx, err)
		return
	}

	if _, err := h.lifecycle.ConfirmFromAttempt(ctx, req.Email); err != nil {
		h.writeError(w, ctx, err)
		return
	}

	h.writeSuccess(w, ctx, nil)
}

func (h *Handlers) GetLatestAttemptedOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := r.URL.Query().Get("email")
	attempt, err := h.lifecycle.GetLatestAttempt(ctx, email)
	if err != nil {
		h.writeError(w, ctx, err)
		return
	}

	h.writeSuccess(w, ctx, map[string]any{"order": attempt})
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := r.URL.Query().Get("email")
	orders, err := h.lifecycle.GetOrders(ctx, email)
	if err != nil {
		h.writeError(w, ctx, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	h.writeSuccess(w, ctx, map[string]any{"orders": orders})
}
