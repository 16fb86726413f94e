package handlers

import (
	"errors"
	"net/http"
	"testing"
)

func TestCreateRazorpayOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.gateway.order = map[string]any{"id": "order_123"}

	rec := postJSON(t, f.handlers.CreateRazorpayOrder, "/api/create-razorpay-order",
		`{"amount":49900,"receipt":"rcpt_1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("CreateRazorpayOrder status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	order, ok := body["order"].(map[string]any)
	if !ok {
		t.Fatalf("CreateRazorpayOrder body = %v", body)
	}
	if order["id"] != "order_123" {
		t.Fatalf("order id = %v", order["id"])
	}
	// Storefront currency applies when the request names none.
	if order["currency"] != "INR" {
		t.Fatalf("order currency = %v, want INR", order["currency"])
	}
}

func TestCreateRazorpayOrderValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "zero amount", body: `{"amount":0}`},
		{name: "negative amount", body: `{"amount":-100}`},
		{name: "bad currency", body: `{"amount":100,"currency":"RUPEES"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			rec := postJSON(t, f.handlers.CreateRazorpayOrder, "/api/create-razorpay-order", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}
}

func TestCreateRazorpayOrderGatewayFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.gateway.err = errors.New("gateway unreachable")

	rec := postJSON(t, f.handlers.CreateRazorpayOrder, "/api/create-razorpay-order", `{"amount":49900}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestGetRazorpayKey(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := getPath(t, f.handlers.GetRazorpayKey, "/api/get-razorpay-key")
	if rec.Code != http.StatusOK {
		t.Fatalf("GetRazorpayKey status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["key"] != "rzp_test_key" {
		t.Fatalf("key = %v", body["key"])
	}
}

func TestPaymentsUnconfigured(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.gateway.configured = false

	rec := getPath(t, f.handlers.GetRazorpayKey, "/api/get-razorpay-key")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("GetRazorpayKey status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	rec = postJSON(t, f.handlers.CreateRazorpayOrder, "/api/create-razorpay-order", `{"amount":100}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("CreateRazorpayOrder status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
