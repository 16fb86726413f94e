package handlers

import (
	"errors"
	"net/http"
	"testing"
)

const shippingBody = `{
	"email": "asha@example.com",
	"shipping": {"name": "Asha", "line1": "12 MG Road", "city": "Kochi", "pincode": "682001"}
}`

func TestSaveShipping(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := postJSON(t, f.handlers.SaveShipping, "/api/save-shipping", shippingBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("SaveShipping status = %d, body = %s", rec.Code, rec.Body.String())
	}

	saved, ok := f.customers.saved["asha@example.com"]
	if !ok {
		t.Fatal("shipping address was not saved")
	}
	if saved.Pincode != "682001" {
		t.Fatalf("saved pincode = %q", saved.Pincode)
	}
}

func TestSaveShippingRejectsBadPincode(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := postJSON(t, f.handlers.SaveShipping, "/api/save-shipping",
		`{"email":"asha@example.com","shipping":{"pincode":"12"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if len(f.customers.saved) != 0 {
		t.Fatalf("invalid address was saved: %v", f.customers.saved)
	}
}

func TestCalculateShipping(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.rates.fee = 129

	rec := postJSON(t, f.handlers.CalculateShipping, "/api/calculate-shipping", shippingBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("CalculateShipping status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["shippingFee"] != float64(129) {
		t.Fatalf("shippingFee = %v, want 129", body["shippingFee"])
	}

	// Rate lookup persists the address as a side effect.
	if _, ok := f.customers.saved["asha@example.com"]; !ok {
		t.Fatal("rate lookup did not save the shipping address")
	}
	if f.rates.calls != 1 {
		t.Fatalf("rate client called %d times, want 1", f.rates.calls)
	}
}

func TestCalculateShippingUpstreamFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.rates.err = errors.New("serviceability timed out")

	rec := postJSON(t, f.handlers.CalculateShipping, "/api/calculate-shipping", shippingBody)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if body := decodeBody(t, rec); body["success"] != false {
		t.Fatalf("body = %v", body)
	}
}
