package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdminOrdersTabs(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := postJSON(t, f.handlers.SaveAttemptedOrder, "/api/save-attempted-order", checkoutBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("SaveAttemptedOrder status = %d", rec.Code)
	}
	rec = postJSON(t, f.handlers.ConfirmOrder, "/api/confirm-order", `{"email":"asha@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("ConfirmOrder status = %d", rec.Code)
	}

	tests := []struct {
		tab  string
		want int
	}{
		{tab: "attempted", want: 0},
		{tab: "new", want: 1},
		{tab: "dispatched", want: 0},
		{tab: "all", want: 1},
		{tab: "", want: 1},
	}

	for _, tt := range tests {
		rec := getPath(t, f.handlers.AdminOrders, "/api/admin-orders?tab="+tt.tab)
		if rec.Code != http.StatusOK {
			t.Fatalf("AdminOrders(%q) status = %d, body = %s", tt.tab, rec.Code, rec.Body.String())
		}
		body := decodeBody(t, rec)
		orders, ok := body["orders"].([]any)
		if !ok {
			t.Fatalf("AdminOrders(%q) body = %v", tt.tab, body)
		}
		if len(orders) != tt.want {
			t.Fatalf("AdminOrders(%q) returned %d entries, want %d", tt.tab, len(orders), tt.want)
		}
	}
}

func TestAdminOrdersUnknownTab(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := getPath(t, f.handlers.AdminOrders, "/api/admin-orders?tab=archived")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("AdminOrders(archived) status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAdminUpdateShipping(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := postJSON(t, f.handlers.SaveAttemptedOrder, "/api/save-attempted-order", checkoutBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("SaveAttemptedOrder status = %d", rec.Code)
	}
	rec = postJSON(t, f.handlers.ConfirmOrder, "/api/confirm-order", `{"email":"asha@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("ConfirmOrder status = %d", rec.Code)
	}

	rec = getPath(t, f.handlers.GetOrders, "/api/get-orders?email=asha@example.com")
	orders := decodeBody(t, rec)["orders"].([]any)
	orderID := orders[0].(map[string]any)["id"].(string)

	rec = postJSON(t, f.handlers.AdminUpdateShipping, "/api/admin-update-shipping",
		`{"orderId":"`+orderID+`","shippingCode":"SHIP123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("AdminUpdateShipping status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = getPath(t, f.handlers.GetOrders, "/api/get-orders?email=asha@example.com")
	order := decodeBody(t, rec)["orders"].([]any)[0].(map[string]any)
	if order["status"] != "dispatched" || order["shippingCode"] != "SHIP123" {
		t.Fatalf("order after dispatch = %v", order)
	}
}

func TestAdminUpdateShippingMalformedID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := postJSON(t, f.handlers.AdminUpdateShipping, "/api/admin-update-shipping",
		`{"orderId":"not-a-uuid","shippingCode":"SHIP123"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAdminUpdateShippingUnknownOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := postJSON(t, f.handlers.AdminUpdateShipping, "/api/admin-update-shipping",
		`{"orderId":"a2f1c6de-8c1b-4f3a-9a6e-2f84d1c0b123","shippingCode":"SHIP123"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestClearDB(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := postJSON(t, f.handlers.SaveAttemptedOrder, "/api/save-attempted-order", checkoutBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("SaveAttemptedOrder status = %d", rec.Code)
	}

	token, err := f.encryptor.Encrypt(f.config.MaintenancePhrase)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/clear-db", nil)
	req.Header.Set(maintenanceTokenHeader, token)
	rec = httptest.NewRecorder()
	f.handlers.ClearDB(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("ClearDB status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec2 := getPath(t, f.handlers.GetLatestAttemptedOrder, "/api/get-latest-attempted-order?email=asha@example.com")
	if rec2.Code != http.StatusNotFound {
		t.Fatalf("attempt survived reset, status = %d", rec2.Code)
	}
}

func TestClearDBRejectsBadToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "garbage token", token: "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)

			req := httptest.NewRequest(http.MethodPost, "/api/clear-db", nil)
			if tt.token != "" {
				req.Header.Set(maintenanceTokenHeader, tt.token)
			}
			rec := httptest.NewRecorder()
			f.handlers.ClearDB(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestClearDBDisabledInProduction(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.config.Environment = "production"

	token, err := f.encryptor.Encrypt(f.config.MaintenancePhrase)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/clear-db", nil)
	req.Header.Set(maintenanceTokenHeader, token)
	rec := httptest.NewRecorder()
	f.handlers.ClearDB(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("ClearDB in production status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
