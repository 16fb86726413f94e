package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPlaced     OrderStatus = "placed"
	StatusPreparing  OrderStatus = "preparing"
	StatusDispatched OrderStatus = "dispatched"
)

// LineItem is a single cart or order line. Titles are the join key for
// loose reconciliation between attempted orders and orders.
type LineItem struct {
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

type Address struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Line1   string `json:"line1,omitempty"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode"`
	Country string `json:"country,omitempty"`
}

// AttemptedOrder is a checkout in progress, keyed by customer email.
// At most one live row exists per email; re-checkouts overwrite it.
type AttemptedOrder struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone"`
	Items           []LineItem `json:"items"`
	ShippingAddress Address    `json:"shippingAddress"`
	ShippingFee     float64    `json:"shippingFee"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Order is a finalized purchase. Immutable except Status and ShippingCode.
// PaymentID is set only on the gateway-paid path (status placed at birth);
// manually confirmed orders start as preparing with no payment id.
type Order struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	Items           []LineItem  `json:"items"`
	ShippingAddress Address     `json:"shippingAddress"`
	ShippingFee     float64     `json:"shippingFee"`
	PaymentID       string      `json:"paymentId,omitempty"`
	Status          OrderStatus `json:"status"`
	ShippingCode    string      `json:"shippingCode,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// TitlesOverlap reports whether any item title appears in both sequences.
func TitlesOverlap(a, b []LineItem) bool {
	titles := make(map[string]struct{}, len(a))
	for _, item := range a {
		titles[item.Title] = struct{}{}
	}
	for _, item := range b {
		if _, ok := titles[item.Title]; ok {
			return true
		}
	}
	return false
}
