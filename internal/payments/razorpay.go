// Package payments wraps the Razorpay gateway client.
package payments

import (
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"
)

// Client creates payment-gateway orders. The gateway-assigned id is handed
// back to the frontend, which completes the capture out-of-band.
type Client struct {
	keyID  string
	client *razorpay.Client
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{
		keyID:  keyID,
		client: razorpay.NewClient(keyID, keySecret),
	}
}

// KeyID is the public key the frontend needs to open the checkout widget.
func (c *Client) KeyID() string {
	return c.keyID
}

// Configured reports whether gateway credentials were provided at startup.
func (c *Client) Configured() bool {
	return c != nil && c.keyID != "" && c.client != nil
}

// CreateOrder registers a payment intent with the gateway. Amount is in the
// smallest currency unit (paise for INR).
func (c *Client) CreateOrder(amount int64, currency, receipt string) (map[string]any, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("payment gateway is not configured")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "INR"
	}

	data := map[string]any{
		"amount":   amount,
		"currency": currency,
	}
	if receipt != "" {
		data["receipt"] = receipt
	}

	order, err := c.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}
	return order, nil
}
