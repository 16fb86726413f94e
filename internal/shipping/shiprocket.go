// Package shipping provides the Shiprocket serviceability client used for
// rate quotes at checkout.
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cresenventures/backend/internal/cache"
	"github.com/cresenventures/backend/internal/logging"
)

const quoteTTL = 10 * time.Minute

// Client quotes shipping rates for a pickup/delivery lane. Quotes are
// cached briefly; rates do not move within a checkout session.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cache      cache.Provider
	logger     *slog.Logger
}

func NewClient(baseURL, token string, httpClient *http.Client, quoteCache cache.Provider, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
		cache:      quoteCache,
		logger:     logger,
	}
}

type serviceabilityRequest struct {
	PickupPostcode   string  `json:"pickup_postcode"`
	DeliveryPostcode string  `json:"delivery_postcode"`
	COD              int     `json:"cod"`
	Weight           float64 `json:"weight"`
}

type serviceabilityResponse struct {
	Data struct {
		AvailableCourierCompanies []struct {
			Rate float64 `json:"rate"`
		} `json:"available_courier_companies"`
	} `json:"data"`
}

// Rate returns the first available courier's rate for the lane, or 0 when
// the service reports no couriers. The zero-courier case is a valid quote,
// not an error.
func (c *Client) Rate(ctx context.Context, pickupPincode, deliveryPincode string, weightKg float64) (float64, error) {
	logger := logging.FromContext(ctx, c.logger)

	key := cache.QuoteKey(pickupPincode, deliveryPincode, weightKg)
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key); err == nil {
			if rate, parseErr := strconv.ParseFloat(cached, 64); parseErr == nil {
				return rate, nil
			}
		}
	}

	payload, err := json.Marshal(serviceabilityRequest{
		PickupPostcode:   pickupPincode,
		DeliveryPostcode: deliveryPincode,
		COD:              0,
		Weight:           weightKg,
	})
	if err != nil {
		return 0, err
	}

	url := c.baseURL + "/courier/serviceability/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("shiprocket request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("failed to read shiprocket response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("shiprocket returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded serviceabilityResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return 0, fmt.Errorf("failed to decode shiprocket response: %w", err)
	}

	rate := 0.0
	if couriers := decoded.Data.AvailableCourierCompanies; len(couriers) > 0 {
		rate = couriers[0].Rate
	} else {
		logger.Info("no couriers available for lane", "pickup", pickupPincode, "delivery", deliveryPincode)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, strconv.FormatFloat(rate, 'f', -1, 64), quoteTTL); err != nil {
			logger.Warn("failed to cache shipping quote", "error", err)
		}
	}

	return rate, nil
}
