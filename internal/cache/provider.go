package cache

// Package cache provides short-lived caching for shipping rate quotes.

import (
	"context"
	"fmt"
	"time"
)

// Provider is the quote cache contract.
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Provider              string
	RedisConnectionString string
}

func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryProvider()
	case "redis":
		return NewRedisProvider(cfg.RedisConnectionString)
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.Provider)
	}
}

// QuoteKey identifies a shipping rate quote by lane and package weight.
func QuoteKey(pickupPincode, deliveryPincode string, weightKg float64) string {
	return fmt.Sprintf("quote:%s:%s:%.2f", pickupPincode, deliveryPincode, weightKg)
}
