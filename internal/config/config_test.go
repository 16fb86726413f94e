package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		DatabaseURL:       "postgres://localhost:5432/cresen",
		Environment:       "development",
		ShiprocketBaseURL: "https://apiv2.shiprocket.in/v1/external",
		UpstreamTimeout:   10 * time.Second,
		CacheProvider:     "memory",
		EncryptionKey:     strings.Repeat("k", 32),
		MaintenancePhrase: "cresen:reset-preprod-data",
		ReconcileStrategy: "title-overlap",
		LogFormat:         "text",
		Port:              "5000",
	}
}

func TestValidateAcceptsMinimalConfig(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if err := cfg.validate(); err != nil {
		t.Fatalf("validate() error = %v", err)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "missing database url",
			mutate: func(c *Config) { c.DatabaseURL = "" },
		},
		{
			name:   "short encryption key",
			mutate: func(c *Config) { c.EncryptionKey = "short" },
		},
		{
			name:   "unknown environment",
			mutate: func(c *Config) { c.Environment = "qa" },
		},
		{
			name:   "unknown reconcile strategy",
			mutate: func(c *Config) { c.ReconcileStrategy = "fuzzy" },
		},
		{
			name:   "razorpay key without secret",
			mutate: func(c *Config) { c.RazorpayKeyID = "rzp_test_123" },
		},
		{
			name: "email provider without api key",
			mutate: func(c *Config) {
				c.EmailProvider = "resend"
				c.EmailFrom = "orders@cresen.example"
			},
		},
		{
			name:   "non-positive upstream timeout",
			mutate: func(c *Config) { c.UpstreamTimeout = 0 },
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.validate(); err == nil {
				t.Fatalf("validate() accepted invalid config")
			}
		})
	}
}

func TestIsProduction(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if cfg.IsProduction() {
		t.Fatalf("development config reported as production")
	}

	cfg.Environment = "Production"
	if !cfg.IsProduction() {
		t.Fatalf("production config not detected")
	}
}
