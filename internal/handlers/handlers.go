package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cresenventures/backend/internal/config"
	"github.com/cresenventures/backend/internal/crypto"
	"github.com/cresenventures/backend/internal/logging"
	"github.com/cresenventures/backend/internal/models"
	"github.com/cresenventures/backend/internal/services"
	"github.com/cresenventures/backend/internal/storefront"
)

const maxRequestBodyBytes = 1 << 20 // 1 MB

// Pinger reports storage reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UserStore records logins.
type UserStore interface {
	UpsertLogin(ctx context.Context, email string) (*models.User, error)
}

// CustomerStore persists shipping addresses on customer profiles.
type CustomerStore interface {
	SaveShipping(ctx context.Context, email string, shipping models.Address) error
}

// RateClient quotes a shipping fee for a destination pincode.
type RateClient interface {
	Rate(ctx context.Context, pickupPincode, deliveryPincode string, weightKg float64) (float64, error)
}

// PaymentGateway creates gateway orders and exposes the public key id.
type PaymentGateway interface {
	CreateOrder(amount int64, currency, receipt string) (map[string]any, error)
	KeyID() string
	Configured() bool
}

// Handlers provides the JSON API handlers for the storefront backend.
type Handlers struct {
	config     *config.Config
	db         Pinger
	users      UserStore
	customers  CustomerStore
	rates      RateClient
	gateway    PaymentGateway
	lifecycle  *services.LifecycleService
	admin      *services.AdminService
	encryptor  crypto.Encryptor
	storefront *storefront.Settings
	logger     *slog.Logger
}

type Dependencies struct {
	Config     *config.Config
	DB         Pinger
	Users      UserStore
	Customers  CustomerStore
	Rates      RateClient
	Gateway    PaymentGateway
	Lifecycle  *services.LifecycleService
	Admin      *services.AdminService
	Encryptor  crypto.Encryptor
	Storefront *storefront.Settings
	Logger     *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("handlers dependencies: db is required")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("handlers dependencies: users is required")
	}
	if deps.Customers == nil {
		return nil, fmt.Errorf("handlers dependencies: customers is required")
	}
	if deps.Rates == nil {
		return nil, fmt.Errorf("handlers dependencies: rates is required")
	}
	if deps.Gateway == nil {
		return nil, fmt.Errorf("handlers dependencies: gateway is required")
	}
	if deps.Lifecycle == nil {
		return nil, fmt.Errorf("handlers dependencies: lifecycle is required")
	}
	if deps.Admin == nil {
		return nil, fmt.Errorf("handlers dependencies: admin is required")
	}
	if deps.Encryptor == nil {
		return nil, fmt.Errorf("handlers dependencies: encryptor is required")
	}

	settings := deps.Storefront
	if settings == nil {
		settings = storefront.Defaults()
	}

	return &Handlers{
		config:     deps.Config,
		db:         deps.DB,
		users:      deps.Users,
		customers:  deps.Customers,
		rates:      deps.Rates,
		gateway:    deps.Gateway,
		lifecycle:  deps.Lifecycle,
		admin:      deps.Admin,
		encryptor:  deps.Encryptor,
		storefront: settings,
		logger:     logger.With("component", "handlers"),
	}, nil
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Ping(ctx); err != nil {
		h.loggerFromContext(ctx).Error("database health check failed", "error", err)
		h.writeJSON(w, ctx, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
		})
		return
	}

	h.writeJSON(w, ctx, http.StatusOK, map[string]any{
		"status": "healthy",
	})
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}
