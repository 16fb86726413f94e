package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cresenventures/backend/internal/cache"
	"github.com/cresenventures/backend/internal/config"
	"github.com/cresenventures/backend/internal/crypto"
	"github.com/cresenventures/backend/internal/db"
	"github.com/cresenventures/backend/internal/email"
	"github.com/cresenventures/backend/internal/handlers"
	"github.com/cresenventures/backend/internal/logging"
	"github.com/cresenventures/backend/internal/observability"
	"github.com/cresenventures/backend/internal/payments"
	"github.com/cresenventures/backend/internal/services"
	"github.com/cresenventures/backend/internal/shipping"
	"github.com/cresenventures/backend/internal/storefront"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	DB            *pgxpool.Pool
	CacheProvider cache.Provider
	Handlers      *handlers.Handlers
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	database, err := db.Connect(startupCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(startupCtx, database); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	cacheProvider, err := cache.NewProvider(cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}

	encryptor, err := crypto.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize encryptor: %w", err)
	}

	settings, err := storefront.NewParser().ParseFile(cfg.StorefrontConfigPath)
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to load storefront settings: %w", err)
	}
	if err := storefront.NewValidator().Validate(settings); err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("invalid storefront settings: %w", err)
	}

	userStore := db.NewUserStore(database)
	cartStore := db.NewCartStore(database)
	customerStore := db.NewCustomerStore(database)
	attemptStore := db.NewAttemptStore(database)
	orderStore := db.NewOrderStore(database)

	gateway := payments.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	rateClient := shipping.NewClient(
		cfg.ShiprocketBaseURL,
		cfg.ShiprocketToken,
		observability.NewHTTPClient(cfg.UpstreamTimeout),
		cacheProvider,
		logger.With("component", "shipping_client"),
	)

	emailProvider, err := email.NewProvider(email.Config{
		Provider: cfg.EmailProvider,
		APIKey:   cfg.EmailAPIKey,
		From:     cfg.EmailFrom,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize email provider: %w", err)
	}
	notifier := services.NewEmailNotifier(emailProvider, settings.Store.Name, logger.With("component", "email_notifier"))

	strategy, err := services.ParseReconcileStrategy(cfg.ReconcileStrategy)
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, err
	}

	lifecycleService := services.NewLifecycleService(
		attemptStore,
		orderStore,
		cartStore,
		strategy,
		notifier,
		logger.With("component", "lifecycle_service"),
	)
	adminService := services.NewAdminService(attemptStore, orderStore, logger.With("component", "admin_service"))

	h, err := handlers.New(handlers.Dependencies{
		Config:     cfg,
		DB:         database,
		Users:      userStore,
		Customers:  customerStore,
		Rates:      rateClient,
		Gateway:    gateway,
		Lifecycle:  lifecycleService,
		Admin:      adminService,
		Encryptor:  encryptor,
		Storefront: settings,
		Logger:     logger,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		Config:        cfg,
		Logger:        logger,
		DB:            database,
		CacheProvider: cacheProvider,
		Handlers:      h,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}
