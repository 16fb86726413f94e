package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/cresenventures/backend/internal/config"
	"github.com/cresenventures/backend/internal/handlers"
)

type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handlers   *handlers.Handlers
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handlers) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if h == nil {
		return nil, fmt.Errorf("handlers are required")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		handlers: h,
	}

	router := s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Server) Run() error {
	s.logger.Info("server starting", "port", s.cfg.Port)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) buildRouter() *mux.Router {
	h := s.handlers

	r := mux.NewRouter()
	r.Use(h.RequestLogger)
	r.Use(h.SecurityHeaders)
	r.Use(h.CORS)
	r.HandleFunc("/health", h.Health).Methods("GET").Name("health")

	// OPTIONS is registered on every API route so preflights match and run
	// the middleware chain; the CORS middleware answers them with 204.
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/google-login", h.GoogleLogin).Methods("POST", "OPTIONS").Name("api.google_login")
	api.HandleFunc("/save-cart", h.SaveCart).Methods("POST", "OPTIONS").Name("api.save_cart")
	api.HandleFunc("/get-cart", h.GetCart).Methods("POST", "OPTIONS").Name("api.get_cart")
	api.HandleFunc("/save-shipping", h.SaveShipping).Methods("POST", "OPTIONS").Name("api.save_shipping")
	api.HandleFunc("/calculate-shipping", h.CalculateShipping).Methods("POST", "OPTIONS").Name("api.calculate_shipping")
	api.HandleFunc("/save-attempted-order", h.SaveAttemptedOrder).Methods("POST", "OPTIONS").Name("api.save_attempted_order")
	api.HandleFunc("/save-order", h.SaveOrder).Methods("POST", "OPTIONS").Name("api.save_order")
	api.HandleFunc("/confirm-order", h.ConfirmOrder).Methods("POST", "OPTIONS").Name("api.confirm_order")
	api.HandleFunc("/get-latest-attempted-order", h.GetLatestAttemptedOrder).Methods("GET", "OPTIONS").Name("api.get_latest_attempted_order")
	api.HandleFunc("/get-orders", h.GetOrders).Methods("GET", "OPTIONS").Name("api.get_orders")
	api.HandleFunc("/admin-orders", h.AdminOrders).Methods("GET", "OPTIONS").Name("api.admin_orders")
	api.HandleFunc("/admin-update-shipping", h.AdminUpdateShipping).Methods("POST", "OPTIONS").Name("api.admin_update_shipping")
	api.HandleFunc("/create-razorpay-order", h.CreateRazorpayOrder).Methods("POST", "OPTIONS").Name("api.create_razorpay_order")
	api.HandleFunc("/get-razorpay-key", h.GetRazorpayKey).Methods("GET", "OPTIONS").Name("api.get_razorpay_key")
	api.HandleFunc("/clear-db", h.ClearDB).Methods("POST", "OPTIONS").Name("api.clear_db")

	// Unknown /api/* paths get the JSON envelope, everything else plain text.
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			h.NotFoundJSON(w, r)
			return
		}
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	return r
}
