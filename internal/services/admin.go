package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cresenventures/backend/internal/logging"
	"github.com/cresenventures/backend/internal/models"
)

// OrderFilter selects which lifecycle stage an admin listing covers.
type OrderFilter string

const (
	FilterAttempted  OrderFilter = "attempted"
	FilterNew        OrderFilter = "new"
	FilterDispatched OrderFilter = "dispatched"
	FilterAll        OrderFilter = "all"
)

// OrderListing is one admin projection: attempted orders for the attempted
// filter, orders for everything else.
type OrderListing struct {
	Attempts []models.AttemptedOrder
	Orders   []models.Order
}

// Entries returns the listing as a single JSON-ready slice, newest first
// within each kind.
func (l *OrderListing) Entries() []any {
	entries := make([]any, 0, len(l.Attempts)+len(l.Orders))
	for _, attempt := range l.Attempts {
		entries = append(entries, attempt)
	}
	for _, order := range l.Orders {
		entries = append(entries, order)
	}
	return entries
}

// AdminService exposes read-only projections over the lifecycle state plus
// the pre-production maintenance reset.
type AdminService struct {
	attempts AttemptStore
	orders   OrderStore
	logger   *slog.Logger
}

func NewAdminService(attempts AttemptStore, orders OrderStore, logger *slog.Logger) *AdminService {
	return &AdminService{
		attempts: attempts,
		orders:   orders,
		logger:   logger,
	}
}

// ListOrders returns entities matching the filter, sorted by creation time
// descending. Read-only.
func (s *AdminService) ListOrders(ctx context.Context, filter OrderFilter) (*OrderListing, error) {
	switch filter {
	case FilterAttempted:
		attempts, err := s.attempts.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list attempted orders: %w", err)
		}
		return &OrderListing{Attempts: attempts}, nil

	case FilterNew:
		orders, err := s.orders.ListByStatus(ctx, models.StatusPreparing)
		if err != nil {
			return nil, fmt.Errorf("failed to list preparing orders: %w", err)
		}
		return &OrderListing{Orders: orders}, nil

	case FilterDispatched:
		orders, err := s.orders.ListByStatus(ctx, models.StatusDispatched)
		if err != nil {
			return nil, fmt.Errorf("failed to list dispatched orders: %w", err)
		}
		return &OrderListing{Orders: orders}, nil

	case FilterAll:
		orders, err := s.orders.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list orders: %w", err)
		}
		return &OrderListing{Orders: orders}, nil

	default:
		return nil, validationErrorf("unknown order filter %q", filter)
	}
}

// Reset deletes every attempted order and order. Pre-production only; the
// handler gates it on environment and maintenance token.
func (s *AdminService) Reset(ctx context.Context) error {
	if err := s.attempts.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to delete attempted orders: %w", err)
	}
	if err := s.orders.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to delete orders: %w", err)
	}

	logging.FromContext(ctx, s.logger).Warn("database reset: all attempted orders and orders deleted")
	return nil
}
