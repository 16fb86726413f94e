package services

// Package services holds the order lifecycle engine: the transition rules
// from cart to attempted order to confirmed order to dispatched order, and
// the reconciliation that keeps attempted orders consistent with orders.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	"github.com/google/uuid"

	"github.com/cresenventures/backend/internal/logging"
	"github.com/cresenventures/backend/internal/models"
	"github.com/cresenventures/backend/internal/observability"
)

// ReconcileStrategy selects which attempted orders are removed once an
// order is created for the same customer.
type ReconcileStrategy string

const (
	// ReconcileTitleOverlap deletes attempts sharing at least one item
	// title with the new order. Tolerates partial-cart checkouts.
	ReconcileTitleOverlap ReconcileStrategy = "title-overlap"
	// ReconcileEmail deletes every attempt for the customer's email.
	ReconcileEmail ReconcileStrategy = "email"
)

func ParseReconcileStrategy(value string) (ReconcileStrategy, error) {
	switch ReconcileStrategy(strings.TrimSpace(value)) {
	case ReconcileTitleOverlap, ReconcileStrategy(""):
		return ReconcileTitleOverlap, nil
	case ReconcileEmail:
		return ReconcileEmail, nil
	default:
		return "", fmt.Errorf("unknown reconcile strategy: %q", value)
	}
}

type AttemptStore interface {
	Upsert(ctx context.Context, attempt *models.AttemptedOrder) error
	LatestByEmail(ctx context.Context, email string) (*models.AttemptedOrder, error)
	ListByEmail(ctx context.Context, email string) ([]models.AttemptedOrder, error)
	List(ctx context.Context) ([]models.AttemptedOrder, error)
	Delete(ctx context.Context, ids []uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*models.Order, error)
	ListByEmail(ctx context.Context, email string) ([]models.Order, error)
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	// Dispatch reports whether the order actually transitioned to
	// dispatched, so re-dispatches can skip the transition side effects.
	Dispatch(ctx context.Context, id uuid.UUID, shippingCode string) (bool, error)
	DeleteAll(ctx context.Context) error
}

type CartStore interface {
	Save(ctx context.Context, email string, items []models.LineItem) error
	GetByEmail(ctx context.Context, email string) (*models.Cart, error)
}

// OrderNotifier receives lifecycle events. Notification failures must never
// fail the triggering operation.
type OrderNotifier interface {
	OrderConfirmed(ctx context.Context, order *models.Order)
	OrderDispatched(ctx context.Context, order *models.Order)
}

type noopNotifier struct{}

func (noopNotifier) OrderConfirmed(context.Context, *models.Order)  {}
func (noopNotifier) OrderDispatched(context.Context, *models.Order) {}

type LifecycleService struct {
	attempts AttemptStore
	orders   OrderStore
	carts    CartStore
	strategy ReconcileStrategy
	notifier OrderNotifier
	logger   *slog.Logger
}

func NewLifecycleService(attempts AttemptStore, orders OrderStore, carts CartStore, strategy ReconcileStrategy, notifier OrderNotifier, logger *slog.Logger) *LifecycleService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if strategy == "" {
		strategy = ReconcileTitleOverlap
	}

	return &LifecycleService{
		attempts: attempts,
		orders:   orders,
		carts:    carts,
		strategy: strategy,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *LifecycleService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// CheckoutInput carries the customer-submitted checkout fields shared by
// attempted and finalized orders.
type CheckoutInput struct {
	Email           string
	Name            string
	Phone           string
	Items           []models.LineItem
	ShippingAddress models.Address
	ShippingFee     float64
}

func (in *CheckoutInput) validate() error {
	if strings.TrimSpace(in.Email) == "" {
		return validationErrorf("email is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return validationErrorf("name is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return validationErrorf("phone is required")
	}
	if len(in.Items) == 0 {
		return validationErrorf("at least one item is required")
	}
	if in.ShippingAddress == (models.Address{}) {
		return validationErrorf("shipping address is required")
	}
	if in.ShippingFee < 0 {
		return validationErrorf("shipping fee must not be negative")
	}
	return nil
}

// normalizedAddress guarantees the shipping address carries a name and
// phone, falling back to the top-level checkout values.
func (in *CheckoutInput) normalizedAddress() models.Address {
	address := in.ShippingAddress
	if strings.TrimSpace(address.Name) == "" {
		address.Name = in.Name
	}
	if strings.TrimSpace(address.Phone) == "" {
		address.Phone = in.Phone
	}
	return address
}

// RecordAttempt upserts the customer's single live attempted order.
// Repeated calls are last-write-wins: the second call's fields fully
// replace the first's.
func (s *LifecycleService) RecordAttempt(ctx context.Context, input CheckoutInput) (*models.AttemptedOrder, error) {
	span := sentry.StartSpan(
		ctx,
		"service.lifecycle.record_attempt",
		sentry.WithOpName("service.lifecycle"),
		sentry.WithDescription("RecordAttempt"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	if err := input.validate(); err != nil {
		return nil, err
	}

	attempt := &models.AttemptedOrder{
		Email:           input.Email,
		Name:            input.Name,
		Phone:           input.Phone,
		Items:           input.Items,
		ShippingAddress: input.normalizedAddress(),
		ShippingFee:     input.ShippingFee,
	}
	if err := s.attempts.Upsert(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to save attempted order: %w", err)
	}

	observability.MeterFromContext(ctx).Count("order.attempt.recorded", 1)
	s.loggerFromContext(ctx).Info("attempted order recorded", "email", input.Email, "items", len(input.Items))
	return attempt, nil
}

// FinalizePaidOrder records a gateway-paid order and removes the attempted
// order(s) it supersedes. The payment id is trusted; no capture check
// happens here. Reconciliation deletes by id, so a retry after a partial
// failure removes nothing twice, and a retry whose payment id already
// produced an order resolves to that order instead of inserting a second.
func (s *LifecycleService) FinalizePaidOrder(ctx context.Context, input CheckoutInput, paymentID string) (*models.Order, error) {
	span := sentry.StartSpan(
		ctx,
		"service.lifecycle.finalize_paid_order",
		sentry.WithOpName("service.lifecycle"),
		sentry.WithDescription("FinalizePaidOrder"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	if err := input.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(paymentID) == "" {
		return nil, validationErrorf("payment id is required")
	}

	order := &models.Order{
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		Items:           input.Items,
		ShippingAddress: input.normalizedAddress(),
		ShippingFee:     input.ShippingFee,
		PaymentID:       paymentID,
		Status:          models.StatusPlaced,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, ErrDuplicatePaymentID) {
			return s.resumeFinalize(ctx, input, paymentID)
		}
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	meter := observability.MeterFromContext(ctx)
	meter.Count("order.finalized", 1, sentry.WithAttributes(
		attribute.String("path", "gateway"),
	))

	if err := s.reconcileAttempts(ctx, input.Email, order.Items); err != nil {
		// The order exists; only the attempted-order cleanup failed. The
		// delete is idempotent, so surfacing the error lets the caller
		// retry the cleanup without creating a duplicate attempt.
		s.loggerFromContext(ctx).Error("order saved but reconciliation failed", "email", input.Email, "order_id", order.ID, "error", err)
		return order, fmt.Errorf("order %s saved but attempted-order cleanup failed: %w", order.ID, err)
	}

	s.notifier.OrderConfirmed(ctx, order)
	s.loggerFromContext(ctx).Info("order finalized", "email", input.Email, "order_id", order.ID, "payment_id", paymentID)
	return order, nil
}

// resumeFinalize handles a FinalizePaidOrder retry whose payment id already
// produced an order. It finishes the attempted-order cleanup and returns the
// existing order; the confirmation was already sent (or deliberately skipped)
// on the first pass, so no notification fires here.
func (s *LifecycleService) resumeFinalize(ctx context.Context, input CheckoutInput, paymentID string) (*models.Order, error) {
	order, err := s.orders.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order for payment %s: %w", paymentID, err)
	}

	if err := s.reconcileAttempts(ctx, input.Email, order.Items); err != nil {
		s.loggerFromContext(ctx).Error("order exists but reconciliation failed", "email", input.Email, "order_id", order.ID, "error", err)
		return order, fmt.Errorf("order %s saved but attempted-order cleanup failed: %w", order.ID, err)
	}

	s.loggerFromContext(ctx).Info("duplicate finalize resolved to existing order", "email", input.Email, "order_id", order.ID, "payment_id", paymentID)
	return order, nil
}

// ConfirmFromAttempt converts the customer's attempted order into a
// preparing order with no payment id (pay on delivery) and deletes the
// source attempt.
func (s *LifecycleService) ConfirmFromAttempt(ctx context.Context, email string) (*models.Order, error) {
	span := sentry.StartSpan(
		ctx,
		"service.lifecycle.confirm_from_attempt",
		sentry.WithOpName("service.lifecycle"),
		sentry.WithDescription("ConfirmFromAttempt"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	if strings.TrimSpace(email) == "" {
		return nil, validationErrorf("email is required")
	}

	attempt, err := s.attempts.LatestByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("no attempted order for %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load attempted order: %w", err)
	}

	order := &models.Order{
		Name:            attempt.Name,
		Email:           attempt.Email,
		Phone:           attempt.Phone,
		Items:           attempt.Items,
		ShippingAddress: attempt.ShippingAddress,
		ShippingFee:     attempt.ShippingFee,
		Status:          models.StatusPreparing,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	meter := observability.MeterFromContext(ctx)
	meter.Count("order.finalized", 1, sentry.WithAttributes(
		attribute.String("path", "manual"),
	))

	if err := s.attempts.Delete(ctx, []uuid.UUID{attempt.ID}); err != nil {
		s.loggerFromContext(ctx).Error("order saved but attempt deletion failed", "email", email, "order_id", order.ID, "error", err)
		return order, fmt.Errorf("order %s saved but attempted-order cleanup failed: %w", order.ID, err)
	}

	s.notifier.OrderConfirmed(ctx, order)
	s.loggerFromContext(ctx).Info("order confirmed from attempt", "email", email, "order_id", order.ID)
	return order, nil
}

// Dispatch sets the shipping code and moves the order to dispatched. The id
// is validated before any storage call. Re-dispatching replaces the code
// without regressing the status and without repeating the transition side
// effects: the customer is notified once, on the first transition.
func (s *LifecycleService) Dispatch(ctx context.Context, orderID, shippingCode string) error {
	span := sentry.StartSpan(
		ctx,
		"service.lifecycle.dispatch",
		sentry.WithOpName("service.lifecycle"),
		sentry.WithDescription("Dispatch"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	id, err := uuid.Parse(strings.TrimSpace(orderID))
	if err != nil {
		return validationErrorf("order id %q is not a valid identifier", orderID)
	}
	if strings.TrimSpace(shippingCode) == "" {
		return validationErrorf("shipping code is required")
	}

	transitioned, err := s.orders.Dispatch(ctx, id, shippingCode)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to dispatch order: %w", err)
	}
	if !transitioned {
		s.loggerFromContext(ctx).Info("shipping code updated on dispatched order", "order_id", id, "shipping_code", shippingCode)
		return nil
	}

	observability.MeterFromContext(ctx).Count("order.dispatched", 1)
	s.loggerFromContext(ctx).Info("order dispatched", "order_id", id, "shipping_code", shippingCode)

	if order, err := s.orders.GetByID(ctx, id); err == nil {
		s.notifier.OrderDispatched(ctx, order)
	}
	return nil
}

// SaveCart replaces the customer's cart wholesale.
func (s *LifecycleService) SaveCart(ctx context.Context, email string, items []models.LineItem) error {
	if strings.TrimSpace(email) == "" {
		return validationErrorf("email is required")
	}
	if items == nil {
		return validationErrorf("cart is required")
	}
	if err := s.carts.Save(ctx, email, items); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// GetCart returns the customer's cart; a customer with no saved cart gets
// an empty one, not an error.
func (s *LifecycleService) GetCart(ctx context.Context, email string) (*models.Cart, error) {
	if strings.TrimSpace(email) == "" {
		return nil, validationErrorf("email is required")
	}

	cart, err := s.carts.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return &models.Cart{Email: email, Items: []models.LineItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

// GetLatestAttempt returns the customer's most recently updated attempted
// order.
func (s *LifecycleService) GetLatestAttempt(ctx context.Context, email string) (*models.AttemptedOrder, error) {
	if strings.TrimSpace(email) == "" {
		return nil, validationErrorf("email is required")
	}
	return s.attempts.LatestByEmail(ctx, email)
}

// GetOrders returns the customer's orders, newest first.
func (s *LifecycleService) GetOrders(ctx context.Context, email string) ([]models.Order, error) {
	if strings.TrimSpace(email) == "" {
		return nil, validationErrorf("email is required")
	}
	return s.orders.ListByEmail(ctx, email)
}

func (s *LifecycleService) reconcileAttempts(ctx context.Context, email string, orderItems []models.LineItem) error {
	attempts, err := s.attempts.ListByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to list attempted orders: %w", err)
	}

	var stale []uuid.UUID
	for _, attempt := range attempts {
		switch s.strategy {
		case ReconcileEmail:
			stale = append(stale, attempt.ID)
		default:
			if models.TitlesOverlap(orderItems, attempt.Items) {
				stale = append(stale, attempt.ID)
			}
		}
	}

	if err := s.attempts.Delete(ctx, stale); err != nil {
		return fmt.Errorf("failed to delete attempted orders: %w", err)
	}
	return nil
}
