package services

import (
	"context"
	"log/slog"

	"github.com/cresenventures/backend/internal/email"
	"github.com/cresenventures/backend/internal/logging"
	"github.com/cresenventures/backend/internal/models"
)

// EmailNotifier sends customer emails on lifecycle events. Failures are
// logged and swallowed; an email outage must not block checkout.
type EmailNotifier struct {
	provider  email.Provider
	storeName string
	logger    *slog.Logger
}

func NewEmailNotifier(provider email.Provider, storeName string, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{
		provider:  provider,
		storeName: storeName,
		logger:    logger,
	}
}

func (n *EmailNotifier) OrderConfirmed(ctx context.Context, order *models.Order) {
	msg, err := email.OrderConfirmation(n.storeName, order)
	if err != nil {
		logging.FromContext(ctx, n.logger).Warn("failed to render order confirmation", "order_id", order.ID, "error", err)
		return
	}
	n.send(ctx, order, msg)
}

func (n *EmailNotifier) OrderDispatched(ctx context.Context, order *models.Order) {
	msg, err := email.DispatchNotice(n.storeName, order)
	if err != nil {
		logging.FromContext(ctx, n.logger).Warn("failed to render dispatch notice", "order_id", order.ID, "error", err)
		return
	}
	n.send(ctx, order, msg)
}

func (n *EmailNotifier) send(ctx context.Context, order *models.Order, msg *email.Email) {
	if err := n.provider.SendEmail(ctx, msg); err != nil {
		logging.FromContext(ctx, n.logger).Warn("failed to send order email", "order_id", order.ID, "to", order.Email, "error", err)
	}
}
