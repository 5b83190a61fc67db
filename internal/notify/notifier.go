package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notifier is the fire-and-forget signal to the excluded notification
// collaborator. Failure to notify must never roll back or fail the
// operation that triggered it; implementations log and move on.
type Notifier interface {
	OrderPlaced(ctx context.Context, userID, orderID uuid.UUID)
	PaymentFailed(ctx context.Context, userID uuid.UUID, gatewayOrderRef string)
}

// logNotifier emits notification events to the log. It stands in for the
// real notification collaborator (email/SMS), which lives outside this core.
type logNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a notifier that records events in the log.
func NewLogNotifier(logger zerolog.Logger) Notifier {
	return &logNotifier{
		logger: logger.With().Str("component", "notifier").Logger(),
	}
}

func (n *logNotifier) OrderPlaced(ctx context.Context, userID, orderID uuid.UUID) {
	n.logger.Info().
		Str("user_id", userID.String()).
		Str("order_id", orderID.String()).
		Msg("order placed notification")
}

func (n *logNotifier) PaymentFailed(ctx context.Context, userID uuid.UUID, gatewayOrderRef string) {
	n.logger.Warn().
		Str("user_id", userID.String()).
		Str("gateway_order_ref", gatewayOrderRef).
		Msg("payment failed notification")
}
