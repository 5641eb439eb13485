package notifier

import (
	"context"

	"storefront/models"
)

// Event selects the message header used when publishing an order.
type Event string

const (
	EventReceipt      Event = "receipt"
	EventStatusUpdate Event = "status_update"
)

// Publisher mirrors an order's latest state to an external chat channel.
// Publish returns the identifier of the posted message so the caller can
// retract it before publishing a replacement. Implementations are
// best-effort: callers treat every failure as non-fatal and log it.
type Publisher interface {
	Publish(ctx context.Context, order *models.Order, event Event) (string, error)
	Retract(ctx context.Context, messageID string) error
}
