package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// ReviewNotifier alerts warehouse staff that an order needs manual review.
// Notification is best-effort: callers log failures and continue.
type ReviewNotifier interface {
	NotifyManualReview(ctx context.Context, aggregate *order.Order, reason string) error
}
