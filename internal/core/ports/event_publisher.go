package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderEventPublisher publishes order state transitions to the message bus
// for downstream consumers.
type OrderEventPublisher interface {
	PublishStateChanged(ctx context.Context, aggregate *order.Order) error
}
