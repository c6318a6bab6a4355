package kafka

import (
	"context"
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

var _ ports.OrderEventPublisher = &OrderEventPublisher{}

// orderStateChangedEvent is the wire format consumed by downstream systems.
type orderStateChangedEvent struct {
	OrderID      string    `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// OrderEventPublisher publishes order state transitions through a Producer.
type OrderEventPublisher struct {
	producer Producer
}

// NewOrderEventPublisher creates an OrderEventPublisher.
func NewOrderEventPublisher(producer Producer) (*OrderEventPublisher, error) {
	if producer == nil {
		return nil, errs.NewValueIsRequiredError("producer")
	}
	return &OrderEventPublisher{producer: producer}, nil
}

// PublishStateChanged emits one event keyed by order id so per-order
// ordering is preserved across partitions.
func (p *OrderEventPublisher) PublishStateChanged(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	event := orderStateChangedEvent{
		OrderID:      aggregate.ID().String(),
		OrderNumber:  aggregate.OrderNumber(),
		Status:       aggregate.Status().String(),
		ErrorMessage: aggregate.ErrorMessage(),
		OccurredAt:   time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.producer.SendMessage(ctx, []byte(aggregate.ID().String()), value)
}
