package notify

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

var _ ports.ReviewNotifier = &LogReviewNotifier{}

// LogReviewNotifier surfaces manual-review requests through the structured
// log stream, where the warehouse alerting pipeline picks them up.
type LogReviewNotifier struct {
	logger *slog.Logger
}

// NewLogReviewNotifier creates a LogReviewNotifier.
func NewLogReviewNotifier(logger *slog.Logger) (*LogReviewNotifier, error) {
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}
	return &LogReviewNotifier{logger: logger.With("component", "review_notifier")}, nil
}

// NotifyManualReview logs the order that needs operator attention.
func (n *LogReviewNotifier) NotifyManualReview(ctx context.Context, aggregate *order.Order, reason string) error {
	if aggregate == nil {
		return errs.NewValueIsRequiredError("aggregate")
	}

	n.logger.WarnContext(ctx, "order needs manual review",
		"order_id", aggregate.ID().String(),
		"order_number", aggregate.OrderNumber(),
		"risk_level", string(aggregate.RiskLevel()),
		"reason", reason,
	)
	return nil
}
