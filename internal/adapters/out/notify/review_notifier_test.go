package notify_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/adapters/out/notify"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

func flaggedOrder(t *testing.T) *order.Order {
	t.Helper()
	address, err := kernel.NewAddress(
		"Jane Doe", "100 Main St", "", "Springfield", "IL", "62704", "US", "555-0100", "jane@example.com")
	require.NoError(t, err)
	line, err := order.NewLine(kernel.NewUUID(), "WIDGET-1", "Widget", "var-1", 1, 450, true)
	require.NoError(t, err)
	aggregate, err := order.NewOrder(kernel.NewUUID(), "#1003", address, []order.OrderLine{line}, order.RiskHigh, "")
	require.NoError(t, err)
	return aggregate
}

func Test_NewLogReviewNotifier_RequiresLogger(t *testing.T) {
	notifier, err := notify.NewLogReviewNotifier(nil)

	assert.Error(t, err)
	assert.Nil(t, notifier)
}

func Test_LogReviewNotifier_NotifyManualReview(t *testing.T) {
	var buf bytes.Buffer
	notifier, err := notify.NewLogReviewNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)
	aggregate := flaggedOrder(t)

	err = notifier.NotifyManualReview(context.Background(), aggregate, "flagged by risk screening")

	require.NoError(t, err)
	logged := buf.String()
	assert.Contains(t, logged, aggregate.ID().String())
	assert.Contains(t, logged, "#1003")
	assert.Contains(t, logged, "risk_level=high")
	assert.Contains(t, logged, "flagged by risk screening")
}

func Test_LogReviewNotifier_NotifyManualReview_NilOrder(t *testing.T) {
	notifier, err := notify.NewLogReviewNotifier(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, err)

	err = notifier.NotifyManualReview(context.Background(), nil, "whatever")

	assert.Error(t, err)
}
