package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// OrderProcessingJob drives the fulfillment pipeline for orders waiting in
// pending status. Runs every ten seconds and processes one order per tick so
// a single slow carrier call never starves the scheduler.
type OrderProcessingJob struct {
	uowFactory commands.OrderUoWFactory
	handler    commands.ProcessOrderCommandHandler
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewOrderProcessingJob creates a new job for automatic order processing.
func NewOrderProcessingJob(
	uowFactory commands.OrderUoWFactory,
	handler commands.ProcessOrderCommandHandler,
	logger *slog.Logger,
) *OrderProcessingJob {
	return &OrderProcessingJob{
		uowFactory: uowFactory,
		handler:    handler,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "order_processing_job"),
	}
}

// Start begins the order processing job to run every ten seconds.
func (j *OrderProcessingJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()
		if err := j.processNext(ctx); err != nil {
			// An empty pending queue is the normal idle state.
			if !errors.Is(err, errs.ErrObjectNotFound) {
				metrics.OperationErrorsTotal.WithLabelValues("auto_process_order").Inc()
				j.logger.ErrorContext(ctx, "Order processing job failed", "error", err)
			}
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order processing job started (running every ten seconds)")
	return nil
}

// Stop stops the order processing job.
func (j *OrderProcessingJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order processing job stopped")
}

// processNext picks the oldest pending order and runs the pipeline on it.
// Pipeline failures land in the order's own state; an error here means the
// run could not start at all.
func (j *OrderProcessingJob) processNext(ctx context.Context) error {
	aggregate, err := j.findPendingOrder(ctx)
	if err != nil {
		return err
	}

	cmd, err := commands.NewProcessOrderCommand(aggregate.ID())
	if err != nil {
		return err
	}
	return j.handler.Handle(ctx, cmd)
}

func (j *OrderProcessingJob) findPendingOrder(ctx context.Context) (*order.Order, error) {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().GetFirstInPendingStatus(ctx)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return aggregate, nil
}
