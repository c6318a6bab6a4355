package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// LeaseReclaimJob sweeps the print queue for expired leases. Polling agents
// trigger the same sweep, so this job only matters when no agent is polling,
// keeping abandoned jobs from sitting in printing forever.
type LeaseReclaimJob struct {
	uowFactory    commands.PrintQueueUoWFactory
	leaseDuration time.Duration
	maxAttempts   int
	cron          *cron.Cron
	logger        *slog.Logger
}

// NewLeaseReclaimJob creates a new job for reclaiming expired print leases.
func NewLeaseReclaimJob(
	uowFactory commands.PrintQueueUoWFactory,
	leaseDuration time.Duration,
	maxAttempts int,
	logger *slog.Logger,
) *LeaseReclaimJob {
	return &LeaseReclaimJob{
		uowFactory:    uowFactory,
		leaseDuration: leaseDuration,
		maxAttempts:   maxAttempts,
		cron:          cron.New(),
		logger:        logger.With("component", "lease_reclaim_job"),
	}
}

// Start begins the lease reclaim job to run every minute.
func (j *LeaseReclaimJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		if err := j.reclaim(ctx); err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("lease_reclaim").Inc()
			j.logger.ErrorContext(ctx, "Lease reclaim job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Lease reclaim job started (running every minute)")
	return nil
}

// Stop stops the lease reclaim job.
func (j *LeaseReclaimJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Lease reclaim job stopped")
}

func (j *LeaseReclaimJob) reclaim(ctx context.Context) error {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.PrintJobRepository().ReclaimStale(ctx, j.leaseDuration, j.maxAttempts); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
