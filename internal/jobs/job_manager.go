package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	orderProcessingJob *OrderProcessingJob
	leaseReclaimJob    *LeaseReclaimJob

	autoProcess bool
}

// NewJobManager creates a new job manager with all required jobs.
// When autoProcess is false the order processing job stays disabled and
// orders are only processed through the operator API.
func NewJobManager(
	orderUoWFactory commands.OrderUoWFactory,
	printQueueUoWFactory commands.PrintQueueUoWFactory,
	processOrderHandler commands.ProcessOrderCommandHandler,
	leaseDuration time.Duration,
	maxAttempts int,
	autoProcess bool,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		orderProcessingJob: NewOrderProcessingJob(orderUoWFactory, processOrderHandler, logger),
		leaseReclaimJob:    NewLeaseReclaimJob(printQueueUoWFactory, leaseDuration, maxAttempts, logger),
		autoProcess:        autoProcess,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.leaseReclaimJob.Start(); err != nil {
		return fmt.Errorf("failed to start lease reclaim job: %w", err)
	}

	if jm.autoProcess {
		if err := jm.orderProcessingJob.Start(); err != nil {
			// Stop already started jobs if this one fails
			jm.leaseReclaimJob.Stop()
			return fmt.Errorf("failed to start order processing job: %w", err)
		}
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	if jm.autoProcess {
		jm.orderProcessingJob.Stop()
	}
	jm.leaseReclaimJob.Stop()
}
