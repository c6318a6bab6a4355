package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/printjob"
)

// pollBatchSize caps how many jobs one poll may lease.
const pollBatchSize = 10

// PollPrintJobsCommandHandler hands out print work to polling agents.
//
// Each poll first reclaims stale leases, then atomically leases up to a
// batch of pending jobs matching the printer scope. The storage-level lease
// is conditional, so two agents polling concurrently never receive the same
// job.
type PollPrintJobsCommandHandler struct {
	uowFactory    PrintQueueUoWFactory
	leaseDuration time.Duration
	maxAttempts   int
}

// NewPollPrintJobsCommandHandler creates a handler for print agent polling.
// leaseDuration bounds how long a leased job may stay in printing before it
// is reclaimed; maxAttempts bounds delivery retries.
func NewPollPrintJobsCommandHandler(
	uowFactory PrintQueueUoWFactory,
	leaseDuration time.Duration,
	maxAttempts int,
) PollPrintJobsCommandHandler {
	return PollPrintJobsCommandHandler{
		uowFactory:    uowFactory,
		leaseDuration: leaseDuration,
		maxAttempts:   maxAttempts,
	}
}

// Handle reclaims stale leases and leases a batch of pending jobs for the
// polling agent. An empty result means no work is available.
func (h *PollPrintJobsCommandHandler) Handle(
	ctx context.Context,
	cmd PollPrintJobsCommand,
) ([]*printjob.PrintJob, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PrintJobRepository()
	if err := repo.ReclaimStale(ctx, h.leaseDuration, h.maxAttempts); err != nil {
		return nil, err
	}

	jobs, err := repo.LeasePending(ctx, cmd.PrinterID(), pollBatchSize)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return jobs, nil
}
