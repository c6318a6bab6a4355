package commands

import (
	"context"
	"time"
)

// RetryPrintJobCommandHandler resets a failed print job to pending.
// This is the operator escape hatch once automatic retries exhaust.
type RetryPrintJobCommandHandler struct {
	uowFactory PrintQueueUoWFactory
}

// NewRetryPrintJobCommandHandler creates a handler for operator retries.
func NewRetryPrintJobCommandHandler(uowFactory PrintQueueUoWFactory) RetryPrintJobCommandHandler {
	return RetryPrintJobCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle resets the job to pending with zero attempts. Only failed jobs may
// be retried; other states are rejected with an error.
func (h *RetryPrintJobCommandHandler) Handle(ctx context.Context, cmd RetryPrintJobCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PrintJobRepository()
	job, err := repo.Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}

	if err = job.Retry(time.Now().UTC()); err != nil {
		return err
	}
	if err = repo.Update(ctx, job); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
