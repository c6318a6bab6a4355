package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRetryPrintJobCommandIsNotConstructed = errors.New(
	"RetryPrintJobCommand must be created via NewRetryPrintJobCommand constructor",
)

// RetryPrintJobCommand represents an operator's request to reset a failed
// print job back to pending with its attempt counter reset.
type RetryPrintJobCommand struct { //nolint:recvcheck //using for validation
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRetryPrintJobCommand creates a retry command for a failed job.
func NewRetryPrintJobCommand(jobID kernel.UUID) (RetryPrintJobCommand, error) {
	if err := jobID.Validate(); err != nil {
		return RetryPrintJobCommand{}, err
	}

	return RetryPrintJobCommand{
		jobID: jobID,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RetryPrintJobCommand) Validate() error {
	return c.guard.Validate(ErrRetryPrintJobCommandIsNotConstructed)
}

// JobID returns the identifier of the job to retry.
func (c RetryPrintJobCommand) JobID() kernel.UUID {
	return c.jobID
}
