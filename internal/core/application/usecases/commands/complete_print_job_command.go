package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCompletePrintJobCommandIsNotConstructed = errors.New(
	"CompletePrintJobCommand must be created via NewCompletePrintJobCommand constructor",
)

// CompletePrintJobCommand represents a print agent's report on a leased job:
// either the print succeeded or failed with an error message.
type CompletePrintJobCommand struct { //nolint:recvcheck //using for validation
	jobID        kernel.UUID
	success      bool
	errorMessage string

	guard guard.ConstructorGuard
}

// NewCompletePrintJobCommand creates a completion report for a job.
// Validates that the job ID is valid.
func NewCompletePrintJobCommand(jobID kernel.UUID, success bool, errorMessage string) (CompletePrintJobCommand, error) {
	if err := jobID.Validate(); err != nil {
		return CompletePrintJobCommand{}, err
	}

	return CompletePrintJobCommand{
		jobID:        jobID,
		success:      success,
		errorMessage: errorMessage,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CompletePrintJobCommand) Validate() error {
	return c.guard.Validate(ErrCompletePrintJobCommandIsNotConstructed)
}

// JobID returns the identifier of the reported job.
func (c CompletePrintJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// Success reports whether the agent printed the job.
func (c CompletePrintJobCommand) Success() bool {
	return c.success
}

// ErrorMessage returns the agent's failure description, empty on success.
func (c CompletePrintJobCommand) ErrorMessage() string {
	return c.errorMessage
}
