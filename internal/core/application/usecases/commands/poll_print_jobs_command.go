package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrPollPrintJobsCommandIsNotConstructed = errors.New(
	"PollPrintJobsCommand must be created via NewPollPrintJobsCommand constructor",
)

// PollPrintJobsCommand represents a print agent's request for work. An empty
// printer ID restricts the poll to jobs not bound to any printer.
type PollPrintJobsCommand struct { //nolint:recvcheck //using for validation
	printerID string

	guard guard.ConstructorGuard
}

// NewPollPrintJobsCommand creates a poll command for the given printer scope.
func NewPollPrintJobsCommand(printerID string) (PollPrintJobsCommand, error) {
	return PollPrintJobsCommand{
		printerID: printerID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PollPrintJobsCommand) Validate() error {
	return c.guard.Validate(ErrPollPrintJobsCommandIsNotConstructed)
}

// PrinterID returns the polling agent's printer identifier.
func (c PollPrintJobsCommand) PrinterID() string {
	return c.printerID
}
