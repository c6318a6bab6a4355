package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/printjob"
	"fulfillment/internal/pkg/guard"
)

var ErrGetPrintQueueQueryIsNotConstructed = errors.New(
	"GetPrintQueueQuery must be created via NewGetPrintQueueQuery constructor",
)

// GetPrintQueueQuery retrieves print jobs that have not completed: pending,
// printing, and failed jobs, giving operators a view of the queue backlog.
type GetPrintQueueQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPrintQueueQuery creates a query to inspect the print queue.
func NewGetPrintQueueQuery() GetPrintQueueQuery {
	return GetPrintQueueQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPrintQueueQuery) Validate() error {
	return q.guard.Validate(ErrGetPrintQueueQueryIsNotConstructed)
}

// GetPrintQueueQueryResponse represents one uncompleted print job.
type GetPrintQueueQueryResponse struct {
	ID           kernel.UUID
	JobType      string
	Status       printjob.Status
	Attempts     int
	PrinterID    string
	ErrorMessage string
	CreatedAt    time.Time
}
