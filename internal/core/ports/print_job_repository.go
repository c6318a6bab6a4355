package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/printjob"
)

// PrintJobRepository defines the persistence contract for the print job
// queue. Lease acquisition is atomic at the storage level so that two
// agents polling concurrently never receive the same job.
type PrintJobRepository interface {
	// Add persists a new print job.
	Add(ctx context.Context, job *printjob.PrintJob) error

	// Update persists changes to an existing print job.
	Update(ctx context.Context, job *printjob.PrintJob) error

	// Get retrieves a print job by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*printjob.PrintJob, error)

	// GetByOrder retrieves all print jobs created for an order.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*printjob.PrintJob, error)

	// CountUncompletedByOrder counts the order's jobs not yet in a
	// terminal completed state.
	CountUncompletedByOrder(ctx context.Context, orderID kernel.UUID) (int64, error)

	// LeasePending atomically transitions up to limit pending jobs matching
	// the printer scope into printing state and returns them. Jobs bound to
	// a different printer are never returned; jobs with no printer binding
	// match any agent.
	LeasePending(ctx context.Context, printerID string, limit int) ([]*printjob.PrintJob, error)

	// ReclaimStale resolves printing jobs whose lease is older than
	// leaseDuration: jobs under the attempt limit go back to pending,
	// the rest are failed.
	ReclaimStale(ctx context.Context, leaseDuration time.Duration, maxAttempts int) error
}
