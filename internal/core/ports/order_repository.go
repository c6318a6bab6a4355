package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their fulfillment status.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its lines and current status.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetFirstInPendingStatus retrieves the first order in Pending status.
	// Used by the auto-processing job to find work.
	GetFirstInPendingStatus(ctx context.Context) (*order.Order, error)
}
