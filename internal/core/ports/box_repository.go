package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/box"
)

// BoxRepository defines the persistence contract for the shipping box catalog.
type BoxRepository interface {
	// Add persists a new box spec to the catalog.
	Add(ctx context.Context, spec box.BoxSpec) error

	// GetAllActive retrieves every box spec available for packing.
	GetAllActive(ctx context.Context) ([]box.BoxSpec, error)
}
