package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment groups
// and their shipments.
type ShipmentRepository interface {
	// AddGroup persists a new shipment group with its shipments.
	AddGroup(ctx context.Context, group *shipment.ShipmentGroup) error

	// UpdateGroup persists changes to an existing shipment group
	// and its shipments.
	UpdateGroup(ctx context.Context, group *shipment.ShipmentGroup) error

	// GetGroupByOrder retrieves the shipment group for an order, or an
	// ObjectNotFound error when the order has never been packed.
	GetGroupByOrder(ctx context.Context, orderID kernel.UUID) (*shipment.ShipmentGroup, error)

	// DiscardGroup removes an unlabeled shipment group and its shipments
	// so the order can be repacked from scratch.
	DiscardGroup(ctx context.Context, group *shipment.ShipmentGroup) error
}
