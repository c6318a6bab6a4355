package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
)

// FulfillmentAPI pushes tracking data back to the storefront once every
// label for an order has been printed. Returns the storefront's
// fulfillment identifier.
type FulfillmentAPI interface {
	CreateFulfillment(ctx context.Context, aggregate *order.Order, shipments []*shipment.Shipment) (string, error)
}
