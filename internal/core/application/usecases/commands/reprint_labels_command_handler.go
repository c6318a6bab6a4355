package commands

import (
	"context"

	"fulfillment/internal/pkg/errs"
)

// ReprintLabelsCommandHandler re-emits print jobs for an order's purchased
// labels without touching the carrier. No new shipments are created.
type ReprintLabelsCommandHandler struct {
	uowFactory FulfillmentUoWFactory
}

// NewReprintLabelsCommandHandler creates a handler for label reprints.
func NewReprintLabelsCommandHandler(uowFactory FulfillmentUoWFactory) ReprintLabelsCommandHandler {
	return ReprintLabelsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle enqueues one print job per labeled shipment of the order. Returns
// an ObjectNotFound error when the order has no labeled shipments.
func (h *ReprintLabelsCommandHandler) Handle(ctx context.Context, cmd ReprintLabelsCommand) error {
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

	group, err := uow.ShipmentRepository().GetGroupByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	labeled := group.LabeledShipments()
	if len(labeled) == 0 {
		return errs.NewObjectNotFoundError("labeled shipments", cmd.OrderID().String())
	}

	for _, shp := range labeled {
		if err = enqueueLabelPrintJob(ctx, uow.PrintJobRepository(), shp); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
