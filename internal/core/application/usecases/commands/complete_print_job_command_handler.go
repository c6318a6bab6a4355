package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CompletePrintJobCommandHandler records a print agent's completion report.
//
// A success report on the order's last uncompleted job triggers the
// completion side effect: the order transitions to shipped and tracking data
// is pushed to the storefront fulfillment API. A push failure is logged and
// never reverts the shipped transition, since the parcel already left the
// warehouse.
type CompletePrintJobCommandHandler struct {
	uowFactory     FulfillmentUoWFactory
	fulfillmentAPI ports.FulfillmentAPI
	publisher      ports.OrderEventPublisher
	maxAttempts    int
	logger         *slog.Logger
}

// NewCompletePrintJobCommandHandler creates a handler for completion reports.
func NewCompletePrintJobCommandHandler(
	uowFactory FulfillmentUoWFactory,
	fulfillmentAPI ports.FulfillmentAPI,
	publisher ports.OrderEventPublisher,
	maxAttempts int,
	logger *slog.Logger,
) CompletePrintJobCommandHandler {
	return CompletePrintJobCommandHandler{
		uowFactory:     uowFactory,
		fulfillmentAPI: fulfillmentAPI,
		publisher:      publisher,
		maxAttempts:    maxAttempts,
		logger:         logger.With("component", "complete_print_job"),
	}
}

// Handle applies the agent's report to the job. Success from printing moves
// the job to completed; failure either requeues it or fails it once retries
// are exhausted. Out-of-order reports (for example completing a job still
// pending) are rejected with an error and change nothing.
func (h *CompletePrintJobCommandHandler) Handle(ctx context.Context, cmd CompletePrintJobCommand) error {
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

	repo := uow.PrintJobRepository()
	job, err := repo.Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if cmd.Success() {
		err = job.Complete(now)
	} else {
		err = job.Fail(h.maxAttempts, cmd.ErrorMessage(), now)
	}
	if err != nil {
		return err
	}

	if err = repo.Update(ctx, job); err != nil {
		return err
	}

	var shipped *order.Order
	if cmd.Success() && job.OrderID() != nil {
		shipped, err = h.finalizeOrderIfDone(ctx, uow, *job.OrderID())
		if err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if shipped != nil {
		if err = h.publisher.PublishStateChanged(ctx, shipped); err != nil {
			h.logger.Warn("order event publish failed",
				"order", shipped.OrderNumber(), "error", err)
		}
	}
	return nil
}

// finalizeOrderIfDone transitions the order to shipped once its last print
// job completes and pushes tracking to the storefront exactly once. Returns
// the order when the shipped transition happened.
func (h *CompletePrintJobCommandHandler) finalizeOrderIfDone(
	ctx context.Context,
	uow FulfillmentUoW,
	orderID kernel.UUID,
) (*order.Order, error) {
	remaining, err := uow.PrintJobRepository().CountUncompletedByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		return nil, nil
	}

	aggregate, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if aggregate.Status() != order.ReadyToShip {
		return nil, nil
	}

	if err = aggregate.MarkShipped(); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = h.pushTracking(ctx, uow, aggregate); err != nil {
		return nil, err
	}
	return aggregate, nil
}

// pushTracking sends tracking data to the storefront when no shipment in the
// group has a recorded fulfillment yet. API failure is logged, not returned.
func (h *CompletePrintJobCommandHandler) pushTracking(
	ctx context.Context,
	uow FulfillmentUoW,
	aggregate *order.Order,
) error {
	group, err := uow.ShipmentRepository().GetGroupByOrder(ctx, aggregate.ID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		return err
	}

	shipments := group.LabeledShipments()
	for _, shp := range shipments {
		if shp.ExternalFulfillmentID() != "" {
			return nil
		}
	}

	fulfillmentID, err := h.fulfillmentAPI.CreateFulfillment(ctx, aggregate, shipments)
	if err != nil {
		h.logger.Warn("fulfillment tracking push failed",
			"order", aggregate.OrderNumber(), "error", err)
		return nil
	}

	for _, shp := range shipments {
		if err = shp.RecordExternalFulfillment(fulfillmentID); err != nil {
			return err
		}
	}
	return uow.ShipmentRepository().UpdateGroup(ctx, group)
}
