package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/printjob"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ProcessingConfig carries warehouse-level pipeline settings.
type ProcessingConfig struct {
	// ShipFrom is the warehouse origin address for all rate requests.
	ShipFrom kernel.Address
	// DeniedServices lists carrier service names that must never be
	// selected, compared case-insensitively.
	DeniedServices []string
}

// ProcessOrderCommandHandler runs the fulfillment pipeline for one order.
//
// The pipeline converts every business failure into an order state plus
// error message and returns nil; only infrastructure failures (storage,
// transaction control) surface as errors. A single order's failure must not
// block processing of other orders.
type ProcessOrderCommandHandler struct {
	uowFactory     FulfillmentUoWFactory
	rateShopper    ports.RateShopper
	weightResolver ports.WeightResolver
	notifier       ports.ReviewNotifier
	publisher      ports.OrderEventPublisher
	packingEngine  services.PackingEngine
	config         ProcessingConfig
	logger         *slog.Logger
}

// NewProcessOrderCommandHandler creates the pipeline handler.
func NewProcessOrderCommandHandler(
	uowFactory FulfillmentUoWFactory,
	rateShopper ports.RateShopper,
	weightResolver ports.WeightResolver,
	notifier ports.ReviewNotifier,
	publisher ports.OrderEventPublisher,
	packingEngine services.PackingEngine,
	config ProcessingConfig,
	logger *slog.Logger,
) ProcessOrderCommandHandler {
	return ProcessOrderCommandHandler{
		uowFactory:     uowFactory,
		rateShopper:    rateShopper,
		weightResolver: weightResolver,
		notifier:       notifier,
		publisher:      publisher,
		packingEngine:  packingEngine,
		config:         config,
		logger:         logger.With("component", "process_order"),
	}
}

// Handle executes the pipeline stages for the order:
// risk screen, weight repair, idempotent re-run detection, packing,
// per-box rate shopping and label purchase, shipment persistence, and
// print job emission.
func (h *ProcessOrderCommandHandler) Handle(ctx context.Context, cmd ProcessOrderCommand) error {
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

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if aggregate.RiskLevel().IsFlagged() {
		return h.haltForReview(ctx, uow, aggregate, "flagged by risk screening", true)
	}

	if !aggregate.HasShippableLines() {
		return h.haltForReview(ctx, uow, aggregate, "no shippable items", false)
	}

	if err = h.repairWeights(ctx, aggregate); err != nil {
		return err
	}
	if len(aggregate.LinesMissingWeight()) > 0 {
		return h.haltForReview(ctx, uow, aggregate, "Missing weight", false)
	}

	if err = aggregate.StartProcessing(); err != nil {
		return err
	}

	reused, err := h.reuseExistingGroup(ctx, uow, aggregate)
	if err != nil {
		return err
	}
	if reused {
		return h.finish(ctx, uow, aggregate)
	}

	result, failure, err := h.pack(ctx, uow, aggregate)
	if err != nil {
		return err
	}
	if failure != "" {
		return h.haltForReview(ctx, uow, aggregate, failure, false)
	}

	if err = h.shipBoxes(ctx, uow, aggregate, result); err != nil {
		return err
	}

	return h.finish(ctx, uow, aggregate)
}

// repairWeights resolves missing line weights from the storefront catalog,
// first by variant id, then by SKU. Unresolvable lines are left at zero.
func (h *ProcessOrderCommandHandler) repairWeights(ctx context.Context, aggregate *order.Order) error {
	for _, line := range aggregate.LinesMissingWeight() {
		weight, err := h.weightResolver.ResolveByVariantID(ctx, line.VariantID())
		if err != nil {
			h.logger.Warn("weight lookup by variant failed",
				"order", aggregate.OrderNumber(), "variant", line.VariantID(), "error", err)
		}
		if weight <= 0 {
			weight, err = h.weightResolver.ResolveBySKU(ctx, line.SKU())
			if err != nil {
				h.logger.Warn("weight lookup by SKU failed",
					"order", aggregate.OrderNumber(), "sku", line.SKU(), "error", err)
			}
		}
		if weight > 0 {
			if err = aggregate.ResolveLineWeight(line.ID(), weight); err != nil {
				return err
			}
		}
	}
	return nil
}

// reuseExistingGroup handles re-runs of an already-processed order. A group
// with labeled shipments marks the run idempotent: print jobs are re-emitted
// and no labels are re-purchased. A group without label data is a failed
// prior attempt and is discarded so packing can restart.
func (h *ProcessOrderCommandHandler) reuseExistingGroup(
	ctx context.Context,
	uow FulfillmentUoW,
	aggregate *order.Order,
) (bool, error) {
	group, err := uow.ShipmentRepository().GetGroupByOrder(ctx, aggregate.ID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return false, nil
		}
		return false, err
	}

	if !group.HasLabeledShipments() {
		if err = uow.ShipmentRepository().DiscardGroup(ctx, group); err != nil {
			return false, err
		}
		return false, nil
	}

	for _, shp := range group.LabeledShipments() {
		if err = enqueueLabelPrintJob(ctx, uow.PrintJobRepository(), shp); err != nil {
			return false, err
		}
	}
	return true, nil
}

// pack loads the box catalog and runs the packing engine. A non-empty
// failure string means the order needs manual review.
func (h *ProcessOrderCommandHandler) pack(
	ctx context.Context,
	uow FulfillmentUoW,
	aggregate *order.Order,
) (services.PackingResult, string, error) {
	boxes, err := uow.BoxRepository().GetAllActive(ctx)
	if err != nil {
		return services.PackingResult{}, "", err
	}

	items := services.ExpandOrderItems(aggregate)
	result, packErr := h.packingEngine.Pack(items, boxes)
	if packErr != nil {
		return services.PackingResult{}, fmt.Sprintf("packing failed: %v", packErr), nil
	}
	if result.BoxCount() == 0 {
		return services.PackingResult{}, "packing produced no boxes", nil
	}
	if result.HasOversized() {
		return services.PackingResult{}, "order contains items too large for available boxes", nil
	}
	return result, "", nil
}

// shipBoxes runs the per-box loop: rate shopping, label purchase, shipment
// persistence, and print job emission. Zero rates or a purchase error abort
// the run with the order in error state; remaining boxes are abandoned.
func (h *ProcessOrderCommandHandler) shipBoxes(
	ctx context.Context,
	uow FulfillmentUoW,
	aggregate *order.Order,
	result services.PackingResult,
) error {
	group, err := shipment.NewShipmentGroup(kernel.NewUUID(), aggregate.ID())
	if err != nil {
		return err
	}
	if err = uow.ShipmentRepository().AddGroup(ctx, group); err != nil {
		return err
	}

	for i, packed := range result.PackedBoxes {
		sequence := i + 1

		rate, failure, err := h.shopRate(ctx, aggregate, packed, sequence)
		if err != nil {
			return err
		}
		if failure != "" {
			return h.abortRun(ctx, uow, aggregate, group, failure)
		}

		label, err := h.rateShopper.PurchaseLabel(ctx, rate)
		if err != nil {
			return h.abortRun(ctx, uow, aggregate, group,
				fmt.Sprintf("label purchase failed for box %d: %v", sequence, err))
		}

		shp, err := shipment.NewShipment(
			kernel.NewUUID(),
			aggregate.ID(),
			packed.Spec.ID(),
			packed.Spec.Name(),
			sequence,
			packed.LineIDs(),
			packed.TotalWeightWithBox(),
			label.Carrier,
			label.Service,
			label.TrackingNumber,
			label.TrackingURL,
			label.LabelURL,
			label.Payload,
			label.Amount,
			label.Currency,
			time.Now().UTC(),
		)
		if err != nil {
			return err
		}

		if err = group.Attach(shp); err != nil {
			return err
		}
		if err = enqueueLabelPrintJob(ctx, uow.PrintJobRepository(), shp); err != nil {
			return err
		}
	}

	if err = h.enqueuePackingSlipJob(ctx, uow, aggregate); err != nil {
		return err
	}

	if err = group.MarkComplete(); err != nil {
		return err
	}
	return uow.ShipmentRepository().UpdateGroup(ctx, group)
}

// shopRate requests rates for one packed box, filters the deny-list, and
// selects the order's requested method when quoted, else the cheapest rate.
func (h *ProcessOrderCommandHandler) shopRate(
	ctx context.Context,
	aggregate *order.Order,
	packed services.PackedBox,
	sequence int,
) (ports.Rate, string, error) {
	req := ports.RateRequest{
		From: h.config.ShipFrom,
		To:   aggregate.ShippingAddress(),
		Parcel: ports.Parcel{
			LengthIn: packed.Spec.Length(),
			WidthIn:  packed.Spec.Width(),
			HeightIn: packed.Spec.Height(),
			WeightG:  packed.TotalWeightWithBox(),
		},
	}

	rates, err := h.rateShopper.GetRates(ctx, req)
	if err != nil {
		return ports.Rate{}, fmt.Sprintf("rate shopping failed for box %d: %v", sequence, err), nil
	}

	allowed := rates[:0:0]
	for _, rate := range rates {
		if !h.isDenied(rate.Service) {
			allowed = append(allowed, rate)
		}
	}
	if len(allowed) == 0 {
		return ports.Rate{}, fmt.Sprintf("no shipping rates for box %d", sequence), nil
	}

	return selectRate(allowed, aggregate.RequestedShippingMethod()), "", nil
}

func (h *ProcessOrderCommandHandler) isDenied(service string) bool {
	for _, denied := range h.config.DeniedServices {
		if strings.EqualFold(service, denied) {
			return true
		}
	}
	return false
}

// selectRate prefers an exact case-insensitive match with the requested
// shipping method, otherwise the cheapest quote.
func selectRate(rates []ports.Rate, requested string) ports.Rate {
	if requested != "" {
		for _, rate := range rates {
			if strings.EqualFold(rate.Service, requested) {
				return rate
			}
		}
	}

	best := rates[0]
	for _, rate := range rates[1:] {
		if rate.Amount < best.Amount {
			best = rate
		}
	}
	return best
}

// enqueueLabelPrintJob creates one print job for a shipment's label, sniffing
// the payload to distinguish raw ZPL from PDF labels.
func enqueueLabelPrintJob(
	ctx context.Context,
	repo ports.PrintJobRepository,
	shp *shipment.Shipment,
) error {
	jobType := printjob.JobTypeLabel
	if shp.IsPDFLabel() {
		jobType = printjob.JobTypeLabelPDF
	}

	orderID := shp.OrderID()
	shipmentID := shp.ID()
	job, err := printjob.NewPrintJob(
		kernel.NewUUID(),
		&orderID,
		&shipmentID,
		jobType,
		string(shp.LabelPayload()),
		nil,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	return repo.Add(ctx, job)
}

// enqueuePackingSlipJob creates one packing slip job per order run.
func (h *ProcessOrderCommandHandler) enqueuePackingSlipJob(
	ctx context.Context,
	uow FulfillmentUoW,
	aggregate *order.Order,
) error {
	orderID := aggregate.ID()
	job, err := printjob.NewPrintJob(
		kernel.NewUUID(),
		&orderID,
		nil,
		printjob.JobTypePackingSlip,
		services.GeneratePackingSlip(aggregate),
		nil,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	return uow.PrintJobRepository().Add(ctx, job)
}

// haltForReview parks the order in manual_required with a distinguishing
// message. Reviewer notification is best-effort and happens after commit.
func (h *ProcessOrderCommandHandler) haltForReview(
	ctx context.Context,
	uow FulfillmentUoW,
	aggregate *order.Order,
	reason string,
	notify bool,
) error {
	if err := aggregate.MarkManualRequired(reason); err != nil {
		return err
	}
	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	if notify {
		if err := h.notifier.NotifyManualReview(ctx, aggregate, reason); err != nil {
			h.logger.Warn("manual review notification failed",
				"order", aggregate.OrderNumber(), "error", err)
		}
	}
	h.publishStateChanged(ctx, aggregate)
	return nil
}

// abortRun moves the order and its shipment group to error state after an
// external carrier failure. The order can be re-run later; the failed group
// is detected and discarded on the next attempt.
func (h *ProcessOrderCommandHandler) abortRun(
	ctx context.Context,
	uow FulfillmentUoW,
	aggregate *order.Order,
	group *shipment.ShipmentGroup,
	message string,
) error {
	if err := group.MarkError(); err != nil {
		return err
	}
	if err := uow.ShipmentRepository().UpdateGroup(ctx, group); err != nil {
		return err
	}
	if err := aggregate.MarkError(message); err != nil {
		return err
	}
	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.publishStateChanged(ctx, aggregate)
	return nil
}

// finish commits a successful run with the order ready to ship.
func (h *ProcessOrderCommandHandler) finish(
	ctx context.Context,
	uow FulfillmentUoW,
	aggregate *order.Order,
) error {
	if err := aggregate.MarkReadyToShip(); err != nil {
		return err
	}
	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.publishStateChanged(ctx, aggregate)
	return nil
}

func (h *ProcessOrderCommandHandler) publishStateChanged(ctx context.Context, aggregate *order.Order) {
	if err := h.publisher.PublishStateChanged(ctx, aggregate); err != nil {
		h.logger.Warn("order event publish failed",
			"order", aggregate.OrderNumber(), "error", err)
	}
}
