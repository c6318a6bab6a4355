package shipment

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrGroupIsNotConstructed is returned when a ShipmentGroup instance was not
// created through the NewShipmentGroup factory method.
var ErrGroupIsNotConstructed = errors.New("ShipmentGroup must be created via NewShipmentGroup constructor")

// ShipmentGroup aggregates the 1..N shipments of one multi-box order.
// An order owns at most one group at a time; a group left in error from a
// failed run is discarded and rebuilt by the next pipeline run.
type ShipmentGroup struct {
	id        kernel.UUID
	orderID   kernel.UUID
	status    GroupStatus
	shipments []*Shipment

	isConstructed bool
}

// NewShipmentGroup creates an empty group in pending status for the order.
func NewShipmentGroup(id, orderID kernel.UUID) (*ShipmentGroup, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}

	return &ShipmentGroup{
		id:            id,
		orderID:       orderID,
		status:        GroupPending,
		isConstructed: true,
	}, nil
}

// RestoreShipmentGroup reconstructs a group with its shipments from
// persistence. Used by repositories only.
func RestoreShipmentGroup(
	id, orderID kernel.UUID,
	status GroupStatus,
	shipments []*Shipment,
) (*ShipmentGroup, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	g, err := NewShipmentGroup(id, orderID)
	if err != nil {
		return nil, err
	}

	g.status = status
	g.shipments = shipments
	return g, nil
}

// Validate ensures the group was created through a constructor.
func (g *ShipmentGroup) Validate() error {
	if g == nil || !g.isConstructed {
		return ErrGroupIsNotConstructed
	}
	return nil
}

// ID returns the group identifier.
func (g *ShipmentGroup) ID() kernel.UUID { return g.id }

// OrderID returns the owning order's identifier.
func (g *ShipmentGroup) OrderID() kernel.UUID { return g.orderID }

// Status returns the current group status.
func (g *ShipmentGroup) Status() GroupStatus { return g.status }

// Shipments returns the shipments attached to the group.
func (g *ShipmentGroup) Shipments() []*Shipment { return g.shipments }

// ShipmentCount returns the number of boxes in the group.
func (g *ShipmentGroup) ShipmentCount() int { return len(g.shipments) }

// TotalCost returns the summed purchase cost of all shipments.
func (g *ShipmentGroup) TotalCost() float64 {
	var total float64
	for _, s := range g.shipments {
		total += s.Cost()
	}
	return total
}

// LabeledShipments returns the shipments that carry label data.
func (g *ShipmentGroup) LabeledShipments() []*Shipment {
	labeled := make([]*Shipment, 0, len(g.shipments))
	for _, s := range g.shipments {
		if s.HasLabelData() {
			labeled = append(labeled, s)
		}
	}
	return labeled
}

// HasLabeledShipments reports whether any shipment carries label data.
// A group without one is a residue of a failed run and is safe to discard.
func (g *ShipmentGroup) HasLabeledShipments() bool {
	return len(g.LabeledShipments()) > 0
}

// Attach adds a shipment to the group. The shipment must belong to the same
// order as the group.
func (g *ShipmentGroup) Attach(s *Shipment) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if !s.OrderID().IsEqual(g.orderID) {
		return errors.New("shipment belongs to a different order")
	}
	g.shipments = append(g.shipments, s)
	return nil
}

// MarkComplete records that every box has a purchased label.
func (g *ShipmentGroup) MarkComplete() error {
	newStatus, err := g.status.MarkComplete()
	if err != nil {
		return err
	}

	g.status = newStatus
	return nil
}

// MarkError records that the label run was aborted mid-group.
func (g *ShipmentGroup) MarkError() error {
	newStatus, err := g.status.MarkError()
	if err != nil {
		return err
	}

	g.status = newStatus
	return nil
}
