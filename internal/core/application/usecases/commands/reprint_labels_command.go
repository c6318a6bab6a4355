package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReprintLabelsCommandIsNotConstructed = errors.New(
	"ReprintLabelsCommand must be created via NewReprintLabelsCommand constructor",
)

// ReprintLabelsCommand represents an operator's request to re-emit print
// jobs for an order's already-purchased labels, for example after a printer
// jam ruined the physical labels.
type ReprintLabelsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReprintLabelsCommand creates a reprint command for an order.
func NewReprintLabelsCommand(orderID kernel.UUID) (ReprintLabelsCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ReprintLabelsCommand{}, err
	}

	return ReprintLabelsCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReprintLabelsCommand) Validate() error {
	return c.guard.Validate(ErrReprintLabelsCommandIsNotConstructed)
}

// OrderID returns the identifier of the order whose labels to reprint.
func (c ReprintLabelsCommand) OrderID() kernel.UUID {
	return c.orderID
}
