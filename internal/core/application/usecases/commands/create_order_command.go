package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderNumberIsRequired = errors.New("order number is required")
	ErrLinesAreRequired      = errors.New("at least one order line is required")
)

// CreateOrderCommand represents a request to register an incoming marketplace
// order for fulfillment. Carries the validated shipping address, order lines,
// and the risk verdict from the storefront.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID           kernel.UUID
	orderNumber       string
	shippingAddress   kernel.Address
	lines             []order.OrderLine
	riskLevel         order.RiskLevel
	requestedShipping string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates that the order ID and shipping address are valid, the order
// number is not empty, and at least one line is present.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	orderNumber string,
	shippingAddress kernel.Address,
	lines []order.OrderLine,
	riskLevel order.RiskLevel,
	requestedShipping string,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setOrderNumber(orderNumber),
		orderCommand.setShippingAddress(shippingAddress),
		orderCommand.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	orderCommand.riskLevel = riskLevel
	orderCommand.requestedShipping = requestedShipping
	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// OrderNumber returns the human-readable marketplace order number.
func (c CreateOrderCommand) OrderNumber() string {
	return c.orderNumber
}

// ShippingAddress returns the destination address.
func (c CreateOrderCommand) ShippingAddress() kernel.Address {
	return c.shippingAddress
}

// Lines returns the order lines.
func (c CreateOrderCommand) Lines() []order.OrderLine {
	return c.lines
}

// RiskLevel returns the storefront's fraud risk verdict.
func (c CreateOrderCommand) RiskLevel() order.RiskLevel {
	return c.riskLevel
}

// RequestedShipping returns the shipping method the buyer chose.
func (c CreateOrderCommand) RequestedShipping() string {
	return c.requestedShipping
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return ErrOrderNumberIsRequired
	}

	c.orderNumber = orderNumber
	return nil
}

func (c *CreateOrderCommand) setShippingAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}

	c.shippingAddress = address
	return nil
}

func (c *CreateOrderCommand) setLines(lines []order.OrderLine) error {
	if len(lines) == 0 {
		return ErrLinesAreRequired
	}
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return err
		}
	}

	c.lines = lines
	return nil
}
