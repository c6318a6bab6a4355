package order

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder factory method. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrLineNotFound is returned when a referenced line does not belong to the order.
	ErrLineNotFound = errors.New("order line not found")
)

// RiskLevel is the fraud-screening verdict attached to an order at intake.
// It is supplied by an external risk signal; the pipeline only reads it.
type RiskLevel string

const (
	RiskNone   RiskLevel = ""
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// IsFlagged reports whether the risk level requires a human review before
// the order may be fulfilled.
func (r RiskLevel) IsFlagged() bool {
	return r == RiskHigh
}

// Order is the aggregate root for one marketplace order moving through the
// fulfillment pipeline. It owns its lines; shipments are owned through the
// shipment group keyed by the order id.
//
// Invariants:
//   - Must have a valid unique identifier and a validated shipping address
//   - Must have at least one line
//   - Status transitions follow the rules encoded in Status
//   - Error/manual messages are set only together with their transitions
//
// Mutation happens only through the pipeline (state transitions, weight
// repair) and explicit operator retry actions. Orders are never deleted.
type Order struct {
	id                kernel.UUID
	orderNumber       string
	shippingAddress   kernel.Address
	lines             []OrderLine
	status            Status
	errorMessage      string
	riskLevel         RiskLevel
	requestedShipping string
	isConstructed     bool
}

// NewOrder creates a new Order in Pending status.
//
// Parameters:
//   - id: unique order identifier
//   - orderNumber: human-readable marketplace order number
//   - shippingAddress: validated destination address
//   - lines: at least one order line
//   - riskLevel: external risk verdict, RiskNone when unscreened
//   - requestedShipping: shipping method the buyer chose, may be empty
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	shippingAddress kernel.Address,
	lines []OrderLine,
	riskLevel RiskLevel,
	requestedShipping string,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setShippingAddress(shippingAddress),
		o.setLines(lines),
	); err != nil {
		return nil, err
	}

	o.riskLevel = riskLevel
	o.requestedShipping = requestedShipping
	return o, nil
}

// RestoreOrder reconstructs an Order from persistence, including its status
// and error message. Used by repositories only.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	shippingAddress kernel.Address,
	lines []OrderLine,
	status Status,
	errorMessage string,
	riskLevel RiskLevel,
	requestedShipping string,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	o, err := NewOrder(id, orderNumber, shippingAddress, lines, riskLevel, requestedShipping)
	if err != nil {
		return nil, err
	}

	o.status = status
	o.errorMessage = errorMessage
	return o, nil
}

// Validate ensures the Order instance was properly constructed through
// NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// OrderNumber returns the marketplace order number.
func (o *Order) OrderNumber() string { return o.orderNumber }

// ShippingAddress returns the destination address.
func (o *Order) ShippingAddress() kernel.Address { return o.shippingAddress }

// Lines returns the order lines.
func (o *Order) Lines() []OrderLine { return o.lines }

// Status returns the current pipeline status.
func (o *Order) Status() Status { return o.status }

// ErrorMessage returns the message recorded with the last Error or
// ManualRequired transition, empty otherwise.
func (o *Order) ErrorMessage() string { return o.errorMessage }

// RiskLevel returns the external risk verdict.
func (o *Order) RiskLevel() RiskLevel { return o.riskLevel }

// RequestedShippingMethod returns the buyer's chosen shipping method, if any.
func (o *Order) RequestedShippingMethod() string { return o.requestedShipping }

// ShippableLines returns only the lines that represent physical goods.
func (o *Order) ShippableLines() []OrderLine {
	shippable := make([]OrderLine, 0, len(o.lines))
	for _, l := range o.lines {
		if l.RequiresShipping() {
			shippable = append(shippable, l)
		}
	}
	return shippable
}

// HasShippableLines reports whether any line requires shipping.
func (o *Order) HasShippableLines() bool {
	return len(o.ShippableLines()) > 0
}

// LinesMissingWeight returns the shippable lines without a usable weight.
func (o *Order) LinesMissingWeight() []OrderLine {
	missing := make([]OrderLine, 0)
	for _, l := range o.ShippableLines() {
		if !l.HasKnownWeight() {
			missing = append(missing, l)
		}
	}
	return missing
}

// TotalWeight returns the summed weight of all shippable lines in grams.
func (o *Order) TotalWeight() float64 {
	var total float64
	for _, l := range o.ShippableLines() {
		total += l.TotalWeight()
	}
	return total
}

// ItemCount returns the total unit count across shippable lines.
func (o *Order) ItemCount() int {
	var count int
	for _, l := range o.ShippableLines() {
		count += l.Quantity()
	}
	return count
}

// ResolveLineWeight records an externally recovered unit weight on the given
// line. Used by the pipeline's weight-repair stage.
func (o *Order) ResolveLineWeight(lineID kernel.UUID, unitWeightG float64) error {
	if unitWeightG <= 0 {
		return errs.NewValueIsInvalidError("unitWeightG")
	}
	for i := range o.lines {
		if o.lines[i].id.IsEqual(lineID) {
			o.lines[i].unitWeightG = unitWeightG
			return nil
		}
	}
	return ErrLineNotFound
}

// StartProcessing moves the order into Processing and clears any previous
// error message.
func (o *Order) StartProcessing() error {
	newStatus, err := o.status.StartProcessing()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.errorMessage = ""
	return nil
}

// MarkReadyToShip records that every box has a purchased label.
func (o *Order) MarkReadyToShip() error {
	newStatus, err := o.status.MarkReadyToShip()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// MarkShipped records that all print jobs completed. Shipped is final.
func (o *Order) MarkShipped() error {
	newStatus, err := o.status.MarkShipped()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// MarkError records a retryable system failure with its message.
func (o *Order) MarkError(message string) error {
	newStatus, err := o.status.MarkError()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.errorMessage = message
	return nil
}

// MarkManualRequired records a failure that needs an operator decision.
func (o *Order) MarkManualRequired(message string) error {
	newStatus, err := o.status.MarkManualRequired()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.errorMessage = message
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setShippingAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.shippingAddress = address
	return nil
}

func (o *Order) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	o.lines = lines
	return nil
}
