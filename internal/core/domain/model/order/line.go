package order

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrLineIsNotConstructed is returned when an OrderLine instance was not
// created through the NewLine factory method.
var ErrLineIsNotConstructed = errors.New("OrderLine must be created via NewLine constructor")

// OrderLine is one line item of an order: a SKU at a quantity with a
// per-unit weight in grams. A zero unit weight means the marketplace did not
// supply one; the pipeline attempts external weight recovery before packing.
type OrderLine struct {
	id               kernel.UUID
	sku              string
	title            string
	variantID        string
	quantity         int
	unitWeightG      float64
	requiresShipping bool

	isConstructed bool
}

// NewLine creates a validated OrderLine. Quantity must be at least 1 and the
// unit weight may be zero (unknown) but never negative.
func NewLine(
	id kernel.UUID,
	sku, title, variantID string,
	quantity int,
	unitWeightG float64,
	requiresShipping bool,
) (OrderLine, error) {
	if err := id.Validate(); err != nil {
		return OrderLine{}, err
	}
	if quantity < 1 {
		return OrderLine{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	if unitWeightG < 0 {
		return OrderLine{}, errs.NewValueIsInvalidError("unitWeightG")
	}

	return OrderLine{
		id:               id,
		sku:              sku,
		title:            title,
		variantID:        variantID,
		quantity:         quantity,
		unitWeightG:      unitWeightG,
		requiresShipping: requiresShipping,
		isConstructed:    true,
	}, nil
}

// Validate ensures the OrderLine was created through NewLine.
func (l OrderLine) Validate() error {
	if !l.isConstructed {
		return ErrLineIsNotConstructed
	}
	return nil
}

// ID returns the line identifier.
func (l OrderLine) ID() kernel.UUID { return l.id }

// SKU returns the merchant stock-keeping unit.
func (l OrderLine) SKU() string { return l.sku }

// Title returns the product title shown on packing slips.
func (l OrderLine) Title() string { return l.title }

// VariantID returns the marketplace variant identifier used for weight recovery.
func (l OrderLine) VariantID() string { return l.variantID }

// Quantity returns the ordered unit count.
func (l OrderLine) Quantity() int { return l.quantity }

// UnitWeight returns the per-unit weight in grams; 0 means unknown.
func (l OrderLine) UnitWeight() float64 { return l.unitWeightG }

// RequiresShipping reports whether this line represents a physical good.
func (l OrderLine) RequiresShipping() bool { return l.requiresShipping }

// HasKnownWeight reports whether the line carries a usable weight.
func (l OrderLine) HasKnownWeight() bool { return l.unitWeightG > 0 }

// TotalWeight returns quantity times unit weight in grams.
func (l OrderLine) TotalWeight() float64 {
	return float64(l.quantity) * l.unitWeightG
}
