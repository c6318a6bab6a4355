// Package box contains the BoxSpec value object describing one entry of the
// static shipping-box catalog. Specs are immutable during a packing run; the
// catalog itself is managed externally and loaded through a repository port.
package box

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// GramsPerOunce converts catalog weights maintained in ounces to the grams
// used everywhere else in the domain.
const GramsPerOunce = 28.3495

// ErrBoxSpecIsNotConstructed is returned when a BoxSpec instance was not
// created through the NewBoxSpec factory method.
var ErrBoxSpecIsNotConstructed = errors.New("BoxSpec must be created via NewBoxSpec constructor")

// BoxSpec describes a shippable box: interior dimensions in inches, the
// maximum payload it may carry and its own tare weight, both in grams.
// Priority breaks ties between boxes of comparable capacity; lower wins.
//
// Volume is derived from the dimensions at construction. A spec with any
// missing dimension carries zero volume, which the packing engine treats as
// "volume unknown" rather than "no room".
type BoxSpec struct {
	id          kernel.UUID
	name        string
	lengthIn    float64
	widthIn     float64
	heightIn    float64
	maxWeightG  float64
	tareWeightG float64
	priority    int

	guard guard.ConstructorGuard
}

// NewBoxSpec creates a validated BoxSpec. Dimensions are in inches, weights in
// grams. Max weight must be positive; dimensions and tare may be zero when the
// catalog does not track them.
func NewBoxSpec(
	id kernel.UUID,
	name string,
	lengthIn, widthIn, heightIn float64,
	maxWeightG, tareWeightG float64,
	priority int,
) (BoxSpec, error) {
	if err := id.Validate(); err != nil {
		return BoxSpec{}, err
	}
	if name == "" {
		return BoxSpec{}, errs.NewValueIsRequiredError("name")
	}
	if maxWeightG <= 0 {
		return BoxSpec{}, errs.NewValueIsInvalidErrorWithCause("maxWeightG",
			errors.New("max weight must be greater than 0"))
	}
	if lengthIn < 0 || widthIn < 0 || heightIn < 0 {
		return BoxSpec{}, errs.NewValueIsInvalidError("dimensions")
	}
	if tareWeightG < 0 {
		return BoxSpec{}, errs.NewValueIsInvalidError("tareWeightG")
	}

	return BoxSpec{
		id:          id,
		name:        name,
		lengthIn:    lengthIn,
		widthIn:     widthIn,
		heightIn:    heightIn,
		maxWeightG:  maxWeightG,
		tareWeightG: tareWeightG,
		priority:    priority,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the BoxSpec was created through NewBoxSpec.
func (b BoxSpec) Validate() error {
	return b.guard.Validate(ErrBoxSpecIsNotConstructed)
}

// ID returns the catalog identifier of the box.
func (b BoxSpec) ID() kernel.UUID { return b.id }

// Name returns the catalog name of the box.
func (b BoxSpec) Name() string { return b.name }

// Length returns the interior length in inches.
func (b BoxSpec) Length() float64 { return b.lengthIn }

// Width returns the interior width in inches.
func (b BoxSpec) Width() float64 { return b.widthIn }

// Height returns the interior height in inches.
func (b BoxSpec) Height() float64 { return b.heightIn }

// MaxWeight returns the maximum payload weight in grams.
func (b BoxSpec) MaxWeight() float64 { return b.maxWeightG }

// TareWeight returns the empty box weight in grams.
func (b BoxSpec) TareWeight() float64 { return b.tareWeightG }

// Priority returns the tie-break priority; lower is preferred.
func (b BoxSpec) Priority() int { return b.priority }

// Volume returns the interior volume in cubic inches, or 0 when any
// dimension is unknown.
func (b BoxSpec) Volume() float64 {
	if b.lengthIn <= 0 || b.widthIn <= 0 || b.heightIn <= 0 {
		return 0
	}
	return b.lengthIn * b.widthIn * b.heightIn
}

// IsEqual compares two box specs by their catalog identifiers.
func (b BoxSpec) IsEqual(other BoxSpec) bool {
	return b.id.IsEqual(other.id)
}
