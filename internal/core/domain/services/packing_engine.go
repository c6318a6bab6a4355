package services

import (
	"errors"
	"fmt"
	"sort"

	"fulfillment/internal/core/domain/model/box"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// DefaultDensityGramsPerCubicInch is the dry-goods density heuristic used to
// estimate parcel volume from weight when the catalog tracks box volumes.
// It is domain-tunable and injected through the engine constructor.
const DefaultDensityGramsPerCubicInch = 9.0

var (
	// ErrNoItems is returned when Pack is called with no items.
	ErrNoItems = errors.New("no items to pack")

	// ErrNoBoxes is returned when Pack is called with an empty box catalog.
	ErrNoBoxes = errors.New("no boxes configured")

	// ErrUnpackableItem indicates an internal invariant violation: an item
	// that passed the oversized filter still fits no box. Should be
	// unreachable; treat as a bug, not a business failure.
	ErrUnpackableItem = errors.New("item fits no box")
)

// PackableItem is one physical unit to pack: line quantities are expanded to
// unit granularity before packing so a box always receives whole units.
type PackableItem struct {
	LineID  kernel.UUID
	SKU     string
	WeightG float64
}

// PackedBox is one box of a packing plan: a box spec with its assigned units.
// Oversized boxes carry a single unit that exceeds every box's payload and
// are surfaced for manual handling rather than treated as fatal.
type PackedBox struct {
	Spec            box.BoxSpec
	Items           []PackableItem
	TotalItemWeight float64
	IsOversized     bool
}

// TotalWeightWithBox returns the full parcel weight handed to carriers:
// item weight plus the box's own tare.
func (b PackedBox) TotalWeightWithBox() float64 {
	return b.TotalItemWeight + b.Spec.TareWeight()
}

// LineIDs returns the distinct order line ids packed into this box.
func (b PackedBox) LineIDs() []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(b.Items))
	ids := make([]kernel.UUID, 0, len(b.Items))
	for _, item := range b.Items {
		if _, ok := seen[item.LineID]; ok {
			continue
		}
		seen[item.LineID] = struct{}{}
		ids = append(ids, item.LineID)
	}
	return ids
}

// PackingResult is the complete packing plan for one order.
type PackingResult struct {
	PackedBoxes []PackedBox
}

// BoxCount returns the number of boxes in the plan.
func (r PackingResult) BoxCount() int {
	return len(r.PackedBoxes)
}

// HasOversized reports whether any box carries an oversized unit, letting the
// caller force manual review even on an otherwise successful pack.
func (r PackingResult) HasOversized() bool {
	for _, b := range r.PackedBoxes {
		if b.IsOversized {
			return true
		}
	}
	return false
}

// PackingEngine partitions an order's physical units into the fewest
// shippable boxes under weight constraints, using First-Fit-Decreasing with
// a single-box shortcut.
//
// The engine is a pure domain service: Pack has no side effects and is
// deterministic for identical input ordering.
type PackingEngine struct {
	densityGPerCubicInch float64
}

// NewPackingEngine creates an engine with the given density heuristic in
// grams per cubic inch. Non-positive values fall back to the default.
func NewPackingEngine(densityGPerCubicInch float64) PackingEngine {
	if densityGPerCubicInch <= 0 {
		densityGPerCubicInch = DefaultDensityGramsPerCubicInch
	}
	return PackingEngine{densityGPerCubicInch: densityGPerCubicInch}
}

// ExpandOrderItems turns the order's shippable lines into unit-granularity
// packable items. Lines without a known weight are skipped; the pipeline
// resolves weights before packing.
func ExpandOrderItems(o *order.Order) []PackableItem {
	items := make([]PackableItem, 0, o.ItemCount())
	for _, line := range o.ShippableLines() {
		if !line.HasKnownWeight() {
			continue
		}
		for i := 0; i < line.Quantity(); i++ {
			items = append(items, PackableItem{
				LineID:  line.ID(),
				SKU:     line.SKU(),
				WeightG: line.UnitWeight(),
			})
		}
	}
	return items
}

// Pack executes the packing algorithm:
//
//  1. Units heavier than the largest box's payload each get their own box,
//     flagged oversized. They never block the rest of the plan.
//  2. With no oversized units, a single-box shortcut packs everything into
//     the smallest box that holds both the total weight and the estimated
//     volume (weight divided by the density heuristic).
//  3. Otherwise classic FFD: units sorted by weight descending; each goes
//     into the first open box with remaining capacity, else the smallest box
//     that can hold it is opened.
//
// Returns ErrNoItems or ErrNoBoxes for empty inputs and ErrUnpackableItem if
// a unit that passed the oversized filter fits nothing (unreachable).
func (e PackingEngine) Pack(items []PackableItem, boxes []box.BoxSpec) (PackingResult, error) {
	if len(items) == 0 {
		return PackingResult{}, ErrNoItems
	}
	if len(boxes) == 0 {
		return PackingResult{}, ErrNoBoxes
	}

	sortedItems := make([]PackableItem, len(items))
	copy(sortedItems, items)
	sort.SliceStable(sortedItems, func(i, j int) bool {
		return sortedItems[i].WeightG > sortedItems[j].WeightG
	})

	sortedBoxes := make([]box.BoxSpec, len(boxes))
	copy(sortedBoxes, boxes)
	sort.SliceStable(sortedBoxes, func(i, j int) bool {
		if sortedBoxes[i].MaxWeight() != sortedBoxes[j].MaxWeight() {
			return sortedBoxes[i].MaxWeight() < sortedBoxes[j].MaxWeight()
		}
		return sortedBoxes[i].Priority() < sortedBoxes[j].Priority()
	})

	largestBox := sortedBoxes[len(sortedBoxes)-1]
	maxCapacity := largestBox.MaxWeight()

	var oversized, packable []PackableItem
	for _, item := range sortedItems {
		if item.WeightG > maxCapacity {
			oversized = append(oversized, item)
		} else {
			packable = append(packable, item)
		}
	}

	packedBoxes := make([]PackedBox, 0, len(oversized)+1)
	for _, item := range oversized {
		packedBoxes = append(packedBoxes, PackedBox{
			Spec:            largestBox,
			Items:           []PackableItem{item},
			TotalItemWeight: item.WeightG,
			IsOversized:     true,
		})
	}

	if len(oversized) == 0 {
		if best, ok := e.singleBoxFor(packable, sortedBoxes); ok {
			var totalWeight float64
			for _, item := range packable {
				totalWeight += item.WeightG
			}
			packedBoxes = append(packedBoxes, PackedBox{
				Spec:            best,
				Items:           packable,
				TotalItemWeight: totalWeight,
			})
			return PackingResult{PackedBoxes: packedBoxes}, nil
		}
	}

	type openBin struct {
		spec   box.BoxSpec
		weight float64
		items  []PackableItem
	}

	var bins []openBin
	for _, item := range packable {
		placed := false

		for i := range bins {
			if bins[i].weight+item.WeightG <= bins[i].spec.MaxWeight() {
				bins[i].weight += item.WeightG
				bins[i].items = append(bins[i].items, item)
				placed = true
				break
			}
		}

		if !placed {
			for _, spec := range sortedBoxes {
				if item.WeightG <= spec.MaxWeight() {
					bins = append(bins, openBin{
						spec:   spec,
						weight: item.WeightG,
						items:  []PackableItem{item},
					})
					placed = true
					break
				}
			}
		}

		if !placed {
			return PackingResult{}, fmt.Errorf("%w: SKU %s (%.0fg)", ErrUnpackableItem, item.SKU, item.WeightG)
		}
	}

	for _, bin := range bins {
		packedBoxes = append(packedBoxes, PackedBox{
			Spec:            bin.spec,
			Items:           bin.items,
			TotalItemWeight: bin.weight,
		})
	}

	return PackingResult{PackedBoxes: packedBoxes}, nil
}

// singleBoxFor returns the smallest box that holds all items by weight and
// estimated volume, preferring boxes with known volume data: candidates are
// ordered by (missing-volume-data last, volume ascending, max weight
// ascending, priority ascending).
func (e PackingEngine) singleBoxFor(items []PackableItem, sortedBoxes []box.BoxSpec) (box.BoxSpec, bool) {
	var totalWeight float64
	for _, item := range items {
		totalWeight += item.WeightG
	}

	var estimatedVolume float64
	if totalWeight > 0 {
		estimatedVolume = totalWeight / e.densityGPerCubicInch
	}

	candidates := make([]box.BoxSpec, 0, len(sortedBoxes))
	for _, spec := range sortedBoxes {
		if totalWeight > spec.MaxWeight() {
			continue
		}
		if estimatedVolume > 0 && spec.Volume() > 0 && estimatedVolume > spec.Volume() {
			continue
		}
		candidates = append(candidates, spec)
	}
	if len(candidates) == 0 {
		return box.BoxSpec{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		iMissing, jMissing := candidates[i].Volume() <= 0, candidates[j].Volume() <= 0
		if iMissing != jMissing {
			return !iMissing
		}
		if !iMissing && candidates[i].Volume() != candidates[j].Volume() {
			return candidates[i].Volume() < candidates[j].Volume()
		}
		if candidates[i].MaxWeight() != candidates[j].MaxWeight() {
			return candidates[i].MaxWeight() < candidates[j].MaxWeight()
		}
		return candidates[i].Priority() < candidates[j].Priority()
	})

	return candidates[0], true
}
