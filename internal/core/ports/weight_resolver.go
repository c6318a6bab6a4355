package ports

import (
	"context"
)

// WeightResolver looks up product weights from the storefront catalog when
// an order arrives with missing weight data. A zero result with a nil error
// means the weight could not be resolved.
type WeightResolver interface {
	// ResolveByVariantID returns the unit weight in grams for a product variant.
	ResolveByVariantID(ctx context.Context, variantID string) (float64, error)

	// ResolveBySKU returns the unit weight in grams for a SKU. Used as a
	// fallback when the variant lookup resolves nothing.
	ResolveBySKU(ctx context.Context, sku string) (float64, error)
}
