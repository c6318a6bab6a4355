package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// Parcel describes one physical box handed to a carrier: outer dimensions
// in inches and total weight in grams including tare.
type Parcel struct {
	LengthIn float64
	WidthIn  float64
	HeightIn float64
	WeightG  float64
}

// RateRequest asks a carrier for shipping rates on a single parcel.
type RateRequest struct {
	From   kernel.Address
	To     kernel.Address
	Parcel Parcel
}

// Rate is one shipping option quoted by a carrier.
type Rate struct {
	Provider string
	Service  string
	Amount   float64
	Currency string
	// RateRef is the carrier's opaque handle for purchasing this rate.
	RateRef string
}

// Label is a purchased shipping label. Payload holds the raw label bytes,
// either ZPL or PDF depending on what the carrier returned.
type Label struct {
	TrackingNumber string
	TrackingURL    string
	LabelURL       string
	Payload        []byte
	Carrier        string
	Service        string
	Amount         float64
	Currency       string
}

// RateShopper is the outbound contract for carrier rate shopping and label
// purchase. Implementations wrap an external carrier API.
type RateShopper interface {
	// GetRates quotes shipping options for a parcel. An empty result is a
	// valid response and means no carrier can move the parcel.
	GetRates(ctx context.Context, req RateRequest) ([]Rate, error)

	// PurchaseLabel buys a label for a previously quoted rate.
	PurchaseLabel(ctx context.Context, rate Rate) (*Label, error)
}
