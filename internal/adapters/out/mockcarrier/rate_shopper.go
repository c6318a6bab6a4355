// Package mockcarrier provides a deterministic RateShopper for development
// and demo environments where no Shippo account is configured.
package mockcarrier

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sync/atomic"

	"fulfillment/internal/core/ports"
)

var _ ports.RateShopper = &RateShopper{}

// RateShopper quotes synthetic rates derived from parcel weight and issues
// fake but well-formed ZPL labels. Quotes for the same parcel are identical
// across calls so pipeline runs stay reproducible.
type RateShopper struct {
	sequence atomic.Uint64
}

// NewRateShopper creates a mock carrier.
func NewRateShopper() *RateShopper {
	return &RateShopper{}
}

// GetRates returns two deterministic options priced by weight: a cheap
// ground service and a faster priority service.
func (m *RateShopper) GetRates(_ context.Context, req ports.RateRequest) ([]ports.Rate, error) {
	weightLb := req.Parcel.WeightG / 453.592
	ground := math.Round((4.50+weightLb*0.80)*100) / 100
	priority := math.Round((8.00+weightLb*1.40)*100) / 100

	ref := parcelRef(req.Parcel)
	return []ports.Rate{
		{
			Provider: "MockCarrier",
			Service:  "Ground",
			Amount:   ground,
			Currency: "USD",
			RateRef:  fmt.Sprintf("mock-ground-%s", ref),
		},
		{
			Provider: "MockCarrier",
			Service:  "Priority Mail",
			Amount:   priority,
			Currency: "USD",
			RateRef:  fmt.Sprintf("mock-priority-%s", ref),
		},
	}, nil
}

// PurchaseLabel issues a fake tracking number and a minimal ZPL label.
func (m *RateShopper) PurchaseLabel(_ context.Context, rate ports.Rate) (*ports.Label, error) {
	seq := m.sequence.Add(1)
	tracking := fmt.Sprintf("MOCK%012d", seq)

	zpl := fmt.Sprintf(
		"^XA^FO50,50^A0N,30,30^FDMOCK LABEL^FS^FO50,100^A0N,25,25^FD%s^FS^FO50,150^BY2^BCN,80,Y,N,N^FD%s^FS^XZ",
		rate.Service, tracking)

	return &ports.Label{
		TrackingNumber: tracking,
		TrackingURL:    "https://tracking.example.com/" + tracking,
		LabelURL:       "",
		Payload:        []byte(zpl),
		Carrier:        rate.Provider,
		Service:        rate.Service,
		Amount:         rate.Amount,
		Currency:       rate.Currency,
	}, nil
}

func parcelRef(p ports.Parcel) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%.1fx%.1fx%.1f:%.0f", p.LengthIn, p.WidthIn, p.HeightIn, p.WeightG)
	return fmt.Sprintf("%x", h.Sum64())
}
