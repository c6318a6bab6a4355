package mockcarrier

import (
	"context"
	"strings"
	"testing"

	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GetRates_DeterministicForSameParcel(t *testing.T) {
	shopper := NewRateShopper()
	req := ports.RateRequest{Parcel: ports.Parcel{LengthIn: 12, WidthIn: 10, HeightIn: 8, WeightG: 1500}}

	first, err := shopper.GetRates(context.Background(), req)
	require.NoError(t, err)
	second, err := shopper.GetRates(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, "Ground", first[0].Service)
	assert.Equal(t, "Priority Mail", first[1].Service)
	assert.Less(t, first[0].Amount, first[1].Amount)
}

func Test_GetRates_PriceScalesWithWeight(t *testing.T) {
	shopper := NewRateShopper()

	light, err := shopper.GetRates(context.Background(),
		ports.RateRequest{Parcel: ports.Parcel{WeightG: 500}})
	require.NoError(t, err)
	heavy, err := shopper.GetRates(context.Background(),
		ports.RateRequest{Parcel: ports.Parcel{WeightG: 5000}})
	require.NoError(t, err)

	assert.Less(t, light[0].Amount, heavy[0].Amount)
	assert.NotEqual(t, light[0].RateRef, heavy[0].RateRef)
}

func Test_PurchaseLabel_IssuesUniqueTrackingAndZPL(t *testing.T) {
	shopper := NewRateShopper()
	rate := ports.Rate{
		Provider: "MockCarrier", Service: "Ground", Amount: 5.30, Currency: "USD",
		RateRef: "mock-ground-abc",
	}

	first, err := shopper.PurchaseLabel(context.Background(), rate)
	require.NoError(t, err)
	second, err := shopper.PurchaseLabel(context.Background(), rate)
	require.NoError(t, err)

	assert.NotEqual(t, first.TrackingNumber, second.TrackingNumber)
	assert.True(t, strings.HasPrefix(first.TrackingNumber, "MOCK"))
	assert.True(t, strings.HasPrefix(string(first.Payload), "^XA"))
	assert.Contains(t, string(first.Payload), first.TrackingNumber)
	assert.Equal(t, "MockCarrier", first.Carrier)
	assert.Equal(t, 5.30, first.Amount)
}
