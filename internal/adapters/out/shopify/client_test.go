package shopify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		AccessToken: "shpat_test",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
	}, discardLogger())
	require.NoError(t, err)
	return client
}

func testOrder(t *testing.T, orderNumber string) *order.Order {
	t.Helper()
	address, err := kernel.NewAddress(
		"Jane Doe", "1 Main St", "", "Springfield", "IL", "62704", "US", "555-0100", "jane@example.com")
	require.NoError(t, err)
	line, err := order.NewLine(kernel.NewUUID(), "WIDGET-1", "Widget", "var-1", 1, 450, true)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), orderNumber, address, []order.OrderLine{line}, order.RiskLow, "")
	require.NoError(t, err)
	return o
}

func testShipment(t *testing.T, orderID kernel.UUID) *shipment.Shipment {
	t.Helper()
	shp, err := shipment.NewShipment(
		kernel.NewUUID(), orderID, kernel.NewUUID(),
		"Medium Box", 1, []kernel.UUID{kernel.NewUUID()}, 1000,
		"USPS", "Priority Mail", "9400100000000000000001",
		"https://tools.usps.com/go/track?q=9400100000000000000001",
		"https://labels.example.com/1.zpl",
		[]byte("^XA^XZ"), 8.45, "USD", time.Now().UTC())
	require.NoError(t, err)
	return shp
}

func Test_ResolveByVariantID_ReturnsGrams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-01/variants/12345.json", r.URL.Path)
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		_, _ = w.Write([]byte(`{"variant": {"id": 12345, "sku": "WIDGET-1", "grams": 450}}`))
	}))
	defer server.Close()

	weight, err := testClient(t, server.URL).ResolveByVariantID(context.Background(), "12345")

	require.NoError(t, err)
	assert.Equal(t, 450.0, weight)
}

func Test_ResolveByVariantID_UnknownVariant_ResolvesZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	weight, err := testClient(t, server.URL).ResolveByVariantID(context.Background(), "99999")

	require.NoError(t, err)
	assert.Zero(t, weight)
}

func Test_ResolveByVariantID_EmptyID_ResolvesZeroWithoutCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	weight, err := testClient(t, server.URL).ResolveByVariantID(context.Background(), "")

	require.NoError(t, err)
	assert.Zero(t, weight)
	assert.False(t, called)
}

func Test_ResolveBySKU_ConvertsUnitsToGrams(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		value    float64
		expected float64
	}{
		{"grams", "GRAMS", 450, 450},
		{"kilograms", "KILOGRAMS", 1.2, 1200},
		{"ounces", "OUNCES", 2, 56.699},
		{"pounds", "POUNDS", 1, 453.592},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/admin/api/2024-01/graphql.json", r.URL.Path)

				var req map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Contains(t, req["variables"].(map[string]any)["query"], "WIDGET-1")

				resp := map[string]any{
					"data": map[string]any{
						"productVariants": map[string]any{
							"nodes": []any{map[string]any{
								"sku": "WIDGET-1",
								"inventoryItem": map[string]any{
									"measurement": map[string]any{
										"weight": map[string]any{"unit": tt.unit, "value": tt.value},
									},
								},
							}},
						},
					},
				}
				require.NoError(t, json.NewEncoder(w).Encode(resp))
			}))
			defer server.Close()

			weight, err := testClient(t, server.URL).ResolveBySKU(context.Background(), "WIDGET-1")

			require.NoError(t, err)
			assert.InDelta(t, tt.expected, weight, 0.001)
		})
	}
}

func Test_ResolveBySKU_NoMatch_ResolvesZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"productVariants": {"nodes": []}}}`))
	}))
	defer server.Close()

	weight, err := testClient(t, server.URL).ResolveBySKU(context.Background(), "UNKNOWN-SKU")

	require.NoError(t, err)
	assert.Zero(t, weight)
}

func Test_ResolveBySKU_WrongSKUReturned_ResolvesZero(t *testing.T) {
	// The search query matches loosely; a near-miss SKU must not repair
	// the wrong line.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"productVariants": {"nodes": [
			{"sku": "WIDGET-10",
			 "inventoryItem": {"measurement": {"weight": {"unit": "GRAMS", "value": 450}}}}
		]}}}`))
	}))
	defer server.Close()

	weight, err := testClient(t, server.URL).ResolveBySKU(context.Background(), "WIDGET-1")

	require.NoError(t, err)
	assert.Zero(t, weight)
}

func Test_CreateFulfillment_PushesTrackingInfo(t *testing.T) {
	// Arrange
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/admin/api/2024-01/orders.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "#1001", r.URL.Query().Get("name"))
		assert.Equal(t, "any", r.URL.Query().Get("status"))
		_, _ = w.Write([]byte(`{"orders": [{"id": 5550001}]}`))
	})
	mux.HandleFunc("/admin/api/2024-01/orders/5550001/fulfillment_orders.json",
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"fulfillment_orders": [
				{"id": 777, "status": "closed"},
				{"id": 888, "status": "open"}
			]}`))
		})
	var captured map[string]any
	mux.HandleFunc("/admin/api/2024-01/fulfillments.json", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"fulfillment": {"id": 424242}}`))
	})

	client := testClient(t, server.URL)
	o := testOrder(t, "#1001")
	shp := testShipment(t, o.ID())

	// Act
	fulfillmentID, err := client.CreateFulfillment(context.Background(), o, []*shipment.Shipment{shp})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "424242", fulfillmentID)

	ff := captured["fulfillment"].(map[string]any)
	byOrder := ff["line_items_by_fulfillment_order"].([]any)
	require.Len(t, byOrder, 1)
	assert.Equal(t, 888.0, byOrder[0].(map[string]any)["fulfillment_order_id"])

	tracking := ff["tracking_info"].(map[string]any)
	assert.Equal(t, "9400100000000000000001", tracking["number"])
	assert.Equal(t, "USPS", tracking["company"])
	assert.Equal(t, true, ff["notify_customer"])
}

func Test_CreateFulfillment_OrderNotFound_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"orders": []}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	o := testOrder(t, "#9999")

	_, err := client.CreateFulfillment(context.Background(), o, []*shipment.Shipment{testShipment(t, o.ID())})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "#9999")
}

func Test_CreateFulfillment_NoShipments_ReturnsError(t *testing.T) {
	client := testClient(t, "http://127.0.0.1:0")
	o := testOrder(t, "#1001")

	_, err := client.CreateFulfillment(context.Background(), o, nil)

	require.Error(t, err)
}
