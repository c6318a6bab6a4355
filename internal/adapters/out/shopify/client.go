// Package shopify implements catalog weight lookup and fulfillment tracking
// push against the Shopify Admin API.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const defaultAPIVersion = "2024-01"

const gramsPerOunce = 28.3495

var (
	_ ports.WeightResolver = &Client{}
	_ ports.FulfillmentAPI = &Client{}
)

// Config holds the settings for the Shopify Admin API client.
type Config struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
	// BaseURL overrides https://<shop-domain>, used in tests.
	BaseURL string
	Timeout time.Duration
}

// Client calls the Shopify Admin API. Variant weights come from the REST
// variants resource; SKU fallback goes through the GraphQL search because
// REST cannot filter variants by SKU.
type Client struct {
	baseURL     string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a Shopify Admin API client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.ShopDomain == "" && cfg.BaseURL == "" {
		return nil, errs.NewValueIsRequiredError("shopDomain")
	}
	if cfg.AccessToken == "" {
		return nil, errs.NewValueIsRequiredError("accessToken")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://" + cfg.ShopDomain
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: cfg.AccessToken,
		apiVersion:  apiVersion,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger.With("component", "shopify"),
	}, nil
}

type variantResponse struct {
	Variant struct {
		Grams float64 `json:"grams"`
	} `json:"variant"`
}

// ResolveByVariantID looks up the variant's weight in grams. An unknown
// variant resolves to zero without an error.
func (c *Client) ResolveByVariantID(ctx context.Context, variantID string) (float64, error) {
	if variantID == "" {
		return 0, nil
	}

	path := fmt.Sprintf("/admin/api/%s/variants/%s.json", c.apiVersion, url.PathEscape(variantID))

	var resp variantResponse
	status, err := c.get(ctx, path, &resp)
	if err != nil {
		return 0, err
	}
	if status == http.StatusNotFound {
		return 0, nil
	}

	return resp.Variant.Grams, nil
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type variantSearchResponse struct {
	Data struct {
		ProductVariants struct {
			Nodes []struct {
				SKU           string `json:"sku"`
				InventoryItem struct {
					Measurement struct {
						Weight struct {
							Unit  string  `json:"unit"`
							Value float64 `json:"value"`
						} `json:"weight"`
					} `json:"measurement"`
				} `json:"inventoryItem"`
			} `json:"nodes"`
		} `json:"productVariants"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

const variantBySKUQuery = `query($query: String!) {
  productVariants(first: 1, query: $query) {
    nodes {
      sku
      inventoryItem { measurement { weight { unit value } } }
    }
  }
}`

// ResolveBySKU searches the catalog for a variant with the given SKU and
// returns its weight in grams. No match resolves to zero without an error.
func (c *Client) ResolveBySKU(ctx context.Context, sku string) (float64, error) {
	if sku == "" {
		return 0, nil
	}

	payload := graphqlRequest{
		Query:     variantBySKUQuery,
		Variables: map[string]any{"query": fmt.Sprintf("sku:%q", sku)},
	}

	var resp variantSearchResponse
	path := fmt.Sprintf("/admin/api/%s/graphql.json", c.apiVersion)
	if err := c.post(ctx, path, payload, &resp); err != nil {
		return 0, err
	}
	if len(resp.Errors) > 0 {
		return 0, fmt.Errorf("shopify graphql error: %s", resp.Errors[0].Message)
	}

	nodes := resp.Data.ProductVariants.Nodes
	if len(nodes) == 0 || !strings.EqualFold(nodes[0].SKU, sku) {
		return 0, nil
	}

	weight := nodes[0].InventoryItem.Measurement.Weight
	return toGrams(weight.Value, weight.Unit), nil
}

func toGrams(value float64, unit string) float64 {
	switch strings.ToUpper(unit) {
	case "GRAMS":
		return value
	case "KILOGRAMS":
		return value * 1000
	case "OUNCES":
		return value * gramsPerOunce
	case "POUNDS":
		return value * gramsPerOunce * 16
	default:
		return 0
	}
}

type orderLookupResponse struct {
	Orders []struct {
		ID int64 `json:"id"`
	} `json:"orders"`
}

type fulfillmentOrdersResponse struct {
	FulfillmentOrders []struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	} `json:"fulfillment_orders"`
}

type fulfillmentRequest struct {
	Fulfillment struct {
		LineItemsByFulfillmentOrder []struct {
			FulfillmentOrderID int64 `json:"fulfillment_order_id"`
		} `json:"line_items_by_fulfillment_order"`
		TrackingInfo struct {
			Number  string `json:"number"`
			URL     string `json:"url,omitempty"`
			Company string `json:"company,omitempty"`
		} `json:"tracking_info"`
		NotifyCustomer bool `json:"notify_customer"`
	} `json:"fulfillment"`
}

type fulfillmentResponse struct {
	Fulfillment struct {
		ID int64 `json:"id"`
	} `json:"fulfillment"`
}

// CreateFulfillment pushes tracking data for a shipped order. The first
// labeled shipment supplies the tracking info; Shopify accepts one tracking
// number per fulfillment.
func (c *Client) CreateFulfillment(
	ctx context.Context, aggregate *order.Order, shipments []*shipment.Shipment,
) (string, error) {
	if len(shipments) == 0 {
		return "", errs.NewValueIsRequiredError("shipments")
	}

	orderID, err := c.lookupOrderID(ctx, aggregate.OrderNumber())
	if err != nil {
		return "", err
	}

	fulfillmentOrderID, err := c.lookupOpenFulfillmentOrder(ctx, orderID)
	if err != nil {
		return "", err
	}

	var req fulfillmentRequest
	req.Fulfillment.LineItemsByFulfillmentOrder = []struct {
		FulfillmentOrderID int64 `json:"fulfillment_order_id"`
	}{{FulfillmentOrderID: fulfillmentOrderID}}
	req.Fulfillment.TrackingInfo.Number = shipments[0].TrackingNumber()
	req.Fulfillment.TrackingInfo.URL = shipments[0].TrackingURL()
	req.Fulfillment.TrackingInfo.Company = shipments[0].Carrier()
	req.Fulfillment.NotifyCustomer = true

	var resp fulfillmentResponse
	path := fmt.Sprintf("/admin/api/%s/fulfillments.json", c.apiVersion)
	if err := c.post(ctx, path, req, &resp); err != nil {
		return "", err
	}
	if resp.Fulfillment.ID == 0 {
		return "", fmt.Errorf("shopify returned no fulfillment id for order %s", aggregate.OrderNumber())
	}

	c.logger.Info("fulfillment created",
		"order_number", aggregate.OrderNumber(),
		"fulfillment_id", resp.Fulfillment.ID,
		"tracking_number", req.Fulfillment.TrackingInfo.Number)

	return fmt.Sprintf("%d", resp.Fulfillment.ID), nil
}

func (c *Client) lookupOrderID(ctx context.Context, orderNumber string) (int64, error) {
	path := fmt.Sprintf("/admin/api/%s/orders.json?name=%s&status=any&fields=id",
		c.apiVersion, url.QueryEscape(orderNumber))

	var resp orderLookupResponse
	if _, err := c.get(ctx, path, &resp); err != nil {
		return 0, err
	}
	if len(resp.Orders) == 0 {
		return 0, fmt.Errorf("shopify order %s not found", orderNumber)
	}
	return resp.Orders[0].ID, nil
}

func (c *Client) lookupOpenFulfillmentOrder(ctx context.Context, orderID int64) (int64, error) {
	path := fmt.Sprintf("/admin/api/%s/orders/%d/fulfillment_orders.json", c.apiVersion, orderID)

	var resp fulfillmentOrdersResponse
	if _, err := c.get(ctx, path, &resp); err != nil {
		return 0, err
	}

	for _, fo := range resp.FulfillmentOrders {
		if fo.Status == "open" || fo.Status == "in_progress" {
			return fo.ID, nil
		}
	}
	return 0, fmt.Errorf("no open fulfillment order for shopify order %d", orderID)
}

func (c *Client) get(ctx context.Context, path string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("shopify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, fmt.Errorf("shopify returned status %d: %s", resp.StatusCode, string(data))
	}

	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shopify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("shopify returned status %d: %s", resp.StatusCode, string(data))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
