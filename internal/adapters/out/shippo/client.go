// Package shippo implements rate shopping and label purchase against the
// Shippo carrier aggregator API.
package shippo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const defaultBaseURL = "https://api.goshippo.com"

// fallbackShipperPhone is sent when neither the origin address nor the
// configuration provides a phone. Shippo rejects addresses without one.
const fallbackShipperPhone = "555-555-5555"

const fallbackEmail = "no-reply@example.com"

var _ ports.RateShopper = &Client{}

// Config holds the settings for the Shippo client.
type Config struct {
	APIKey       string
	ShipperPhone string
	// BaseURL overrides the production API endpoint, used in tests.
	BaseURL string
	Timeout time.Duration
}

// Client calls the Shippo REST API. Labels are requested in ZPLII format,
// but carriers may still return PDF; callers sniff the payload.
type Client struct {
	baseURL      string
	apiKey       string
	shipperPhone string
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewClient creates a Shippo API client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errs.NewValueIsRequiredError("apiKey")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	shipperPhone := cfg.ShipperPhone
	if shipperPhone == "" {
		shipperPhone = fallbackShipperPhone
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       cfg.APIKey,
		shipperPhone: shipperPhone,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger.With("component", "shippo"),
	}, nil
}

type addressPayload struct {
	Name    string `json:"name"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type parcelPayload struct {
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	DistanceUnit string  `json:"distance_unit"`
	Weight       float64 `json:"weight"`
	MassUnit     string  `json:"mass_unit"`
}

type shipmentRequest struct {
	AddressFrom addressPayload  `json:"address_from"`
	AddressTo   addressPayload  `json:"address_to"`
	Parcels     []parcelPayload `json:"parcels"`
	Async       bool            `json:"async"`
}

type apiMessage struct {
	Text   string `json:"text"`
	Code   string `json:"code"`
	Source string `json:"source"`
}

type rateObject struct {
	ObjectID     string `json:"object_id"`
	Provider     string `json:"provider"`
	ServiceLevel struct {
		Name string `json:"name"`
	} `json:"servicelevel"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type shipmentResponse struct {
	Rates    []rateObject `json:"rates"`
	Messages []apiMessage `json:"messages"`
}

type transactionRequest struct {
	Rate          string `json:"rate"`
	LabelFileType string `json:"label_file_type"`
	Async         bool   `json:"async"`
}

type transactionResponse struct {
	Status         string       `json:"status"`
	TrackingNumber string       `json:"tracking_number"`
	TrackingURL    string       `json:"tracking_url_provider"`
	LabelURL       string       `json:"label_url"`
	Messages       []apiMessage `json:"messages"`
}

// GetRates quotes shipping options for a parcel via POST /shipments.
func (c *Client) GetRates(ctx context.Context, req ports.RateRequest) ([]ports.Rate, error) {
	payload := shipmentRequest{
		AddressFrom: c.fromAddress(req.From),
		AddressTo:   toAddress(req.To),
		Parcels: []parcelPayload{{
			Length:       req.Parcel.LengthIn,
			Width:        req.Parcel.WidthIn,
			Height:       req.Parcel.HeightIn,
			DistanceUnit: "in",
			Weight:       req.Parcel.WeightG,
			MassUnit:     "g",
		}},
		Async: false,
	}

	c.logger.Info("requesting rates",
		"to_city", req.To.City(), "to_zip", req.To.Zip(),
		"weight_g", req.Parcel.WeightG)

	var resp shipmentResponse
	if err := c.post(ctx, "/shipments", payload, &resp); err != nil {
		return nil, err
	}

	for _, msg := range resp.Messages {
		c.logger.Warn("shippo message", "source", msg.Source, "text", msg.Text)
	}

	rates := make([]ports.Rate, 0, len(resp.Rates))
	for _, r := range resp.Rates {
		amount, err := strconv.ParseFloat(r.Amount, 64)
		if err != nil {
			c.logger.Warn("skipping rate with unparsable amount",
				"provider", r.Provider, "amount", r.Amount)
			continue
		}
		rates = append(rates, ports.Rate{
			Provider: r.Provider,
			Service:  r.ServiceLevel.Name,
			Amount:   amount,
			Currency: r.Currency,
			RateRef:  r.ObjectID,
		})
	}

	c.logger.Info("received rates", "count", len(rates))
	return rates, nil
}

// PurchaseLabel buys a label for a quoted rate via POST /transactions and
// downloads the label data.
func (c *Client) PurchaseLabel(ctx context.Context, rate ports.Rate) (*ports.Label, error) {
	payload := transactionRequest{
		Rate:          rate.RateRef,
		LabelFileType: "ZPLII",
		Async:         false,
	}

	c.logger.Info("purchasing label", "rate_ref", rate.RateRef, "service", rate.Service)

	var resp transactionResponse
	if err := c.post(ctx, "/transactions", payload, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "SUCCESS" {
		texts := make([]string, 0, len(resp.Messages))
		for _, msg := range resp.Messages {
			texts = append(texts, msg.Text)
		}
		if len(texts) == 0 {
			texts = append(texts, "unknown error")
		}
		return nil, fmt.Errorf("shippo transaction failed: %s", strings.Join(texts, "; "))
	}

	var labelData []byte
	if resp.LabelURL != "" {
		data, err := c.download(ctx, resp.LabelURL)
		if err != nil {
			c.logger.Warn("label download failed", "url", resp.LabelURL, "error", err)
		} else {
			labelData = data
		}
	}

	return &ports.Label{
		TrackingNumber: resp.TrackingNumber,
		TrackingURL:    resp.TrackingURL,
		LabelURL:       resp.LabelURL,
		Payload:        labelData,
		Carrier:        rate.Provider,
		Service:        rate.Service,
		Amount:         rate.Amount,
		Currency:       rate.Currency,
	}, nil
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
	req.Header.Set("Authorization", "ShippoToken "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shippo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("shippo returned status %d: %s", resp.StatusCode, string(data))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("label download returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) fromAddress(from kernel.Address) addressPayload {
	payload := toAddress(from)
	if payload.Phone == "" {
		payload.Phone = c.shipperPhone
	}
	return payload
}

func toAddress(addr kernel.Address) addressPayload {
	name := addr.Name()
	if name == "" {
		name = "Customer"
	}
	email := addr.Email()
	if email == "" {
		email = fallbackEmail
	}

	return addressPayload{
		Name:    name,
		Street1: addr.Street1(),
		Street2: addr.Street2(),
		City:    addr.City(),
		State:   addr.State(),
		Zip:     addr.Zip(),
		Country: addr.Country(),
		Phone:   sanitizePhone(addr.Phone()),
		Email:   email,
	}
}

var (
	phoneExtensionRe = regexp.MustCompile(`(?i)\s*(ext\.?|extension|x)\s*\d+.*$`)
	phoneInvalidRe   = regexp.MustCompile(`[^\d\s\-()+]`)
)

// sanitizePhone strips extension suffixes and characters carriers reject.
func sanitizePhone(phone string) string {
	if phone == "" {
		return ""
	}
	phone = phoneExtensionRe.ReplaceAllString(phone, "")
	phone = phoneInvalidRe.ReplaceAllString(phone, "")
	return strings.Join(strings.Fields(phone), " ")
}
