// Package shipment contains the Shipment entity and the ShipmentGroup
// aggregate that collects the shipments of one multi-box order.
package shipment

import (
	"bytes"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// pdfMarker is the leading byte sequence of a PDF label payload. Raw ZPL
// labels start with printer commands instead, so sniffing the prefix is
// sufficient to pick the print-job type.
var pdfMarker = []byte("%PDF")

var (
	// ErrShipmentIsNotConstructed is returned when a Shipment instance was not
	// created through the NewShipment factory method.
	ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment constructor")

	// ErrFulfillmentAlreadyRecorded is returned when a shipment already carries
	// an external fulfillment id.
	ErrFulfillmentAlreadyRecorded = errors.New("external fulfillment already recorded")
)

// Shipment is one purchased label for one packed box. It is created exactly
// once per successful label purchase and never mutated afterwards, except to
// record the external fulfillment id once tracking is pushed upstream.
type Shipment struct {
	id           kernel.UUID
	orderID      kernel.UUID
	boxID        kernel.UUID
	boxName      string
	sequence     int
	lineIDs      []kernel.UUID
	weightG      float64
	carrier      string
	service      string
	trackingNum  string
	trackingURL  string
	labelURL     string
	labelPayload []byte
	cost         float64
	currency     string
	purchasedAt  time.Time

	externalFulfillmentID string

	isConstructed bool
}

// NewShipment creates a Shipment for a packed box after a successful label
// purchase. Weight is the full parcel weight (items plus box tare) in grams;
// sequence is the 1-based box number within the order.
func NewShipment(
	id, orderID, boxID kernel.UUID,
	boxName string,
	sequence int,
	lineIDs []kernel.UUID,
	weightG float64,
	carrier, service, trackingNum, trackingURL, labelURL string,
	labelPayload []byte,
	cost float64,
	currency string,
	purchasedAt time.Time,
) (*Shipment, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), boxID.Validate()); err != nil {
		return nil, err
	}
	if sequence < 1 {
		return nil, errs.NewValueIsOutOfRangeError("sequence", sequence, 1, "unbounded")
	}
	if weightG <= 0 {
		return nil, errs.NewValueIsInvalidError("weightG")
	}

	return &Shipment{
		id:            id,
		orderID:       orderID,
		boxID:         boxID,
		boxName:       boxName,
		sequence:      sequence,
		lineIDs:       lineIDs,
		weightG:       weightG,
		carrier:       carrier,
		service:       service,
		trackingNum:   trackingNum,
		trackingURL:   trackingURL,
		labelURL:      labelURL,
		labelPayload:  labelPayload,
		cost:          cost,
		currency:      currency,
		purchasedAt:   purchasedAt,
		isConstructed: true,
	}, nil
}

// RestoreShipment reconstructs a Shipment from persistence, including a
// previously recorded external fulfillment id. Used by repositories only.
func RestoreShipment(
	id, orderID, boxID kernel.UUID,
	boxName string,
	sequence int,
	lineIDs []kernel.UUID,
	weightG float64,
	carrier, service, trackingNum, trackingURL, labelURL string,
	labelPayload []byte,
	cost float64,
	currency string,
	purchasedAt time.Time,
	externalFulfillmentID string,
) (*Shipment, error) {
	s, err := NewShipment(id, orderID, boxID, boxName, sequence, lineIDs, weightG,
		carrier, service, trackingNum, trackingURL, labelURL, labelPayload, cost, currency, purchasedAt)
	if err != nil {
		return nil, err
	}

	s.externalFulfillmentID = externalFulfillmentID
	return s, nil
}

// Validate ensures the Shipment was created through a constructor.
func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

// ID returns the shipment identifier.
func (s *Shipment) ID() kernel.UUID { return s.id }

// OrderID returns the owning order's identifier.
func (s *Shipment) OrderID() kernel.UUID { return s.orderID }

// BoxID returns the catalog id of the box used.
func (s *Shipment) BoxID() kernel.UUID { return s.boxID }

// BoxName returns the catalog name of the box used.
func (s *Shipment) BoxName() string { return s.boxName }

// Sequence returns the 1-based box number within the order.
func (s *Shipment) Sequence() int { return s.sequence }

// LineIDs returns the order line ids packed into this box.
func (s *Shipment) LineIDs() []kernel.UUID { return s.lineIDs }

// Weight returns the full parcel weight in grams, box tare included.
func (s *Shipment) Weight() float64 { return s.weightG }

// Carrier returns the carrier name of the purchased rate.
func (s *Shipment) Carrier() string { return s.carrier }

// Service returns the service level of the purchased rate.
func (s *Shipment) Service() string { return s.service }

// TrackingNumber returns the carrier tracking number.
func (s *Shipment) TrackingNumber() string { return s.trackingNum }

// TrackingURL returns the carrier tracking page URL.
func (s *Shipment) TrackingURL() string { return s.trackingURL }

// LabelURL returns the URL the label payload was downloaded from.
func (s *Shipment) LabelURL() string { return s.labelURL }

// LabelPayload returns the raw label bytes: ZPL text or a PDF stream.
func (s *Shipment) LabelPayload() []byte { return s.labelPayload }

// Cost returns the purchase price of the label.
func (s *Shipment) Cost() float64 { return s.cost }

// Currency returns the purchase currency.
func (s *Shipment) Currency() string { return s.currency }

// PurchasedAt returns the label purchase timestamp.
func (s *Shipment) PurchasedAt() time.Time { return s.purchasedAt }

// ExternalFulfillmentID returns the marketplace fulfillment id once tracking
// was pushed upstream, empty before that.
func (s *Shipment) ExternalFulfillmentID() string { return s.externalFulfillmentID }

// HasLabelData reports whether a label payload was stored. This is the sole
// discriminator between a completed purchase and a failed prior attempt.
func (s *Shipment) HasLabelData() bool {
	return len(s.labelPayload) > 0
}

// IsPDFLabel sniffs the payload for the PDF marker bytes. PDF labels need
// conversion by the printer agent before transmission.
func (s *Shipment) IsPDFLabel() bool {
	return bytes.HasPrefix(s.labelPayload, pdfMarker)
}

// RecordExternalFulfillment stores the marketplace fulfillment id. The id can
// be recorded only once; shipping already happened, so it is never cleared.
func (s *Shipment) RecordExternalFulfillment(fulfillmentID string) error {
	if fulfillmentID == "" {
		return errs.NewValueIsRequiredError("fulfillmentID")
	}
	if s.externalFulfillmentID != "" {
		return ErrFulfillmentAlreadyRecorded
	}
	s.externalFulfillmentID = fulfillmentID
	return nil
}
