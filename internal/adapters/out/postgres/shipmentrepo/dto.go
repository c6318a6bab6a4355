// Package shipmentrepo persists shipment groups and their shipments.
package shipmentrepo

import (
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// GroupDTO represents one shipment group row. An order owns at most one group.
type GroupDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Status    int
	Shipments []ShipmentDTO `gorm:"foreignKey:GroupID"`
}

// TableName specifies the database table name for shipment groups.
func (GroupDTO) TableName() string {
	return "shipment_groups"
}

// ShipmentDTO represents one shipment row. GroupID is nullable so a
// discarded group can unlink its shipments instead of deleting purchase
// records.
type ShipmentDTO struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	GroupID               *uuid.UUID `gorm:"type:uuid;index"`
	OrderID               uuid.UUID  `gorm:"type:uuid;index"`
	BoxID                 uuid.UUID  `gorm:"type:uuid"`
	BoxName               string
	Sequence              int
	LineIDs               string `gorm:"type:text"` // comma-separated uuid list
	WeightG               float64
	Carrier               string
	Service               string
	TrackingNumber        string
	TrackingURL           string
	LabelURL              string
	LabelPayload          []byte `gorm:"type:bytea"`
	Cost                  float64
	Currency              string
	PurchasedAt           time.Time
	ExternalFulfillmentID string
}

// TableName specifies the database table name for shipments.
func (ShipmentDTO) TableName() string {
	return "shipments"
}

func groupFromDomain(group *shipment.ShipmentGroup) GroupDTO {
	groupID := group.ID().Bytes()
	shipments := make([]ShipmentDTO, 0, group.ShipmentCount())
	for _, shp := range group.Shipments() {
		dto := shipmentFromDomain(shp)
		dto.GroupID = &groupID
		shipments = append(shipments, dto)
	}

	return GroupDTO{
		ID:        groupID,
		OrderID:   group.OrderID().Bytes(),
		Status:    int(group.Status()),
		Shipments: shipments,
	}
}

func shipmentFromDomain(shp *shipment.Shipment) ShipmentDTO {
	lineIDs := make([]string, 0, len(shp.LineIDs()))
	for _, lineID := range shp.LineIDs() {
		lineIDs = append(lineIDs, lineID.String())
	}

	return ShipmentDTO{
		ID:                    shp.ID().Bytes(),
		OrderID:               shp.OrderID().Bytes(),
		BoxID:                 shp.BoxID().Bytes(),
		BoxName:               shp.BoxName(),
		Sequence:              shp.Sequence(),
		LineIDs:               strings.Join(lineIDs, ","),
		WeightG:               shp.Weight(),
		Carrier:               shp.Carrier(),
		Service:               shp.Service(),
		TrackingNumber:        shp.TrackingNumber(),
		TrackingURL:           shp.TrackingURL(),
		LabelURL:              shp.LabelURL(),
		LabelPayload:          shp.LabelPayload(),
		Cost:                  shp.Cost(),
		Currency:              shp.Currency(),
		PurchasedAt:           shp.PurchasedAt(),
		ExternalFulfillmentID: shp.ExternalFulfillmentID(),
	}
}

func groupToDomain(dto GroupDTO) (*shipment.ShipmentGroup, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	shipments := make([]*shipment.Shipment, 0, len(dto.Shipments))
	for _, shipmentDTO := range dto.Shipments {
		shp, shpErr := shipmentToDomain(shipmentDTO)
		if shpErr != nil {
			return nil, shpErr
		}
		shipments = append(shipments, shp)
	}

	return shipment.RestoreShipmentGroup(id, orderID, shipment.GroupStatus(dto.Status), shipments)
}

func shipmentToDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	boxID, err := kernel.UUIDFromBytes(dto.BoxID[:])
	if err != nil {
		return nil, err
	}

	var lineIDs []kernel.UUID
	if dto.LineIDs != "" {
		for _, raw := range strings.Split(dto.LineIDs, ",") {
			lineID, lineErr := kernel.UUIDFromString(raw)
			if lineErr != nil {
				return nil, lineErr
			}
			lineIDs = append(lineIDs, lineID)
		}
	}

	return shipment.RestoreShipment(
		id,
		orderID,
		boxID,
		dto.BoxName,
		dto.Sequence,
		lineIDs,
		dto.WeightG,
		dto.Carrier,
		dto.Service,
		dto.TrackingNumber,
		dto.TrackingURL,
		dto.LabelURL,
		dto.LabelPayload,
		dto.Cost,
		dto.Currency,
		dto.PurchasedAt,
		dto.ExternalFulfillmentID,
	)
}
