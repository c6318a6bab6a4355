// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with proper indexing
// for efficient querying by fulfillment status.
type OrderDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderNumber       string     `gorm:"uniqueIndex"`
	Address           AddressDTO `gorm:"embedded;embeddedPrefix:ship_"`
	Status            int        `gorm:"index"`
	ErrorMessage      string
	RiskLevel         string
	RequestedShipping string
	Lines             []OrderLineDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents the embedded shipping destination within the order table.
type AddressDTO struct {
	Name    string
	Street1 string
	Street2 string
	City    string
	State   string
	Zip     string
	Country string
	Phone   string
	Email   string
}

// OrderLineDTO represents one order line row.
type OrderLineDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID `gorm:"type:uuid;index"`
	SKU              string
	Title            string
	VariantID        string
	Quantity         int
	UnitWeightG      float64
	RequiresShipping bool
}

// TableName specifies the database table name for order lines.
func (OrderLineDTO) TableName() string {
	return "order_lines"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	addr := aggregate.ShippingAddress()
	lines := make([]OrderLineDTO, 0, len(aggregate.Lines()))
	for _, line := range aggregate.Lines() {
		lines = append(lines, OrderLineDTO{
			ID:               line.ID().Bytes(),
			OrderID:          aggregate.ID().Bytes(),
			SKU:              line.SKU(),
			Title:            line.Title(),
			VariantID:        line.VariantID(),
			Quantity:         line.Quantity(),
			UnitWeightG:      line.UnitWeight(),
			RequiresShipping: line.RequiresShipping(),
		})
	}

	return OrderDTO{
		ID:          aggregate.ID().Bytes(),
		OrderNumber: aggregate.OrderNumber(),
		Address: AddressDTO{
			Name:    addr.Name(),
			Street1: addr.Street1(),
			Street2: addr.Street2(),
			City:    addr.City(),
			State:   addr.State(),
			Zip:     addr.Zip(),
			Country: addr.Country(),
			Phone:   addr.Phone(),
			Email:   addr.Email(),
		},
		Status:            int(aggregate.Status()),
		ErrorMessage:      aggregate.ErrorMessage(),
		RiskLevel:         string(aggregate.RiskLevel()),
		RequestedShipping: aggregate.RequestedShippingMethod(),
		Lines:             lines,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status and lines using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	addr, err := kernel.NewAddress(
		dto.Address.Name,
		dto.Address.Street1,
		dto.Address.Street2,
		dto.Address.City,
		dto.Address.State,
		dto.Address.Zip,
		dto.Address.Country,
		dto.Address.Phone,
		dto.Address.Email,
	)
	if err != nil {
		return nil, err
	}

	lines := make([]order.OrderLine, 0, len(dto.Lines))
	for _, lineDTO := range dto.Lines {
		lineID, lineErr := kernel.UUIDFromBytes(lineDTO.ID[:])
		if lineErr != nil {
			return nil, lineErr
		}
		line, lineErr := order.NewLine(
			lineID,
			lineDTO.SKU,
			lineDTO.Title,
			lineDTO.VariantID,
			lineDTO.Quantity,
			lineDTO.UnitWeightG,
			lineDTO.RequiresShipping,
		)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		addr,
		lines,
		order.Status(dto.Status),
		dto.ErrorMessage,
		order.RiskLevel(dto.RiskLevel),
		dto.RequestedShipping,
	)
}
