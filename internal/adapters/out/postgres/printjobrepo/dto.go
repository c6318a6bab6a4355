// Package printjobrepo persists the durable print job queue.
package printjobrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/printjob"

	"github.com/google/uuid"
)

// PrintJobDTO represents one print job row. OrderID and ShipmentID are weak
// references so a job survives deletion of its shipment.
type PrintJobDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID      *uuid.UUID `gorm:"type:uuid;index"`
	ShipmentID   *uuid.UUID `gorm:"type:uuid"`
	JobType      string
	Payload      string  `gorm:"type:text"`
	PrinterID    *string `gorm:"index"`
	Status       int     `gorm:"index"`
	Attempts     int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// TableName specifies the database table name for print jobs.
func (PrintJobDTO) TableName() string {
	return "print_jobs"
}

func fromDomain(job *printjob.PrintJob) PrintJobDTO {
	var orderID, shipmentID *uuid.UUID
	if job.OrderID() != nil {
		id := job.OrderID().Bytes()
		orderID = &id
	}
	if job.ShipmentID() != nil {
		id := job.ShipmentID().Bytes()
		shipmentID = &id
	}

	return PrintJobDTO{
		ID:           job.ID().Bytes(),
		OrderID:      orderID,
		ShipmentID:   shipmentID,
		JobType:      string(job.Type()),
		Payload:      job.Payload(),
		PrinterID:    job.PrinterID(),
		Status:       int(job.Status()),
		Attempts:     job.Attempts(),
		ErrorMessage: job.ErrorMessage(),
		CreatedAt:    job.CreatedAt(),
		UpdatedAt:    job.UpdatedAt(),
		CompletedAt:  job.CompletedAt(),
	}
}

func toDomain(dto PrintJobDTO) (*printjob.PrintJob, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var orderID, shipmentID *kernel.UUID
	if dto.OrderID != nil {
		parsed, idErr := kernel.UUIDFromBytes(dto.OrderID[:])
		if idErr != nil {
			return nil, idErr
		}
		orderID = &parsed
	}
	if dto.ShipmentID != nil {
		parsed, idErr := kernel.UUIDFromBytes(dto.ShipmentID[:])
		if idErr != nil {
			return nil, idErr
		}
		shipmentID = &parsed
	}

	return printjob.RestorePrintJob(
		id,
		orderID,
		shipmentID,
		printjob.JobType(dto.JobType),
		dto.Payload,
		dto.PrinterID,
		printjob.Status(dto.Status),
		dto.Attempts,
		dto.ErrorMessage,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.CompletedAt,
	)
}
