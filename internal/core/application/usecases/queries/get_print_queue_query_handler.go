package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/printjob"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPrintQueueQueryHandler retrieves the uncompleted print job backlog.
type GetPrintQueueQueryHandler struct {
	db *gorm.DB
}

// NewGetPrintQueueQueryHandler creates a handler for print queue queries.
// Requires a GORM database connection for query execution.
func NewGetPrintQueueQueryHandler(db *gorm.DB) GetPrintQueueQueryHandler {
	return GetPrintQueueQueryHandler{db: db}
}

// Handle executes the query to retrieve all uncompleted print jobs.
// Results are sorted oldest first, matching lease order.
func (h GetPrintQueueQueryHandler) Handle(
	ctx context.Context,
	query GetPrintQueueQuery,
) ([]GetPrintQueueQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	jobs := make([]GetPrintQueueQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			job_type,
			status,
			attempts,
			printer_id,
			error_message,
			created_at
		FROM print_jobs
		WHERE status != ?
		ORDER BY created_at
	`, printjob.Completed).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetPrintQueueQueryResponse
		var id uuid.UUID
		var printerID sql.NullString

		err = rows.Scan(
			&id,
			&resp.JobType,
			&resp.Status,
			&resp.Attempts,
			&printerID,
			&resp.ErrorMessage,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		jobID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = jobID
		if printerID.Valid {
			resp.PrinterID = printerID.String
		}
		jobs = append(jobs, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}
