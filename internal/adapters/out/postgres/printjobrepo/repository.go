package printjobrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/printjob"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.PrintJobRepository = &GormPrintJobRepository{}

// leaseExpiredMessage is recorded on jobs whose agent never reported back.
const leaseExpiredMessage = "print job lease expired"

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormPrintJobRepository implements the print job queue on Postgres.
// Lease exclusivity relies on conditional updates guarded by the current
// status, not on row locks, so concurrent pollers stay contention-free.
type GormPrintJobRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormPrintJobRepository creates a new GORM print job repository.
func NewGormPrintJobRepository(db *gorm.DB, tracker aggregateTracker) *GormPrintJobRepository {
	return &GormPrintJobRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add persists a new print job.
func (r *GormPrintJobRepository) Add(ctx context.Context, job *printjob.PrintJob) error {
	if err := job.Validate(); err != nil {
		return err
	}

	dto := fromDomain(job)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(job.ID(), job)
	return nil
}

// Update persists the mutable queue fields of an existing job.
func (r *GormPrintJobRepository) Update(ctx context.Context, job *printjob.PrintJob) error {
	if err := job.Validate(); err != nil {
		return err
	}

	dto := fromDomain(job)
	result := r.db.WithContext(ctx).
		Model(&PrintJobDTO{}).
		Where("id = ?", dto.ID).
		Select("Status", "Attempts", "ErrorMessage", "UpdatedAt", "CompletedAt").
		Updates(dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(job.ID(), job)
	return nil
}

// Get retrieves a print job by its identifier.
func (r *GormPrintJobRepository) Get(ctx context.Context, id kernel.UUID) (*printjob.PrintJob, error) {
	dto := PrintJobDTO{}

	result := r.db.WithContext(ctx).First(&dto, id.Bytes())
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("print job", id.String())
		}
		return nil, result.Error
	}

	return toDomain(dto)
}

// GetByOrder retrieves every job created for an order, oldest first.
func (r *GormPrintJobRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*printjob.PrintJob, error) {
	var dtos []PrintJobDTO

	result := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at").
		Find(&dtos)
	if result.Error != nil {
		return nil, result.Error
	}

	jobs := make([]*printjob.PrintJob, 0, len(dtos))
	for _, dto := range dtos {
		job, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// CountUncompletedByOrder counts the order's jobs not yet completed.
func (r *GormPrintJobRepository) CountUncompletedByOrder(ctx context.Context, orderID kernel.UUID) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&PrintJobDTO{}).
		Where("order_id = ? AND status != ?", orderID.Bytes(), int(printjob.Completed)).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// LeasePending claims up to limit pending jobs for the polling agent. Each
// candidate is transitioned with a conditional update keyed on its pending
// status; a candidate another poller claimed first affects zero rows and is
// skipped, so no job is ever handed to two agents.
func (r *GormPrintJobRepository) LeasePending(ctx context.Context, printerID string, limit int) ([]*printjob.PrintJob, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", int(printjob.Pending)).
		Order("created_at").
		Limit(limit)
	if printerID == "" {
		query = query.Where("printer_id IS NULL")
	} else {
		query = query.Where("printer_id IS NULL OR printer_id = ?", printerID)
	}

	var candidates []PrintJobDTO
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	leased := make([]*printjob.PrintJob, 0, len(candidates))
	for _, dto := range candidates {
		result := r.db.WithContext(ctx).
			Model(&PrintJobDTO{}).
			Where("id = ? AND status = ?", dto.ID, int(printjob.Pending)).
			Updates(map[string]any{
				"status":     int(printjob.Printing),
				"attempts":   gorm.Expr("attempts + 1"),
				"updated_at": now,
			})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			continue
		}

		dto.Status = int(printjob.Printing)
		dto.Attempts++
		dto.UpdatedAt = now

		job, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		leased = append(leased, job)
	}
	return leased, nil
}

// ReclaimStale resolves printing jobs whose lease aged past leaseDuration:
// jobs with attempts left return to pending, exhausted ones are failed.
func (r *GormPrintJobRepository) ReclaimStale(ctx context.Context, leaseDuration time.Duration, maxAttempts int) error {
	now := time.Now().UTC()
	cutoff := now.Add(-leaseDuration)

	err := r.db.WithContext(ctx).
		Model(&PrintJobDTO{}).
		Where("status = ? AND updated_at < ? AND attempts < ?",
			int(printjob.Printing), cutoff, maxAttempts).
		Updates(map[string]any{
			"status":        int(printjob.Pending),
			"error_message": leaseExpiredMessage,
			"updated_at":    now,
		}).Error
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&PrintJobDTO{}).
		Where("status = ? AND updated_at < ? AND attempts >= ?",
			int(printjob.Printing), cutoff, maxAttempts).
		Updates(map[string]any{
			"status":        int(printjob.Failed),
			"error_message": leaseExpiredMessage,
			"updated_at":    now,
		}).Error
}
