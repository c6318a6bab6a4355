package shipmentrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.ShipmentRepository = &GormShipmentRepository{}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormShipmentRepository persists shipment groups through GORM.
type GormShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormShipmentRepository creates a new GORM shipment repository.
func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormShipmentRepository {
	return &GormShipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// AddGroup inserts a new shipment group together with its shipments.
func (r *GormShipmentRepository) AddGroup(ctx context.Context, group *shipment.ShipmentGroup) error {
	if err := group.Validate(); err != nil {
		return err
	}

	dto := groupFromDomain(group)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(group.ID(), group)
	return nil
}

// UpdateGroup saves the group status and upserts its shipments. Shipments
// attached after the group was first stored are inserted here.
func (r *GormShipmentRepository) UpdateGroup(ctx context.Context, group *shipment.ShipmentGroup) error {
	if err := group.Validate(); err != nil {
		return err
	}

	dto := groupFromDomain(group)
	result := r.db.WithContext(ctx).
		Model(&GroupDTO{}).
		Where("id = ?", dto.ID).
		Update("status", dto.Status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	for i := range dto.Shipments {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&dto.Shipments[i]).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(group.ID(), group)
	return nil
}

// GetGroupByOrder loads the shipment group owned by the given order.
func (r *GormShipmentRepository) GetGroupByOrder(ctx context.Context, orderID kernel.UUID) (*shipment.ShipmentGroup, error) {
	dto := GroupDTO{}

	result := r.db.WithContext(ctx).
		Preload("Shipments", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence")
		}).
		Where("order_id = ?", orderID.Bytes()).
		First(&dto)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment group", orderID.String())
		}
		return nil, result.Error
	}

	return groupToDomain(dto)
}

// DiscardGroup deletes an unlabeled group together with its shipments so
// the order can be repacked from scratch.
func (r *GormShipmentRepository) DiscardGroup(ctx context.Context, group *shipment.ShipmentGroup) error {
	groupID := group.ID().Bytes()

	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&ShipmentDTO{}).Error
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&GroupDTO{}, groupID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
