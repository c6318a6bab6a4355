package boxrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/box"

	"gorm.io/gorm"
)

// GormBoxRepository implements BoxRepository using GORM. The box catalog is
// read-mostly configuration data, so no aggregate tracking is involved.
type GormBoxRepository struct {
	db *gorm.DB
}

// NewGormBoxRepository creates a new GORM box catalog repository.
func NewGormBoxRepository(db *gorm.DB) *GormBoxRepository {
	return &GormBoxRepository{db: db}
}

// Add saves a new box spec to the catalog.
func (r *GormBoxRepository) Add(ctx context.Context, spec box.BoxSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	dto := fromDomain(spec)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetAllActive retrieves every box spec available for packing, ordered by
// max payload then priority to match the packing engine's preference.
func (r *GormBoxRepository) GetAllActive(ctx context.Context) ([]box.BoxSpec, error) {
	var dtos []BoxDTO
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("max_weight_g, priority").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	specs := make([]box.BoxSpec, 0, len(dtos))
	for _, dto := range dtos {
		spec, specErr := toDomain(dto)
		if specErr != nil {
			return nil, specErr
		}
		specs = append(specs, spec)
	}

	return specs, nil
}
