// Package boxrepo persists the shipping box catalog.
package boxrepo

import (
	"fulfillment/internal/core/domain/model/box"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// BoxDTO represents one catalog row. Dimensions are inches, weights grams.
type BoxDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"uniqueIndex"`
	LengthIn    float64
	WidthIn     float64
	HeightIn    float64
	MaxWeightG  float64
	TareWeightG float64
	Priority    int
	Active      bool `gorm:"index;default:true"`
}

// TableName specifies the database table name for box specs.
func (BoxDTO) TableName() string {
	return "boxes"
}

func fromDomain(spec box.BoxSpec) BoxDTO {
	return BoxDTO{
		ID:          spec.ID().Bytes(),
		Name:        spec.Name(),
		LengthIn:    spec.Length(),
		WidthIn:     spec.Width(),
		HeightIn:    spec.Height(),
		MaxWeightG:  spec.MaxWeight(),
		TareWeightG: spec.TareWeight(),
		Priority:    spec.Priority(),
		Active:      true,
	}
}

func toDomain(dto BoxDTO) (box.BoxSpec, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return box.BoxSpec{}, err
	}

	return box.NewBoxSpec(
		id,
		dto.Name,
		dto.LengthIn,
		dto.WidthIn,
		dto.HeightIn,
		dto.MaxWeightG,
		dto.TareWeightG,
		dto.Priority,
	)
}
