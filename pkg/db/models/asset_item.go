package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
)

// AssetItem is a uniquely tracked physical unit. Its status is PRETE exactly
// while one line of an open, non-deleted loan references it; HS and
// REPARATION are operator-set and never touched by loan transitions.
type AssetItem struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	AssetModelID uuid.UUID         `gorm:"column:asset_model_id;type:uuid;not null;index"`
	AssetTag     *string           `gorm:"column:asset_tag;uniqueIndex"`
	Serial       *string           `gorm:"column:serial;uniqueIndex"`
	Status       enums.AssetStatus `gorm:"column:status;not null;default:'EN_STOCK'"`
	Notes        *string           `gorm:"column:notes"`
	Model        *AssetModel       `gorm:"foreignKey:AssetModelID"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
