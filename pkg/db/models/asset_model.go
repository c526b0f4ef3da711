package models

import (
	"time"

	"github.com/google/uuid"
)

// AssetModel is a catalog entry (e.g. "ThinkPad T14 Gen 4") referenced by
// both uniquely tracked asset items and bulk stock items.
type AssetModel struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Category     *string   `gorm:"column:category"`
	Manufacturer *string   `gorm:"column:manufacturer"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
