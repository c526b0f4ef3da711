package models

import (
	"time"

	"github.com/google/uuid"
)

// StockItem is a consumable counted in bulk. Quantity is the capacity and
// only changes through manual adjustment; loaned only changes through loan
// transitions. 0 <= loaned <= quantity holds at all times.
type StockItem struct {
	ID           uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	AssetModelID uuid.UUID   `gorm:"column:asset_model_id;type:uuid;not null;index"`
	Quantity     int         `gorm:"column:quantity;not null;default:0"`
	Loaned       int         `gorm:"column:loaned;not null;default:0"`
	Notes        *string     `gorm:"column:notes"`
	Model        *AssetModel `gorm:"foreignKey:AssetModelID"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// Available returns the quantity not currently allocated to a loan.
func (s StockItem) Available() int {
	return s.Quantity - s.Loaned
}
