package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
)

// LoanLine is one allocation inside a loan: either one asset item
// (quantity always 1) or a quantity of one stock item. Kind decides which
// reference is set; rows are only ever built from inventory.Ref so the
// discriminator cannot drift from the populated column.
type LoanLine struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	LoanID      uuid.UUID          `gorm:"column:loan_id;type:uuid;not null;index"`
	Kind        enums.LoanLineKind `gorm:"column:kind;not null"`
	AssetItemID *uuid.UUID         `gorm:"column:asset_item_id;type:uuid;index"`
	StockItemID *uuid.UUID         `gorm:"column:stock_item_id;type:uuid;index"`
	Quantity    int                `gorm:"column:quantity;not null;default:1"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
}
