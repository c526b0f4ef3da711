package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
)

// AuditLog records a single mutation applied to a business table.
// Entries are written after the mutating transaction commits.
type AuditLog struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	TableName string            `gorm:"column:table_name;not null;index"`
	RecordID  string            `gorm:"column:record_id;not null;index"`
	ActorID   uuid.UUID         `gorm:"column:actor_id;type:uuid;not null"`
	Action    enums.AuditAction `gorm:"column:action;not null"`
	Before    json.RawMessage   `gorm:"column:before"`
	After     json.RawMessage   `gorm:"column:after"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
