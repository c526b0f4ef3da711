// Package audit persists a row per mutation applied to a business
// table. Recording happens after the mutating transaction commits, so
// a failed write here never rolls back domain state.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
)

// Recorder writes audit_logs rows.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder returns a recorder bound to the provided database.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// LogCreate records a row creation with its resulting state.
func (r *Recorder) LogCreate(ctx context.Context, table, recordID string, actorID uuid.UUID, after any) error {
	return r.write(ctx, table, recordID, actorID, enums.AuditActionCreate, nil, after)
}

// LogUpdate records a mutation with before and after snapshots.
func (r *Recorder) LogUpdate(ctx context.Context, table, recordID string, actorID uuid.UUID, before, after any) error {
	return r.write(ctx, table, recordID, actorID, enums.AuditActionUpdate, before, after)
}

// LogDelete records a deletion with the state that was removed.
func (r *Recorder) LogDelete(ctx context.Context, table, recordID string, actorID uuid.UUID, before any) error {
	return r.write(ctx, table, recordID, actorID, enums.AuditActionDelete, before, nil)
}

// ListByRecord returns the audit trail for one row, oldest first.
func (r *Recorder) ListByRecord(ctx context.Context, table, recordID string) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	if err := r.db.WithContext(ctx).
		Where("table_name = ? AND record_id = ?", table, recordID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// PurgeOlderThan removes audit rows created before the cutoff and
// reports how many were deleted.
func (r *Recorder) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *Recorder) write(ctx context.Context, table, recordID string, actorID uuid.UUID, action enums.AuditAction, before, after any) error {
	beforeJSON, err := snapshot(before)
	if err != nil {
		return fmt.Errorf("marshal before snapshot: %w", err)
	}
	afterJSON, err := snapshot(after)
	if err != nil {
		return fmt.Errorf("marshal after snapshot: %w", err)
	}

	entry := models.AuditLog{
		ID:        uuid.New(),
		TableName: table,
		RecordID:  recordID,
		ActorID:   actorID,
		Action:    action,
		Before:    beforeJSON,
		After:     afterJSON,
	}
	return r.db.WithContext(ctx).Create(&entry).Error
}

func snapshot(value any) (json.RawMessage, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
