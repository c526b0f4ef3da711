package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
)

// Loan is one borrowing transaction for one employee. DeletedAt is a plain
// nullable timestamp rather than gorm.DeletedAt: soft deletion here has
// domain semantics (allocation reversal, audit retention) and must never be
// applied implicitly by the ORM.
type Loan struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID  uuid.UUID        `gorm:"column:employee_id;type:uuid;not null;index"`
	CreatedByID uuid.UUID        `gorm:"column:created_by_id;type:uuid;not null"`
	Status      enums.LoanStatus `gorm:"column:status;not null;default:'OPEN'"`
	OpenedAt    time.Time        `gorm:"column:opened_at;not null"`
	ClosedAt    *time.Time       `gorm:"column:closed_at"`

	PickupSignatureURL *string    `gorm:"column:pickup_signature_url"`
	PickupSignedAt     *time.Time `gorm:"column:pickup_signed_at"`
	ReturnSignatureURL *string    `gorm:"column:return_signature_url"`
	ReturnSignedAt     *time.Time `gorm:"column:return_signed_at"`

	DeletedAt   *time.Time `gorm:"column:deleted_at;index"`
	DeletedByID *uuid.UUID `gorm:"column:deleted_by_id;type:uuid"`

	Employee *Employee  `gorm:"foreignKey:EmployeeID"`
	Lines    []LoanLine `gorm:"foreignKey:LoanID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IsDeleted reports whether the loan has been soft-deleted.
func (l Loan) IsDeleted() bool {
	return l.DeletedAt != nil
}

// IsOpen reports whether the loan is open and not soft-deleted.
func (l Loan) IsOpen() bool {
	return l.Status == enums.LoanStatusOpen && !l.IsDeleted()
}
