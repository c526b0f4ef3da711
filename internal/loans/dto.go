package loans

import (
	"time"

	"github.com/google/uuid"

	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
)

// LoanDTO represents the loan payload returned to clients.
type LoanDTO struct {
	ID                 uuid.UUID     `json:"id"`
	EmployeeID         uuid.UUID     `json:"employee_id"`
	EmployeeName       string        `json:"employee_name,omitempty"`
	CreatedByID        uuid.UUID     `json:"created_by_id"`
	Status             string        `json:"status"`
	OpenedAt           time.Time     `json:"opened_at"`
	ClosedAt           *time.Time    `json:"closed_at,omitempty"`
	PickupSignatureURL *string       `json:"pickup_signature_url,omitempty"`
	PickupSignedAt     *time.Time    `json:"pickup_signed_at,omitempty"`
	ReturnSignatureURL *string       `json:"return_signature_url,omitempty"`
	ReturnSignedAt     *time.Time    `json:"return_signed_at,omitempty"`
	DeletedAt          *time.Time    `json:"deleted_at,omitempty"`
	Lines              []LoanLineDTO `json:"lines"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// LoanLineDTO represents one allocation on a loan.
type LoanLineDTO struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	AssetItemID *uuid.UUID `json:"asset_item_id,omitempty"`
	StockItemID *uuid.UUID `json:"stock_item_id,omitempty"`
	Quantity    int        `json:"quantity"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BatchDeleteDTO reports the per-loan outcome of a batch soft delete.
type BatchDeleteDTO struct {
	Deleted []uuid.UUID `json:"deleted"`
	Skipped []uuid.UUID `json:"skipped"`
}

// NewLoanDTO maps the loan aggregate to its response payload.
func NewLoanDTO(loan *models.Loan) *LoanDTO {
	if loan == nil {
		return nil
	}
	dto := &LoanDTO{
		ID:                 loan.ID,
		EmployeeID:         loan.EmployeeID,
		CreatedByID:        loan.CreatedByID,
		Status:             string(loan.Status),
		OpenedAt:           loan.OpenedAt,
		ClosedAt:           loan.ClosedAt,
		PickupSignatureURL: loan.PickupSignatureURL,
		PickupSignedAt:     loan.PickupSignedAt,
		ReturnSignatureURL: loan.ReturnSignatureURL,
		ReturnSignedAt:     loan.ReturnSignedAt,
		DeletedAt:          loan.DeletedAt,
		Lines:              make([]LoanLineDTO, 0, len(loan.Lines)),
		CreatedAt:          loan.CreatedAt,
		UpdatedAt:          loan.UpdatedAt,
	}
	if loan.Employee != nil {
		dto.EmployeeName = loan.Employee.FirstName + " " + loan.Employee.LastName
	}
	for _, line := range loan.Lines {
		dto.Lines = append(dto.Lines, LoanLineDTO{
			ID:          line.ID,
			Kind:        string(line.Kind),
			AssetItemID: line.AssetItemID,
			StockItemID: line.StockItemID,
			Quantity:    line.Quantity,
			CreatedAt:   line.CreatedAt,
		})
	}
	return dto
}

// NewLoanDTOs maps a list of loan aggregates.
func NewLoanDTOs(loans []models.Loan) []*LoanDTO {
	dtos := make([]*LoanDTO, 0, len(loans))
	for i := range loans {
		dtos = append(dtos, NewLoanDTO(&loans[i]))
	}
	return dtos
}

// NewBatchDeleteDTO maps the batch result payload.
func NewBatchDeleteDTO(result *BatchDeleteResult) *BatchDeleteDTO {
	if result == nil {
		return nil
	}
	dto := &BatchDeleteDTO{
		Deleted: result.Deleted,
		Skipped: result.Skipped,
	}
	if dto.Deleted == nil {
		dto.Deleted = []uuid.UUID{}
	}
	if dto.Skipped == nil {
		dto.Skipped = []uuid.UUID{}
	}
	return dto
}
