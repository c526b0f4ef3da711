package loans

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
)

// Repository exposes persistence helpers for loans and their lines.
// MarkClosed and MarkDeleted are conditional claims: the transition
// engine executes them before any ledger release so two concurrent
// terminal transitions cannot both reverse the same allocations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, loan *models.Loan) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Loan, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Loan, error)
	ListActive(ctx context.Context) ([]models.Loan, error)

	CreateLine(ctx context.Context, line *models.LoanLine) error
	FindLine(ctx context.Context, loanID, lineID uuid.UUID) (*models.LoanLine, error)
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	Lines(ctx context.Context, loanID uuid.UUID) ([]models.LoanLine, error)

	UpdateSignature(ctx context.Context, loanID uuid.UUID, kind enums.SignatureKind, url *string, signedAt *time.Time) (claimResult, error)
	SignatureURLs(ctx context.Context) ([]string, error)

	ClaimOpen(ctx context.Context, loanID uuid.UUID, now time.Time) (claimResult, error)
	MarkClosed(ctx context.Context, loanID uuid.UUID, now time.Time) (claimResult, error)
	MarkDeleted(ctx context.Context, loanID, actorID uuid.UUID, now time.Time, openOnly bool) (claimResult, error)
}

// claimResult reports a conditional terminal transition. Claimed means
// this caller won; Found distinguishes a lost race from a missing row.
type claimResult struct {
	Claimed bool
	Found   bool
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a loans repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, loan *models.Loan) error {
	if loan.ID == uuid.Nil {
		loan.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(loan).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	var loan models.Loan
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Employee").
		First(&loan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *repositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Loan, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var loans []models.Loan
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id IN ?", ids).
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *repositoryImpl) ListActive(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Employee").
		Where("deleted_at IS NULL").
		Order("opened_at DESC").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *repositoryImpl) CreateLine(ctx context.Context, line *models.LoanLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *repositoryImpl) FindLine(ctx context.Context, loanID, lineID uuid.UUID) (*models.LoanLine, error) {
	var line models.LoanLine
	if err := r.db.WithContext(ctx).
		First(&line, "id = ? AND loan_id = ?", lineID, loanID).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repositoryImpl) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.LoanLine{}, "id = ?", lineID).Error
}

func (r *repositoryImpl) Lines(ctx context.Context, loanID uuid.UUID) ([]models.LoanLine, error) {
	var lines []models.LoanLine
	if err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// UpdateSignature writes the signature columns for kind. The write is
// conditional on the loan not being soft-deleted so a racing delete
// cannot gain a signature afterward.
func (r *repositoryImpl) UpdateSignature(ctx context.Context, loanID uuid.UUID, kind enums.SignatureKind, url *string, signedAt *time.Time) (claimResult, error) {
	columns := map[string]interface{}{}
	switch kind {
	case enums.SignatureKindPickup:
		columns["pickup_signature_url"] = url
		columns["pickup_signed_at"] = signedAt
	case enums.SignatureKindReturn:
		columns["return_signature_url"] = url
		columns["return_signed_at"] = signedAt
	}
	result := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ? AND deleted_at IS NULL", loanID).
		UpdateColumns(columns)
	return r.resolveClaim(ctx, result, loanID)
}

// SignatureURLs returns every signature URL currently referenced by a
// loan. Soft-deleted loans are included so their images stay intact.
func (r *repositoryImpl) SignatureURLs(ctx context.Context) ([]string, error) {
	var urls []string
	for _, column := range []string{"pickup_signature_url", "return_signature_url"} {
		var values []string
		if err := r.db.WithContext(ctx).
			Model(&models.Loan{}).
			Where(column + " IS NOT NULL").
			Pluck(column, &values).Error; err != nil {
			return nil, err
		}
		urls = append(urls, values...)
	}
	return urls, nil
}

// ClaimOpen touches the loan row conditionally on it still being OPEN
// and not deleted. Line mutations issue this as their first write so
// the row lock serializes them against MarkClosed and MarkDeleted; a
// plain SELECT would not, and a close could then preload lines that an
// in-flight mutation is about to commit.
func (r *repositoryImpl) ClaimOpen(ctx context.Context, loanID uuid.UUID, now time.Time) (claimResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ? AND status = ? AND deleted_at IS NULL", loanID, enums.LoanStatusOpen).
		UpdateColumn("updated_at", now)
	return r.resolveClaim(ctx, result, loanID)
}

// MarkClosed claims the OPEN -> CLOSED transition.
func (r *repositoryImpl) MarkClosed(ctx context.Context, loanID uuid.UUID, now time.Time) (claimResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ? AND status = ? AND deleted_at IS NULL", loanID, enums.LoanStatusOpen).
		UpdateColumns(map[string]interface{}{
			"status":    enums.LoanStatusClosed,
			"closed_at": now,
		})
	return r.resolveClaim(ctx, result, loanID)
}

// MarkDeleted claims the soft-delete flag. With openOnly the claim only
// applies to OPEN loans; the batch path relaxes that to "not already
// deleted".
func (r *repositoryImpl) MarkDeleted(ctx context.Context, loanID, actorID uuid.UUID, now time.Time, openOnly bool) (claimResult, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ? AND deleted_at IS NULL", loanID)
	if openOnly {
		query = query.Where("status = ?", enums.LoanStatusOpen)
	}
	result := query.UpdateColumns(map[string]interface{}{
		"deleted_at":    now,
		"deleted_by_id": actorID,
	})
	return r.resolveClaim(ctx, result, loanID)
}

func (r *repositoryImpl) resolveClaim(ctx context.Context, result *gorm.DB, loanID uuid.UUID) (claimResult, error) {
	if result.Error != nil {
		return claimResult{}, result.Error
	}
	if result.RowsAffected > 0 {
		return claimResult{Claimed: true, Found: true}, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ?", loanID).
		Count(&count).Error; err != nil {
		return claimResult{}, err
	}
	return claimResult{Found: count > 0}, nil
}
