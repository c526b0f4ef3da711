// Package loans implements the loan lifecycle: creation, line
// allocation, signatures, closing, and soft deletion. Every operation
// runs as one transaction; terminal transitions claim the loan row
// with a conditional update before touching the ledger so concurrent
// callers cannot double-reverse allocations.
package loans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/mlefebvre/parcinfo-backend/internal/cache"
	"github.com/mlefebvre/parcinfo-backend/internal/inventory"
	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
	pkgerrors "github.com/mlefebvre/parcinfo-backend/pkg/errors"
	"github.com/mlefebvre/parcinfo-backend/pkg/logger"
	"github.com/mlefebvre/parcinfo-backend/pkg/metrics"
)

// Service is the transition engine for the loan lifecycle.
type Service interface {
	CreateLoan(ctx context.Context, employeeID, actorID uuid.UUID) (*models.Loan, error)
	GetLoan(ctx context.Context, loanID uuid.UUID) (*models.Loan, error)
	ListActive(ctx context.Context) ([]models.Loan, error)
	AddLine(ctx context.Context, loanID uuid.UUID, ref inventory.Ref, actorID uuid.UUID) (*models.Loan, error)
	RemoveLine(ctx context.Context, loanID, lineID, actorID uuid.UUID) (*models.Loan, error)
	UploadSignature(ctx context.Context, loanID uuid.UUID, kind enums.SignatureKind, image string, actorID uuid.UUID) (*models.Loan, error)
	DeleteSignature(ctx context.Context, loanID uuid.UUID, kind enums.SignatureKind, actorID uuid.UUID) (*models.Loan, error)
	Close(ctx context.Context, loanID, actorID uuid.UUID) (*models.Loan, error)
	SoftDelete(ctx context.Context, loanID, actorID uuid.UUID) error
	BatchSoftDelete(ctx context.Context, loanIDs []uuid.UUID, actorID uuid.UUID) (*BatchDeleteResult, error)
}

// BatchDeleteResult reports the per-loan outcome of a batch soft delete.
type BatchDeleteResult struct {
	Deleted []uuid.UUID
	Skipped []uuid.UUID
}

type employeeLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
}

type service struct {
	repo       Repository
	dbClient   txRunner
	ledger     inventory.Ledger
	employees  employeeLoader
	cache      CacheInvalidator
	audit      AuditRecorder
	signatures SignatureStore
	metrics    *metrics.TransitionMetrics
	logg       *logger.Logger
	now        func() time.Time
}

// ServiceParams configure the loan transition engine.
type ServiceParams struct {
	Repo       Repository
	DBClient   txRunner
	Ledger     inventory.Ledger
	Employees  employeeLoader
	Cache      CacheInvalidator
	Audit      AuditRecorder
	Signatures SignatureStore
	Metrics    *metrics.TransitionMetrics
	Logger     *logger.Logger
	Now        func() time.Time
}

// NewService constructs the loan transition engine.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("loan repository required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if params.Employees == nil {
		return nil, fmt.Errorf("employee loader required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:       params.Repo,
		dbClient:   params.DBClient,
		ledger:     params.Ledger,
		employees:  params.Employees,
		cache:      params.Cache,
		audit:      params.Audit,
		signatures: params.Signatures,
		metrics:    params.Metrics,
		logg:       params.Logger,
		now:        now,
	}, nil
}

func (s *service) CreateLoan(ctx context.Context, employeeID, actorID uuid.UUID) (*models.Loan, error) {
	var loan *models.Loan
	err := s.instrument(ctx, "create_loan", func() error {
		if _, err := s.employees.FindByID(ctx, employeeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load employee")
		}

		created := &models.Loan{
			ID:          uuid.New(),
			EmployeeID:  employeeID,
			CreatedByID: actorID,
			Status:      enums.LoanStatusOpen,
			OpenedAt:    s.now().UTC(),
		}
		if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			return s.repo.WithTx(tx).Create(ctx, created)
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert loan")
		}
		loan = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordCreate(ctx, "loans", loan.ID.String(), actorID, loan)
	s.invalidate(ctx, cache.NamespaceLoans)
	return s.GetLoan(ctx, loan.ID)
}

func (s *service) GetLoan(ctx context.Context, loanID uuid.UUID) (*models.Loan, error) {
	loan, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "loan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load loan")
	}
	return loan, nil
}

func (s *service) ListActive(ctx context.Context) ([]models.Loan, error) {
	loans, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list loans")
	}
	return loans, nil
}

// AddLine allocates the ref and inserts the loan line in one
// transaction; a lost allocation race rolls back the line as well. The
// transaction opens with a conditional claim on the loan row so a
// concurrent close or delete cannot slip between the status check and
// the line insert.
func (s *service) AddLine(ctx context.Context, loanID uuid.UUID, ref inventory.Ref, actorID uuid.UUID) (*models.Loan, error) {
	var line *models.LoanLine
	err := s.instrument(ctx, "add_line", func() error {
		if err := ref.Validate(); err != nil {
			return err
		}
		return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)

			if err := s.claimOpenLoan(ctx, txRepo, loanID); err != nil {
				return err
			}
			if err := s.ledger.Allocate(ctx, tx, ref); err != nil {
				return err
			}

			line = newLine(loanID, ref)
			if err := txRepo.CreateLine(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert loan line")
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.recordCreate(ctx, "loan_lines", line.ID.String(), actorID, line)
	s.invalidate(ctx, cache.NamespaceLoans, refNamespace(ref))
	return s.GetLoan(ctx, loanID)
}

// RemoveLine reverses the line's allocation and deletes the row. The
// release uses close semantics: stock quantity is untouched, so an
// add/remove round trip restores the exact prior ledger state.
func (s *service) RemoveLine(ctx context.Context, loanID, lineID, actorID uuid.UUID) (*models.Loan, error) {
	var removed *models.LoanLine
	err := s.instrument(ctx, "remove_line", func() error {
		return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)

			if err := s.claimOpenLoan(ctx, txRepo, loanID); err != nil {
				return err
			}

			line, err := txRepo.FindLine(ctx, loanID, lineID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "loan line not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load loan line")
			}

			ref, err := lineRef(*line)
			if err != nil {
				return err
			}
			if err := s.ledger.Release(ctx, tx, ref); err != nil {
				return err
			}
			if err := txRepo.DeleteLine(ctx, line.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete loan line")
			}
			removed = line
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	ref, _ := lineRef(*removed)
	s.recordDelete(ctx, "loan_lines", removed.ID.String(), actorID, removed)
	s.invalidate(ctx, cache.NamespaceLoans, refNamespace(ref))
	return s.GetLoan(ctx, loanID)
}

// UploadSignature stores the image and records its URL with the current
// timestamp. Allowed on CLOSED loans: the return sheet is typically
// signed as part of closing out the loan.
func (s *service) UploadSignature(ctx context.Context, loanID uuid.UUID, kind enums.SignatureKind, image string, actorID uuid.UUID) (*models.Loan, error) {
	err := s.instrument(ctx, "upload_signature", func() error {
		if !kind.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "signature kind must be pickup or return")
		}
		if s.signatures == nil {
			return pkgerrors.New(pkgerrors.CodeDependency, "signature storage is not configured")
		}

		loan, err := s.GetLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.IsDeleted() {
			return pkgerrors.New(pkgerrors.CodeValidation, "loan is deleted")
		}

		url, err := s.signatures.Store(ctx, loanID, kind, image)
		if err != nil {
			return err
		}

		signedAt := s.now().UTC()
		var claim claimResult
		if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			var txErr error
			claim, txErr = s.repo.WithTx(tx).UpdateSignature(ctx, loanID, kind, &url, &signedAt)
			return txErr
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record signature")
		}
		if !claim.Claimed {
			// The loan was deleted (or removed) between the check above
			// and the write; the stored file is now orphaned.
			if err := s.signatures.Remove(ctx, url); err != nil {
				s.logg.Warn(ctx, fmt.Sprintf("remove signature file %s failed: %v", url, err))
			}
			if !claim.Found {
				return pkgerrors.New(pkgerrors.CodeNotFound, "loan not found")
			}
			return pkgerrors.New(pkgerrors.CodeValidation, "loan is deleted")
		}

		s.recordUpdate(ctx, "loans", loanID.String(), actorID, loan, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.NamespaceLoans)
	return s.GetLoan(ctx, loanID)
}

func (s *service) DeleteSignature(ctx context.Context, loanID uuid.UUID, kind enums.SignatureKind, actorID uuid.UUID) (*models.Loan, error) {
	var staleURL string
	err := s.instrument(ctx, "delete_signature", func() error {
		if !kind.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "signature kind must be pickup or return")
		}

		loan, err := s.GetLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.IsDeleted() {
			return pkgerrors.New(pkgerrors.CodeValidation, "loan is deleted")
		}

		url := signatureURL(loan, kind)
		if url == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("loan has no %s signature", kind))
		}
		staleURL = *url

		var claim claimResult
		if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			var txErr error
			claim, txErr = s.repo.WithTx(tx).UpdateSignature(ctx, loanID, kind, nil, nil)
			return txErr
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear signature")
		}
		if !claim.Claimed {
			if !claim.Found {
				return pkgerrors.New(pkgerrors.CodeNotFound, "loan not found")
			}
			return pkgerrors.New(pkgerrors.CodeValidation, "loan is deleted")
		}

		s.recordUpdate(ctx, "loans", loanID.String(), actorID, loan, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The DB row is authoritative; a leftover file is only disk noise.
	if s.signatures != nil {
		if err := s.signatures.Remove(ctx, staleURL); err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("remove signature file %s failed: %v", staleURL, err))
		}
	}
	s.invalidate(ctx, cache.NamespaceLoans)
	return s.GetLoan(ctx, loanID)
}

// Close releases every allocation with close semantics and marks the
// loan CLOSED. The claim runs first: if another caller already closed
// or deleted the loan, no release happens here.
func (s *service) Close(ctx context.Context, loanID, actorID uuid.UUID) (*models.Loan, error) {
	var before *models.Loan
	err := s.instrument(ctx, "close_loan", func() error {
		return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)

			loan, err := txRepo.FindByID(ctx, loanID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "loan not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load loan")
			}
			if loan.IsDeleted() {
				return pkgerrors.New(pkgerrors.CodeValidation, "loan is deleted")
			}
			if loan.Status == enums.LoanStatusClosed {
				return pkgerrors.New(pkgerrors.CodeValidation, "loan already closed")
			}
			before = loan

			claim, err := txRepo.MarkClosed(ctx, loanID, s.now().UTC())
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: close loan")
			}
			if !claim.Claimed {
				return pkgerrors.New(pkgerrors.CodeConflict, "loan was modified concurrently")
			}

			// Lines are read after the claim: the row lock has been
			// held since the update, so no line mutation can still be
			// in flight against this loan.
			lines, err := txRepo.Lines(ctx, loanID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load loan lines")
			}
			return s.reverseLines(ctx, tx, lines, false)
		})
	})
	if err != nil {
		return nil, err
	}

	closed, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	s.recordUpdate(ctx, "loans", loanID.String(), actorID, before, closed)
	s.invalidate(ctx, cache.NamespaceLoans, cache.NamespaceAssetItems, cache.NamespaceStockItems)
	return closed, nil
}

// SoftDelete marks the loan deleted and fully reverses its
// allocations: unlike Close, stock units also return to capacity
// because a deleted loan is treated as never having consumed them.
// CLOSED loans are refused here; see BatchSoftDelete for the batch
// policy.
func (s *service) SoftDelete(ctx context.Context, loanID, actorID uuid.UUID) error {
	var before *models.Loan
	err := s.instrument(ctx, "delete_loan", func() error {
		return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)

			loan, err := txRepo.FindByID(ctx, loanID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "loan not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load loan")
			}
			if loan.IsDeleted() {
				return pkgerrors.New(pkgerrors.CodeValidation, "loan already deleted")
			}
			if loan.Status == enums.LoanStatusClosed {
				return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete a closed loan")
			}
			before = loan

			claim, err := txRepo.MarkDeleted(ctx, loanID, actorID, s.now().UTC(), true)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete loan")
			}
			if !claim.Claimed {
				return pkgerrors.New(pkgerrors.CodeConflict, "loan was modified concurrently")
			}

			lines, err := txRepo.Lines(ctx, loanID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load loan lines")
			}
			return s.reverseLines(ctx, tx, lines, true)
		})
	})
	if err != nil {
		return err
	}

	s.recordDelete(ctx, "loans", loanID.String(), actorID, before)
	s.invalidate(ctx, cache.NamespaceLoans, cache.NamespaceAssetItems, cache.NamespaceStockItems)
	return nil
}

// BatchSoftDelete applies soft-delete reversal semantics to a set of
// loans, each in its own transaction so one failure does not poison
// the rest. The batch path filters only on "not already deleted":
// CLOSED loans may be batch-deleted, and for them nothing is reversed
// since their allocations were already released at close.
func (s *service) BatchSoftDelete(ctx context.Context, loanIDs []uuid.UUID, actorID uuid.UUID) (*BatchDeleteResult, error) {
	result := &BatchDeleteResult{}
	var errs []error

	err := s.instrument(ctx, "batch_delete_loans", func() error {
		if len(loanIDs) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "at least one loan id is required")
		}

		for _, loanID := range loanIDs {
			deleted, err := s.batchDeleteOne(ctx, loanID, actorID)
			if err != nil {
				errs = append(errs, fmt.Errorf("loan %s: %w", loanID, err))
				continue
			}
			if deleted {
				result.Deleted = append(result.Deleted, loanID)
			} else {
				result.Skipped = append(result.Skipped, loanID)
			}
		}
		return multierr.Combine(errs...)
	})

	if len(result.Deleted) > 0 {
		s.invalidate(ctx, cache.NamespaceLoans, cache.NamespaceAssetItems, cache.NamespaceStockItems)
	}
	return result, err
}

func (s *service) batchDeleteOne(ctx context.Context, loanID, actorID uuid.UUID) (bool, error) {
	var (
		before  *models.Loan
		deleted bool
	)
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		loan, err := txRepo.FindByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "loan not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load loan")
		}
		if loan.IsDeleted() {
			return nil
		}
		before = loan

		claim, err := txRepo.MarkDeleted(ctx, loanID, actorID, s.now().UTC(), false)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete loan")
		}
		if !claim.Claimed {
			// Another caller deleted it between load and claim.
			before = nil
			return nil
		}
		deleted = true

		if loan.Status != enums.LoanStatusOpen {
			return nil
		}
		lines, err := txRepo.Lines(ctx, loanID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load loan lines")
		}
		return s.reverseLines(ctx, tx, lines, true)
	})
	if err != nil {
		return false, err
	}

	if deleted && before != nil {
		s.recordDelete(ctx, "loans", loanID.String(), actorID, before)
	}
	return deleted, nil
}

// reverseLines undoes every allocation on the loan. restock selects the
// soft-delete policy (units return to capacity) over the close policy.
func (s *service) reverseLines(ctx context.Context, tx *gorm.DB, lines []models.LoanLine, restock bool) error {
	for _, line := range lines {
		ref, err := lineRef(line)
		if err != nil {
			return err
		}
		if restock {
			err = s.ledger.ReleaseRestock(ctx, tx, ref)
		} else {
			err = s.ledger.Release(ctx, tx, ref)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// claimOpenLoan issues the conditional loan-row touch that anchors a
// line mutation. Winning the claim locks the row for the rest of the
// transaction, so a concurrent terminal transition waits and then sees
// the mutation's effects. Losing it means the loan is gone or no
// longer OPEN; the row is reloaded only to name the reason.
func (s *service) claimOpenLoan(ctx context.Context, repo Repository, loanID uuid.UUID) error {
	claim, err := repo.ClaimOpen(ctx, loanID, s.now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: claim loan")
	}
	if claim.Claimed {
		return nil
	}
	if !claim.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "loan not found")
	}
	loan, err := repo.FindByID(ctx, loanID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load loan")
	}
	if loan.IsDeleted() {
		return pkgerrors.New(pkgerrors.CodeValidation, "loan is deleted")
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "loan is not open")
}

func (s *service) instrument(ctx context.Context, operation string, fn func() error) error {
	start := s.now()
	err := fn()
	s.metrics.ObserveDuration(operation, s.now().Sub(start))
	if err != nil {
		s.metrics.IncFailure(operation)
		return err
	}
	s.metrics.IncSuccess(operation)
	return nil
}

func (s *service) recordCreate(ctx context.Context, table, recordID string, actorID uuid.UUID, after any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogCreate(ctx, table, recordID, actorID, after); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("audit create for %s %s failed: %v", table, recordID, err))
	}
}

func (s *service) recordUpdate(ctx context.Context, table, recordID string, actorID uuid.UUID, before, after any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogUpdate(ctx, table, recordID, actorID, before, after); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("audit update for %s %s failed: %v", table, recordID, err))
	}
}

func (s *service) recordDelete(ctx context.Context, table, recordID string, actorID uuid.UUID, before any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogDelete(ctx, table, recordID, actorID, before); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("audit delete for %s %s failed: %v", table, recordID, err))
	}
}

func (s *service) invalidate(ctx context.Context, namespaces ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, namespaces...); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("cache invalidation for %v failed: %v", namespaces, err))
	}
}

func newLine(loanID uuid.UUID, ref inventory.Ref) *models.LoanLine {
	line := &models.LoanLine{
		ID:       uuid.New(),
		LoanID:   loanID,
		Kind:     ref.Kind(),
		Quantity: ref.Qty(),
	}
	switch ref.Kind() {
	case enums.LoanLineKindAsset:
		id := ref.AssetItemID()
		line.AssetItemID = &id
	case enums.LoanLineKindStock:
		id := ref.StockItemID()
		line.StockItemID = &id
	}
	return line
}

func lineRef(line models.LoanLine) (inventory.Ref, error) {
	switch line.Kind {
	case enums.LoanLineKindAsset:
		if line.AssetItemID == nil {
			return inventory.Ref{}, pkgerrors.New(pkgerrors.CodeInternal, "asset line missing item reference")
		}
		return inventory.AssetRef(*line.AssetItemID), nil
	case enums.LoanLineKindStock:
		if line.StockItemID == nil {
			return inventory.Ref{}, pkgerrors.New(pkgerrors.CodeInternal, "stock line missing item reference")
		}
		return inventory.StockRef(*line.StockItemID, line.Quantity), nil
	default:
		return inventory.Ref{}, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unknown line kind %q", line.Kind))
	}
}

func refNamespace(ref inventory.Ref) string {
	if ref.Kind() == enums.LoanLineKindStock {
		return cache.NamespaceStockItems
	}
	return cache.NamespaceAssetItems
}

func signatureURL(loan *models.Loan, kind enums.SignatureKind) *string {
	if kind == enums.SignatureKindReturn {
		return loan.ReturnSignatureURL
	}
	return loan.PickupSignatureURL
}
