package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlefebvre/parcinfo-backend/internal/cache"
	"github.com/mlefebvre/parcinfo-backend/pkg/db"
	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
	pkgerrors "github.com/mlefebvre/parcinfo-backend/pkg/errors"
	"github.com/mlefebvre/parcinfo-backend/pkg/logger"
)

// Ledger is the allocation surface the loan engine drives from inside
// its own transactions. Implementations must express every mutation as
// a conditional statement against the live row.
type Ledger interface {
	Allocate(ctx context.Context, tx *gorm.DB, ref Ref) error
	Release(ctx context.Context, tx *gorm.DB, ref Ref) error
	ReleaseRestock(ctx context.Context, tx *gorm.DB, ref Ref) error
}

// Service exposes the ledger plus the management surface for asset and
// stock items.
type Service interface {
	Ledger

	CreateModel(ctx context.Context, input CreateModelInput, actorID uuid.UUID) (*models.AssetModel, error)
	ListModels(ctx context.Context) ([]models.AssetModel, error)

	CreateAssetItem(ctx context.Context, input CreateAssetItemInput, actorID uuid.UUID) (*models.AssetItem, error)
	GetAssetItem(ctx context.Context, id uuid.UUID) (*models.AssetItem, error)
	ListAssetItems(ctx context.Context, status *enums.AssetStatus) ([]models.AssetItem, error)
	SetAssetStatus(ctx context.Context, id uuid.UUID, status enums.AssetStatus, actorID uuid.UUID) (*models.AssetItem, error)

	CreateStockItem(ctx context.Context, input CreateStockItemInput, actorID uuid.UUID) (*models.StockItem, error)
	GetStockItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error)
	ListStockItems(ctx context.Context) ([]models.StockItem, error)
	AdjustStockQuantity(ctx context.Context, id uuid.UUID, delta int, actorID uuid.UUID) (*models.StockItem, error)
}

// CreateModelInput holds the validated payload to create a catalog entry.
type CreateModelInput struct {
	Name         string
	Category     *string
	Manufacturer *string
}

// CreateAssetItemInput holds the validated payload to create an asset item.
type CreateAssetItemInput struct {
	AssetModelID uuid.UUID
	AssetTag     *string
	Serial       *string
	Notes        *string
}

// CreateStockItemInput holds the validated payload to create a stock item.
type CreateStockItemInput struct {
	AssetModelID uuid.UUID
	Quantity     int
	Notes        *string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, namespaces ...string) error
}

type auditRecorder interface {
	LogCreate(ctx context.Context, table, recordID string, actorID uuid.UUID, after any) error
	LogUpdate(ctx context.Context, table, recordID string, actorID uuid.UUID, before, after any) error
}

type service struct {
	repo     Repository
	dbClient txRunner
	cache    cacheInvalidator
	audit    auditRecorder
	logg     *logger.Logger
}

// ServiceParams configure the inventory service.
type ServiceParams struct {
	Repo     Repository
	DBClient txRunner
	Cache    cacheInvalidator
	Audit    auditRecorder
	Logger   *logger.Logger
}

// NewService constructs the inventory service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     params.Repo,
		dbClient: params.DBClient,
		cache:    params.Cache,
		audit:    params.Audit,
		logg:     params.Logger,
	}, nil
}

// Allocate claims the ref inside the caller's transaction. A zero-row
// update on an existing asset item means another caller already holds
// it (Conflict); on a stock item it means insufficient availability
// (Validation), matching how each failure should read to the operator.
func (s *service) Allocate(ctx context.Context, tx *gorm.DB, ref Ref) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	txRepo := s.repo.WithTx(tx)

	switch ref.Kind() {
	case enums.LoanLineKindAsset:
		res, err := txRepo.AllocateAsset(ctx, ref.AssetItemID())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: allocate asset item")
		}
		if !res.Found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "asset item not found")
		}
		if !res.Updated {
			return pkgerrors.New(pkgerrors.CodeConflict, "asset item is not available")
		}
	case enums.LoanLineKindStock:
		res, err := txRepo.AllocateStock(ctx, ref.StockItemID(), ref.Qty())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: allocate stock item")
		}
		if !res.Found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
		}
		if !res.Updated {
			return pkgerrors.New(pkgerrors.CodeValidation, "insufficient stock available")
		}
	}
	return nil
}

// Release reverses an allocation for a loan that ran its course: the
// asset item returns to EN_STOCK, the stock item's loaned count drops,
// and stock quantity stays spent.
func (s *service) Release(ctx context.Context, tx *gorm.DB, ref Ref) error {
	return s.release(ctx, tx, ref, false)
}

// ReleaseRestock reverses an allocation for a loan that should never
// have existed: on top of the release, stock units return to capacity.
func (s *service) ReleaseRestock(ctx context.Context, tx *gorm.DB, ref Ref) error {
	return s.release(ctx, tx, ref, true)
}

func (s *service) release(ctx context.Context, tx *gorm.DB, ref Ref, restock bool) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	txRepo := s.repo.WithTx(tx)

	switch ref.Kind() {
	case enums.LoanLineKindAsset:
		res, err := txRepo.ReleaseAsset(ctx, ref.AssetItemID())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: release asset item")
		}
		if !res.Found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "asset item not found")
		}
		// A found-but-unchanged row means the item was not PRETE.
		// Manual statuses are never touched by loan transitions, so
		// the release is a no-op rather than a failure.
		if !res.Updated {
			s.logg.Warn(ctx, fmt.Sprintf("asset item %s released while not loaned", ref.AssetItemID()))
		}
	case enums.LoanLineKindStock:
		var (
			res condResult
			err error
		)
		if restock {
			res, err = txRepo.RestockStock(ctx, ref.StockItemID(), ref.Qty())
		} else {
			res, err = txRepo.ReleaseStock(ctx, ref.StockItemID(), ref.Qty())
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: release stock item")
		}
		if !res.Found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
		}
		if !res.Updated {
			return pkgerrors.New(pkgerrors.CodeConflict, "stock ledger out of balance for release")
		}
	}
	return nil
}

func (s *service) CreateModel(ctx context.Context, input CreateModelInput, actorID uuid.UUID) (*models.AssetModel, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "model name is required")
	}

	model := &models.AssetModel{
		Name:         name,
		Category:     input.Category,
		Manufacturer: input.Manufacturer,
	}
	if err := s.repo.CreateModel(ctx, model); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert asset model")
	}

	s.recordCreate(ctx, "asset_models", model.ID.String(), actorID, model)
	return model, nil
}

func (s *service) ListModels(ctx context.Context) ([]models.AssetModel, error) {
	list, err := s.repo.ListModels(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list asset models")
	}
	return list, nil
}

func (s *service) CreateAssetItem(ctx context.Context, input CreateAssetItemInput, actorID uuid.UUID) (*models.AssetItem, error) {
	if input.AssetModelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset_model_id is required")
	}
	if _, err := s.repo.FindModel(ctx, input.AssetModelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset model not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load asset model")
	}

	item := &models.AssetItem{
		AssetModelID: input.AssetModelID,
		AssetTag:     normalizeTag(input.AssetTag),
		Serial:       normalizeTag(input.Serial),
		Status:       enums.AssetStatusInStock,
		Notes:        input.Notes,
	}
	if err := s.repo.CreateAssetItem(ctx, item); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "asset tag or serial already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert asset item")
	}

	s.recordCreate(ctx, "asset_items", item.ID.String(), actorID, item)
	s.invalidate(ctx, cache.NamespaceAssetItems)
	return item, nil
}

func (s *service) GetAssetItem(ctx context.Context, id uuid.UUID) (*models.AssetItem, error) {
	item, err := s.repo.FindAssetItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load asset item")
	}
	return item, nil
}

func (s *service) ListAssetItems(ctx context.Context, status *enums.AssetStatus) ([]models.AssetItem, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid asset status filter")
	}
	items, err := s.repo.ListAssetItems(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list asset items")
	}
	return items, nil
}

// SetAssetStatus applies an operator status change. PRETE is reserved
// for the loan engine and can be neither a source nor a target here.
func (s *service) SetAssetStatus(ctx context.Context, id uuid.UUID, status enums.AssetStatus, actorID uuid.UUID) (*models.AssetItem, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid asset status")
	}
	if status == enums.AssetStatusLoaned {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "PRETE is set by loan transitions only")
	}

	before, err := s.GetAssetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.SetAssetStatus(ctx, id, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update asset status")
	}
	if !res.Found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset item not found")
	}
	if !res.Updated {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "asset item is currently loaned")
	}

	after, err := s.GetAssetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	s.recordUpdate(ctx, "asset_items", id.String(), actorID, before, after)
	s.invalidate(ctx, cache.NamespaceAssetItems)
	return after, nil
}

func (s *service) CreateStockItem(ctx context.Context, input CreateStockItemInput, actorID uuid.UUID) (*models.StockItem, error) {
	if input.AssetModelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset_model_id is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	if _, err := s.repo.FindModel(ctx, input.AssetModelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset model not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load asset model")
	}

	item := &models.StockItem{
		AssetModelID: input.AssetModelID,
		Quantity:     input.Quantity,
		Loaned:       0,
		Notes:        input.Notes,
	}
	if err := s.repo.CreateStockItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert stock item")
	}

	s.recordCreate(ctx, "stock_items", item.ID.String(), actorID, item)
	s.invalidate(ctx, cache.NamespaceStockItems)
	return item, nil
}

func (s *service) GetStockItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	item, err := s.repo.FindStockItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock item")
	}
	return item, nil
}

func (s *service) ListStockItems(ctx context.Context) ([]models.StockItem, error) {
	items, err := s.repo.ListStockItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stock items")
	}
	return items, nil
}

// AdjustStockQuantity applies a manual capacity delta. The conditional
// update keeps quantity at or above both zero and the loaned count, so
// an adjustment can never strand active allocations.
func (s *service) AdjustStockQuantity(ctx context.Context, id uuid.UUID, delta int, actorID uuid.UUID) (*models.StockItem, error) {
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must be non-zero")
	}

	var before, after *models.StockItem
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		current, err := txRepo.FindStockItem(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock item")
		}
		before = current

		res, err := txRepo.AdjustQuantity(ctx, id, delta)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: adjust stock quantity")
		}
		if !res.Found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
		}
		if !res.Updated {
			return pkgerrors.New(pkgerrors.CodeValidation, "adjustment would drop quantity below zero or below loaned")
		}

		adjusted, err := txRepo.FindStockItem(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload stock item")
		}
		after = adjusted
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock quantity")
	}

	s.recordUpdate(ctx, "stock_items", id.String(), actorID, before, after)
	s.invalidate(ctx, cache.NamespaceStockItems)
	return after, nil
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

func (s *service) invalidate(ctx context.Context, namespaces ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, namespaces...); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("cache invalidation for %v failed: %v", namespaces, err))
	}
}

func normalizeTag(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
