package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
)

// Repository exposes persistence helpers for asset and stock items.
// The allocation and release methods are single conditional statements;
// callers inspect condResult to distinguish a lost race from a missing
// row.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateModel(ctx context.Context, model *models.AssetModel) error
	FindModel(ctx context.Context, id uuid.UUID) (*models.AssetModel, error)
	ListModels(ctx context.Context) ([]models.AssetModel, error)

	CreateAssetItem(ctx context.Context, item *models.AssetItem) error
	FindAssetItem(ctx context.Context, id uuid.UUID) (*models.AssetItem, error)
	ListAssetItems(ctx context.Context, status *enums.AssetStatus) ([]models.AssetItem, error)
	AllocateAsset(ctx context.Context, itemID uuid.UUID) (condResult, error)
	ReleaseAsset(ctx context.Context, itemID uuid.UUID) (condResult, error)
	SetAssetStatus(ctx context.Context, itemID uuid.UUID, status enums.AssetStatus) (condResult, error)

	CreateStockItem(ctx context.Context, item *models.StockItem) error
	FindStockItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error)
	ListStockItems(ctx context.Context) ([]models.StockItem, error)
	AllocateStock(ctx context.Context, itemID uuid.UUID, qty int) (condResult, error)
	ReleaseStock(ctx context.Context, itemID uuid.UUID, qty int) (condResult, error)
	RestockStock(ctx context.Context, itemID uuid.UUID, qty int) (condResult, error)
	AdjustQuantity(ctx context.Context, itemID uuid.UUID, delta int) (condResult, error)
}

// condResult reports the outcome of a conditional update. Updated means
// the guarded statement changed the row; Found distinguishes "row exists
// but the guard lost" from "no such row".
type condResult struct {
	Updated bool
	Found   bool
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreateModel(ctx context.Context, model *models.AssetModel) error {
	if model.ID == uuid.Nil {
		model.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *repositoryImpl) FindModel(ctx context.Context, id uuid.UUID) (*models.AssetModel, error) {
	var model models.AssetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *repositoryImpl) ListModels(ctx context.Context) ([]models.AssetModel, error) {
	var list []models.AssetModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repositoryImpl) CreateAssetItem(ctx context.Context, item *models.AssetItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Status == "" {
		item.Status = enums.AssetStatusInStock
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repositoryImpl) FindAssetItem(ctx context.Context, id uuid.UUID) (*models.AssetItem, error) {
	var item models.AssetItem
	if err := r.db.WithContext(ctx).Preload("Model").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) ListAssetItems(ctx context.Context, status *enums.AssetStatus) ([]models.AssetItem, error) {
	query := r.db.WithContext(ctx).Preload("Model")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var items []models.AssetItem
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AllocateAsset transitions EN_STOCK to PRETE. A concurrent caller that
// loses the race observes zero rows affected.
func (r *repositoryImpl) AllocateAsset(ctx context.Context, itemID uuid.UUID) (condResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AssetItem{}).
		Where("id = ? AND status = ?", itemID, enums.AssetStatusInStock).
		UpdateColumn("status", enums.AssetStatusLoaned)
	return r.resolveCond(ctx, result, &models.AssetItem{}, itemID)
}

// ReleaseAsset transitions PRETE back to EN_STOCK. Zero rows means the
// item is not currently loaned; callers decide whether that matters.
func (r *repositoryImpl) ReleaseAsset(ctx context.Context, itemID uuid.UUID) (condResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AssetItem{}).
		Where("id = ? AND status = ?", itemID, enums.AssetStatusLoaned).
		UpdateColumn("status", enums.AssetStatusInStock)
	return r.resolveCond(ctx, result, &models.AssetItem{}, itemID)
}

// SetAssetStatus applies a manual status change. Items currently on loan
// are guarded out so an operator edit cannot clobber the loan engine.
func (r *repositoryImpl) SetAssetStatus(ctx context.Context, itemID uuid.UUID, status enums.AssetStatus) (condResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AssetItem{}).
		Where("id = ? AND status <> ?", itemID, enums.AssetStatusLoaned).
		UpdateColumn("status", status)
	return r.resolveCond(ctx, result, &models.AssetItem{}, itemID)
}

func (r *repositoryImpl) CreateStockItem(ctx context.Context, item *models.StockItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repositoryImpl) FindStockItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.db.WithContext(ctx).Preload("Model").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) ListStockItems(ctx context.Context) ([]models.StockItem, error) {
	var items []models.StockItem
	if err := r.db.WithContext(ctx).Preload("Model").Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AllocateStock increments loaned only while loaned + qty <= quantity,
// evaluated against the live row so a stale availability read cannot
// oversell.
func (r *repositoryImpl) AllocateStock(ctx context.Context, itemID uuid.UUID, qty int) (condResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StockItem{}).
		Where("id = ? AND loaned + ? <= quantity", itemID, qty).
		UpdateColumn("loaned", gorm.Expr("loaned + ?", qty))
	return r.resolveCond(ctx, result, &models.StockItem{}, itemID)
}

// ReleaseStock decrements loaned and leaves quantity untouched: closed
// loans treat consumed stock as spent.
func (r *repositoryImpl) ReleaseStock(ctx context.Context, itemID uuid.UUID, qty int) (condResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StockItem{}).
		Where("id = ? AND loaned >= ?", itemID, qty).
		UpdateColumn("loaned", gorm.Expr("loaned - ?", qty))
	return r.resolveCond(ctx, result, &models.StockItem{}, itemID)
}

// RestockStock is the soft-delete reversal: the allocation is undone
// AND the units return to capacity, as if the loan never happened.
func (r *repositoryImpl) RestockStock(ctx context.Context, itemID uuid.UUID, qty int) (condResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StockItem{}).
		Where("id = ? AND loaned >= ?", itemID, qty).
		UpdateColumns(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", qty),
			"loaned":   gorm.Expr("loaned - ?", qty),
		})
	return r.resolveCond(ctx, result, &models.StockItem{}, itemID)
}

// AdjustQuantity applies a manual capacity delta. The guard keeps the
// result non-negative and never below the currently loaned count.
func (r *repositoryImpl) AdjustQuantity(ctx context.Context, itemID uuid.UUID, delta int) (condResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StockItem{}).
		Where("id = ? AND quantity + ? >= 0 AND quantity + ? >= loaned", itemID, delta, delta).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	return r.resolveCond(ctx, result, &models.StockItem{}, itemID)
}

// resolveCond turns the raw update result into a condResult, issuing a
// follow-up existence check only when the guard matched nothing.
func (r *repositoryImpl) resolveCond(ctx context.Context, result *gorm.DB, model interface{}, id uuid.UUID) (condResult, error) {
	if result.Error != nil {
		return condResult{}, result.Error
	}
	if result.RowsAffected > 0 {
		return condResult{Updated: true, Found: true}, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return condResult{}, err
	}
	return condResult{Found: count > 0}, nil
}
