package inventory

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
	"github.com/mlefebvre/parcinfo-backend/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.AssetModel{}, &models.AssetItem{}, &models.StockItem{}); err != nil {
		t.Fatalf("migrate inventory tables: %v", err)
	}
	return conn
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(conn),
		DBClient: gormTxRunner{db: conn},
		Logger:   logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("new inventory service: %v", err)
	}
	return svc
}

func seedModel(t *testing.T, conn *gorm.DB) models.AssetModel {
	t.Helper()
	model := models.AssetModel{ID: uuid.New(), Name: "ThinkPad T14"}
	if err := conn.Create(&model).Error; err != nil {
		t.Fatalf("seed model: %v", err)
	}
	return model
}

func seedAssetItem(t *testing.T, conn *gorm.DB, modelID uuid.UUID, status enums.AssetStatus) models.AssetItem {
	t.Helper()
	item := models.AssetItem{ID: uuid.New(), AssetModelID: modelID, Status: status}
	if err := conn.Create(&item).Error; err != nil {
		t.Fatalf("seed asset item: %v", err)
	}
	return item
}

func seedStockItem(t *testing.T, conn *gorm.DB, modelID uuid.UUID, quantity, loaned int) models.StockItem {
	t.Helper()
	item := models.StockItem{ID: uuid.New(), AssetModelID: modelID, Quantity: quantity, Loaned: loaned}
	if err := conn.Create(&item).Error; err != nil {
		t.Fatalf("seed stock item: %v", err)
	}
	return item
}
