package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
	pkgerrors "github.com/mlefebvre/parcinfo-backend/pkg/errors"
)

func TestRefValidate(t *testing.T) {
	t.Parallel()

	if err := AssetRef(uuid.New()).Validate(); err != nil {
		t.Fatalf("asset ref: %v", err)
	}
	if err := StockRef(uuid.New(), 3).Validate(); err != nil {
		t.Fatalf("stock ref: %v", err)
	}

	cases := map[string]Ref{
		"zero value":         {},
		"asset without id":   AssetRef(uuid.Nil),
		"stock without id":   StockRef(uuid.Nil, 1),
		"stock zero qty":     StockRef(uuid.New(), 0),
		"stock negative qty": StockRef(uuid.New(), -2),
	}
	for name, ref := range cases {
		if err := ref.Validate(); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}

	if AssetRef(uuid.New()).Qty() != 1 {
		t.Fatal("asset refs must carry quantity 1")
	}
}

func TestAllocateErrorTaxonomy(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	model := seedModel(t, conn)
	asset := seedAssetItem(t, conn, model.ID, enums.AssetStatusInStock)
	stock := seedStockItem(t, conn, model.ID, 5, 5)

	if err := svc.Allocate(ctx, conn, AssetRef(asset.ID)); err != nil {
		t.Fatalf("first asset allocation: %v", err)
	}
	if err := svc.Allocate(ctx, conn, AssetRef(asset.ID)); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("second asset allocation: expected conflict, got %v", err)
	}
	if err := svc.Allocate(ctx, conn, AssetRef(uuid.New())); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("missing asset: expected not found, got %v", err)
	}

	if err := svc.Allocate(ctx, conn, StockRef(stock.ID, 1)); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("exhausted stock: expected validation, got %v", err)
	}
	if err := svc.Allocate(ctx, conn, StockRef(uuid.New(), 1)); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("missing stock: expected not found, got %v", err)
	}
}

func TestReleaseRestockReturnsUnitsToCapacity(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	model := seedModel(t, conn)
	stock := seedStockItem(t, conn, model.ID, 20, 5)

	if err := svc.ReleaseRestock(ctx, conn, StockRef(stock.ID, 5)); err != nil {
		t.Fatalf("release restock: %v", err)
	}

	var current models.StockItem
	if err := conn.First(&current, "id = ?", stock.ID).Error; err != nil {
		t.Fatalf("reload stock: %v", err)
	}
	if current.Quantity != 25 || current.Loaned != 0 {
		t.Fatalf("stock state = %d/%d, want 25/0", current.Quantity, current.Loaned)
	}
}

func TestSetAssetStatus(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	actorID := uuid.New()
	model := seedModel(t, conn)
	item := seedAssetItem(t, conn, model.ID, enums.AssetStatusInStock)
	loaned := seedAssetItem(t, conn, model.ID, enums.AssetStatusLoaned)

	updated, err := svc.SetAssetStatus(ctx, item.ID, enums.AssetStatusRepair, actorID)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if updated.Status != enums.AssetStatusRepair {
		t.Fatalf("status = %s, want REPARATION", updated.Status)
	}

	if _, err := svc.SetAssetStatus(ctx, item.ID, enums.AssetStatusLoaned, actorID); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("manual PRETE: expected validation, got %v", err)
	}
	if _, err := svc.SetAssetStatus(ctx, loaned.ID, enums.AssetStatusBroken, actorID); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("status edit on loaned item: expected conflict, got %v", err)
	}
	if _, err := svc.SetAssetStatus(ctx, uuid.New(), enums.AssetStatusBroken, actorID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("missing item: expected not found, got %v", err)
	}
}

func TestAdjustStockQuantity(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	actorID := uuid.New()
	model := seedModel(t, conn)
	item := seedStockItem(t, conn, model.ID, 10, 4)

	updated, err := svc.AdjustStockQuantity(ctx, item.ID, -3, actorID)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if updated.Quantity != 7 || updated.Loaned != 4 {
		t.Fatalf("stock state = %d/%d, want 7/4", updated.Quantity, updated.Loaned)
	}

	if _, err := svc.AdjustStockQuantity(ctx, item.ID, -4, actorID); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("adjust below loaned: expected validation, got %v", err)
	}
	if _, err := svc.AdjustStockQuantity(ctx, item.ID, 0, actorID); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("zero delta: expected validation, got %v", err)
	}
	if _, err := svc.AdjustStockQuantity(ctx, uuid.New(), 1, actorID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("missing item: expected not found, got %v", err)
	}
}

func TestCreateAssetItemValidations(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	actorID := uuid.New()
	model := seedModel(t, conn)
	tag := "IT-0042"

	created, err := svc.CreateAssetItem(ctx, CreateAssetItemInput{AssetModelID: model.ID, AssetTag: &tag}, actorID)
	if err != nil {
		t.Fatalf("create asset item: %v", err)
	}
	if created.Status != enums.AssetStatusInStock {
		t.Fatalf("new item status = %s, want EN_STOCK", created.Status)
	}

	if _, err := svc.CreateAssetItem(ctx, CreateAssetItemInput{AssetModelID: model.ID, AssetTag: &tag}, actorID); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("duplicate tag: expected conflict, got %v", err)
	}
	if _, err := svc.CreateAssetItem(ctx, CreateAssetItemInput{AssetModelID: uuid.New()}, actorID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("unknown model: expected not found, got %v", err)
	}
	if _, err := svc.CreateAssetItem(ctx, CreateAssetItemInput{}, actorID); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("missing model id: expected validation, got %v", err)
	}
}

func TestCreateStockItemValidations(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	actorID := uuid.New()
	model := seedModel(t, conn)

	created, err := svc.CreateStockItem(ctx, CreateStockItemInput{AssetModelID: model.ID, Quantity: 12}, actorID)
	if err != nil {
		t.Fatalf("create stock item: %v", err)
	}
	if created.Quantity != 12 || created.Loaned != 0 {
		t.Fatalf("new stock state = %d/%d, want 12/0", created.Quantity, created.Loaned)
	}

	if _, err := svc.CreateStockItem(ctx, CreateStockItemInput{AssetModelID: model.ID, Quantity: -1}, actorID); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("negative quantity: expected validation, got %v", err)
	}
}
