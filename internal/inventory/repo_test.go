package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
)

func TestAllocateAssetClaimsOnlyAvailableItems(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	model := seedModel(t, conn)
	item := seedAssetItem(t, conn, model.ID, enums.AssetStatusInStock)

	res, err := repo.AllocateAsset(ctx, item.ID)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if !res.Updated || !res.Found {
		t.Fatalf("expected first allocation to win, got %+v", res)
	}

	// Second caller loses the race: row exists but guard matches nothing.
	res, err = repo.AllocateAsset(ctx, item.ID)
	if err != nil {
		t.Fatalf("allocate again: %v", err)
	}
	if res.Updated || !res.Found {
		t.Fatalf("expected second allocation to lose, got %+v", res)
	}

	res, err = repo.AllocateAsset(ctx, uuid.New())
	if err != nil {
		t.Fatalf("allocate missing: %v", err)
	}
	if res.Updated || res.Found {
		t.Fatalf("expected missing item, got %+v", res)
	}

	var current models.AssetItem
	if err := conn.First(&current, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if current.Status != enums.AssetStatusLoaned {
		t.Fatalf("item status = %s, want PRETE", current.Status)
	}
}

func TestAllocateAssetSkipsManualStatuses(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	model := seedModel(t, conn)

	for _, status := range []enums.AssetStatus{enums.AssetStatusBroken, enums.AssetStatusRepair} {
		item := seedAssetItem(t, conn, model.ID, status)
		res, err := repo.AllocateAsset(ctx, item.ID)
		if err != nil {
			t.Fatalf("allocate %s item: %v", status, err)
		}
		if res.Updated || !res.Found {
			t.Fatalf("expected %s item to be unallocatable, got %+v", status, res)
		}
	}
}

func TestReleaseAssetOnlyTouchesLoanedItems(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	model := seedModel(t, conn)
	loaned := seedAssetItem(t, conn, model.ID, enums.AssetStatusLoaned)
	broken := seedAssetItem(t, conn, model.ID, enums.AssetStatusBroken)

	res, err := repo.ReleaseAsset(ctx, loaned.ID)
	if err != nil {
		t.Fatalf("release loaned: %v", err)
	}
	if !res.Updated {
		t.Fatalf("expected release to apply, got %+v", res)
	}

	res, err = repo.ReleaseAsset(ctx, broken.ID)
	if err != nil {
		t.Fatalf("release broken: %v", err)
	}
	if res.Updated || !res.Found {
		t.Fatalf("expected HS item untouched, got %+v", res)
	}

	var current models.AssetItem
	if err := conn.First(&current, "id = ?", broken.ID).Error; err != nil {
		t.Fatalf("reload broken: %v", err)
	}
	if current.Status != enums.AssetStatusBroken {
		t.Fatalf("HS item status = %s, want HS", current.Status)
	}
}

func TestSetAssetStatusGuardsLoanedItems(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	model := seedModel(t, conn)
	loaned := seedAssetItem(t, conn, model.ID, enums.AssetStatusLoaned)
	inStock := seedAssetItem(t, conn, model.ID, enums.AssetStatusInStock)

	res, err := repo.SetAssetStatus(ctx, loaned.ID, enums.AssetStatusBroken)
	if err != nil {
		t.Fatalf("set status on loaned: %v", err)
	}
	if res.Updated || !res.Found {
		t.Fatalf("expected loaned item to be guarded, got %+v", res)
	}

	res, err = repo.SetAssetStatus(ctx, inStock.ID, enums.AssetStatusRepair)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if !res.Updated {
		t.Fatalf("expected manual status change to apply, got %+v", res)
	}
}

func TestAllocateStockGuardsAvailability(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	model := seedModel(t, conn)
	item := seedStockItem(t, conn, model.ID, 10, 7)

	// available = 3; allocating 3 succeeds, one more unit does not.
	res, err := repo.AllocateStock(ctx, item.ID, 3)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if !res.Updated {
		t.Fatalf("expected allocation within availability, got %+v", res)
	}

	res, err = repo.AllocateStock(ctx, item.ID, 1)
	if err != nil {
		t.Fatalf("allocate over capacity: %v", err)
	}
	if res.Updated || !res.Found {
		t.Fatalf("expected allocation past capacity to fail, got %+v", res)
	}

	var current models.StockItem
	if err := conn.First(&current, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload stock: %v", err)
	}
	if current.Quantity != 10 || current.Loaned != 10 {
		t.Fatalf("stock state = %d/%d, want 10/10", current.Quantity, current.Loaned)
	}
}

func TestReleaseAndRestockReversalPolicies(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	model := seedModel(t, conn)

	// Close path: loaned drops, quantity stays spent.
	released := seedStockItem(t, conn, model.ID, 20, 5)
	if res, err := repo.ReleaseStock(ctx, released.ID, 5); err != nil || !res.Updated {
		t.Fatalf("release stock: res=%+v err=%v", res, err)
	}
	var current models.StockItem
	if err := conn.First(&current, "id = ?", released.ID).Error; err != nil {
		t.Fatalf("reload released: %v", err)
	}
	if current.Quantity != 20 || current.Loaned != 0 {
		t.Fatalf("release state = %d/%d, want 20/0", current.Quantity, current.Loaned)
	}

	// Soft-delete path: the units also return to capacity.
	restocked := seedStockItem(t, conn, model.ID, 20, 5)
	if res, err := repo.RestockStock(ctx, restocked.ID, 5); err != nil || !res.Updated {
		t.Fatalf("restock stock: res=%+v err=%v", res, err)
	}
	current = models.StockItem{}
	if err := conn.First(&current, "id = ?", restocked.ID).Error; err != nil {
		t.Fatalf("reload restocked: %v", err)
	}
	if current.Quantity != 25 || current.Loaned != 0 {
		t.Fatalf("restock state = %d/%d, want 25/0", current.Quantity, current.Loaned)
	}
}

func TestAdjustQuantityGuards(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	model := seedModel(t, conn)
	item := seedStockItem(t, conn, model.ID, 10, 4)

	if res, err := repo.AdjustQuantity(ctx, item.ID, -6); err != nil || !res.Updated {
		t.Fatalf("adjust to loaned floor: res=%+v err=%v", res, err)
	}

	// quantity is now 4 with 4 loaned; any further decrease must fail.
	res, err := repo.AdjustQuantity(ctx, item.ID, -1)
	if err != nil {
		t.Fatalf("adjust below loaned: %v", err)
	}
	if res.Updated || !res.Found {
		t.Fatalf("expected adjustment below loaned to fail, got %+v", res)
	}

	if res, err := repo.AdjustQuantity(ctx, item.ID, 16); err != nil || !res.Updated {
		t.Fatalf("adjust up: res=%+v err=%v", res, err)
	}

	var current models.StockItem
	if err := conn.First(&current, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload stock: %v", err)
	}
	if current.Quantity != 20 || current.Loaned != 4 {
		t.Fatalf("stock state = %d/%d, want 20/4", current.Quantity, current.Loaned)
	}
}
