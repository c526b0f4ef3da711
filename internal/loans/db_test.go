package loans

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mlefebvre/parcinfo-backend/internal/employees"
	"github.com/mlefebvre/parcinfo-backend/internal/inventory"
	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
	"github.com/mlefebvre/parcinfo-backend/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:loans_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.AssetModel{},
		&models.AssetItem{},
		&models.StockItem{},
		&models.Employee{},
		&models.Loan{},
		&models.LoanLine{},
	); err != nil {
		t.Fatalf("migrate tables: %v", err)
	}
	return conn
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type stubCache struct {
	namespaces []string
}

func (c *stubCache) Invalidate(_ context.Context, namespaces ...string) error {
	c.namespaces = append(c.namespaces, namespaces...)
	return nil
}

type auditEntry struct {
	Action   string
	Table    string
	RecordID string
	ActorID  uuid.UUID
}

type stubAudit struct {
	entries []auditEntry
}

func (a *stubAudit) LogCreate(_ context.Context, table, recordID string, actorID uuid.UUID, _ any) error {
	a.entries = append(a.entries, auditEntry{Action: "CREATE", Table: table, RecordID: recordID, ActorID: actorID})
	return nil
}

func (a *stubAudit) LogUpdate(_ context.Context, table, recordID string, actorID uuid.UUID, _, _ any) error {
	a.entries = append(a.entries, auditEntry{Action: "UPDATE", Table: table, RecordID: recordID, ActorID: actorID})
	return nil
}

func (a *stubAudit) LogDelete(_ context.Context, table, recordID string, actorID uuid.UUID, _ any) error {
	a.entries = append(a.entries, auditEntry{Action: "DELETE", Table: table, RecordID: recordID, ActorID: actorID})
	return nil
}

type stubSignatures struct {
	stored  []string
	removed []string
}

func (s *stubSignatures) Store(_ context.Context, loanID uuid.UUID, kind enums.SignatureKind, _ string) (string, error) {
	url := fmt.Sprintf("/uploads/signatures/%s_%s.png", loanID, kind)
	s.stored = append(s.stored, url)
	return url, nil
}

func (s *stubSignatures) Remove(_ context.Context, url string) error {
	s.removed = append(s.removed, url)
	return nil
}

type engineFixture struct {
	conn       *gorm.DB
	svc        Service
	cache      *stubCache
	audit      *stubAudit
	signatures *stubSignatures
}

func newEngine(t *testing.T) *engineFixture {
	t.Helper()
	conn := newTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})

	ledger, err := inventory.NewService(inventory.ServiceParams{
		Repo:     inventory.NewRepository(conn),
		DBClient: gormTxRunner{db: conn},
		Logger:   logg,
	})
	if err != nil {
		t.Fatalf("new inventory service: %v", err)
	}

	fixture := &engineFixture{
		conn:       conn,
		cache:      &stubCache{},
		audit:      &stubAudit{},
		signatures: &stubSignatures{},
	}
	svc, err := NewService(ServiceParams{
		Repo:       NewRepository(conn),
		DBClient:   gormTxRunner{db: conn},
		Ledger:     ledger,
		Employees:  employees.NewRepository(conn),
		Cache:      fixture.cache,
		Audit:      fixture.audit,
		Signatures: fixture.signatures,
		Logger:     logg,
	})
	if err != nil {
		t.Fatalf("new loan service: %v", err)
	}
	fixture.svc = svc
	return fixture
}

func (f *engineFixture) seedEmployee(t *testing.T) models.Employee {
	t.Helper()
	employee := models.Employee{
		ID:        uuid.New(),
		FirstName: "Claire",
		LastName:  "Moreau",
		Email:     uuid.NewString() + "@example.org",
		IsActive:  true,
	}
	if err := f.conn.Create(&employee).Error; err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return employee
}

func (f *engineFixture) seedModel(t *testing.T) models.AssetModel {
	t.Helper()
	model := models.AssetModel{ID: uuid.New(), Name: "Dell U2723"}
	if err := f.conn.Create(&model).Error; err != nil {
		t.Fatalf("seed model: %v", err)
	}
	return model
}

func (f *engineFixture) seedAssetItem(t *testing.T, status enums.AssetStatus) models.AssetItem {
	t.Helper()
	model := f.seedModel(t)
	item := models.AssetItem{ID: uuid.New(), AssetModelID: model.ID, Status: status}
	if err := f.conn.Create(&item).Error; err != nil {
		t.Fatalf("seed asset item: %v", err)
	}
	return item
}

func (f *engineFixture) seedStockItem(t *testing.T, quantity, loaned int) models.StockItem {
	t.Helper()
	model := f.seedModel(t)
	item := models.StockItem{ID: uuid.New(), AssetModelID: model.ID, Quantity: quantity, Loaned: loaned}
	if err := f.conn.Create(&item).Error; err != nil {
		t.Fatalf("seed stock item: %v", err)
	}
	return item
}

func (f *engineFixture) openLoan(t *testing.T) *models.Loan {
	t.Helper()
	employee := f.seedEmployee(t)
	loan, err := f.svc.CreateLoan(context.Background(), employee.ID, uuid.New())
	if err != nil {
		t.Fatalf("create loan: %v", err)
	}
	return loan
}

func (f *engineFixture) assetStatus(t *testing.T, itemID uuid.UUID) enums.AssetStatus {
	t.Helper()
	var item models.AssetItem
	if err := f.conn.First(&item, "id = ?", itemID).Error; err != nil {
		t.Fatalf("reload asset item: %v", err)
	}
	return item.Status
}

func (f *engineFixture) stockState(t *testing.T, itemID uuid.UUID) (quantity, loaned int) {
	t.Helper()
	var item models.StockItem
	if err := f.conn.First(&item, "id = ?", itemID).Error; err != nil {
		t.Fatalf("reload stock item: %v", err)
	}
	return item.Quantity, item.Loaned
}

func (f *engineFixture) lineCount(t *testing.T, loanID uuid.UUID) int {
	t.Helper()
	var count int64
	if err := f.conn.Model(&models.LoanLine{}).Where("loan_id = ?", loanID).Count(&count).Error; err != nil {
		t.Fatalf("count lines: %v", err)
	}
	return int(count)
}
