package employees

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
	pkgerrors "github.com/mlefebvre/parcinfo-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:employees_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Employee{}); err != nil {
		t.Fatalf("migrate employees: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestCreateNormalizesAndGuardsEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		FirstName: "  Marie ",
		LastName:  "Lefebvre",
		Email:     "Marie.Lefebvre@Example.ORG",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Email != "marie.lefebvre@example.org" || created.FirstName != "Marie" {
		t.Fatalf("unexpected normalization: %+v", created)
	}
	if !created.IsActive {
		t.Fatal("new employees must start active")
	}

	if _, err := svc.Create(ctx, CreateInput{
		FirstName: "Autre",
		LastName:  "Personne",
		Email:     "marie.lefebvre@example.org",
	}); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("duplicate email: expected conflict, got %v", err)
	}

	cases := map[string]CreateInput{
		"missing names": {Email: "a@b.c"},
		"missing email": {FirstName: "A", LastName: "B"},
		"invalid email": {FirstName: "A", LastName: "B", Email: "not-an-email"},
	}
	for name, input := range cases {
		if _, err := svc.Create(ctx, input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestGetAndList(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{FirstName: "Jean", LastName: "Martin", Email: "jean@example.org"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("get returned %s, want %s", found.ID, created.ID)
	}
	if _, err := svc.Get(ctx, uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("missing employee: expected not found, got %v", err)
	}

	if err := conn.Model(&models.Employee{}).Where("id = ?", created.ID).
		UpdateColumn("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{FirstName: "Paul", LastName: "Durand", Email: "paul@example.org"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	all, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	active, err := svc.List(ctx, true)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(all) != 2 || len(active) != 1 {
		t.Fatalf("list sizes = %d/%d, want 2/1", len(all), len(active))
	}
}
