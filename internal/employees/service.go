package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlefebvre/parcinfo-backend/pkg/db"
	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
	pkgerrors "github.com/mlefebvre/parcinfo-backend/pkg/errors"
)

// Service exposes employee management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Employee, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	List(ctx context.Context, activeOnly bool) ([]models.Employee, error)
}

// CreateInput holds the validated payload to create an employee.
type CreateInput struct {
	FirstName string
	LastName  string
	Email     string
}

type service struct {
	repo Repository
}

// NewService constructs an employee service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employee repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Employee, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if firstName == "" || lastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}

	employee := &models.Employee{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert employee")
	}
	return employee, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load employee")
	}
	return employee, nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	list, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list employees")
	}
	return list, nil
}
