// Package employees manages the people equipment is loaned to.
package employees

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
)

// Repository exposes persistence helpers for employees.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, employee *models.Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	List(ctx context.Context, activeOnly bool) ([]models.Employee, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an employees repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *repositoryImpl) List(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var list []models.Employee
	if err := query.Order("last_name ASC, first_name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
