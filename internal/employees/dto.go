package employees

import (
	"time"

	"github.com/google/uuid"

	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
)

// EmployeeDTO represents the employee payload returned to clients.
type EmployeeDTO struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEmployeeDTO maps an employee to its response payload.
func NewEmployeeDTO(e *models.Employee) *EmployeeDTO {
	if e == nil {
		return nil
	}
	return &EmployeeDTO{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// NewEmployeeDTOs maps a list of employees.
func NewEmployeeDTOs(list []models.Employee) []*EmployeeDTO {
	dtos := make([]*EmployeeDTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, NewEmployeeDTO(&list[i]))
	}
	return dtos
}
