package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/mlefebvre/parcinfo-backend/pkg/db/models"
)

// AssetModelDTO represents a catalog entry returned to clients.
type AssetModelDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Category     *string   `json:"category,omitempty"`
	Manufacturer *string   `json:"manufacturer,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AssetItemDTO represents a uniquely tracked unit.
type AssetItemDTO struct {
	ID           uuid.UUID      `json:"id"`
	AssetModelID uuid.UUID      `json:"asset_model_id"`
	AssetTag     *string        `json:"asset_tag,omitempty"`
	Serial       *string        `json:"serial,omitempty"`
	Status       string         `json:"status"`
	Notes        *string        `json:"notes,omitempty"`
	Model        *AssetModelDTO `json:"model,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// StockItemDTO represents a bulk-counted consumable.
type StockItemDTO struct {
	ID           uuid.UUID      `json:"id"`
	AssetModelID uuid.UUID      `json:"asset_model_id"`
	Quantity     int            `json:"quantity"`
	Loaned       int            `json:"loaned"`
	Available    int            `json:"available"`
	Notes        *string        `json:"notes,omitempty"`
	Model        *AssetModelDTO `json:"model,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// NewAssetModelDTO maps a catalog entry to its response payload.
func NewAssetModelDTO(model *models.AssetModel) *AssetModelDTO {
	if model == nil {
		return nil
	}
	return &AssetModelDTO{
		ID:           model.ID,
		Name:         model.Name,
		Category:     model.Category,
		Manufacturer: model.Manufacturer,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewAssetModelDTOs maps a list of catalog entries.
func NewAssetModelDTOs(entries []models.AssetModel) []*AssetModelDTO {
	dtos := make([]*AssetModelDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, NewAssetModelDTO(&entries[i]))
	}
	return dtos
}

// NewAssetItemDTO maps a tracked unit to its response payload.
func NewAssetItemDTO(item *models.AssetItem) *AssetItemDTO {
	if item == nil {
		return nil
	}
	return &AssetItemDTO{
		ID:           item.ID,
		AssetModelID: item.AssetModelID,
		AssetTag:     item.AssetTag,
		Serial:       item.Serial,
		Status:       string(item.Status),
		Notes:        item.Notes,
		Model:        NewAssetModelDTO(item.Model),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// NewAssetItemDTOs maps a list of tracked units.
func NewAssetItemDTOs(items []models.AssetItem) []*AssetItemDTO {
	dtos := make([]*AssetItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, NewAssetItemDTO(&items[i]))
	}
	return dtos
}

// NewStockItemDTO maps a bulk item to its response payload.
func NewStockItemDTO(item *models.StockItem) *StockItemDTO {
	if item == nil {
		return nil
	}
	return &StockItemDTO{
		ID:           item.ID,
		AssetModelID: item.AssetModelID,
		Quantity:     item.Quantity,
		Loaned:       item.Loaned,
		Available:    item.Available(),
		Notes:        item.Notes,
		Model:        NewAssetModelDTO(item.Model),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// NewStockItemDTOs maps a list of bulk items.
func NewStockItemDTOs(items []models.StockItem) []*StockItemDTO {
	dtos := make([]*StockItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, NewStockItemDTO(&items[i]))
	}
	return dtos
}
