package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mlefebvre/parcinfo-backend/api/responses"
	"github.com/mlefebvre/parcinfo-backend/api/validators"
	inventorysvc "github.com/mlefebvre/parcinfo-backend/internal/inventory"
	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
	pkgerrors "github.com/mlefebvre/parcinfo-backend/pkg/errors"
	"github.com/mlefebvre/parcinfo-backend/pkg/logger"
)

// CreateAssetModel registers a new catalog entry.
func CreateAssetModel(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createAssetModelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		model, err := svc.CreateModel(r.Context(), inventorysvc.CreateModelInput{
			Name:         strings.TrimSpace(payload.Name),
			Category:     payload.Category,
			Manufacturer: payload.Manufacturer,
		}, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, inventorysvc.NewAssetModelDTO(model))
	}
}

// ListAssetModels returns the catalog.
func ListAssetModels(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		models, err := svc.ListModels(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, inventorysvc.NewAssetModelDTOs(models))
	}
}

// CreateAssetItem registers a uniquely tracked unit.
func CreateAssetItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createAssetItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		modelID, err := uuid.Parse(payload.AssetModelID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset model id"))
			return
		}

		item, err := svc.CreateAssetItem(r.Context(), inventorysvc.CreateAssetItemInput{
			AssetModelID: modelID,
			AssetTag:     payload.AssetTag,
			Serial:       payload.Serial,
			Notes:        payload.Notes,
		}, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, inventorysvc.NewAssetItemDTO(item))
	}
}

// ListAssetItems returns tracked units, optionally filtered by status.
func ListAssetItems(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var status *enums.AssetStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseAssetStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		items, err := svc.ListAssetItems(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, inventorysvc.NewAssetItemDTOs(items))
	}
}

// GetAssetItem returns one tracked unit with its catalog entry.
func GetAssetItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset item id"))
			return
		}

		item, err := svc.GetAssetItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, inventorysvc.NewAssetItemDTO(item))
	}
}

// UpdateAssetStatus sets an operator-managed status on a tracked unit.
func UpdateAssetStatus(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset item id"))
			return
		}

		var payload updateAssetStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseAssetStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		item, err := svc.SetAssetStatus(r.Context(), itemID, status, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, inventorysvc.NewAssetItemDTO(item))
	}
}

// CreateStockItem registers a bulk-counted consumable.
func CreateStockItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createStockItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		modelID, err := uuid.Parse(payload.AssetModelID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset model id"))
			return
		}

		item, err := svc.CreateStockItem(r.Context(), inventorysvc.CreateStockItemInput{
			AssetModelID: modelID,
			Quantity:     payload.Quantity,
			Notes:        payload.Notes,
		}, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, inventorysvc.NewStockItemDTO(item))
	}
}

// ListStockItems returns all bulk items with availability counters.
func ListStockItems(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		items, err := svc.ListStockItems(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, inventorysvc.NewStockItemDTOs(items))
	}
}

// GetStockItem returns one bulk item.
func GetStockItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock item id"))
			return
		}

		item, err := svc.GetStockItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, inventorysvc.NewStockItemDTO(item))
	}
}

// AdjustStockQuantity applies a signed delta to a bulk item's capacity.
func AdjustStockQuantity(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock item id"))
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.AdjustStockQuantity(r.Context(), itemID, payload.Delta, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, inventorysvc.NewStockItemDTO(item))
	}
}

type createAssetModelRequest struct {
	Name         string  `json:"name" validate:"required"`
	Category     *string `json:"category,omitempty"`
	Manufacturer *string `json:"manufacturer,omitempty"`
}

type createAssetItemRequest struct {
	AssetModelID string  `json:"asset_model_id" validate:"required,uuid"`
	AssetTag     *string `json:"asset_tag,omitempty"`
	Serial       *string `json:"serial,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type updateAssetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type createStockItemRequest struct {
	AssetModelID string  `json:"asset_model_id" validate:"required,uuid"`
	Quantity     int     `json:"quantity" validate:"min=0"`
	Notes        *string `json:"notes,omitempty"`
}

type adjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}
