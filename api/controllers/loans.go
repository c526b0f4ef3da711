package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mlefebvre/parcinfo-backend/api/middleware"
	"github.com/mlefebvre/parcinfo-backend/api/responses"
	"github.com/mlefebvre/parcinfo-backend/api/validators"
	"github.com/mlefebvre/parcinfo-backend/internal/inventory"
	loansvc "github.com/mlefebvre/parcinfo-backend/internal/loans"
	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
	pkgerrors "github.com/mlefebvre/parcinfo-backend/pkg/errors"
	"github.com/mlefebvre/parcinfo-backend/pkg/logger"
)

// CreateLoan opens a new loan for an employee.
func CreateLoan(svc loansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loan service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createLoanRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employeeID, err := uuid.Parse(payload.EmployeeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid employee id"))
			return
		}

		loan, err := svc.CreateLoan(r.Context(), employeeID, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, loansvc.NewLoanDTO(loan))
	}
}

// ListLoans returns all active (non-deleted) loans, newest first.
func ListLoans(svc loansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loan service unavailable"))
			return
		}

		loans, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, loansvc.NewLoanDTOs(loans))
	}
}

// GetLoan returns one loan with its lines, soft-deleted included.
func GetLoan(svc loansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loan service unavailable"))
			return
		}

		loanID, err := loanIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loan, err := svc.GetLoan(r.Context(), loanID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, loansvc.NewLoanDTO(loan))
	}
}

// AddLoanLine allocates one asset item or a stock quantity onto an open loan.
func AddLoanLine(svc loansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loan service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loanID, err := loanIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ref, err := payload.toRef()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loan, err := svc.AddLine(r.Context(), loanID, ref, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, loansvc.NewLoanDTO(loan))
	}
}

// RemoveLoanLine removes a line from an open loan and releases its allocation.
func RemoveLoanLine(svc loansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loan service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loanID, err := loanIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID, err := uuid.Parse(chi.URLParam(r, "lineID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}

		loan, err := svc.RemoveLine(r.Context(), loanID, lineID, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, loansvc.NewLoanDTO(loan))
	}
}

// CloseLoan closes an open loan and releases every allocation.
func CloseLoan(svc loansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loan service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loanID, err := loanIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loan, err := svc.Close(r.Context(), loanID, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, loansvc.NewLoanDTO(loan))
	}
}

// DeleteLoan soft-deletes an open loan and restocks its allocations.
func DeleteLoan(svc loansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loan service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loanID, err := loanIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SoftDelete(r.Context(), loanID, actorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// BatchDeleteLoans soft-deletes a set of loans in one request.
func BatchDeleteLoans(svc loansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loan service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload batchDeleteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loanIDs := make([]uuid.UUID, 0, len(payload.LoanIDs))
		for _, raw := range payload.LoanIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid loan id"))
				return
			}
			loanIDs = append(loanIDs, id)
		}

		result, err := svc.BatchSoftDelete(r.Context(), loanIDs, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, loansvc.NewBatchDeleteDTO(result))
	}
}

// UploadSignature stores a pickup or return signature image on a loan.
func UploadSignature(svc loansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loan service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loanID, err := loanIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := signatureKindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload uploadSignatureRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loan, err := svc.UploadSignature(r.Context(), loanID, kind, payload.Image, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, loansvc.NewLoanDTO(loan))
	}
}

// DeleteSignature removes a stored signature image from a loan.
func DeleteSignature(svc loansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loan service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loanID, err := loanIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := signatureKindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loan, err := svc.DeleteSignature(r.Context(), loanID, kind, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, loansvc.NewLoanDTO(loan))
	}
}

type createLoanRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
}

type addLineRequest struct {
	Kind        string  `json:"kind" validate:"required,oneof=ASSET STOCK"`
	AssetItemID *string `json:"asset_item_id,omitempty" validate:"omitempty,uuid"`
	StockItemID *string `json:"stock_item_id,omitempty" validate:"omitempty,uuid"`
	Quantity    int     `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

type batchDeleteRequest struct {
	LoanIDs []string `json:"loan_ids" validate:"required,min=1,dive,uuid"`
}

type uploadSignatureRequest struct {
	Image string `json:"image" validate:"required"`
}

func (a addLineRequest) toRef() (inventory.Ref, error) {
	kind, err := enums.ParseLoanLineKind(strings.TrimSpace(a.Kind))
	if err != nil {
		return inventory.Ref{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line kind")
	}

	switch kind {
	case enums.LoanLineKindAsset:
		if a.AssetItemID == nil {
			return inventory.Ref{}, pkgerrors.New(pkgerrors.CodeValidation, "asset_item_id is required for ASSET lines")
		}
		itemID, err := uuid.Parse(*a.AssetItemID)
		if err != nil {
			return inventory.Ref{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset item id")
		}
		return inventory.AssetRef(itemID), nil
	case enums.LoanLineKindStock:
		if a.StockItemID == nil {
			return inventory.Ref{}, pkgerrors.New(pkgerrors.CodeValidation, "stock_item_id is required for STOCK lines")
		}
		itemID, err := uuid.Parse(*a.StockItemID)
		if err != nil {
			return inventory.Ref{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock item id")
		}
		if a.Quantity < 1 {
			return inventory.Ref{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1 for STOCK lines")
		}
		return inventory.StockRef(itemID, a.Quantity), nil
	default:
		return inventory.Ref{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid line kind")
	}
}

func actorFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ActorIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "actor context missing")
	}
	actorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid actor id")
	}
	return actorID, nil
}

func loanIDParam(r *http.Request) (uuid.UUID, error) {
	loanID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid loan id")
	}
	return loanID, nil
}

func signatureKindParam(r *http.Request) (enums.SignatureKind, error) {
	kind, err := enums.ParseSignatureKind(chi.URLParam(r, "kind"))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid signature kind")
	}
	return kind, nil
}
