// Package inventory owns asset item and stock item state. All
// allocation and release paths go through conditional single-statement
// updates so concurrent callers are adjudicated by the database, never
// by a prior read.
package inventory

import (
	"github.com/google/uuid"

	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
	"github.com/mlefebvre/parcinfo-backend/pkg/errors"
)

// Ref identifies one allocation target: either a uniquely tracked asset
// item, or a quantity of a bulk stock item. Construct it with AssetRef
// or StockRef; the zero value is invalid. Loan lines are only built
// from a Ref, so kind and the populated reference cannot drift apart.
type Ref struct {
	kind        enums.LoanLineKind
	assetItemID uuid.UUID
	stockItemID uuid.UUID
	qty         int
}

// AssetRef references one asset item. Asset allocations always carry
// quantity 1.
func AssetRef(itemID uuid.UUID) Ref {
	return Ref{kind: enums.LoanLineKindAsset, assetItemID: itemID, qty: 1}
}

// StockRef references qty units of a stock item.
func StockRef(itemID uuid.UUID, qty int) Ref {
	return Ref{kind: enums.LoanLineKindStock, stockItemID: itemID, qty: qty}
}

func (r Ref) Kind() enums.LoanLineKind { return r.kind }

// Qty is 1 for asset refs and the requested unit count for stock refs.
func (r Ref) Qty() int { return r.qty }

// AssetItemID is the referenced asset item, valid only when Kind is ASSET.
func (r Ref) AssetItemID() uuid.UUID { return r.assetItemID }

// StockItemID is the referenced stock item, valid only when Kind is STOCK.
func (r Ref) StockItemID() uuid.UUID { return r.stockItemID }

// Validate checks the ref is well formed before it reaches the ledger.
func (r Ref) Validate() error {
	switch r.kind {
	case enums.LoanLineKindAsset:
		if r.assetItemID == uuid.Nil {
			return errors.New(errors.CodeValidation, "asset ref requires an asset item id")
		}
	case enums.LoanLineKindStock:
		if r.stockItemID == uuid.Nil {
			return errors.New(errors.CodeValidation, "stock ref requires a stock item id")
		}
		if r.qty <= 0 {
			return errors.New(errors.CodeValidation, "stock ref quantity must be positive")
		}
	default:
		return errors.New(errors.CodeValidation, "line ref kind is required")
	}
	return nil
}
