package enums

import "fmt"

// AssetStatus describes the allowed values for the `status` column in asset_items.
// The French labels are kept as stored values for compatibility with the
// historical inventory database.
type AssetStatus string

const (
	AssetStatusInStock AssetStatus = "EN_STOCK"
	AssetStatusLoaned  AssetStatus = "PRETE"
	AssetStatusBroken  AssetStatus = "HS"
	AssetStatusRepair  AssetStatus = "REPARATION"
)

var validAssetStatuses = []AssetStatus{
	AssetStatusInStock,
	AssetStatusLoaned,
	AssetStatusBroken,
	AssetStatusRepair,
}

// IsValid reports whether the value matches the canonical asset status enum.
func (s AssetStatus) IsValid() bool {
	for _, candidate := range validAssetStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsManual reports whether the status is only ever set by an operator.
// Manual statuses are never touched by loan transitions.
func (s AssetStatus) IsManual() bool {
	return s == AssetStatusBroken || s == AssetStatusRepair
}

// ParseAssetStatus converts the raw string to AssetStatus.
func ParseAssetStatus(value string) (AssetStatus, error) {
	for _, candidate := range validAssetStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid asset status %q", value)
}
