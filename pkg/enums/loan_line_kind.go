package enums

import "fmt"

// LoanLineKind discriminates what a loan line allocates: a uniquely tracked
// asset item or a quantity of a bulk stock item.
type LoanLineKind string

const (
	LoanLineKindAsset LoanLineKind = "ASSET"
	LoanLineKindStock LoanLineKind = "STOCK"
)

var validLoanLineKinds = []LoanLineKind{
	LoanLineKindAsset,
	LoanLineKindStock,
}

// IsValid reports whether the value matches the canonical loan line kind enum.
func (k LoanLineKind) IsValid() bool {
	for _, candidate := range validLoanLineKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseLoanLineKind converts the raw string to LoanLineKind.
func ParseLoanLineKind(value string) (LoanLineKind, error) {
	for _, candidate := range validLoanLineKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid loan line kind %q", value)
}
