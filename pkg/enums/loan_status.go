package enums

import "fmt"

// LoanStatus describes the lifecycle state of a loan. OPEN is the initial
// state; CLOSED is terminal.
type LoanStatus string

const (
	LoanStatusOpen   LoanStatus = "OPEN"
	LoanStatusClosed LoanStatus = "CLOSED"
)

var validLoanStatuses = []LoanStatus{
	LoanStatusOpen,
	LoanStatusClosed,
}

// IsValid reports whether the value matches the canonical loan status enum.
func (s LoanStatus) IsValid() bool {
	for _, candidate := range validLoanStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLoanStatus converts the raw string to LoanStatus.
func ParseLoanStatus(value string) (LoanStatus, error) {
	for _, candidate := range validLoanStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid loan status %q", value)
}
