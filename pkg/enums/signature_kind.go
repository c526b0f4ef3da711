package enums

import "fmt"

// SignatureKind names the two signatures a loan can carry.
type SignatureKind string

const (
	SignatureKindPickup SignatureKind = "pickup"
	SignatureKindReturn SignatureKind = "return"
)

var validSignatureKinds = []SignatureKind{
	SignatureKindPickup,
	SignatureKindReturn,
}

// IsValid reports whether the value matches the canonical signature kind enum.
func (k SignatureKind) IsValid() bool {
	for _, candidate := range validSignatureKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseSignatureKind converts the raw string to SignatureKind.
func ParseSignatureKind(value string) (SignatureKind, error) {
	for _, candidate := range validSignatureKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid signature kind %q", value)
}
