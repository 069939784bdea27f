package orders

import (
	"errors"
	"strings"
	"unicode"
)

const (
	// MinDescriptionLen is the minimum order description length accepted
	// before any network call is made.
	MinDescriptionLen = 10
	// DeliveryCodeLen is the exact length of the handoff confirmation code.
	DeliveryCodeLen = 6
)

var (
	ErrDescriptionTooShort = errors.New("la description doit contenir au moins 10 caractères")
	ErrInvalidDeliveryCode = errors.New("le code de livraison doit contenir exactement 6 chiffres")
)

// ValidateDescription gates order creation client-side.
func ValidateDescription(desc string) error {
	if len(strings.TrimSpace(desc)) < MinDescriptionLen {
		return ErrDescriptionTooShort
	}
	return nil
}

// ValidateDeliveryCode checks the 6-digit format only; whether the code is
// the right one is the backend's decision.
func ValidateDeliveryCode(code string) error {
	if len(code) != DeliveryCodeLen {
		return ErrInvalidDeliveryCode
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return ErrInvalidDeliveryCode
		}
	}
	return nil
}
