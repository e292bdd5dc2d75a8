package payment

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// Gateway decides whether a charge against a card number is approved.
// Implementations must be safe for concurrent use.
type Gateway interface {
	Charge(ctx context.Context, cardNumber string) (bool, error)
}

// SimulatedGateway approves a charge when the card number is even and
// does not end in zero. It stands in for a real processor so the rest
// of the payment flow can be exercised end to end.
type SimulatedGateway struct{}

// NewSimulatedGateway returns the deterministic test gateway.
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

// Charge applies the approval rule. Both conditions depend only on the
// last digit: it must be even and non-zero.
func (g *SimulatedGateway) Charge(_ context.Context, cardNumber string) (bool, error) {
	if err := ValidateCardNumber(cardNumber); err != nil {
		return false, err
	}
	last := cardNumber[len(cardNumber)-1]
	digit := int(last - '0')
	return digit%2 == 0 && digit != 0, nil
}

// ValidateCardNumber rejects empty or non-numeric card numbers.
func ValidateCardNumber(cardNumber string) error {
	trimmed := strings.TrimSpace(cardNumber)
	if trimmed == "" || trimmed != cardNumber {
		return pkgerrors.New(pkgerrors.CodeValidation, "card number is required")
	}
	for _, r := range cardNumber {
		if r < '0' || r > '9' {
			return pkgerrors.New(pkgerrors.CodeValidation, "card number must contain only digits")
		}
	}
	return nil
}
