package enums

import "fmt"

// PaymentMethod describes how a buyer intends to settle an order.
type PaymentMethod string

const (
	PaymentMethodCard              PaymentMethod = "card"
	PaymentMethodThirdPartyAccount PaymentMethod = "third_party_account"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodThirdPartyAccount,
}

// paymentMethodAliases maps legacy client spellings onto the canonical set.
var paymentMethodAliases = map[string]PaymentMethod{
	"online": PaymentMethodCard,
	"other":  PaymentMethodThirdPartyAccount,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod, accepting
// legacy aliases.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	if alias, ok := paymentMethodAliases[value]; ok {
		return alias, nil
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
