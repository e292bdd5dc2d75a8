package enums

import "fmt"

// DeliveryMethod describes the courier tier chosen at checkout.
type DeliveryMethod string

const (
	DeliveryMethodStandard DeliveryMethod = "standard"
	DeliveryMethodExpress  DeliveryMethod = "express"
)

var validDeliveryMethods = []DeliveryMethod{
	DeliveryMethodStandard,
	DeliveryMethodExpress,
}

// deliveryMethodAliases maps legacy client spellings onto the canonical set.
var deliveryMethodAliases = map[string]DeliveryMethod{
	"ordinary": DeliveryMethodStandard,
}

// String implements fmt.Stringer.
func (d DeliveryMethod) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryMethod.
func (d DeliveryMethod) IsValid() bool {
	for _, candidate := range validDeliveryMethods {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryMethod converts raw input into a DeliveryMethod, accepting
// legacy aliases.
func ParseDeliveryMethod(value string) (DeliveryMethod, error) {
	for _, candidate := range validDeliveryMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	if alias, ok := deliveryMethodAliases[value]; ok {
		return alias, nil
	}
	return "", fmt.Errorf("invalid delivery method %q", value)
}
