package enums

import "fmt"

// AdminOrderAction enumerates the bulk operations the back office can run
// against a selection of orders.
type AdminOrderAction string

const (
	AdminOrderActionMarkShipping AdminOrderAction = "mark_shipping"
	AdminOrderActionResetUnpaid  AdminOrderAction = "reset_unpaid"
)

var validAdminOrderActions = []AdminOrderAction{
	AdminOrderActionMarkShipping,
	AdminOrderActionResetUnpaid,
}

// String implements fmt.Stringer.
func (a AdminOrderAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdminOrderAction.
func (a AdminOrderAction) IsValid() bool {
	for _, candidate := range validAdminOrderActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdminOrderAction converts raw input into an AdminOrderAction.
func ParseAdminOrderAction(value string) (AdminOrderAction, error) {
	for _, candidate := range validAdminOrderActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid admin order action %q", value)
}
