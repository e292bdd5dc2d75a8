package enums

import "fmt"

// OrderStatus tracks the lifecycle of a buyer order from registration
// through settlement and shipping.
type OrderStatus string

const (
	OrderStatusRegistered OrderStatus = "registered"
	OrderStatusUnpaid     OrderStatus = "unpaid"
	OrderStatusConfirming OrderStatus = "confirming"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusShipping   OrderStatus = "shipping"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusRegistered,
	OrderStatusUnpaid,
	OrderStatusConfirming,
	OrderStatusPaid,
	OrderStatusShipping,
}

// Legacy numeric codes kept for API compatibility with older clients.
var orderStatusCodes = map[OrderStatus]int{
	OrderStatusRegistered: 1,
	OrderStatusUnpaid:     2,
	OrderStatusConfirming: 3,
	OrderStatusPaid:       4,
	OrderStatusShipping:   5,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// Code returns the numeric wire code for the status, 0 when unknown.
func (o OrderStatus) Code() int {
	return orderStatusCodes[o]
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// OrderStatusFromCode resolves a numeric wire code to its status.
func OrderStatusFromCode(code int) (OrderStatus, error) {
	for status, candidate := range orderStatusCodes {
		if candidate == code {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid order status code %d", code)
}
