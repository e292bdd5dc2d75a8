// Package payment drives the simulated payment lifecycle of an order:
// submission moves it to confirming, settlement resolves it to paid or
// back to unpaid with an attached gateway error.
package payment

import (
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// CanSubmit reports whether an order in the given status may enter
// payment. Only freshly registered and previously declined orders
// qualify.
func CanSubmit(status enums.OrderStatus) bool {
	return status == enums.OrderStatusRegistered || status == enums.OrderStatusUnpaid
}

// BeginConfirming returns the status an order moves to when a payment
// is submitted, or a conflict error when the order is not eligible.
func BeginConfirming(current enums.OrderStatus) (enums.OrderStatus, error) {
	if !CanSubmit(current) {
		return current, pkgerrors.New(pkgerrors.CodeConflict, "order is not awaiting payment")
	}
	return enums.OrderStatusConfirming, nil
}

// SettleOutcome returns the status a confirming order resolves to.
// Approved settlements land on paid; declined ones fall back to unpaid
// so the buyer can retry.
func SettleOutcome(current enums.OrderStatus, approved bool) (enums.OrderStatus, error) {
	if current != enums.OrderStatusConfirming {
		return current, pkgerrors.New(pkgerrors.CodeConflict, "order is not awaiting settlement")
	}
	if approved {
		return enums.OrderStatusPaid, nil
	}
	return enums.OrderStatusUnpaid, nil
}
