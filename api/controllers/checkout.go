package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	checkoutsvc "github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type checkoutRequest struct {
	City           string `json:"city" validate:"required"`
	Street         string `json:"street" validate:"required"`
	DeliveryMethod string `json:"delivery_method" validate:"required"`
	PaymentMethod  string `json:"payment_method" validate:"required"`
}

// Checkout turns the member's cart into an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := accountIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		delivery, err := enums.ParseDeliveryMethod(payload.DeliveryMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery method"))
			return
		}
		paymentMethod, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		confirmation, err := svc.CreateOrder(r.Context(), accountID, checkoutsvc.Input{
			City:           payload.City,
			Street:         payload.Street,
			DeliveryMethod: delivery,
			PaymentMethod:  paymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"order_id":      confirmation.Order.ID,
			"status":        confirmation.Order.Status.String(),
			"status_code":   confirmation.Order.Status.Code(),
			"subtotal":      confirmation.Subtotal,
			"delivery_fee":  confirmation.DeliveryFee,
			"total_payable": confirmation.TotalPayable,
		})
	}
}
