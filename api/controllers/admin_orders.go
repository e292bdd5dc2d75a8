package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	ordersvc "github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type adminOrderActionRequest struct {
	Action   string      `json:"action" validate:"required"`
	OrderIDs []uuid.UUID `json:"order_ids" validate:"required,min=1"`
}

// AdminOrderAction applies a back-office bulk command to a set of
// orders and reports how many rows it touched.
func AdminOrderAction(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload adminOrderActionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action := enums.AdminOrderAction(payload.Action)
		if !action.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown admin action"))
			return
		}

		applied, err := svc.ApplyAdminAction(r.Context(), action, payload.OrderIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"action":  action,
			"applied": applied,
		})
	}
}
