package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

func accountIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.AccountIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	accountID, err := uuid.Parse(raw)
	if err != nil || accountID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	return accountID, nil
}

// cartOwnerFromRequest maps the request identity onto a cart owner: the
// authenticated account when present, the guest session otherwise.
func cartOwnerFromRequest(r *http.Request) (cart.Owner, error) {
	if raw := middleware.AccountIDFromContext(r.Context()); raw != "" {
		accountID, err := uuid.Parse(raw)
		if err != nil || accountID == uuid.Nil {
			return cart.Owner{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return cart.MemberOwner(accountID), nil
	}
	if token := middleware.SessionTokenFromContext(r.Context()); token != "" {
		return cart.GuestOwner(token), nil
	}
	return cart.Owner{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "no cart session")
}

func uuidURLParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name)
	}
	return id, nil
}
