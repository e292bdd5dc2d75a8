package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	pkgauth "github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const sessionTokenHeader = "X-Session-Token"

// CartSession resolves who owns the cart for the request. A valid
// bearer token wins and seeds the account id; otherwise the guest
// session token from the header is used, minted fresh when absent.
// The token in play is always echoed back so clients can persist it.
func CartSession(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := bearerToken(r); token != "" {
				if claims, err := pkgauth.ParseAccessToken(cfg, token); err == nil {
					ctx = WithAccountID(ctx, claims.AccountID.String())
					ctx = WithAdmin(ctx, claims.Admin)
					if logg != nil {
						ctx = logg.WithAccountID(ctx, claims.AccountID.String())
					}
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			sessionToken := strings.TrimSpace(r.Header.Get(sessionTokenHeader))
			if sessionToken == "" {
				sessionToken = uuid.NewString()
			}
			w.Header().Set(sessionTokenHeader, sessionToken)

			ctx = WithSessionToken(ctx, sessionToken)
			if logg != nil {
				ctx = logg.WithField(ctx, "session_token", sessionToken)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
