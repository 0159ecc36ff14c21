package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Reshigan/SalesSync-sub013/api/responses"
	pkgerrors "github.com/Reshigan/SalesSync-sub013/pkg/errors"
	"github.com/Reshigan/SalesSync-sub013/pkg/logger"
)

const userIDHeader = "X-User-Id"

// Identity resolves the acting user from the gateway-injected header and puts
// it on the request context. Authentication itself happens upstream at the
// platform gateway.
func Identity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(userIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing"))
				return
			}
			if _, err := uuid.Parse(raw); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity"))
				return
			}

			ctx := WithUserID(r.Context(), raw)
			if logg != nil {
				ctx = logg.WithUserID(ctx, raw)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
