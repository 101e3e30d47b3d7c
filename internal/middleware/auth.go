package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/dukerupert/forever/internal/telemetry"
)

type contextKey string

// TokenHeader carries the access token. It is a plain header, not a bearer
// Authorization scheme, for compatibility with the storefront clients.
const TokenHeader = "token"

// TokenParser verifies an access token.
type TokenParser interface {
	Parse(token string) (*domain.Claims, error)
}

// Rejection reasons reported to metrics.
var rejectReasons = map[string]string{
	"Not Authorized - Please login again": "missing",
	"Invalid token - Please login again":  "invalid",
	"Token expired - Please login again":  "expired",
}

// RequireUser verifies the token header and attaches the claims to the
// request context. Requests without a valid token never reach next.
func RequireUser(tokens TokenParser, onError ErrorFunc) func(http.Handler) http.Handler {
	onError = orDefault(onError)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := tokens.Parse(r.Header.Get(TokenHeader))
			if err != nil {
				if telemetry.Business != nil {
					reason, ok := rejectReasons[domain.RawMessage(err)]
					if !ok {
						reason = "invalid"
					}
					telemetry.Business.AuthRejects.WithLabelValues(reason).Inc()
				}
				onError(w, r, err)
				return
			}

			ctx := domain.NewContextWithClaims(r.Context(), claims)
			ctx = context.WithValue(ctx, LoggerContextKey,
				GetLogger(ctx).With(slog.String("user_id", claims.UserID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose claims lack the admin role with 403.
// It must run after RequireUser.
func RequireAdmin(onError ErrorFunc) func(http.Handler) http.Handler {
	onError = orDefault(onError)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := domain.ClaimsFromContext(r.Context())
			if claims == nil {
				onError(w, r, domain.Unauthorized("auth.admin", "Not Authorized - Please login again"))
				return
			}
			if !claims.IsAdmin() {
				if telemetry.Business != nil {
					telemetry.Business.AuthRejects.WithLabelValues("forbidden").Inc()
				}
				onError(w, r, domain.Forbidden("auth.admin", "Admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
