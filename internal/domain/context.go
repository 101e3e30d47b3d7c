// Package domain provides the core catalog, cart and account types, the
// application error model, and request context helpers.
package domain

import (
	"context"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// claimsContextKey stores the verified token claims.
	claimsContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// Claims is the verified identity attached to an authenticated request.
type Claims struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// --- Claims Context Helpers ---

// NewContextWithClaims returns a new context with the claims attached.
func NewContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext retrieves the claims from context.
// Returns nil if the request is not authenticated.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey).(*Claims)
	return claims
}

// UserIDFromContext retrieves the authenticated user id.
// Returns "" if no claims are present.
func UserIDFromContext(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

// RequireUserID retrieves the user ID from context, panicking if not present.
// Handlers behind the auth middleware use this; the panic is caught by the
// recovery middleware.
func RequireUserID(ctx context.Context) string {
	id := UserIDFromContext(ctx)
	if id == "" {
		panic("user_id required in context but not found")
	}
	return id
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
