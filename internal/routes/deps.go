package routes

import (
	"net/http"

	"github.com/dukerupert/forever/internal/handler/api"
	"github.com/dukerupert/forever/internal/router"
)

// AuthDeps holds the access-control middleware shared by the route groups.
type AuthDeps struct {
	// RequireUser verifies the token header.
	RequireUser router.Middleware
	// RequireAdmin checks the admin role; it runs after RequireUser.
	RequireAdmin router.Middleware
}

// CartDeps contains dependencies for cart routes
type CartDeps struct {
	Handler *api.CartHandler
	Auth    AuthDeps
}

// ProductDeps contains dependencies for product routes
type ProductDeps struct {
	Handler *api.ProductHandler
	Auth    AuthDeps
	// AddRequiresAdmin protects POST /product/add. The storefront
	// historically left it open.
	AddRequiresAdmin bool
}

// UserDeps contains dependencies for account routes
type UserDeps struct {
	Handler *api.UserHandler
	// Limiter throttles the sign-in and sign-up endpoints.
	Limiter router.Middleware
}

// SystemDeps contains dependencies for operational routes
type SystemDeps struct {
	Metrics http.Handler
	// Health reports whether the process can serve traffic.
	Health http.HandlerFunc
	// UploadsDir is served under UploadsPrefix when images are stored
	// locally. Empty disables the route.
	UploadsDir    string
	UploadsPrefix string
	NotFound      http.HandlerFunc
}
