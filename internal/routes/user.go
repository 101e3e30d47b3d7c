package routes

import "github.com/dukerupert/forever/internal/router"

// RegisterUserRoutes registers account creation and sign-in. The POST
// routes run behind the stricter auth rate limiter.
func RegisterUserRoutes(r *router.Router, deps UserDeps) {
	r.Get("/user/{$}", deps.Handler.Ping)

	auth := r
	if deps.Limiter != nil {
		auth = r.Group(deps.Limiter)
	}
	auth.Post("/user/register", deps.Handler.Register)
	auth.Post("/user/login", deps.Handler.Login)
	auth.Post("/user/admin", deps.Handler.AdminLogin)
}
