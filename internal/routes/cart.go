package routes

import "github.com/dukerupert/forever/internal/router"

// RegisterCartRoutes registers the per-user cart routes. All of them
// require a signed-in user.
func RegisterCartRoutes(r *router.Router, deps CartDeps) {
	cart := r.Group(deps.Auth.RequireUser)

	cart.Post("/cart/add", deps.Handler.Add)
	cart.Put("/cart/update", deps.Handler.Update)
	cart.Get("/cart/{$}", deps.Handler.Get)
	cart.Delete("/cart/clear", deps.Handler.Clear)
}
