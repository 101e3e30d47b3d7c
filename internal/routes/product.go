package routes

import "github.com/dukerupert/forever/internal/router"

// RegisterProductRoutes registers the catalog routes. Reads are public;
// changes to existing products need an admin token.
func RegisterProductRoutes(r *router.Router, deps ProductDeps) {
	r.Get("/product/products", deps.Handler.List)
	r.Get("/product/{id}", deps.Handler.Get)

	admin := r.Group(deps.Auth.RequireUser, deps.Auth.RequireAdmin)
	admin.Put("/product/{id}", deps.Handler.Update)
	admin.Delete("/product/{id}", deps.Handler.Delete)

	if deps.AddRequiresAdmin {
		admin.Post("/product/add", deps.Handler.Create)
	} else {
		r.Post("/product/add", deps.Handler.Create)
	}
}
