// internal/app/features/admin/routes.go
package admin

import "github.com/go-chi/chi/v5"

// Routes wires the admin screens. Mounted behind the admin role check.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeOverview)
	r.Post("/recount", h.HandleRecount)

	r.Get("/projects", h.ServeProjects)

	r.Get("/users", h.ServeUsers)
	r.Post("/users/{id}/role", h.HandleChangeRole)
	r.Post("/users/{id}/ban", h.HandleToggleBan)

	r.Get("/requests", h.ServeRequests)
	r.Post("/requests/{id}", h.HandleResolveRequest)

	r.Get("/reports", h.ServeReports)
	r.Post("/reports/{id}/clear", h.HandleClearReports)

	return r
}
