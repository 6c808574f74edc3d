// internal/app/features/lead/routes.go
package lead

import "github.com/go-chi/chi/v5"

// Routes wires the lead dashboard and project management screens.
// Ownership checks happen per project in the handlers, so admins share
// these routes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeDashboard)
	r.Get("/projects/new", h.ServeNew)
	r.Post("/projects", h.HandleCreate)
	r.Get("/projects/{id}", h.ServeManage)
	r.Get("/projects/{id}/edit", h.ServeEdit)
	r.Post("/projects/{id}/edit", h.HandleEdit)
	r.Post("/projects/{id}/delete", h.HandleDelete)
	r.Post("/projects/{id}/report/{userID}", h.HandleReport)

	return r
}
