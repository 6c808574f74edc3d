// internal/app/features/settings/routes.go
package settings

import "github.com/go-chi/chi/v5"

// Routes wires the settings screen. Mounted behind the signed-in check.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeSettings)
	r.Post("/name", h.HandleUpdateName)
	r.Post("/request-lead", h.HandleRequestLead)

	return r
}
