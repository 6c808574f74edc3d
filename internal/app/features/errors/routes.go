// internal/app/features/errors/routes.go
package errors

import "github.com/go-chi/chi/v5"

// Routes mounts the public error pages.
func Routes(r chi.Router, h *Handler) {
	r.Get("/forbidden", h.Forbidden)
	r.Get("/unauthorized", h.Unauthorized)
	r.Get("/banned", h.Banned)
	r.NotFound(h.NotFound)
}
