// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes mounts the sign-in and registration pages at the root router.
func Routes(r chi.Router, h *Handler) {
	r.Get("/login", h.ServeLogin)
	r.Post("/login", h.HandleLogin)
	r.Get("/register", h.ServeRegister)
	r.Post("/register", h.HandleRegister)
}
