// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it defaults to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Sign in required", backURL),
		Message: "Please sign in to continue.",
	}
	templates.Render(w, r, "error_page", data)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Access denied", backURL),
		Message: msg,
	}
	templates.Render(w, r, "error_page", data)
}

// RenderNotFound shows a "not found" page with a message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	w.WriteHeader(http.StatusNotFound)
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Not found", backURL),
		Message: msg,
	}
	templates.Render(w, r, "error_page", data)
}

// RenderBadRequest shows a validation error page with a message.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	w.WriteHeader(http.StatusBadRequest)
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Something's not right", backURL),
		Message: msg,
	}
	templates.Render(w, r, "error_page", data)
}

// RenderDBError shows a generic database error page. The underlying error
// is logged by the caller; users only see a neutral message.
func RenderDBError(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	w.WriteHeader(http.StatusInternalServerError)
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Something went wrong", backURL),
		Message: "A database error occurred. Please try again.",
	}
	templates.Render(w, r, "error_page", data)
}
