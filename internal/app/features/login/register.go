// internal/app/features/login/register.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"

	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/app/system/authutil"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"

	"go.uber.org/zap"
)

const minPasswordLen = 8

type registerPageData struct {
	viewdata.BaseVM
	GoogleEnabled bool
	FormError     string
	Name          string
	Email         string
}

// ServeRegister handles GET /register.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	if _, signedIn := auth.CurrentUser(r); signedIn {
		http.Redirect(w, r, "/projects", http.StatusSeeOther)
		return
	}

	data := registerPageData{
		BaseVM:        viewdata.NewBaseVM(r, "Create account", "/login"),
		GoogleEnabled: h.GoogleEnabled,
	}
	templates.Render(w, r, "register", data)
}

// HandleRegister handles POST /register. New accounts always start as
// volunteers.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/register")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	renderError := func(msg string) {
		data := registerPageData{
			BaseVM:        viewdata.NewBaseVM(r, "Create account", "/login"),
			GoogleEnabled: h.GoogleEnabled,
			FormError:     msg,
			Name:          name,
			Email:         email,
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "register", data)
	}

	if len(name) < 2 {
		renderError("Name must be at least 2 characters.")
		return
	}
	if !authutil.IsValidEmail(email) {
		renderError("Enter a valid email address.")
		return
	}
	if len(password) < minPasswordLen {
		renderError("Password must be at least 8 characters.")
		return
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: hashing failed", err, "", "/register")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.CreatePasswordUser(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, userstore.ErrEmailTaken) {
			renderError("An account with that email already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "register: insert failed", err, "", "/register")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, &auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "register: session create failed", err, "", "/login")
		return
	}

	h.Log.Info("account created",
		zap.String("user_id", user.ID.Hex()))

	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}
