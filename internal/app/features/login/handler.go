// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/app/system/authutil"
	"github.com/dalemusser/volunteerhub/internal/app/system/status"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
)

// Handler owns the password sign-in and registration pages. Google
// sign-in lives in the authgoogle feature; this page links to it.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Users      *userstore.Store

	GoogleEnabled bool
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		Users:         userstore.New(db),
		GoogleEnabled: googleEnabled,
	}
}

type loginPageData struct {
	viewdata.BaseVM
	ReturnURL     string
	GoogleEnabled bool
	FormError     string
	Email         string
}

// errorMessage translates ?error= codes from the OAuth flow into copy.
func errorMessage(code string) string {
	switch code {
	case "":
		return ""
	case "google_denied":
		return "Google sign-in was cancelled."
	case "google_not_configured":
		return "Google sign-in isn't available right now."
	case "invalid_state", "invalid_code", "token_exchange", "user_info":
		return "Sign-in didn't complete. Please try again."
	default:
		return "Sign-in failed. Please try again."
	}
}

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, signedIn := auth.CurrentUser(r); signedIn {
		http.Redirect(w, r, "/projects", http.StatusSeeOther)
		return
	}

	data := loginPageData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL:     r.URL.Query().Get("return"),
		GoogleEnabled: h.GoogleEnabled,
		FormError:     errorMessage(r.URL.Query().Get("error")),
	}
	templates.Render(w, r, "login", data)
}

// HandleLogin handles POST /login with email and password.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	returnURL := r.FormValue("return")

	renderError := func(msg string) {
		data := loginPageData{
			BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
			ReturnURL:     returnURL,
			GoogleEnabled: h.GoogleEnabled,
			FormError:     msg,
			Email:         email,
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "login", data)
	}

	if email == "" || password == "" {
		renderError("Enter your email and password.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			renderError("No account matches that email and password.")
			return
		}
		h.ErrLog.LogServerError(w, r, "login: lookup failed", err, "", "/login")
		return
	}
	if user.PasswordHash == nil || !authutil.CheckPassword(*user.PasswordHash, password) {
		renderError("No account matches that email and password.")
		return
	}
	if user.Status == status.Banned {
		http.Redirect(w, r, "/banned", http.StatusSeeOther)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, &auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "login: session create failed", err, "", "/login")
		return
	}

	h.Log.Info("user signed in",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", user.Role))

	dest := returnURL
	if dest == "" || !strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") {
		dest = "/projects"
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
