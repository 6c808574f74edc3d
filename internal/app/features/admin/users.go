// internal/app/features/admin/users.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

type usersPageData struct {
	viewdata.BaseVM
	Role  string
	Users []models.User
	Roles []string
}

// ServeUsers handles GET /admin/users?role=volunteer|lead|admin.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	role := r.URL.Query().Get("role")
	if !authz.ValidRole(role) {
		role = authz.RoleVolunteer
	}

	users, err := h.Users.ListByRole(ctx, role)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: list users failed", err, "", "/admin")
		return
	}

	data := usersPageData{
		BaseVM: viewdata.NewBaseVM(r, "Users", "/admin"),
		Role:   role,
		Users:  users,
		Roles:  []string{authz.RoleVolunteer, authz.RoleLead, authz.RoleAdmin},
	}
	templates.Render(w, r, "admin_users", data)
}

// targetFromURL resolves the {id} route param and the acting admin.
func (h *Handler) targetFromURL(w http.ResponseWriter, r *http.Request) (actorID, targetID primitive.ObjectID, ok bool) {
	_, _, actorID, ok = authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return actorID, targetID, false
	}
	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "admin: bad user id", err, "That user link is invalid.", "/admin/users")
		return actorID, targetID, false
	}
	return actorID, targetID, true
}

func usersBack(r *http.Request) string {
	if role := r.FormValue("role"); authz.ValidRole(role) {
		return "/admin/users?role=" + role
	}
	return "/admin/users"
}

func redirectUsers(w http.ResponseWriter, r *http.Request, kind, msg string) {
	back := usersBack(r)
	sep := "?"
	if len(back) > len("/admin/users") {
		sep = "&"
	}
	http.Redirect(w, r, back+sep+kind+"="+url.QueryEscape(msg), http.StatusSeeOther)
}

// HandleChangeRole handles POST /admin/users/{id}/role. Moving a
// volunteer to lead or admin also withdraws them from every project
// they had joined.
func (h *Handler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actorID, targetID, ok := h.targetFromURL(w, r)
	if !ok {
		return
	}
	newRole := r.FormValue("new_role")

	err := h.Users.ChangeRole(ctx, actorID, targetID, newRole)
	if err != nil {
		switch {
		case errors.Is(err, userstore.ErrSelfRoleChange),
			errors.Is(err, userstore.ErrBadRole):
			redirectUsers(w, r, "error", err.Error())
		case errors.Is(err, userstore.ErrNotFound):
			h.ErrLog.LogNotFound(w, r, "admin: role change target missing", err, "That user doesn't exist.", usersBack(r))
		default:
			h.ErrLog.LogServerError(w, r, "admin: change role failed", err, "", usersBack(r))
		}
		return
	}

	h.Log.Info("role changed",
		zap.String("target_id", targetID.Hex()),
		zap.String("new_role", newRole),
		zap.String("actor_id", actorID.Hex()))

	redirectUsers(w, r, "notice", "Role updated.")
}

// HandleToggleBan handles POST /admin/users/{id}/ban.
func (h *Handler) HandleToggleBan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	actorID, targetID, ok := h.targetFromURL(w, r)
	if !ok {
		return
	}

	next, err := h.Users.ToggleBan(ctx, actorID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, userstore.ErrSelfBan):
			redirectUsers(w, r, "error", err.Error())
		case errors.Is(err, userstore.ErrNotFound):
			h.ErrLog.LogNotFound(w, r, "admin: ban target missing", err, "That user doesn't exist.", usersBack(r))
		default:
			h.ErrLog.LogServerError(w, r, "admin: toggle ban failed", err, "", usersBack(r))
		}
		return
	}

	h.Log.Info("user status changed",
		zap.String("target_id", targetID.Hex()),
		zap.String("status", next),
		zap.String("actor_id", actorID.Hex()))

	msg := "Account suspended."
	if next == "active" {
		msg = "Account reinstated."
	}
	redirectUsers(w, r, "notice", msg)
}
