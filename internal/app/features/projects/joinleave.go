// internal/app/features/projects/joinleave.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	participationstore "github.com/dalemusser/volunteerhub/internal/app/store/participations"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"github.com/dalemusser/volunteerhub/internal/app/system/gates"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
)

// HandleJoin handles POST /projects/{id}/join. Any signed-in user can
// enroll; leads and admins pitch in alongside volunteers.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAnyRole(w, r, "Sign in to join projects.", "/projects",
		authz.RoleVolunteer, authz.RoleLead, authz.RoleAdmin)
	if !res.OK {
		return
	}

	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "join: bad id", err, "That project link is invalid.", "/projects")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Parts.Join(ctx, res.UserID, oid)
	switch {
	case err == nil:
		h.Log.Info("user joined project",
			zap.String("user_id", res.UserID.Hex()),
			zap.String("project_id", oid.Hex()))
		redirectDetail(w, r, oid, "notice", "You're in. See you there!")
	case errors.Is(err, participationstore.ErrProjectNotFound):
		h.ErrLog.LogNotFound(w, r, "join: project gone", err, "That project doesn't exist.", "/projects")
	case errors.Is(err, participationstore.ErrProjectNotActive),
		errors.Is(err, participationstore.ErrProjectFull),
		errors.Is(err, participationstore.ErrAlreadyJoined):
		redirectDetail(w, r, oid, "error", err.Error())
	default:
		h.ErrLog.LogServerError(w, r, "join: failed", err, "", "/projects")
	}
}

// HandleLeave handles POST /projects/{id}/leave. Open to any signed-in
// user; leaving a project you never joined succeeds quietly.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "leave: bad id", err, "That project link is invalid.", "/projects")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	left, err := h.Parts.Leave(ctx, res.UserID, oid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "leave: failed", err, "", "/projects")
		return
	}

	if left {
		h.Log.Info("user left project",
			zap.String("user_id", res.UserID.Hex()),
			zap.String("project_id", oid.Hex()))
		redirectDetail(w, r, oid, "notice", "You've left the project.")
		return
	}
	redirectDetail(w, r, oid, "notice", "You weren't enrolled in that project.")
}

func redirectDetail(w http.ResponseWriter, r *http.Request, id primitive.ObjectID, kind, msg string) {
	http.Redirect(w, r, "/projects/"+id.Hex()+"?"+kind+"="+url.QueryEscape(msg), http.StatusSeeOther)
}
