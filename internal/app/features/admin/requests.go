// internal/app/features/admin/requests.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

type requestsPageData struct {
	viewdata.BaseVM
	Requests []models.User
}

// ServeRequests handles GET /admin/requests: pending lead-access
// requests, oldest first.
func (h *Handler) ServeRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	requests, err := h.Users.ListLeadRequests(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: list lead requests failed", err, "", "/admin")
		return
	}

	data := requestsPageData{
		BaseVM:   viewdata.NewBaseVM(r, "Lead Requests", "/admin"),
		Requests: requests,
	}
	templates.Render(w, r, "admin_requests", data)
}

// HandleResolveRequest handles POST /admin/requests/{id} with
// decision=approve|reject. Approval promotes to lead, which withdraws
// the user from any projects they had joined as a volunteer.
func (h *Handler) HandleResolveRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actorID, targetID, ok := h.targetFromURL(w, r)
	if !ok {
		return
	}
	approve := r.FormValue("decision") == "approve"

	err := h.Users.ResolveLeadRequest(ctx, actorID, targetID, approve)
	if err != nil {
		switch {
		case errors.Is(err, userstore.ErrSelfRoleChange):
			http.Redirect(w, r, "/admin/requests?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		case errors.Is(err, userstore.ErrNotFound):
			h.ErrLog.LogNotFound(w, r, "admin: request target missing", err, "That user doesn't exist.", "/admin/requests")
		default:
			h.ErrLog.LogServerError(w, r, "admin: resolve lead request failed", err, "", "/admin/requests")
		}
		return
	}

	h.Log.Info("lead request resolved",
		zap.String("target_id", targetID.Hex()),
		zap.Bool("approved", approve),
		zap.String("actor_id", actorID.Hex()))

	msg := "Request declined."
	if approve {
		msg = "Lead access granted."
	}
	http.Redirect(w, r, "/admin/requests?notice="+url.QueryEscape(msg), http.StatusSeeOther)
}
