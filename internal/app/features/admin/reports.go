// internal/app/features/admin/reports.go
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

type reportsPageData struct {
	viewdata.BaseVM
	Reported []models.User
}

// ServeReports handles GET /admin/reports: users flagged by leads.
func (h *Handler) ServeReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reported, err := h.Users.ListReported(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: list reported failed", err, "", "/admin")
		return
	}

	data := reportsPageData{
		BaseVM:   viewdata.NewBaseVM(r, "Reports", "/admin"),
		Reported: reported,
	}
	templates.Render(w, r, "admin_reports", data)
}

// HandleClearReports handles POST /admin/reports/{id}/clear.
func (h *Handler) HandleClearReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	actorID, targetID, ok := h.targetFromURL(w, r)
	if !ok {
		return
	}

	if err := h.Users.ClearReports(ctx, targetID); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "admin: clear reports target missing", err, "That user doesn't exist.", "/admin/reports")
			return
		}
		h.ErrLog.LogServerError(w, r, "admin: clear reports failed", err, "", "/admin/reports")
		return
	}

	h.Log.Info("reports cleared",
		zap.String("target_id", targetID.Hex()),
		zap.String("actor_id", actorID.Hex()))

	http.Redirect(w, r, "/admin/reports?notice="+url.QueryEscape("Reports cleared."), http.StatusSeeOther)
}
