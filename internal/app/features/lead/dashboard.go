// internal/app/features/lead/dashboard.go
package lead

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"

	uierrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

type dashboardData struct {
	viewdata.BaseVM
	Projects []models.Project
}

// ServeDashboard handles GET /lead: the lead's own projects, every
// status included.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projects, err := h.Projects.ListByLead(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "lead: loading projects failed", err, "", "/")
		return
	}

	data := dashboardData{
		BaseVM:   viewdata.NewBaseVM(r, "Lead Dashboard", "/"),
		Projects: projects,
	}
	templates.Render(w, r, "lead_dashboard", data)
}
