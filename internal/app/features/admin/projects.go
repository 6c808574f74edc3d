// internal/app/features/admin/projects.go
package admin

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

type projectsPageData struct {
	viewdata.BaseVM
	Projects []models.Project
}

// ServeProjects handles GET /admin/projects: every project on the
// platform. Management actions, delete included, go through the shared
// project screens, where the admin role passes the manage policy.
func (h *Handler) ServeProjects(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projects, err := h.Projects.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: list projects failed", err, "", "/admin")
		return
	}

	data := projectsPageData{
		BaseVM:   viewdata.NewBaseVM(r, "All Projects", "/admin"),
		Projects: projects,
	}
	templates.Render(w, r, "admin_projects", data)
}
