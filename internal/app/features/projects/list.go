// internal/app/features/projects/list.go
package projects

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

type projectRow struct {
	models.Project
	Joined bool
}

type listPageData struct {
	viewdata.BaseVM
	Rows []projectRow
}

// ServeList handles GET /projects: every active project, with the
// viewer's own enrollments marked.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projects, err := h.Projects.ListActive(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: list failed", err, "", "/")
		return
	}

	joined := map[primitive.ObjectID]bool{}
	_, _, uid, signedIn := authz.UserCtx(r)
	if signedIn {
		ids, err := h.Parts.ProjectIDsByUser(ctx, uid)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "projects: loading enrollments failed", err, "", "/")
			return
		}
		for _, id := range ids {
			joined[id] = true
		}
	}

	rows := make([]projectRow, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, projectRow{Project: p, Joined: joined[p.ID]})
	}

	data := listPageData{
		BaseVM: viewdata.NewBaseVM(r, "Projects", "/"),
		Rows:   rows,
	}
	templates.Render(w, r, "project_list", data)
}
