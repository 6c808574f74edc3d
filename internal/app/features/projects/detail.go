// internal/app/features/projects/detail.go
package projects

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/volunteerhub/internal/app/policy/projectpolicy"
	projectstore "github.com/dalemusser/volunteerhub/internal/app/store/projects"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"github.com/dalemusser/volunteerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

type detailPageData struct {
	viewdata.BaseVM
	Project     models.Project
	Description template.HTML
	Joined      bool
	CanJoin     bool
	CanManage   bool
}

// ServeDetail handles GET /projects/{id}. Drafts are visible only to
// their lead and admins.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "projects: bad id", err, "That project link is invalid.", "/projects")
		return
	}

	p, err := h.Projects.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "projects: not found", err, "That project doesn't exist.", "/projects")
			return
		}
		h.ErrLog.LogServerError(w, r, "projects: load failed", err, "", "/projects")
		return
	}

	canView, err := projectpolicy.CanViewProject(ctx, h.DB, r, p.ID, p.Status)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: view policy check failed", err, "", "/projects")
		return
	}
	if !canView {
		h.ErrLog.LogNotFound(w, r, "projects: draft hidden", nil, "That project doesn't exist.", "/projects")
		return
	}

	_, _, uid, signedIn := authz.UserCtx(r)

	joined := false
	if signedIn {
		joined, err = h.Parts.Exists(ctx, uid, p.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "projects: enrollment check failed", err, "", "/projects")
			return
		}
	}

	canManage := false
	if signedIn {
		canManage, err = projectpolicy.CanManageProject(ctx, h.DB, r, p.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "projects: manage policy check failed", err, "", "/projects")
			return
		}
	}

	data := detailPageData{
		BaseVM:      viewdata.NewBaseVM(r, p.Title, "/projects"),
		Project:     *p,
		Description: htmlsanitize.PrepareForDisplay(p.Description),
		Joined:      joined,
		CanJoin:     signedIn,
		CanManage:   canManage,
	}
	templates.Render(w, r, "project_detail", data)
}
