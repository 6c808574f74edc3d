// internal/app/features/lead/create.go
package lead

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

var statusChoices = []string{
	models.ProjectStatusDraft,
	models.ProjectStatusActive,
	models.ProjectStatusCompleted,
}

// ServeNew handles GET /lead/projects/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := projectFormData{
		BaseVM:   viewdata.NewBaseVM(r, "New Project", "/lead"),
		Statuses: statusChoices,
	}
	templates.Render(w, r, "project_form", data)
}

// HandleCreate handles POST /lead/projects. New projects always start
// as drafts; publishing is a separate edit.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/lead")
		return
	}

	form, msg := parseProjectForm(r, false)
	if msg != "" {
		data := projectFormData{
			BaseVM:    viewdata.NewBaseVM(r, "New Project", "/lead"),
			Form:      form,
			FormError: msg,
			Statuses:  statusChoices,
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "project_form", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := h.Projects.Create(ctx, uid, form.Title, form.Description, form.Location, form.StartDate, form.Capacity)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "lead: create project failed", err, "", "/lead")
		return
	}

	h.Log.Info("project created",
		zap.String("project_id", id.Hex()),
		zap.String("lead_id", uid.Hex()))

	http.Redirect(w, r, "/lead/projects/"+id.Hex(), http.StatusSeeOther)
}
