// internal/app/features/lead/edit.go
package lead

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	projectstore "github.com/dalemusser/volunteerhub/internal/app/store/projects"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
)

// ServeEdit handles GET /lead/projects/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p := h.loadManaged(w, r, ctx)
	if p == nil {
		return
	}

	data := projectFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Edit "+p.Title, "/lead/projects/"+p.ID.Hex()),
		Form:      formFromProject(p),
		Editing:   true,
		ProjectID: p.ID.Hex(),
		Statuses:  statusChoices,
	}
	templates.Render(w, r, "project_form", data)
}

// HandleEdit handles POST /lead/projects/{id}/edit. The store enforces
// the lifecycle and capacity guards; guard failures come back to the
// form with the store's message.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p := h.loadManaged(w, r, ctx)
	if p == nil {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/lead")
		return
	}

	renderForm := func(form projectForm, msg string) {
		data := projectFormData{
			BaseVM:    viewdata.NewBaseVM(r, "Edit "+p.Title, "/lead/projects/"+p.ID.Hex()),
			Form:      form,
			FormError: msg,
			Editing:   true,
			ProjectID: p.ID.Hex(),
			Statuses:  statusChoices,
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "project_form", data)
	}

	form, msg := parseProjectForm(r, true)
	if msg != "" {
		renderForm(form, msg)
		return
	}

	err := h.Projects.Update(ctx, p.ID, form.Title, form.Description, form.Location, form.Status, form.StartDate, form.Capacity)
	if err != nil {
		var capErr *projectstore.CapacityBelowEnrolledError
		switch {
		case errors.Is(err, projectstore.ErrDraftRevert):
			renderForm(form, "This project has been published and can't go back to draft.")
		case errors.As(err, &capErr):
			renderForm(form, capErr.Error())
		default:
			h.ErrLog.LogServerError(w, r, "lead: update project failed", err, "", "/lead")
		}
		return
	}

	h.Log.Info("project updated", zap.String("project_id", p.ID.Hex()))
	http.Redirect(w, r, "/lead/projects/"+p.ID.Hex(), http.StatusSeeOther)
}
