// internal/app/features/lead/manage.go
package lead

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/volunteerhub/internal/app/policy/projectpolicy"
	projectstore "github.com/dalemusser/volunteerhub/internal/app/store/projects"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

// loadManaged resolves {id}, loads the project, and enforces the manage
// policy. It writes the error page itself and returns nil when the
// caller should stop.
func (h *Handler) loadManaged(w http.ResponseWriter, r *http.Request, ctx context.Context) *models.Project {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "lead: bad project id", err, "That project link is invalid.", "/lead")
		return nil
	}

	p, err := h.Projects.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "lead: project not found", err, "That project doesn't exist.", "/lead")
			return nil
		}
		h.ErrLog.LogServerError(w, r, "lead: load project failed", err, "", "/lead")
		return nil
	}

	allowed, err := projectpolicy.CanManageProject(ctx, h.DB, r, p.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "lead: manage policy check failed", err, "", "/lead")
		return nil
	}
	if !allowed {
		h.ErrLog.LogForbidden(w, r, "lead: not project owner", "You can only manage your own projects.", "/lead")
		return nil
	}
	return p
}

type rosterEntry struct {
	ID       string
	FullName string
	Email    string
	Reported bool
}

type managePageData struct {
	viewdata.BaseVM
	Project models.Project
	Roster  []rosterEntry
}

// ServeManage handles GET /lead/projects/{id}: project summary plus the
// volunteer roster with report actions.
func (h *Handler) ServeManage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := h.loadManaged(w, r, ctx)
	if p == nil {
		return
	}

	userIDs, err := h.Parts.UserIDsByProject(ctx, p.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "lead: roster lookup failed", err, "", "/lead")
		return
	}
	users, err := h.Users.ListByIDs(ctx, userIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "lead: roster load failed", err, "", "/lead")
		return
	}

	roster := make([]rosterEntry, 0, len(users))
	for _, u := range users {
		reported := false
		for _, rep := range u.Reports {
			if rep.ProjectID == p.ID {
				reported = true
				break
			}
		}
		roster = append(roster, rosterEntry{
			ID:       u.ID.Hex(),
			FullName: u.FullName,
			Email:    u.Email,
			Reported: reported,
		})
	}

	data := managePageData{
		BaseVM:  viewdata.NewBaseVM(r, p.Title, "/lead"),
		Project: *p,
		Roster:  roster,
	}
	templates.Render(w, r, "lead_project", data)
}
