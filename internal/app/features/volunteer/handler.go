// internal/app/features/volunteer/handler.go
package volunteer

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	participationstore "github.com/dalemusser/volunteerhub/internal/app/store/participations"
	projectstore "github.com/dalemusser/volunteerhub/internal/app/store/projects"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

// Handler serves the volunteer dashboard: the projects the signed-in
// volunteer is enrolled in.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Projects *projectstore.Store
	Parts    *participationstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Projects: projectstore.New(db),
		Parts:    participationstore.New(db),
	}
}

type dashboardData struct {
	viewdata.BaseVM
	Projects []models.Project
}

// ServeDashboard handles GET /volunteer. Routes mount it behind
// RequireRole("volunteer").
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ids, err := h.Parts.ProjectIDsByUser(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "volunteer: loading enrollments failed", err, "", "/projects")
		return
	}
	projects, err := h.Projects.ListByIDs(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "volunteer: loading projects failed", err, "", "/projects")
		return
	}

	data := dashboardData{
		BaseVM:   viewdata.NewBaseVM(r, "My Projects", "/projects"),
		Projects: projects,
	}
	templates.Render(w, r, "volunteer_dashboard", data)
}
