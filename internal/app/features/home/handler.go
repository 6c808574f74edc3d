// internal/app/features/home/handler.go
package home

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	projectstore "github.com/dalemusser/volunteerhub/internal/app/store/projects"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
	}
}

// ServeRoot handles GET / with a landing page and a taste of what's
// open right now.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var featured []models.Project
	projects, err := projectstore.New(h.DB).ListActive(ctx)
	if err != nil {
		// The landing page still renders without the teaser list.
		h.Log.Warn("home: loading active projects failed", zap.Error(err))
	} else {
		if len(projects) > 6 {
			projects = projects[:6]
		}
		featured = projects
	}

	data := struct {
		viewdata.BaseVM
		Featured []models.Project
	}{
		BaseVM:   viewdata.NewBaseVM(r, "Welcome", "/"),
		Featured: featured,
	}

	templates.Render(w, r, "home", data)
}
