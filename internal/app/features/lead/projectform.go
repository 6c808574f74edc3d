// internal/app/features/lead/projectform.go
package lead

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

// projectForm carries the parsed and validated project fields shared by
// the create and edit handlers.
type projectForm struct {
	Title       string
	Description string
	Location    string
	Status      string
	StartDate   *time.Time
	Capacity    *int
}

type projectFormData struct {
	viewdata.BaseVM
	Form      projectForm
	FormError string
	Editing   bool
	ProjectID string
	Statuses  []string
}

// parseProjectForm validates the submitted fields. It returns a
// user-facing message on the first problem found.
func parseProjectForm(r *http.Request, allowStatus bool) (projectForm, string) {
	var f projectForm

	f.Title = strings.TrimSpace(r.FormValue("title"))
	if len(f.Title) < 3 {
		return f, "Title must be at least 3 characters."
	}

	f.Description = htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("description")))
	f.Location = strings.TrimSpace(r.FormValue("location"))

	if raw := strings.TrimSpace(r.FormValue("start_date")); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, "Start date must look like 2025-03-14."
		}
		f.StartDate = &t
	}

	if raw := strings.TrimSpace(r.FormValue("capacity")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return f, "Capacity must be a positive number, or left blank for unlimited."
		}
		f.Capacity = &n
	}

	f.Status = models.ProjectStatusDraft
	if allowStatus {
		f.Status = strings.TrimSpace(r.FormValue("status"))
		if !models.ValidProjectStatus(f.Status) {
			return f, "Choose a valid project status."
		}
	}

	return f, ""
}

func formFromProject(p *models.Project) projectForm {
	return projectForm{
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		Status:      p.Status,
		StartDate:   p.StartDate,
		Capacity:    p.Capacity,
	}
}
