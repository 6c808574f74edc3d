// internal/app/features/lead/report.go
package lead

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"github.com/dalemusser/volunteerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
)

// HandleReport handles POST /lead/projects/{id}/report. Leads can flag
// a volunteer on their own roster; the report lands on the user record
// for admins to review.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := h.loadManaged(w, r, ctx)
	if p == nil {
		return
	}
	backURL := "/lead/projects/" + p.ID.Hex()

	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", backURL)
		return
	}

	volunteerID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "lead: bad volunteer id", err, "That volunteer link is invalid.", backURL)
		return
	}

	reason := strings.TrimSpace(htmlsanitize.StripTags(r.FormValue("reason")))
	if len(reason) < 5 {
		http.Redirect(w, r, backURL+"?error="+url.QueryEscape("Please give a short reason for the report."), http.StatusSeeOther)
		return
	}

	enrolled, err := h.Parts.Exists(ctx, volunteerID, p.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "lead: enrollment check failed", err, "", backURL)
		return
	}
	if !enrolled {
		h.ErrLog.LogBadRequest(w, r, "lead: report target not enrolled", nil,
			"That volunteer isn't on this project's roster.", backURL)
		return
	}

	if err := h.Users.AddReport(ctx, volunteerID, uid, p.ID, reason); err != nil {
		if errors.Is(err, userstore.ErrDuplicateReport) {
			http.Redirect(w, r, backURL+"?error="+url.QueryEscape("You've already reported this volunteer for this project."), http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "lead: add report failed", err, "", backURL)
		return
	}

	h.Log.Info("volunteer reported",
		zap.String("project_id", p.ID.Hex()),
		zap.String("volunteer_id", volunteerID.Hex()),
		zap.String("reporter_id", uid.Hex()))

	http.Redirect(w, r, backURL+"?notice="+url.QueryEscape("Report submitted."), http.StatusSeeOther)
}
