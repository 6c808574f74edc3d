// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

// Handler owns the signed-in user's settings screen: display name and
// the lead access request.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Users *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Users:  userstore.New(db),
	}
}

type settingsPageData struct {
	viewdata.BaseVM
	User          models.User
	IsVolunteer   bool
	LeadRequested bool
	LeadRejected  bool
}

// ServeSettings handles GET /settings.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "settings: load user failed", err, "", "/")
		return
	}

	data := settingsPageData{
		BaseVM:        viewdata.NewBaseVM(r, "Settings", "/"),
		User:          *u,
		IsVolunteer:   u.Role == authz.RoleVolunteer,
		LeadRequested: u.LeadAccessRequested,
		LeadRejected:  u.LeadAccessRejected,
	}
	templates.Render(w, r, "settings", data)
}

// HandleUpdateName handles POST /settings/name.
func (h *Handler) HandleUpdateName(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	name := strings.TrimSpace(r.FormValue("full_name"))
	if len(name) < 2 {
		http.Redirect(w, r, "/settings?error="+url.QueryEscape("Name must be at least 2 characters."), http.StatusSeeOther)
		return
	}

	if err := h.Users.UpdateName(ctx, uid, name); err != nil {
		h.ErrLog.LogServerError(w, r, "settings: update name failed", err, "", "/settings")
		return
	}

	http.Redirect(w, r, "/settings?notice="+url.QueryEscape("Name updated."), http.StatusSeeOther)
}

// HandleRequestLead handles POST /settings/request-lead.
func (h *Handler) HandleRequestLead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if role != authz.RoleVolunteer {
		http.Redirect(w, r, "/settings?error="+url.QueryEscape("Only volunteers can request lead access."), http.StatusSeeOther)
		return
	}

	if err := h.Users.RequestLeadAccess(ctx, uid); err != nil {
		if errors.Is(err, userstore.ErrLeadRequestRejected) {
			http.Redirect(w, r, "/settings?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		h.ErrLog.LogServerError(w, r, "settings: lead request failed", err, "", "/settings")
		return
	}

	h.Log.Info("lead access requested", zap.String("user_id", uid.Hex()))
	http.Redirect(w, r, "/settings?notice="+url.QueryEscape("Request sent. An admin will review it."), http.StatusSeeOther)
}
