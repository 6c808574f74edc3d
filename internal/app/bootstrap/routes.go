// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminfeature "github.com/dalemusser/volunteerhub/internal/app/features/admin"
	authgooglefeature "github.com/dalemusser/volunteerhub/internal/app/features/authgoogle"
	errorsfeature "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/volunteerhub/internal/app/features/health"
	homefeature "github.com/dalemusser/volunteerhub/internal/app/features/home"
	leadfeature "github.com/dalemusser/volunteerhub/internal/app/features/lead"
	loginfeature "github.com/dalemusser/volunteerhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/volunteerhub/internal/app/features/logout"
	projectsfeature "github.com/dalemusser/volunteerhub/internal/app/features/projects"
	settingsfeature "github.com/dalemusser/volunteerhub/internal/app/features/settings"
	volunteerfeature "github.com/dalemusser/volunteerhub/internal/app/features/volunteer"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and Startup have completed. Route mounts enforce coarse role checks;
// per-resource decisions (project ownership, self-targeting rules) live
// in the handlers and stores behind them.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fetch fresh user data on each request so role changes and bans
	// take effect without touching session cookies.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Boot the template engine once; dev mode reloads templates.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	db := deps.MongoDatabase

	r := chi.NewRouter()

	// Loads the SessionUser into context when signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Error pages and the NotFound handler
	errorsfeature.Routes(r, errorsfeature.NewHandler())

	// Authentication
	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""
	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, googleEnabled, logger)
	loginfeature.Routes(r, loginHandler)

	if googleEnabled {
		googleHandler := authgooglefeature.NewHandler(db, sessionMgr,
			appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, appCfg.SessionKey, logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Public project browsing; join/leave check the volunteer role in
	// the handlers so anonymous visitors can still browse.
	projectsHandler := projectsfeature.NewHandler(db, errLog, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler))

	// Role-scoped areas
	volunteerHandler := volunteerfeature.NewHandler(db, errLog, logger)
	r.With(sessionMgr.RequireRole(authz.RoleVolunteer)).
		Mount("/volunteer", volunteerfeature.Routes(volunteerHandler))

	leadHandler := leadfeature.NewHandler(db, errLog, logger)
	r.With(sessionMgr.RequireRole(authz.RoleLead, authz.RoleAdmin)).
		Mount("/lead", leadfeature.Routes(leadHandler))

	adminHandler := adminfeature.NewHandler(db, errLog, logger)
	r.With(sessionMgr.RequireRole(authz.RoleAdmin)).
		Mount("/admin", adminfeature.Routes(adminHandler))

	settingsHandler := settingsfeature.NewHandler(db, errLog, logger)
	r.With(sessionMgr.RequireSignedIn).
		Mount("/settings", settingsfeature.Routes(settingsHandler))

	// Home page
	homeHandler := homefeature.NewHandler(db, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	return r, nil
}
