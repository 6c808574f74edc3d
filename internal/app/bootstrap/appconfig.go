// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, timeouts); AppConfig is everything specific to VolunteerHub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: volunteerhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Google OAuth configuration. Sign-in with Google is offered only
	// when both values are set.
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth callbacks (e.g., "https://volunteerhub.org")
	BaseURL string

	// ReconcileSchedule is the cron spec for the enrollment counter
	// reconcile worker (e.g., "@every 10m").
	ReconcileSchedule string
}
