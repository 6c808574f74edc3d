// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization, rendering appropriate
// error pages when checks fail.
//
// Authorization happens in three tiers:
//
//  1. Route-level middleware (auth.RequireSignedIn, auth.RequireRole)
//     applied in routes.go files for coarse-grained access control.
//
//  2. Handler-level gates (this package), for handlers that need role
//     checks without route-level middleware or with different
//     requirements than the route group. Gates render error pages and
//     return user context.
//
//  3. The policy layer (internal/app/policy/*) for resource-specific
//     authorization that needs database lookups, such as whether a lead
//     owns a particular project. Policies return (bool, error); callers
//     handle rendering.
//
// Don't stack gates behind role-specific middleware. If routes.go has
// RequireRole("admin"), handlers use authz.UserCtx(r) directly.
package gates

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/volunteerhub/internal/app/features/errors"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Role   string
	Name   string
	UserID primitive.ObjectID
	OK     bool
}

// RequireAuth ensures a user is authenticated. If not, it renders an
// unauthorized error and returns OK=false.
func RequireAuth(w http.ResponseWriter, r *http.Request, loginURL string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, loginURL)
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireAnyRole ensures the user is authenticated and has one of the
// specified roles. If not authenticated, renders an unauthorized error;
// if the role is not in the allowed list, renders a forbidden error.
func RequireAnyRole(w http.ResponseWriter, r *http.Request, forbiddenMsg, fallbackURL string, allowedRoles ...string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return Result{OK: false}
	}

	if authz.HasAnyRole(role, allowedRoles...) {
		return Result{Role: role, Name: name, UserID: uid, OK: true}
	}

	uierrors.RenderForbidden(w, r, forbiddenMsg, fallbackURL)
	return Result{OK: false}
}
