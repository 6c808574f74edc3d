// Package authz provides small helpers for reading the signed-in user's
// identity and role out of the request. It sits on top of the auth
// package so handlers don't unpack SessionUser fields by hand.
package authz

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
)

// UserCtx extracts the current user's role, display name, and ObjectID
// from the request context. ok is false when no user is signed in or the
// stored ID is not a valid ObjectID.
func UserCtx(r *http.Request) (role, name string, uid primitive.ObjectID, ok bool) {
	u, found := auth.CurrentUser(r)
	if !found {
		return "", "", primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return "", "", primitive.NilObjectID, false
	}
	return u.Role, u.Name, oid, true
}

// IsAdmin reports whether the request is from an admin.
func IsAdmin(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.Role == RoleAdmin
}

// IsLead reports whether the request is from a project lead.
func IsLead(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.Role == RoleLead
}

// IsVolunteer reports whether the request is from a volunteer.
func IsVolunteer(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.Role == RoleVolunteer
}
