// Package projectpolicy provides authorization policies for project
// management.
//
// Authorization rules:
//   - Admins can manage every project
//   - Leads can manage only projects they own
//   - Volunteers cannot manage projects
package projectpolicy

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
)

// IsOwner reports whether the user owns the project according to the
// projects collection.
func IsOwner(ctx context.Context, db *mongo.Database, projectID, userID primitive.ObjectID) (bool, error) {
	c := db.Collection("projects")
	n, err := c.CountDocuments(ctx, bson.M{
		"_id":     projectID,
		"lead_id": userID,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CanManageProject reports whether the current request user can edit,
// delete, or moderate the given project. Returns an error only when the
// database check fails, so callers can distinguish "not authorized"
// (false, nil) from "database error" (false, err).
func CanManageProject(ctx context.Context, db *mongo.Database, r *http.Request, projectID primitive.ObjectID) (bool, error) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}
	if role == authz.RoleAdmin {
		return true, nil
	}
	if role != authz.RoleLead {
		return false, nil
	}
	return IsOwner(ctx, db, projectID, uid)
}

// CanViewProject reports whether the current request user may see the
// project's detail page. Active and completed projects are public;
// drafts are visible only to whoever can manage them.
func CanViewProject(ctx context.Context, db *mongo.Database, r *http.Request, projectID primitive.ObjectID, projectStatus string) (bool, error) {
	if projectStatus != "draft" {
		return true, nil
	}
	return CanManageProject(ctx, db, r, projectID)
}
