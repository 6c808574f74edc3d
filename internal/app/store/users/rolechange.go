// internal/app/store/users/rolechange.go
package userstore

// Role and account lifecycle changes. A role change away from volunteer
// must clean up the user's enrollments and the affected project
// counters; otherwise leads would appear on rosters they can no longer
// act in, and counts would hold slots nobody fills.

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	participationstore "github.com/dalemusser/volunteerhub/internal/app/store/participations"
	"github.com/dalemusser/volunteerhub/internal/app/system/status"
	"github.com/dalemusser/volunteerhub/internal/app/system/txn"
)

var (
	ErrSelfRoleChange      = errors.New("you cannot change your own role")
	ErrSelfBan             = errors.New("you cannot suspend your own account")
	ErrBadRole             = errors.New(`role must be "volunteer", "lead", or "admin"`)
	ErrLeadRequestRejected = errors.New("a previous lead access request was declined")
)

// ChangeRole sets the target's role. When the target is currently a
// volunteer and moves to any other role, their enrollments are purged
// and project counters decremented in the same operation.
//
// On replica sets the purge and the role write share a transaction. On
// standalone servers the work runs plain in a deliberate order: counters
// are decremented before ledger rows are deleted, so a crash between the
// two leaves counters low rather than high. The reconcile worker raises
// low counters back to the ledger truth.
func (s *Store) ChangeRole(ctx context.Context, actorID, targetID primitive.ObjectID, newRole string) error {
	if actorID == targetID {
		return ErrSelfRoleChange
	}
	if newRole != "volunteer" && newRole != "lead" && newRole != "admin" {
		return ErrBadRole
	}

	target, err := s.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.Role == newRole {
		return nil
	}

	parts := participationstore.New(s.db)
	needsPurge := target.Role == "volunteer"

	apply := func(c context.Context) error {
		if needsPurge {
			if _, err := parts.PurgeUser(c, targetID); err != nil {
				return err
			}
		}
		set := bson.M{
			"role":                  newRole,
			"lead_access_requested": false,
			"updated_at":            time.Now().UTC(),
		}
		if newRole == "lead" {
			// Granting lead access supersedes any earlier rejection.
			set["lead_access_rejected"] = false
		}
		res, err := s.c.UpdateOne(c, bson.M{"_id": targetID}, bson.M{"$set": set})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	}

	err = txn.WithTransaction(ctx, s.db.Client(), func(sc mongo.SessionContext) error {
		return apply(sc)
	})
	if err != nil && txn.IsNotSupported(err) {
		zap.L().Warn("transactions unavailable; changing role with ordered writes",
			zap.String("user_id", targetID.Hex()))
		return apply(ctx)
	}
	return err
}

// ToggleBan flips the target between active and banned and returns the
// new status. Banned users fail the session fetcher on their next
// request, so a ban takes effect without touching their session cookie.
func (s *Store) ToggleBan(ctx context.Context, actorID, targetID primitive.ObjectID) (string, error) {
	if actorID == targetID {
		return "", ErrSelfBan
	}

	target, err := s.GetByID(ctx, targetID)
	if err != nil {
		return "", err
	}

	next := status.Banned
	if target.Status == status.Banned {
		next = status.Active
	}

	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$set": bson.M{"status": next, "updated_at": time.Now().UTC()}})
	if err != nil {
		return "", err
	}
	return next, nil
}

// RequestLeadAccess records a volunteer's request to become a lead.
// Users with a standing rejection must be un-rejected by an admin first.
func (s *Store) RequestLeadAccess(ctx context.Context, userID primitive.ObjectID) error {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.LeadAccessRejected {
		return ErrLeadRequestRejected
	}

	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"lead_access_requested": true,
			"updated_at":            time.Now().UTC(),
		}})
	return err
}

// ResolveLeadRequest settles a pending request. Approval promotes the
// user to lead through ChangeRole (with its enrollment purge); rejection
// records a standing rejection that blocks re-requests.
func (s *Store) ResolveLeadRequest(ctx context.Context, actorID, targetID primitive.ObjectID, approve bool) error {
	if approve {
		return s.ChangeRole(ctx, actorID, targetID, "lead")
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$set": bson.M{
			"lead_access_requested": false,
			"lead_access_rejected":  true,
			"updated_at":            time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
