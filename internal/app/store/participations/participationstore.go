// internal/app/store/participations/participationstore.go
package participationstore

// The participations collection is the source of truth for who is
// enrolled in what. projects.enrolled_count is a denormalized counter
// kept in step with it; every write here pairs a ledger mutation with a
// counter adjustment. The unique (user_id, project_id) index is what
// makes concurrent duplicate joins safe: there is deliberately no
// existence pre-check before insert.

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

type Store struct {
	c        *mongo.Collection
	projects *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("participations"),
		projects: db.Collection("projects"),
	}
}

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrProjectNotActive = errors.New("project is not accepting volunteers")
	ErrProjectFull      = errors.New("project is already full")
	ErrAlreadyJoined    = errors.New("you have already joined this project")
)

// Join enrolls a volunteer in a project.
//
// The capacity check reads the counter before insert, so two volunteers
// racing for the last slot can both pass it; the project may end up one
// over capacity. That window is tolerated. Duplicate joins are not: the
// unique index rejects the second insert and the counter is never
// incremented for it.
func (s *Store) Join(ctx context.Context, userID, projectID primitive.ObjectID) error {
	var p models.Project
	err := s.projects.FindOne(ctx, bson.M{"_id": projectID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrProjectNotFound
		}
		return err
	}
	if p.Status != models.ProjectStatusActive {
		return ErrProjectNotActive
	}
	if p.Capacity != nil && p.EnrolledCount >= *p.Capacity {
		return ErrProjectFull
	}

	_, err = s.c.InsertOne(ctx, bson.M{
		"user_id":    userID,
		"project_id": projectID,
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrAlreadyJoined
		}
		return err
	}

	_, err = s.projects.UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{"$inc": bson.M{"enrolled_count": 1}})
	return err
}

// Leave removes a volunteer's enrollment. It reports left=false without
// error when the user was not enrolled, so leaving is idempotent.
//
// The decrement is guarded by enrolled_count > 0 so a drifted counter
// can never go negative.
func (s *Store) Leave(ctx context.Context, userID, projectID primitive.ObjectID) (left bool, err error) {
	err = s.c.FindOneAndDelete(ctx,
		bson.M{"user_id": userID, "project_id": projectID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}

	_, err = s.projects.UpdateOne(ctx,
		bson.M{"_id": projectID, "enrolled_count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"enrolled_count": -1}})
	if err != nil {
		return true, err
	}
	return true, nil
}

// Exists reports whether the user is enrolled in the project.
func (s *Store) Exists(ctx context.Context, userID, projectID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx,
		bson.M{"user_id": userID, "project_id": projectID},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountByProject counts enrollments straight from the ledger, bypassing
// the denormalized counter.
func (s *Store) CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"project_id": projectID})
}

// ProjectIDsByUser returns the IDs of every project the user is enrolled
// in, newest enrollment first.
func (s *Store) ProjectIDsByUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var p models.Participation
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		ids = append(ids, p.ProjectID)
	}
	return ids, cur.Err()
}

// UserIDsByProject returns the roster for a project.
func (s *Store) UserIDsByProject(ctx context.Context, projectID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"project_id": projectID},
		options.Find().SetSort(bson.D{{Key: "user_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var p models.Participation
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		ids = append(ids, p.UserID)
	}
	return ids, cur.Err()
}

// PurgeUser removes every enrollment a user holds and decrements the
// counters of the affected projects. Used when a volunteer stops being a
// volunteer (role change, account removal).
//
// When ctx is a session context inside a transaction, the whole purge is
// atomic. On standalone deployments callers run it plain; the order here
// (decrement first, delete second) means a crash mid-purge leaves
// counters under rather than over the ledger, which the reconcile job
// repairs upward.
func (s *Store) PurgeUser(ctx context.Context, userID primitive.ObjectID) (removed int64, err error) {
	ids, err := s.ProjectIDsByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	_, err = s.projects.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "enrolled_count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"enrolled_count": -1}})
	if err != nil {
		return 0, err
	}

	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByProject removes every enrollment for a project. The project
// document is being deleted along with its counter, so there is nothing
// to decrement.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// RecomputeResult reports what a reconcile pass changed.
type RecomputeResult struct {
	Checked  int
	Adjusted int
}

// Recompute recounts every project's enrollments from the ledger and
// rewrites any counter that has drifted. It is the repair path for the
// non-transactional fallbacks above.
func (s *Store) Recompute(ctx context.Context) (RecomputeResult, error) {
	var result RecomputeResult

	// True counts per project from the ledger.
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": "$project_id",
			"n":   bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return result, err
	}
	counts := map[primitive.ObjectID]int{}
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
			N  int                `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			cur.Close(ctx)
			return result, err
		}
		counts[row.ID] = row.N
	}
	cur.Close(ctx)
	if err := cur.Err(); err != nil {
		return result, err
	}

	// Compare against stored counters.
	pcur, err := s.projects.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"_id": 1, "enrolled_count": 1}))
	if err != nil {
		return result, err
	}
	defer pcur.Close(ctx)

	for pcur.Next(ctx) {
		var row struct {
			ID            primitive.ObjectID `bson:"_id"`
			EnrolledCount int                `bson:"enrolled_count"`
		}
		if err := pcur.Decode(&row); err != nil {
			return result, err
		}
		result.Checked++

		want := counts[row.ID]
		if row.EnrolledCount == want {
			continue
		}
		_, err := s.projects.UpdateOne(ctx,
			bson.M{"_id": row.ID},
			bson.M{"$set": bson.M{"enrolled_count": want}})
		if err != nil {
			return result, err
		}
		result.Adjusted++
	}
	return result, pcur.Err()
}
