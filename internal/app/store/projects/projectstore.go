// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

var (
	ErrNotFound = errors.New("project not found")

	// ErrDraftRevert rejects moving a published project back to draft.
	// Volunteers may already be enrolled; hiding the project would strand
	// them.
	ErrDraftRevert = errors.New("a published project cannot go back to draft")
)

// CapacityBelowEnrolledError rejects shrinking capacity under the current
// enrollment count.
type CapacityBelowEnrolledError struct {
	Capacity int
	Enrolled int
}

func (e *CapacityBelowEnrolledError) Error() string {
	return fmt.Sprintf("capacity %d is below the current enrollment of %d", e.Capacity, e.Enrolled)
}

// Create inserts a new project owned by leadID. Projects start as drafts
// with a zero enrollment counter.
func (s *Store) Create(ctx context.Context, leadID primitive.ObjectID, title, description, location string, startDate *time.Time, capacity *int) (primitive.ObjectID, error) {
	now := time.Now().UTC()
	doc := bson.M{
		"title":          title,
		"title_ci":       text.Fold(title),
		"description":    description,
		"lead_id":        leadID,
		"status":         models.ProjectStatusDraft,
		"location":       location,
		"start_date":     startDate,
		"capacity":       capacity,
		"enrolled_count": 0,
		"created_at":     now,
		"updated_at":     now,
	}
	res, err := s.c.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// GetByID loads one project.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update rewrites a project's editable fields after enforcing the
// lifecycle and capacity guards:
//
//   - a project that has left draft can never return to draft
//   - capacity cannot be set below the current enrollment count
//
// The enrollment counter itself is never written here; only the
// participations store touches it.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, description, location, newStatus string, startDate *time.Time, capacity *int) error {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if newStatus == models.ProjectStatusDraft && cur.Status != models.ProjectStatusDraft {
		return ErrDraftRevert
	}
	if capacity != nil && *capacity < cur.EnrolledCount {
		return &CapacityBelowEnrolledError{Capacity: *capacity, Enrolled: cur.EnrolledCount}
	}

	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"title":       title,
			"title_ci":    text.Fold(title),
			"description": description,
			"location":    location,
			"status":      newStatus,
			"start_date":  startDate,
			"capacity":    capacity,
			"updated_at":  time.Now().UTC(),
		}})
	return err
}

// Delete removes the project document only. Callers cascade the
// enrollment ledger through the participations store.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActive returns active projects sorted by folded title, for the
// public browse page.
func (s *Store) ListActive(ctx context.Context) ([]models.Project, error) {
	return s.list(ctx, bson.M{"status": models.ProjectStatusActive},
		bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}})
}

// ListAll returns every project regardless of status, newest first.
// Admin-only listing.
func (s *Store) ListAll(ctx context.Context) ([]models.Project, error) {
	return s.list(ctx, bson.M{}, bson.D{{Key: "created_at", Value: -1}})
}

// ListByLead returns all of one lead's projects, newest first.
func (s *Store) ListByLead(ctx context.Context, leadID primitive.ObjectID) ([]models.Project, error) {
	return s.list(ctx, bson.M{"lead_id": leadID},
		bson.D{{Key: "created_at", Value: -1}})
}

// ListByIDs loads the given projects, sorted by folded title.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.list(ctx, bson.M{"_id": bson.M{"$in": ids}},
		bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}})
}

func (s *Store) list(ctx context.Context, filter bson.M, sort bson.D) ([]models.Project, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Project
	for cur.Next(ctx) {
		var p models.Project
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, cur.Err()
}

// CountByStatus returns per-status project counts for the admin overview.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": "$status",
			"n":   bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			N      int64  `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Status] = row.N
	}
	return out, cur.Err()
}
