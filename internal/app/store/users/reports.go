// internal/app/store/users/reports.go
package userstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

var ErrDuplicateReport = errors.New("you have already reported this volunteer for this project")

// AddReport appends a report to the target's embedded report list.
// A reporter may file at most one report per project against a given
// volunteer.
func (s *Store) AddReport(ctx context.Context, targetID, reporterID, projectID primitive.ObjectID, reason string) error {
	target, err := s.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	for _, rep := range target.Reports {
		if rep.ReporterID == reporterID && rep.ProjectID == projectID {
			return ErrDuplicateReport
		}
	}

	report := models.Report{
		ReporterID: reporterID,
		ProjectID:  projectID,
		Reason:     reason,
		CreatedAt:  time.Now().UTC(),
	}
	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{
			"$push": bson.M{"reports": report},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	return err
}

// ClearReports wipes the target's report list.
func (s *Store) ClearReports(ctx context.Context, targetID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$set": bson.M{
			"reports":    []models.Report{},
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListReported returns users carrying at least one report, most recently
// updated first. Used on the admin moderation screen.
func (s *Store) ListReported(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"reports.0": bson.M{"$exists": true}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, cur.Err()
}
