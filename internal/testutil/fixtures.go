// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		AuthMethod: "password",
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateVolunteer creates a test volunteer.
func (f *Fixtures) CreateVolunteer(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "volunteer")
}

// CreateLead creates a test lead.
func (f *Fixtures) CreateLead(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "lead")
}

// CreateAdmin creates a test admin.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "admin")
}

// CreateProject creates an active project owned by the given lead.
// capacity nil means unlimited.
func (f *Fixtures) CreateProject(ctx context.Context, title string, leadID primitive.ObjectID, capacity *int) models.Project {
	f.t.Helper()
	return f.CreateProjectWithStatus(ctx, title, leadID, capacity, "active")
}

// CreateProjectWithStatus creates a project in the given lifecycle state.
func (f *Fixtures) CreateProjectWithStatus(ctx context.Context, title string, leadID primitive.ObjectID, capacity *int, status string) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:            primitive.NewObjectID(),
		Title:         title,
		TitleCI:       text.Fold(title),
		Description:   "Test project description",
		LeadID:        leadID,
		Status:        status,
		Capacity:      capacity,
		EnrolledCount: 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := f.db.Collection("projects").InsertOne(ctx, p)
	if err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateParticipation inserts an enrollment row directly and bumps the
// project counter, mirroring what a successful join does.
func (f *Fixtures) CreateParticipation(ctx context.Context, userID, projectID primitive.ObjectID) models.Participation {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Participation{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		ProjectID: projectID,
		CreatedAt: now,
	}

	_, err := f.db.Collection("participations").InsertOne(ctx, p)
	if err != nil {
		f.t.Fatalf("failed to create test participation: %v", err)
	}
	_, err = f.db.Collection("projects").UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{"$inc": bson.M{"enrolled_count": 1}})
	if err != nil {
		f.t.Fatalf("failed to bump enrolled_count: %v", err)
	}
	return p
}
