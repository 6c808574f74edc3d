// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/volunteerhub/internal/app/system/normalize"
	"github.com/dalemusser/volunteerhub/internal/app/system/status"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

type Store struct {
	c  *mongo.Collection
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users"), db: db}
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("an account with that email already exists")
)

// GetByID loads one user.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail loads a user by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ResolveIdentity maps an external identity to a local user, creating a
// volunteer account on first sign-in.
//
// Resolution order: match on auth_id; else match on email and link the
// auth_id to the existing account; else insert. Two first sign-ins
// racing on insert are settled by the unique email index: the loser
// re-reads the winner's document.
func (s *Store) ResolveIdentity(ctx context.Context, authID, email, name string) (*models.User, error) {
	email = normalize.Email(email)
	name = normalize.Name(name)

	var u models.User
	err := s.c.FindOne(ctx, bson.M{"auth_id": authID}).Decode(&u)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// Known email, first external sign-in: link the identity.
	now := time.Now().UTC()
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{
			"auth_id":     authID,
			"auth_method": "google",
			"updated_at":  now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// Brand new account. Everyone starts as an active volunteer.
	doc := bson.M{
		"full_name":             name,
		"full_name_ci":          text.Fold(name),
		"email":                 email,
		"auth_id":               authID,
		"auth_method":           "google",
		"role":                  "volunteer",
		"status":                status.Active,
		"lead_access_requested": false,
		"lead_access_rejected":  false,
		"created_at":            now,
		"updated_at":            now,
	}
	res, err := s.c.InsertOne(ctx, doc)
	if err != nil {
		if wafflemongo.IsDup(err) {
			// Lost the race; the other request created the account.
			return s.GetByEmail(ctx, email)
		}
		return nil, err
	}

	u = models.User{
		ID:         res.InsertedID.(primitive.ObjectID),
		FullName:   name,
		FullNameCI: text.Fold(name),
		Email:      email,
		AuthID:     &authID,
		AuthMethod: "google",
		Role:       "volunteer",
		Status:     status.Active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return &u, nil
}

// CreatePasswordUser inserts a password-auth volunteer account.
func (s *Store) CreatePasswordUser(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	email = normalize.Email(email)
	name = normalize.Name(name)
	now := time.Now().UTC()

	doc := bson.M{
		"full_name":             name,
		"full_name_ci":          text.Fold(name),
		"email":                 email,
		"auth_method":           "password",
		"password_hash":         passwordHash,
		"role":                  "volunteer",
		"status":                status.Active,
		"lead_access_requested": false,
		"lead_access_rejected":  false,
		"created_at":            now,
		"updated_at":            now,
	}
	res, err := s.c.InsertOne(ctx, doc)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	u := models.User{
		ID:         res.InsertedID.(primitive.ObjectID),
		FullName:   name,
		FullNameCI: text.Fold(name),
		Email:      email,
		AuthMethod: "password",
		Role:       "volunteer",
		Status:     status.Active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return &u, nil
}

// UpdateName rewrites the display name. Validation (length, trimming)
// happens at the handler; the store only folds and persists.
func (s *Store) UpdateName(ctx context.Context, id primitive.ObjectID, name string) error {
	name = normalize.Name(name)
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"full_name":    name,
			"full_name_ci": text.Fold(name),
			"updated_at":   time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByRole returns users of one role sorted by folded name, for the
// admin user screens.
func (s *Store) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"role": role},
		options.Find().SetSort(bson.D{
			{Key: "full_name_ci", Value: 1},
			{Key: "_id", Value: 1},
		}))
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

// ListByIDs loads the given users sorted by folded name.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{
			{Key: "full_name_ci", Value: 1},
			{Key: "_id", Value: 1},
		}))
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

// CountByRole returns per-role user counts for the admin overview.
func (s *Store) CountByRole(ctx context.Context) (map[string]int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": "$role",
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
			Role string `bson:"_id"`
			N    int64  `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Role] = row.N
	}
	return out, cur.Err()
}

// ListLeadRequests returns users with a pending lead-access request.
func (s *Store) ListLeadRequests(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"lead_access_requested": true},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: 1}}))
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
