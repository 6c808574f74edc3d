// internal/domain/models/participation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participation is the authoritative join between users and projects.
// Exactly one document per (user_id, project_id), enforced by a unique
// index; the duplicate-key error from that index is how concurrent double
// joins are detected.
type Participation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
