// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project lifecycle states. Draft projects are only visible to their
// lead; once published they never return to draft.
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
)

// ValidProjectStatus reports whether s is a recognized lifecycle state.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusActive, ProjectStatusCompleted:
		return true
	}
	return false
}

// Project is a volunteer initiative owned by a lead.
//
// EnrolledCount is a denormalized cache of the number of participations
// rows for this project. It is only ever mutated with atomic $inc in the
// same code path as the participation insert/delete, and the reconcile
// worker can rebuild it from the participations collection.
type Project struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"title_ci"`
	Description string             `bson:"description" json:"description"`
	LeadID      primitive.ObjectID `bson:"lead_id" json:"lead_id"`

	Status    string     `bson:"status" json:"status"` // draft | active | completed
	Location  string     `bson:"location,omitempty" json:"location,omitempty"`
	StartDate *time.Time `bson:"start_date,omitempty" json:"start_date,omitempty"`

	// Capacity is nil for unlimited projects.
	Capacity      *int `bson:"capacity,omitempty" json:"capacity,omitempty"`
	EnrolledCount int  `bson:"enrolled_count" json:"enrolled_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsFull reports whether the project has a capacity and it is reached.
func (p Project) IsFull() bool {
	return p.Capacity != nil && p.EnrolledCount >= *p.Capacity
}
