// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents volunteers, leads, and admins.
//
// NOTE:
//   - Project enrollment is not embedded on User.
//     Use the participations collection to discover a user's projects.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`

	// AuthID is the identity issued by the external provider (Google's
	// subject ID). Empty for password-auth accounts, hence the sparse
	// unique index on this field.
	AuthID       *string `bson:"auth_id,omitempty" json:"auth_id,omitempty"`
	AuthMethod   string  `bson:"auth_method" json:"auth_method"` // google | password
	PasswordHash *string `bson:"password_hash,omitempty" json:"-"`

	Role   string `bson:"role" json:"role"`     // volunteer | lead | admin
	Status string `bson:"status" json:"status"` // active | banned

	LeadAccessRequested bool `bson:"lead_access_requested" json:"lead_access_requested"`
	LeadAccessRejected  bool `bson:"lead_access_rejected" json:"lead_access_rejected"`

	Reports []Report `bson:"reports,omitempty" json:"reports,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Report is a flag raised by a lead against a volunteer, embedded on the
// volunteer's user document. At most one per (reporter, project) pair.
type Report struct {
	ReporterID primitive.ObjectID `bson:"reporter_id" json:"reporter_id"`
	ProjectID  primitive.ObjectID `bson:"project_id" json:"project_id"`
	Reason     string             `bson:"reason" json:"reason"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
