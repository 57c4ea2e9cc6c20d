// internal/domain/models/volunteer.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Volunteer is a one-to-one extension of a Member carrying serving
// preferences. At most one volunteer profile per member (unique index on
// member_id).
type Volunteer struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID            primitive.ObjectID `bson:"member_id" json:"member_id"`
	Skills              []string           `bson:"skills,omitempty" json:"skills"`
	Interests           []string           `bson:"interests,omitempty" json:"interests"`
	PreferredMinistries []string           `bson:"preferred_ministries,omitempty" json:"preferred_ministries"`
	MaxHoursPerWeek     int                `bson:"max_hours_per_week,omitempty" json:"max_hours_per_week,omitempty"`
	BackgroundCheck     string             `bson:"background_check" json:"background_check"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Background-check states.
const (
	BackgroundCheckNotRequired = "not-required"
	BackgroundCheckRequired    = "required"
	BackgroundCheckPending     = "pending"
	BackgroundCheckInProgress  = "in-progress"
	BackgroundCheckApproved    = "approved"
	BackgroundCheckExpired     = "expired"
	BackgroundCheckRejected    = "rejected"
)

// ValidBackgroundCheck reports whether s is a known background-check state.
func ValidBackgroundCheck(s string) bool {
	switch s {
	case BackgroundCheckNotRequired, BackgroundCheckRequired, BackgroundCheckPending,
		BackgroundCheckInProgress, BackgroundCheckApproved, BackgroundCheckExpired,
		BackgroundCheckRejected:
		return true
	}
	return false
}
