// internal/domain/models/announcement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement is an outbound communication to a set of members. The HTML
// body is sanitized before storage. MessageID is a stable UUID assigned at
// creation and carried into every delivered email's headers.
type Announcement struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	MessageID string              `bson:"message_id" json:"message_id"`
	Subject   string              `bson:"subject" json:"subject"`
	Body      string              `bson:"body" json:"body"`
	Audience  string              `bson:"audience" json:"audience"` // all | group | tag
	GroupID   *primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`
	Tag       string              `bson:"tag,omitempty" json:"tag,omitempty"`

	Status string     `bson:"status" json:"status"` // draft | sent
	SentAt *time.Time `bson:"sent_at,omitempty" json:"sent_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Announcement audiences.
const (
	AudienceAll   = "all"
	AudienceGroup = "group"
	AudienceTag   = "tag"
)

// ValidAudience reports whether a is a known announcement audience.
func ValidAudience(a string) bool {
	switch a {
	case AudienceAll, AudienceGroup, AudienceTag:
		return true
	}
	return false
}
