// internal/domain/models/carelog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CareLog is one pastoral care interaction with a member. The note body is
// HTML-sanitized before it is stored.
type CareLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID     primitive.ObjectID `bson:"member_id" json:"member_id"`
	Type         string             `bson:"type" json:"type"` // visit | call | prayer | counseling
	Note         string             `bson:"note,omitempty" json:"note,omitempty"`
	Confidential bool               `bson:"confidential" json:"confidential"`
	CareDate     time.Time          `bson:"care_date" json:"care_date"`
	CreatedBy    string             `bson:"created_by,omitempty" json:"created_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ValidCareType reports whether t is a known care interaction type.
func ValidCareType(t string) bool {
	switch t {
	case "visit", "call", "prayer", "counseling":
		return true
	}
	return false
}
