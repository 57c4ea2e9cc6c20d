// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is the core person record for a congregation.
//
// NOTE:
//   - Tags are not embedded on Member. Use the member_tags collection to
//     discover a member's tags (tags themselves are a shared lookup table).
//   - Emergency contact and preferences are one-to-one sub-records in their
//     own collections, keyed by member_id, created/updated/deleted in
//     lockstep with the member.
//   - Address is persisted as an opaque serialized JSON string; decode it
//     with the address package (decode failure yields a nil address, never
//     an error).
type Member struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName   string             `bson:"first_name" json:"first_name"`
	LastName    string             `bson:"last_name" json:"last_name"`
	LastNameCI  string             `bson:"last_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	DateOfBirth *time.Time         `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	Address     string             `bson:"address,omitempty" json:"-"`

	Status   string     `bson:"status" json:"status"` // pending | active | inactive
	JoinedAt *time.Time `bson:"joined_at,omitempty" json:"joined_at,omitempty"`

	Journey *MemberJourney `bson:"journey,omitempty" json:"journey,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy string    `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

// Address is the structured form of the serialized member address.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

// MemberJourney tracks a member's progress through a spiritual journey
// template. It lives on the member document because it is owned by the
// member and always read/written with it.
type MemberJourney struct {
	TemplateID     primitive.ObjectID `bson:"template_id" json:"template_id"`
	CurrentStage   string             `bson:"current_stage" json:"current_stage"`
	StartedAt      *time.Time         `bson:"started_at,omitempty" json:"started_at,omitempty"`
	StageEnteredAt *time.Time         `bson:"stage_entered_at,omitempty" json:"stage_entered_at,omitempty"`
	CompletedAt    *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// EmergencyContact is the one-to-one emergency contact sub-record for a
// member. Exactly one document per member_id.
type EmergencyContact struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID     primitive.ObjectID `bson:"member_id" json:"member_id"`
	Name         string             `bson:"name" json:"name"`
	Relationship string             `bson:"relationship,omitempty" json:"relationship,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// MemberPreferences is the one-to-one communication preferences sub-record
// for a member. Exactly one document per member_id.
type MemberPreferences struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID         primitive.ObjectID `bson:"member_id" json:"member_id"`
	EmailOptIn       bool               `bson:"email_opt_in" json:"email_opt_in"`
	SMSOptIn         bool               `bson:"sms_opt_in" json:"sms_opt_in"`
	PreferredContact string             `bson:"preferred_contact,omitempty" json:"preferred_contact,omitempty"` // email | phone | sms
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}
