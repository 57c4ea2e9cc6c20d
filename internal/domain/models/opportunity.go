// internal/domain/models/opportunity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Opportunity is a volunteer serving posting.
//
// Invariant: CurrentVolunteers never exceeds MaxVolunteers when
// MaxVolunteers is set (> 0). Signups enforce this inside a transaction.
type Opportunity struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	TitleCI        string             `bson:"title_ci" json:"-"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Ministry       string             `bson:"ministry" json:"ministry"`
	SkillsRequired []string           `bson:"skills_required,omitempty" json:"skills_required"`

	MaxVolunteers     int `bson:"max_volunteers,omitempty" json:"max_volunteers,omitempty"`
	CurrentVolunteers int `bson:"current_volunteers" json:"current_volunteers"`

	Urgency                 string `bson:"urgency" json:"urgency"` // low | normal | high | urgent
	Status                  string `bson:"status" json:"status"`
	BackgroundCheckRequired bool   `bson:"background_check_required" json:"background_check_required"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Opportunity statuses.
const (
	OpportunityDraft      = "draft"
	OpportunityOpen       = "open"
	OpportunityFilled     = "filled"
	OpportunityInProgress = "in-progress"
	OpportunityCompleted  = "completed"
	OpportunityCancelled  = "cancelled"
	OpportunityOnHold     = "on-hold"
)

// ValidOpportunityStatus reports whether s is a known opportunity status.
func ValidOpportunityStatus(s string) bool {
	switch s {
	case OpportunityDraft, OpportunityOpen, OpportunityFilled, OpportunityInProgress,
		OpportunityCompleted, OpportunityCancelled, OpportunityOnHold:
		return true
	}
	return false
}

// Urgency levels.
const (
	UrgencyLow    = "low"
	UrgencyNormal = "normal"
	UrgencyHigh   = "high"
	UrgencyUrgent = "urgent"
)

// ValidUrgency reports whether s is a known urgency level.
func ValidUrgency(s string) bool {
	switch s {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyUrgent:
		return true
	}
	return false
}

// Signup links a member to an opportunity they serve in. Exactly one
// document per (opportunity_id, member_id).
type Signup struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OpportunityID primitive.ObjectID `bson:"opportunity_id" json:"opportunity_id"`
	MemberID      primitive.ObjectID `bson:"member_id" json:"member_id"`
	SignedUpAt    time.Time          `bson:"signed_up_at" json:"signed_up_at"`
}
