// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a scheduled gathering, optionally tied to a group.
type Event struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	TitleCI     string              `bson:"title_ci" json:"-"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Location    string              `bson:"location,omitempty" json:"location,omitempty"`
	GroupID     *primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`
	StartsAt    time.Time           `bson:"starts_at" json:"starts_at"`
	EndsAt      *time.Time          `bson:"ends_at,omitempty" json:"ends_at,omitempty"`
	Capacity    int                 `bson:"capacity,omitempty" json:"capacity,omitempty"`

	Status string `bson:"status" json:"status"` // scheduled | cancelled | completed

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Event statuses.
const (
	EventScheduled = "scheduled"
	EventCancelled = "cancelled"
	EventCompleted = "completed"
)

// ValidEventStatus reports whether s is a known event status.
func ValidEventStatus(s string) bool {
	switch s {
	case EventScheduled, EventCancelled, EventCompleted:
		return true
	}
	return false
}

// Attendance records one member's presence at one event. Exactly one
// document per (event_id, member_id); re-recording upserts.
type Attendance struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID    primitive.ObjectID `bson:"event_id" json:"event_id"`
	MemberID   primitive.ObjectID `bson:"member_id" json:"member_id"`
	Status     string             `bson:"status" json:"status"` // present | absent | excused
	RecordedAt time.Time          `bson:"recorded_at" json:"recorded_at"`
}

// ValidAttendanceStatus reports whether s is a known attendance status.
func ValidAttendanceStatus(s string) bool {
	switch s {
	case "present", "absent", "excused":
		return true
	}
	return false
}
