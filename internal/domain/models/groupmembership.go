// internal/domain/models/groupmembership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupMembership is the authoritative join between members and groups.
// Exactly one document per (member_id, group_id); role is a scalar
// ("leader"|"member").
type GroupMembership struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID  primitive.ObjectID `bson:"group_id" json:"group_id"`
	MemberID primitive.ObjectID `bson:"member_id" json:"member_id"`
	Role     string             `bson:"role" json:"role"` // "leader" | "member"
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}
