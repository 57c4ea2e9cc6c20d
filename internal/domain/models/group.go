// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group represents a ministry group, small group, committee, or team.
//
// NOTE:
//   - Member lists are not embedded on Group. All membership is stored in
//     the group_memberships collection.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Type        string             `bson:"type" json:"type"` // ministry | small-group | committee | team
	Schedule    string             `bson:"schedule,omitempty" json:"schedule,omitempty"`

	Status string `bson:"status" json:"status"` // active | inactive

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GroupTypes is the closed set of group types.
var GroupTypes = []string{"ministry", "small-group", "committee", "team"}

// ValidGroupType reports whether t is a known group type.
func ValidGroupType(t string) bool {
	for _, v := range GroupTypes {
		if t == v {
			return true
		}
	}
	return false
}
