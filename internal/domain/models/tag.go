// internal/domain/models/tag.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tag is a shared, free-form label. Tags are a lookup table: members link
// to tags through member_tags, and a tag is never owned by one member.
// Name is unique case-insensitively (enforced through name_ci).
type Tag struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// MemberTag links one member to one tag. Exactly one document per
// (member_id, tag_id).
type MemberTag struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID primitive.ObjectID `bson:"member_id" json:"member_id"`
	TagID    primitive.ObjectID `bson:"tag_id" json:"tag_id"`
	LinkedAt time.Time          `bson:"linked_at" json:"linked_at"`
}
