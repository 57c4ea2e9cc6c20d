// internal/domain/models/journeytemplate.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JourneyTemplate defines an ordered sequence of spiritual-growth stages
// (e.g., Explore -> Connect -> Serve -> Lead). A member's progress through a
// template lives on the member document (MemberJourney).
type JourneyTemplate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Stages      []JourneyStage     `bson:"stages" json:"stages"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// JourneyStage is one step in a journey template. Sequence starts at 1 and
// is dense (no gaps); stores enforce this on write.
type JourneyStage struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Sequence    int    `bson:"sequence" json:"sequence"`
}

// StageNamed returns the stage with the given name, or nil.
func (t *JourneyTemplate) StageNamed(name string) *JourneyStage {
	for i := range t.Stages {
		if t.Stages[i].Name == name {
			return &t.Stages[i]
		}
	}
	return nil
}
