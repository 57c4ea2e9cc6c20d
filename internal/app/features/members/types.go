// internal/app/features/members/types.go
package members

import (
	"errors"
	"time"

	memberstore "github.com/MusaCap/faithlink360/internal/app/store/members"
	"github.com/MusaCap/faithlink360/internal/app/system/inputval"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memberPayload is the request body for member create and update.
type memberPayload struct {
	FirstName   string          `json:"firstName" validate:"required,max=100" label:"firstName"`
	LastName    string          `json:"lastName" validate:"required,max=100" label:"lastName"`
	Email       string          `json:"email" validate:"required,email" label:"email"`
	Phone       string          `json:"phone" validate:"max=50" label:"phone"`
	DateOfBirth *time.Time      `json:"dateOfBirth"`
	Address     *models.Address `json:"address"`
	Status      string          `json:"status" validate:"memberstatus" label:"status"`
	JoinedAt    *time.Time      `json:"joinedAt"`

	Tags             []string                 `json:"tags"`
	EmergencyContact *memberstore.ContactInfo `json:"emergencyContact"`
	Preferences      *memberstore.Preferences `json:"preferences"`
}

// validate checks the boundary requirements that map to a 400 before the
// store sees the payload.
func (p *memberPayload) validate() error {
	if res := inputval.Validate(p); res.HasErrors() {
		return errors.New(res.First())
	}
	return nil
}

func (p *memberPayload) writeParams() memberstore.WriteParams {
	return memberstore.WriteParams{
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Email:            p.Email,
		Phone:            p.Phone,
		DateOfBirth:      p.DateOfBirth,
		Address:          p.Address,
		Status:           p.Status,
		JoinedAt:         p.JoinedAt,
		Tags:             p.Tags,
		EmergencyContact: p.EmergencyContact,
		Preferences:      p.Preferences,
	}
}

// flatID recovers the ObjectID from a flattened member for audit stamps.
func flatID(f memberstore.Flat) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(f.ID)
}

// listEnvelope is the response shape for the filtered member list.
type listEnvelope struct {
	Members []memberstore.Flat `json:"members"`
	Total   int64              `json:"total"`
	Filters any                `json:"filters"`
}
