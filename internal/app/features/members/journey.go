// internal/app/features/members/journey.go
package members

import (
	"errors"
	"net/http"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// journeyPayload is the request body for PUT /api/members/{id}/journey.
// An empty templateId clears the member's journey.
type journeyPayload struct {
	TemplateID   string `json:"templateId"`
	CurrentStage string `json:"currentStage"`
}

// UpdateJourney handles PUT /api/members/{id}/journey: place the member
// on a journey template stage, advance them to another stage, or clear
// the journey entirely.
func (h *Handler) UpdateJourney(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid member id")
		return
	}

	var p journeyPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "member journey update")
	defer cancel()

	if p.TemplateID == "" {
		if err := h.Members.UpdateJourney(ctx, id, nil); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				httpjson.NotFound(w, "member not found")
				return
			}
			httpjson.Internal(w, h.Log, "member journey clear failed", err)
			return
		}
		h.Audit.JourneyUpdated(ctx, r, id, "")
		flat, err := h.Members.GetFlat(ctx, id)
		if err != nil {
			httpjson.Internal(w, h.Log, "member journey clear failed", err)
			return
		}
		httpjson.Respond(w, http.StatusOK, flat)
		return
	}

	templateID, err := primitive.ObjectIDFromHex(p.TemplateID)
	if err != nil {
		httpjson.BadRequest(w, "invalid templateId")
		return
	}
	tmpl, err := h.Templates.GetByID(ctx, templateID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.BadRequest(w, "unknown journey template")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "member journey update failed", err)
		return
	}
	stage := tmpl.StageNamed(p.CurrentStage)
	if stage == nil {
		httpjson.BadRequest(w, "currentStage is not a stage of this template")
		return
	}

	m, err := h.Members.Get(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "member not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "member journey update failed", err)
		return
	}

	now := time.Now().UTC()
	j := &models.MemberJourney{
		TemplateID:     templateID,
		CurrentStage:   stage.Name,
		StartedAt:      &now,
		StageEnteredAt: &now,
	}
	// Staying on the same template keeps the original start date.
	if m.Journey != nil && m.Journey.TemplateID == templateID && m.Journey.StartedAt != nil {
		j.StartedAt = m.Journey.StartedAt
	}
	// Reaching the final stage closes the journey out.
	if stage.Sequence == len(tmpl.Stages) {
		j.CompletedAt = &now
	}

	if err := h.Members.UpdateJourney(ctx, id, j); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "member not found")
			return
		}
		httpjson.Internal(w, h.Log, "member journey update failed", err)
		return
	}

	h.Audit.JourneyUpdated(ctx, r, id, stage.Name)
	flat, err := h.Members.GetFlat(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, "member journey update failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, flat)
}
