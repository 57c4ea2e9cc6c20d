// internal/app/features/journeys/templates.go
package journeys

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	journeystore "github.com/MusaCap/faithlink360/internal/app/store/journeys"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type stagePayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Sequence    int    `json:"sequence"`
}

type templatePayload struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Stages      []stagePayload `json:"stages"`
}

// validate checks the payload and returns the stages ready for the
// store. Sequences must run 1..n in order.
func (p *templatePayload) validate() ([]models.JourneyStage, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, errors.New("name is required")
	}
	if len(p.Stages) == 0 {
		return nil, errors.New("at least one stage is required")
	}
	stages := make([]models.JourneyStage, len(p.Stages))
	for i, st := range p.Stages {
		if strings.TrimSpace(st.Name) == "" {
			return nil, fmt.Errorf("stage %d: name is required", i+1)
		}
		if st.Sequence != i+1 {
			return nil, errors.New("stage sequences must run 1..n without gaps")
		}
		stages[i] = models.JourneyStage{
			Name:        st.Name,
			Description: st.Description,
			Sequence:    st.Sequence,
		}
	}
	return stages, nil
}

// Create handles POST /api/journey-templates.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p templatePayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	stages, err := p.validate()
	if err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "journey template create")
	defer cancel()

	t, err := h.Templates.Create(ctx, models.JourneyTemplate{
		Name:        p.Name,
		Description: p.Description,
		Stages:      stages,
	})
	if errors.Is(err, journeystore.ErrDuplicateName) {
		httpjson.Conflict(w, err.Error())
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "journey template create failed", err)
		return
	}

	h.Audit.JourneyTemplateCreated(ctx, r, t.ID, t.Name)
	httpjson.Respond(w, http.StatusCreated, t)
}

// List handles GET /api/journey-templates.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r, "name", "name", "createdAt")
	switch page.SortBy {
	case "name":
		page.SortBy = "name_ci"
	case "createdAt":
		page.SortBy = "created_at"
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "journey template list")
	defer cancel()

	ts, total, err := h.Templates.List(ctx, page)
	if err != nil {
		httpjson.Internal(w, h.Log, "journey template list failed", err)
		return
	}
	if ts == nil {
		ts = []models.JourneyTemplate{}
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"templates": ts,
		"total":     total,
	})
}

// Get handles GET /api/journey-templates/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid template id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "journey template get")
	defer cancel()

	t, err := h.Templates.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "journey template not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "journey template get failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, t)
}

// Update handles PUT /api/journey-templates/{id}. Members already on
// the template keep their stored stage name until their journey is
// next updated.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid template id")
		return
	}

	var p templatePayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	stages, err := p.validate()
	if err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "journey template update")
	defer cancel()

	err = h.Templates.Update(ctx, id, p.Name, p.Description, stages)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		httpjson.NotFound(w, "journey template not found")
		return
	case errors.Is(err, journeystore.ErrDuplicateName):
		httpjson.Conflict(w, err.Error())
		return
	case err != nil:
		httpjson.Internal(w, h.Log, "journey template update failed", err)
		return
	}

	h.Audit.JourneyTemplateUpdated(ctx, r, id)
	t, err := h.Templates.GetByID(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, "journey template update failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, t)
}

// Delete handles DELETE /api/journey-templates/{id}. Refused while any
// member is still on the template.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid template id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "journey template delete")
	defer cancel()

	t, err := h.Templates.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "journey template not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "journey template delete failed", err)
		return
	}

	if _, err := h.Templates.Delete(ctx, id); err != nil {
		if errors.Is(err, journeystore.ErrInUse) {
			httpjson.Conflict(w, err.Error())
			return
		}
		httpjson.Internal(w, h.Log, "journey template delete failed", err)
		return
	}

	h.Audit.JourneyTemplateDeleted(ctx, r, id, t.Name)
	w.WriteHeader(http.StatusNoContent)
}
