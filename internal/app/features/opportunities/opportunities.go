// internal/app/features/opportunities/opportunities.go
package opportunities

import (
	"errors"
	"net/http"
	"strings"

	oppstore "github.com/MusaCap/faithlink360/internal/app/store/opportunities"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// opportunityPayload is the request body for opportunity create and update.
type opportunityPayload struct {
	Title                   string   `json:"title"`
	Description             string   `json:"description"`
	Ministry                string   `json:"ministry"`
	SkillsRequired          []string `json:"skillsRequired"`
	MaxVolunteers           int      `json:"maxVolunteers"`
	Urgency                 string   `json:"urgency"`
	Status                  string   `json:"status"`
	BackgroundCheckRequired bool     `json:"backgroundCheckRequired"`
}

func (p *opportunityPayload) validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(p.Ministry) == "" {
		return errors.New("ministry is required")
	}
	if p.MaxVolunteers < 0 {
		return errors.New("maxVolunteers must not be negative")
	}
	if p.Status != "" && !models.ValidOpportunityStatus(p.Status) {
		return errors.New("unknown opportunity status")
	}
	if p.Urgency != "" && !models.ValidUrgency(p.Urgency) {
		return errors.New(`urgency must be "low"|"normal"|"high"|"urgent"`)
	}
	return nil
}

// Create handles POST /api/volunteer-opportunities.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p opportunityPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := p.validate(); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "opportunity create")
	defer cancel()

	o, err := h.Opportunities.Create(ctx, models.Opportunity{
		Title:                   p.Title,
		Description:             p.Description,
		Ministry:                p.Ministry,
		SkillsRequired:          p.SkillsRequired,
		MaxVolunteers:           p.MaxVolunteers,
		Urgency:                 p.Urgency,
		Status:                  p.Status,
		BackgroundCheckRequired: p.BackgroundCheckRequired,
	})
	if err != nil {
		httpjson.Internal(w, h.Log, "opportunity create failed", err)
		return
	}

	h.Audit.OpportunityCreated(ctx, r, o.ID, o.Title)
	httpjson.Respond(w, http.StatusCreated, o)
}

// List handles GET /api/volunteer-opportunities with status, ministry,
// and urgency filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := strings.TrimSpace(q.Get("status"))
	if status != "" && !models.ValidOpportunityStatus(status) {
		httpjson.BadRequest(w, "unknown opportunity status")
		return
	}
	urgency := strings.TrimSpace(q.Get("urgency"))
	if urgency != "" && !models.ValidUrgency(urgency) {
		httpjson.BadRequest(w, "unknown urgency")
		return
	}

	page := paging.Parse(r, "title", "title", "urgency", "status", "createdAt")
	switch page.SortBy {
	case "title":
		page.SortBy = "title_ci"
	case "createdAt":
		page.SortBy = "created_at"
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "opportunity list")
	defer cancel()

	os, total, err := h.Opportunities.List(ctx, status, q.Get("ministry"), urgency, page)
	if err != nil {
		httpjson.Internal(w, h.Log, "opportunity list failed", err)
		return
	}
	if os == nil {
		os = []models.Opportunity{}
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"opportunities": os,
		"total":         total,
	})
}

// Get handles GET /api/volunteer-opportunities/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid opportunity id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "opportunity get")
	defer cancel()

	o, err := h.Opportunities.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "opportunity not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "opportunity get failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, o)
}

// Update handles PUT /api/volunteer-opportunities/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid opportunity id")
		return
	}

	var p opportunityPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := p.validate(); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if p.Status == "" {
		p.Status = models.OpportunityOpen
	}
	if p.Urgency == "" {
		p.Urgency = models.UrgencyNormal
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "opportunity update")
	defer cancel()

	err = h.Opportunities.Update(ctx, id, oppstore.Update{
		Title:                   p.Title,
		Description:             p.Description,
		Ministry:                p.Ministry,
		SkillsRequired:          p.SkillsRequired,
		MaxVolunteers:           p.MaxVolunteers,
		Urgency:                 p.Urgency,
		Status:                  p.Status,
		BackgroundCheckRequired: p.BackgroundCheckRequired,
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "opportunity not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "opportunity update failed", err)
		return
	}

	h.Audit.OpportunityUpdated(ctx, r, id)
	o, err := h.Opportunities.GetByID(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, "opportunity update failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, o)
}

// Delete handles DELETE /api/volunteer-opportunities/{id}. Signups go
// with it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid opportunity id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "opportunity delete")
	defer cancel()

	o, err := h.Opportunities.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "opportunity not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "opportunity delete failed", err)
		return
	}

	if _, err := h.Opportunities.Delete(ctx, id); err != nil {
		httpjson.Internal(w, h.Log, "opportunity delete failed", err)
		return
	}

	h.Audit.OpportunityDeleted(ctx, r, id, o.Title)
	w.WriteHeader(http.StatusNoContent)
}
