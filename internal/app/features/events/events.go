// internal/app/features/events/events.go
package events

import (
	"errors"
	"net/http"
	"strings"
	"time"

	eventstore "github.com/MusaCap/faithlink360/internal/app/store/events"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// eventPayload is the request body for event create and update.
type eventPayload struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	GroupID     string     `json:"groupId"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Capacity    int        `json:"capacity"`
	Status      string     `json:"status"`
}

func (p *eventPayload) validate() (groupID *primitive.ObjectID, err error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, errors.New("title is required")
	}
	if p.StartsAt == nil || p.StartsAt.IsZero() {
		return nil, errors.New("startsAt is required")
	}
	if p.EndsAt != nil && p.EndsAt.Before(*p.StartsAt) {
		return nil, errors.New("endsAt must not be before startsAt")
	}
	if p.Status != "" && !models.ValidEventStatus(p.Status) {
		return nil, errors.New(`status must be "scheduled"|"cancelled"|"completed"`)
	}
	if p.Capacity < 0 {
		return nil, errors.New("capacity must not be negative")
	}
	if p.GroupID != "" {
		id, err := primitive.ObjectIDFromHex(p.GroupID)
		if err != nil {
			return nil, errors.New("invalid groupId")
		}
		groupID = &id
	}
	return groupID, nil
}

// Create handles POST /api/events.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p eventPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	groupID, err := p.validate()
	if err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "event create")
	defer cancel()

	e, err := h.Events.Create(ctx, models.Event{
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		GroupID:     groupID,
		StartsAt:    p.StartsAt.UTC(),
		EndsAt:      p.EndsAt,
		Capacity:    p.Capacity,
		Status:      p.Status,
	})
	if err != nil {
		httpjson.Internal(w, h.Log, "event create failed", err)
		return
	}

	h.Audit.EventCreated(ctx, r, e.ID, e.Title)
	httpjson.Respond(w, http.StatusCreated, e)
}

// Get handles GET /api/events/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid event id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event get")
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "event not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "event get failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, e)
}

// List handles GET /api/events with status/group/date-range filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f eventstore.ListFilter
	f.Status = strings.TrimSpace(q.Get("status"))
	if f.Status != "" && !models.ValidEventStatus(f.Status) {
		httpjson.BadRequest(w, "unknown event status")
		return
	}
	if raw := q.Get("groupId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.BadRequest(w, "invalid groupId")
			return
		}
		f.GroupID = &id
	}
	var err error
	if f.From, err = parseTimeParam(q.Get("from"), "from"); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if f.To, err = parseTimeParam(q.Get("to"), "to"); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	page := paging.Parse(r, "startsAt", "startsAt", "title", "status", "createdAt")
	switch page.SortBy {
	case "startsAt":
		page.SortBy = "starts_at"
	case "title":
		page.SortBy = "title_ci"
	case "createdAt":
		page.SortBy = "created_at"
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "event list")
	defer cancel()

	events, total, err := h.Events.List(ctx, f, page)
	if err != nil {
		httpjson.Internal(w, h.Log, "event list failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"events": events,
		"total":  total,
	})
}

// Update handles PUT /api/events/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid event id")
		return
	}

	var p eventPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	groupID, err := p.validate()
	if err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if p.Status == "" {
		p.Status = models.EventScheduled
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "event update")
	defer cancel()

	err = h.Events.Update(ctx, id, eventstore.Update{
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		GroupID:     groupID,
		StartsAt:    p.StartsAt.UTC(),
		EndsAt:      p.EndsAt,
		Capacity:    p.Capacity,
		Status:      p.Status,
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "event not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "event update failed", err)
		return
	}

	h.Audit.EventUpdated(ctx, r, id)
	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, "event update failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, e)
}

// Delete handles DELETE /api/events/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid event id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "event delete")
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "event not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "event delete failed", err)
		return
	}

	if _, err := h.Events.Delete(ctx, id); err != nil {
		httpjson.Internal(w, h.Log, "event delete failed", err)
		return
	}

	h.Audit.EventDeleted(ctx, r, id, e.Title)
	w.WriteHeader(http.StatusNoContent)
}

// parseTimeParam accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func parseTimeParam(s, name string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	return nil, errors.New(name + " must be an RFC 3339 timestamp or YYYY-MM-DD date")
}
