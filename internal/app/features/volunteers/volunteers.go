// internal/app/features/volunteers/volunteers.go
package volunteers

import (
	"errors"
	"net/http"

	volunteerstore "github.com/MusaCap/faithlink360/internal/app/store/volunteers"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// volunteerPayload is the request body for profile create and update.
// MemberID is only honored on create; the member link is immutable.
type volunteerPayload struct {
	MemberID            string   `json:"memberId"`
	Skills              []string `json:"skills"`
	Interests           []string `json:"interests"`
	PreferredMinistries []string `json:"preferredMinistries"`
	MaxHoursPerWeek     int      `json:"maxHoursPerWeek"`
	BackgroundCheck     string   `json:"backgroundCheck"`
}

// Create handles POST /api/volunteers.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p volunteerPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	memberID, err := primitive.ObjectIDFromHex(p.MemberID)
	if err != nil {
		httpjson.BadRequest(w, "invalid memberId")
		return
	}
	if p.BackgroundCheck != "" && !models.ValidBackgroundCheck(p.BackgroundCheck) {
		httpjson.BadRequest(w, "unknown background check state")
		return
	}
	if p.MaxHoursPerWeek < 0 {
		httpjson.BadRequest(w, "maxHoursPerWeek must not be negative")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "volunteer create")
	defer cancel()

	if _, err := h.Members.Get(ctx, memberID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.BadRequest(w, "unknown member")
			return
		}
		httpjson.Internal(w, h.Log, "volunteer create failed", err)
		return
	}

	v, err := h.Volunteers.Create(ctx, models.Volunteer{
		MemberID:            memberID,
		Skills:              p.Skills,
		Interests:           p.Interests,
		PreferredMinistries: p.PreferredMinistries,
		MaxHoursPerWeek:     p.MaxHoursPerWeek,
		BackgroundCheck:     p.BackgroundCheck,
	})
	switch {
	case errors.Is(err, volunteerstore.ErrDuplicateProfile):
		httpjson.Conflict(w, err.Error())
		return
	case err != nil:
		httpjson.Internal(w, h.Log, "volunteer create failed", err)
		return
	}

	h.Audit.VolunteerCreated(ctx, r, v.ID, v.MemberID)
	httpjson.Respond(w, http.StatusCreated, v)
}

// List handles GET /api/volunteers with skill, ministry, and
// background-check filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	check := q.Get("backgroundCheck")
	if check != "" && !models.ValidBackgroundCheck(check) {
		httpjson.BadRequest(w, "unknown background check state")
		return
	}
	page := paging.Parse(r, "createdAt", "createdAt", "maxHoursPerWeek")
	switch page.SortBy {
	case "createdAt":
		page.SortBy = "created_at"
	case "maxHoursPerWeek":
		page.SortBy = "max_hours_per_week"
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "volunteer list")
	defer cancel()

	vs, total, err := h.Volunteers.List(ctx, q.Get("ministry"), q.Get("skill"), check, page)
	if err != nil {
		httpjson.Internal(w, h.Log, "volunteer list failed", err)
		return
	}
	if vs == nil {
		vs = []models.Volunteer{}
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"volunteers": vs,
		"total":      total,
	})
}

// Get handles GET /api/volunteers/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid volunteer id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "volunteer get")
	defer cancel()

	v, err := h.Volunteers.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "volunteer not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "volunteer get failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, v)
}

// Update handles PUT /api/volunteers/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid volunteer id")
		return
	}

	var p volunteerPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if p.BackgroundCheck != "" && !models.ValidBackgroundCheck(p.BackgroundCheck) {
		httpjson.BadRequest(w, "unknown background check state")
		return
	}
	if p.MaxHoursPerWeek < 0 {
		httpjson.BadRequest(w, "maxHoursPerWeek must not be negative")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "volunteer update")
	defer cancel()

	err = h.Volunteers.Update(ctx, id, volunteerstore.Update{
		Skills:              p.Skills,
		Interests:           p.Interests,
		PreferredMinistries: p.PreferredMinistries,
		MaxHoursPerWeek:     p.MaxHoursPerWeek,
		BackgroundCheck:     p.BackgroundCheck,
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "volunteer not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "volunteer update failed", err)
		return
	}

	h.Audit.VolunteerUpdated(ctx, r, id)
	v, err := h.Volunteers.GetByID(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, "volunteer update failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, v)
}

// Delete handles DELETE /api/volunteers/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid volunteer id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "volunteer delete")
	defer cancel()

	n, err := h.Volunteers.Delete(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, "volunteer delete failed", err)
		return
	}
	if n == 0 {
		httpjson.NotFound(w, "volunteer not found")
		return
	}

	h.Audit.VolunteerDeleted(ctx, r, id)
	w.WriteHeader(http.StatusNoContent)
}
