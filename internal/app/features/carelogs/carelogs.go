// internal/app/features/carelogs/carelogs.go
package carelogs

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/htmlsanitize"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// careLogPayload is the request body for care log create and update.
// The note may carry limited HTML; it is sanitized before storage.
type careLogPayload struct {
	MemberID     string     `json:"memberId"`
	Type         string     `json:"type"`
	Note         string     `json:"note"`
	Confidential bool       `json:"confidential"`
	CareDate     *time.Time `json:"careDate"`
	CreatedBy    string     `json:"createdBy"`
}

func (p *careLogPayload) validate() error {
	if !models.ValidCareType(p.Type) {
		return errors.New(`type must be "visit"|"call"|"prayer"|"counseling"`)
	}
	return nil
}

func (p *careLogPayload) careDate() time.Time {
	if p.CareDate == nil {
		return time.Time{}
	}
	return p.CareDate.UTC()
}

// Create handles POST /api/care-logs.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p careLogPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := p.validate(); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	memberID, err := primitive.ObjectIDFromHex(p.MemberID)
	if err != nil {
		httpjson.BadRequest(w, "invalid memberId")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "care log create")
	defer cancel()

	cl, err := h.CareLogs.Create(ctx, models.CareLog{
		MemberID:     memberID,
		Type:         p.Type,
		Note:         htmlsanitize.Sanitize(p.Note),
		Confidential: p.Confidential,
		CareDate:     p.careDate(),
		CreatedBy:    strings.TrimSpace(p.CreatedBy),
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.BadRequest(w, "unknown member")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "care log create failed", err)
		return
	}

	h.Audit.CareLogCreated(ctx, r, cl.ID, cl.MemberID, cl.Type, cl.Confidential)
	httpjson.Respond(w, http.StatusCreated, cl)
}

// Get handles GET /api/care-logs/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid care log id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "care log get")
	defer cancel()

	cl, err := h.CareLogs.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "care log not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "care log get failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, cl)
}

// Update handles PUT /api/care-logs/{id}. The member a log belongs to
// is fixed at create time.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid care log id")
		return
	}

	var p careLogPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := p.validate(); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "care log update")
	defer cancel()

	err = h.CareLogs.Update(ctx, id, p.Type, htmlsanitize.Sanitize(p.Note), p.Confidential, p.careDate())
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "care log not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "care log update failed", err)
		return
	}

	h.Audit.CareLogUpdated(ctx, r, id)
	cl, err := h.CareLogs.GetByID(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, "care log update failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, cl)
}

// Delete handles DELETE /api/care-logs/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid care log id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "care log delete")
	defer cancel()

	if _, err := h.CareLogs.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "care log not found")
			return
		}
		httpjson.Internal(w, h.Log, "care log delete failed", err)
		return
	}

	if _, err := h.CareLogs.Delete(ctx, id); err != nil {
		httpjson.Internal(w, h.Log, "care log delete failed", err)
		return
	}

	h.Audit.CareLogDeleted(ctx, r, id)
	w.WriteHeader(http.StatusNoContent)
}

// MemberHistory handles GET /api/members/{id}/care-logs. Confidential
// entries stay hidden unless includeConfidential=true is passed.
func (h *Handler) MemberHistory(w http.ResponseWriter, r *http.Request) {
	memberID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid member id")
		return
	}
	includeConfidential := r.URL.Query().Get("includeConfidential") == "true"

	page := paging.Parse(r, "careDate", "careDate", "createdAt")
	switch page.SortBy {
	case "careDate":
		page.SortBy = "care_date"
	case "createdAt":
		page.SortBy = "created_at"
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "care log history")
	defer cancel()

	cls, total, err := h.CareLogs.ListByMember(ctx, memberID, includeConfidential, page)
	if err != nil {
		httpjson.Internal(w, h.Log, "care log history failed", err)
		return
	}
	if cls == nil {
		cls = []models.CareLog{}
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"careLogs": cls,
		"total":    total,
	})
}
