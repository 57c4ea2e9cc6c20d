// internal/app/features/announcements/announcements.go
package announcements

import (
	"errors"
	"net/http"
	"strings"

	announcementstore "github.com/MusaCap/faithlink360/internal/app/store/announcements"
	"github.com/MusaCap/faithlink360/internal/app/system/htmlsanitize"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// announcementPayload is the request body for announcement create and
// update. The body may carry limited HTML; it is sanitized before
// storage.
type announcementPayload struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Audience string `json:"audience"`
	GroupID  string `json:"groupId"`
	Tag      string `json:"tag"`
}

// toModel validates the payload and builds the announcement for the
// store.
func (p *announcementPayload) toModel() (models.Announcement, error) {
	if strings.TrimSpace(p.Subject) == "" {
		return models.Announcement{}, errors.New("subject is required")
	}
	if !models.ValidAudience(p.Audience) {
		return models.Announcement{}, errors.New(`audience must be "all"|"group"|"tag"`)
	}
	a := models.Announcement{
		Subject:  strings.TrimSpace(p.Subject),
		Body:     htmlsanitize.Sanitize(p.Body),
		Audience: p.Audience,
		Tag:      p.Tag,
	}
	switch p.Audience {
	case models.AudienceGroup:
		if p.GroupID == "" {
			return models.Announcement{}, errors.New("a group audience needs a groupId")
		}
		gid, err := primitive.ObjectIDFromHex(p.GroupID)
		if err != nil {
			return models.Announcement{}, errors.New("invalid groupId")
		}
		a.GroupID = &gid
	case models.AudienceTag:
		if strings.TrimSpace(p.Tag) == "" {
			return models.Announcement{}, errors.New("a tag audience needs a tag name")
		}
	}
	return a, nil
}

// Create handles POST /api/announcements. New announcements start as
// drafts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p announcementPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	a, err := p.toModel()
	if err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "announcement create")
	defer cancel()

	a, err = h.Announcements.Create(ctx, a)
	if err != nil {
		httpjson.Internal(w, h.Log, "announcement create failed", err)
		return
	}

	h.Audit.AnnouncementCreated(ctx, r, a.ID, a.Audience)
	httpjson.Respond(w, http.StatusCreated, a)
}

// List handles GET /api/announcements with an optional status filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && status != "draft" && status != "sent" {
		httpjson.BadRequest(w, `status must be "draft" or "sent"`)
		return
	}

	page := paging.Parse(r, "createdAt", "createdAt", "subject", "status")
	switch page.SortBy {
	case "createdAt":
		page.SortBy = "created_at"
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "announcement list")
	defer cancel()

	as, total, err := h.Announcements.List(ctx, status, page)
	if err != nil {
		httpjson.Internal(w, h.Log, "announcement list failed", err)
		return
	}
	if as == nil {
		as = []models.Announcement{}
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"announcements": as,
		"total":         total,
	})
}

// Get handles GET /api/announcements/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid announcement id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "announcement get")
	defer cancel()

	a, err := h.Announcements.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "announcement not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "announcement get failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, a)
}

// Update handles PUT /api/announcements/{id}. Only drafts can change.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid announcement id")
		return
	}

	var p announcementPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	a, err := p.toModel()
	if err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "announcement update")
	defer cancel()

	err = h.Announcements.Update(ctx, id, a)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		httpjson.NotFound(w, "announcement not found")
		return
	case errors.Is(err, announcementstore.ErrAlreadySent):
		httpjson.Conflict(w, err.Error())
		return
	case err != nil:
		httpjson.Internal(w, h.Log, "announcement update failed", err)
		return
	}

	out, err := h.Announcements.GetByID(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, "announcement update failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, out)
}

// Delete handles DELETE /api/announcements/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid announcement id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "announcement delete")
	defer cancel()

	n, err := h.Announcements.Delete(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, "announcement delete failed", err)
		return
	}
	if n == 0 {
		httpjson.NotFound(w, "announcement not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Recipients handles GET /api/announcements/{id}/recipients: a preview
// of who a send would reach.
func (h *Handler) Recipients(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid announcement id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "announcement recipients")
	defer cancel()

	a, err := h.Announcements.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "announcement not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "announcement recipients failed", err)
		return
	}

	recips, err := h.Announcements.Recipients(ctx, a)
	if err != nil {
		httpjson.Internal(w, h.Log, "announcement recipients failed", err)
		return
	}

	type row struct {
		MemberID primitive.ObjectID `json:"memberId"`
		Name     string             `json:"name"`
		Email    string             `json:"email"`
	}
	out := make([]row, 0, len(recips))
	for _, rc := range recips {
		out = append(out, row{MemberID: rc.MemberID, Name: rc.Name, Email: rc.Email})
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"recipients": out,
		"total":      len(out),
	})
}
