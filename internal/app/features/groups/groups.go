// internal/app/features/groups/groups.go
package groups

import (
	"errors"
	"net/http"
	"strings"

	groupstore "github.com/MusaCap/faithlink360/internal/app/store/groups"
	"github.com/MusaCap/faithlink360/internal/app/store/queries/reportqueries"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/paging"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// groupPayload is the request body for group create and update.
type groupPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Schedule    string `json:"schedule"`
	Status      string `json:"status"`
}

// Create handles POST /api/groups.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p groupPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		httpjson.BadRequest(w, "name is required")
		return
	}
	if !models.ValidGroupType(p.Type) {
		httpjson.BadRequest(w, "type must be one of "+strings.Join(models.GroupTypes, ", "))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group create")
	defer cancel()

	g, err := h.Groups.Create(ctx, models.Group{
		Name:        p.Name,
		Description: p.Description,
		Type:        p.Type,
		Schedule:    p.Schedule,
		Status:      p.Status,
	})
	switch {
	case errors.Is(err, groupstore.ErrDuplicateGroupName):
		httpjson.Conflict(w, err.Error())
		return
	case err != nil:
		httpjson.Internal(w, h.Log, "group create failed", err)
		return
	}

	h.Audit.GroupCreated(ctx, r, g.ID, g.Name)
	httpjson.Respond(w, http.StatusCreated, g)
}

// List handles GET /api/groups with optional type and status filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	typ := strings.TrimSpace(r.URL.Query().Get("type"))
	if typ != "" && !models.ValidGroupType(typ) {
		httpjson.BadRequest(w, "unknown group type")
		return
	}
	stat := strings.TrimSpace(r.URL.Query().Get("status"))
	page := paging.Parse(r, "name", "name", "type", "status", "createdAt")
	switch page.SortBy {
	case "name":
		page.SortBy = "name_ci"
	case "createdAt":
		page.SortBy = "created_at"
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group list")
	defer cancel()

	groups, total, err := h.Groups.List(ctx, typ, stat, page)
	if err != nil {
		httpjson.Internal(w, h.Log, "group list failed", err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	counts, err := reportqueries.CountGroupMembersPerGroup(ctx, h.DB, ids, "")
	if err != nil {
		httpjson.Internal(w, h.Log, "group list failed", err)
		return
	}

	type groupRow struct {
		models.Group
		MemberCount int64 `json:"member_count"`
	}
	rows := make([]groupRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, groupRow{Group: g, MemberCount: counts[g.ID]})
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{
		"groups": rows,
		"total":  total,
	})
}

// Get handles GET /api/groups/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid group id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "group get")
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "group not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "group get failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, g)
}

// Update handles PUT /api/groups/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid group id")
		return
	}

	var p groupPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if p.Type != "" && !models.ValidGroupType(p.Type) {
		httpjson.BadRequest(w, "unknown group type")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group update")
	defer cancel()

	err = h.Groups.UpdateInfo(ctx, id, p.Name, p.Description, p.Type, p.Schedule, p.Status)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		httpjson.NotFound(w, "group not found")
		return
	case errors.Is(err, groupstore.ErrDuplicateGroupName):
		httpjson.Conflict(w, err.Error())
		return
	case err != nil:
		httpjson.Internal(w, h.Log, "group update failed", err)
		return
	}

	h.Audit.GroupUpdated(ctx, r, id)
	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, "group update failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, g)
}

// Delete handles DELETE /api/groups/{id}. Memberships go first so a group
// is never reported deleted while its roster lingers.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid group id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "group delete")
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "group not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "group delete failed", err)
		return
	}

	if _, err := h.Memberships.DeleteByGroup(ctx, id); err != nil {
		httpjson.Internal(w, h.Log, "group delete failed", err)
		return
	}
	if _, err := h.Groups.Delete(ctx, id); err != nil {
		httpjson.Internal(w, h.Log, "group delete failed", err)
		return
	}

	h.Audit.GroupDeleted(ctx, r, id, g.Name)
	w.WriteHeader(http.StatusNoContent)
}
