// internal/app/features/groups/memberships.go
package groups

import (
	"errors"
	"net/http"

	membershipstore "github.com/MusaCap/faithlink360/internal/app/store/memberships"
	"github.com/MusaCap/faithlink360/internal/app/store/queries/groupmembers"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// rolePayload carries the membership role for a join request. An empty
// role defaults to "member".
type rolePayload struct {
	Role string `json:"role"`
}

// AddMember handles POST /api/groups/{id}/members/{memberID}.
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	groupID, memberID, ok := h.memberParams(w, r)
	if !ok {
		return
	}

	p := rolePayload{Role: "member"}
	if r.ContentLength > 0 {
		if err := httpjson.Decode(w, r, &p); err != nil {
			httpjson.BadRequest(w, "invalid request body: "+err.Error())
			return
		}
	}
	if p.Role != "leader" && p.Role != "member" {
		httpjson.BadRequest(w, `role must be "leader" or "member"`)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group member add")
	defer cancel()

	err := h.Memberships.Add(ctx, groupID, memberID, p.Role)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		httpjson.NotFound(w, "group or member not found")
		return
	case errors.Is(err, membershipstore.ErrDuplicateMembership):
		httpjson.Conflict(w, err.Error())
		return
	case err != nil:
		httpjson.Internal(w, h.Log, "group member add failed", err)
		return
	}

	h.Audit.MemberAddedToGroup(ctx, r, groupID, memberID, p.Role)
	w.WriteHeader(http.StatusCreated)
}

// RemoveMember handles DELETE /api/groups/{id}/members/{memberID}.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID, memberID, ok := h.memberParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group member remove")
	defer cancel()

	err := h.Memberships.Remove(ctx, groupID, memberID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "membership not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "group member remove failed", err)
		return
	}

	h.Audit.MemberRemovedFromGroup(ctx, r, groupID, memberID)
	w.WriteHeader(http.StatusNoContent)
}

// ListMembers handles GET /api/groups/{id}/members: the roster with each
// membership joined to its member record, leaders first.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid group id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "group roster")
	defer cancel()

	if _, err := h.Groups.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "group not found")
			return
		}
		httpjson.Internal(w, h.Log, "group roster failed", err)
		return
	}

	roster, err := groupmembers.ListGroupMembersWithStatus(ctx, h.DB, groupID,
		groupmembers.MemberFilter{Status: r.URL.Query().Get("status")})
	if err != nil {
		httpjson.Internal(w, h.Log, "group roster failed", err)
		return
	}
	if roster == nil {
		roster = []groupmembers.GroupMember{}
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"members": roster})
}

func (h *Handler) memberParams(w http.ResponseWriter, r *http.Request) (groupID, memberID primitive.ObjectID, ok bool) {
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid group id")
		return groupID, memberID, false
	}
	memberID, err = primitive.ObjectIDFromHex(chi.URLParam(r, "memberID"))
	if err != nil {
		httpjson.BadRequest(w, "invalid member id")
		return groupID, memberID, false
	}
	return groupID, memberID, true
}
