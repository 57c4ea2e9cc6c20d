// internal/app/features/members/update.go
package members

import (
	"errors"
	"net/http"

	memberstore "github.com/MusaCap/faithlink360/internal/app/store/members"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Update handles PUT /api/members/{id}: a full replace of the member's
// editable fields, tags, and sub-records.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid member id")
		return
	}

	var p memberPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := p.validate(); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "member update")
	defer cancel()

	flat, err := h.Members.Update(ctx, id, p.writeParams())
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		httpjson.NotFound(w, "member not found")
		return
	case errors.Is(err, memberstore.ErrDuplicateEmail):
		httpjson.Conflict(w, err.Error())
		return
	case errors.Is(err, memberstore.ErrBadStatus):
		httpjson.BadRequest(w, err.Error())
		return
	case err != nil:
		httpjson.Internal(w, h.Log, "member update failed", err)
		return
	}

	h.Audit.MemberUpdated(ctx, r, id)
	httpjson.Respond(w, http.StatusOK, flat)
}
