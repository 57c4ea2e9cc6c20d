// internal/app/features/members/delete.go
package members

import (
	"errors"
	"net/http"

	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Delete handles DELETE /api/members/{id}. The store cascades to every
// record keyed to the member.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid member id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "member delete")
	defer cancel()

	// The email is captured first so the audit trail still identifies the
	// member after the record is gone.
	m, err := h.Members.Get(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "member not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "member delete failed", err)
		return
	}

	if err := h.Members.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "member not found")
			return
		}
		httpjson.Internal(w, h.Log, "member delete failed", err)
		return
	}

	h.Audit.MemberDeleted(ctx, r, id, m.Email)
	w.WriteHeader(http.StatusNoContent)
}
