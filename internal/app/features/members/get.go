// internal/app/features/members/get.go
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

// Get handles GET /api/members/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid member id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "member get")
	defer cancel()

	flat, err := h.Members.GetFlat(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "member not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "member get failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, flat)
}
