// internal/app/features/volunteers/matches.go
package volunteers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/match"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// opportunityMatch is one scored opportunity in a volunteer's match list.
type opportunityMatch struct {
	Opportunity models.Opportunity `json:"opportunity"`
	match.Result
}

// Matches handles GET /api/volunteers/{id}/matches: every open
// opportunity scored against the volunteer's profile, best first.
func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid volunteer id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "volunteer matches")
	defer cancel()

	v, err := h.Volunteers.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "volunteer not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "volunteer matches failed", err)
		return
	}

	open, err := h.Opportunities.Open(ctx)
	if err != nil {
		httpjson.Internal(w, h.Log, "volunteer matches failed", err)
		return
	}

	matches := make([]opportunityMatch, 0, len(open))
	for i := range open {
		matches = append(matches, opportunityMatch{
			Opportunity: open[i],
			Result:      match.Score(v, &open[i]),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	httpjson.Respond(w, http.StatusOK, map[string]any{"matches": matches})
}
