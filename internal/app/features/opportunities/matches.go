// internal/app/features/opportunities/matches.go
package opportunities

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

type volunteerMatch struct {
	Volunteer models.Volunteer `json:"volunteer"`
	match.Result
}

// Matches handles GET /api/volunteer-opportunities/{id}/matches: every
// volunteer profile scored against this opportunity, best fit first.
func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	oppID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid opportunity id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "opportunity matches")
	defer cancel()

	o, err := h.Opportunities.GetByID(ctx, oppID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "opportunity not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "opportunity matches failed", err)
		return
	}

	vols, err := h.Volunteers.All(ctx)
	if err != nil {
		httpjson.Internal(w, h.Log, "opportunity matches failed", err)
		return
	}

	matches := make([]volunteerMatch, 0, len(vols))
	for i := range vols {
		matches = append(matches, volunteerMatch{
			Volunteer: vols[i],
			Result:    match.Score(&vols[i], o),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	httpjson.Respond(w, http.StatusOK, map[string]any{"matches": matches})
}
