// internal/app/features/opportunities/signups.go
package opportunities

import (
	"errors"
	"net/http"

	oppstore "github.com/MusaCap/faithlink360/internal/app/store/opportunities"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/MusaCap/faithlink360/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type signupPayload struct {
	MemberID string `json:"memberId"`
}

// SignUp handles POST /api/volunteer-opportunities/{id}/signups. One
// member, one seat.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	oppID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid opportunity id")
		return
	}

	var p signupPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	memberID, err := primitive.ObjectIDFromHex(p.MemberID)
	if err != nil {
		httpjson.BadRequest(w, "invalid memberId")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "signup create")
	defer cancel()

	if _, err := h.Members.Get(ctx, memberID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.BadRequest(w, "unknown member")
			return
		}
		httpjson.Internal(w, h.Log, "signup create failed", err)
		return
	}

	su, err := h.Opportunities.SignUp(ctx, oppID, memberID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		httpjson.NotFound(w, "opportunity not found")
		return
	case errors.Is(err, oppstore.ErrNotOpen):
		httpjson.BadRequest(w, "opportunity is not open for signups")
		return
	case errors.Is(err, oppstore.ErrFull):
		httpjson.BadRequest(w, "opportunity is full")
		return
	case errors.Is(err, oppstore.ErrAlreadySignedUp):
		httpjson.Conflict(w, "member is already signed up")
		return
	case err != nil:
		httpjson.Internal(w, h.Log, "signup create failed", err)
		return
	}

	h.Audit.SignupCreated(ctx, r, oppID, memberID)
	httpjson.Respond(w, http.StatusCreated, su)
}

// CancelSignup handles DELETE /api/volunteer-opportunities/{id}/signups/{memberID}.
func (h *Handler) CancelSignup(w http.ResponseWriter, r *http.Request) {
	oppID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid opportunity id")
		return
	}
	memberID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "memberID"))
	if err != nil {
		httpjson.BadRequest(w, "invalid member id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "signup cancel")
	defer cancel()

	err = h.Opportunities.CancelSignup(ctx, oppID, memberID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.NotFound(w, "signup not found")
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "signup cancel failed", err)
		return
	}

	h.Audit.SignupCancelled(ctx, r, oppID, memberID)
	w.WriteHeader(http.StatusNoContent)
}

// ListSignups handles GET /api/volunteer-opportunities/{id}/signups.
func (h *Handler) ListSignups(w http.ResponseWriter, r *http.Request) {
	oppID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid opportunity id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "signup list")
	defer cancel()

	if _, err := h.Opportunities.GetByID(ctx, oppID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "opportunity not found")
			return
		}
		httpjson.Internal(w, h.Log, "signup list failed", err)
		return
	}

	sus, err := h.Opportunities.Signups(ctx, oppID)
	if err != nil {
		httpjson.Internal(w, h.Log, "signup list failed", err)
		return
	}
	if sus == nil {
		sus = []models.Signup{}
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"signups": sus})
}
