// internal/app/features/members/create.go
package members

import (
	"errors"
	"net/http"

	memberstore "github.com/MusaCap/faithlink360/internal/app/store/members"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
)

// Create handles POST /api/members.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p memberPayload
	if err := httpjson.Decode(w, r, &p); err != nil {
		httpjson.BadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := p.validate(); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "member create")
	defer cancel()

	flat, err := h.Members.Create(ctx, p.writeParams())
	switch {
	case errors.Is(err, memberstore.ErrDuplicateEmail):
		httpjson.Conflict(w, err.Error())
		return
	case errors.Is(err, memberstore.ErrBadStatus):
		httpjson.BadRequest(w, err.Error())
		return
	case err != nil:
		httpjson.Internal(w, h.Log, "member create failed", err)
		return
	}

	if id, err := flatID(flat); err == nil {
		h.Audit.MemberCreated(ctx, r, id, flat.Email)
	}
	httpjson.Respond(w, http.StatusCreated, flat)
}
