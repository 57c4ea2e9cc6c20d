// internal/app/features/members/list.go
package members

import (
	"net/http"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/system/filters"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
)

// List handles GET /api/members: the filtered, paged member search.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f, err := filters.ParseMember(r)
	if err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "member list")
	defer cancel()

	members, total, err := h.Members.List(ctx, f, time.Now().UTC())
	if err != nil {
		httpjson.Internal(w, h.Log, "member list failed", err)
		return
	}

	httpjson.Respond(w, http.StatusOK, listEnvelope{
		Members: members,
		Total:   total,
		Filters: f.Echo(),
	})
}
