// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/store/audit"
	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// eventRow is the wire shape of one audit event.
type eventRow struct {
	ID            primitive.ObjectID  `json:"id"`
	CreatedAt     time.Time           `json:"createdAt"`
	Category      string              `json:"category"`
	EventType     string              `json:"eventType"`
	EntityType    string              `json:"entityType,omitempty"`
	EntityID      *primitive.ObjectID `json:"entityId,omitempty"`
	MemberID      *primitive.ObjectID `json:"memberId,omitempty"`
	IP            string              `json:"ip,omitempty"`
	Success       bool                `json:"success"`
	FailureReason string              `json:"failureReason,omitempty"`
	Details       map[string]string   `json:"details,omitempty"`
}

func toRows(events []audit.Event) []eventRow {
	rows := make([]eventRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, eventRow{
			ID:            e.ID,
			CreatedAt:     e.CreatedAt,
			Category:      e.Category,
			EventType:     e.EventType,
			EntityType:    e.EntityType,
			EntityID:      e.EntityID,
			MemberID:      e.MemberID,
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		})
	}
	return rows
}

func parseLimit(r *http.Request) int64 {
	limit := int64(defaultLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

// List handles GET /api/audit-events: the site-wide trail, newest first,
// narrowed by category, eventType, entityId, memberId, and a from/to
// window.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.QueryFilter{
		Category:  q.Get("category"),
		EventType: q.Get("eventType"),
		Limit:     parseLimit(r),
	}
	if raw := q.Get("offset"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			filter.Offset = n
		}
	}
	if raw := q.Get("entityId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.BadRequest(w, "invalid entityId")
			return
		}
		filter.EntityID = &id
	}
	if raw := q.Get("memberId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.BadRequest(w, "invalid memberId")
			return
		}
		filter.MemberID = &id
	}
	if raw := q.Get("from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpjson.BadRequest(w, "from must be RFC 3339")
			return
		}
		filter.StartTime = &ts
	}
	if raw := q.Get("to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpjson.BadRequest(w, "to must be RFC 3339")
			return
		}
		filter.EndTime = &ts
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit event list")
	defer cancel()

	events, err := h.Audit.Query(ctx, filter)
	if err != nil {
		httpjson.Internal(w, h.Log, "audit event list failed", err)
		return
	}
	total, err := h.Audit.CountByFilter(ctx, filter)
	if err != nil {
		httpjson.Internal(w, h.Log, "audit event list failed", err)
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"events": toRows(events),
		"total":  total,
	})
}

// Entity handles GET /api/audit-events/entity/{id}: the recent trail for
// one record.
func (h *Handler) Entity(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid entity id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit entity trail")
	defer cancel()

	events, err := h.Audit.GetByEntity(ctx, id, parseLimit(r))
	if err != nil {
		httpjson.Internal(w, h.Log, "audit entity trail failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"events": toRows(events)})
}
