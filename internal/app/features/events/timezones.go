// internal/app/features/events/timezones.go
package events

import (
	"net/http"

	"github.com/MusaCap/faithlink360/internal/app/system/httpjson"
	"github.com/MusaCap/faithlink360/internal/app/system/timezones"
)

// Timezones handles GET /api/timezones: the curated zone list clients
// use when scheduling events, grouped by region.
func (h *Handler) Timezones(w http.ResponseWriter, r *http.Request) {
	groups := timezones.Groups()

	type groupRow struct {
		Region string           `json:"region"`
		Zones  []timezones.Zone `json:"zones"`
	}
	rows := make([]groupRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, groupRow{Region: g.Region, Zones: g.Zones})
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"timezones": rows})
}
