// internal/app/features/members/routes.go
package members

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the member API endpoints. careHistory serves
// GET /api/members/{id}/care-logs; it lives in the care log feature but
// hangs off the member resource.
func MountRoutes(r chi.Router, h *Handler, careHistory http.HandlerFunc) {
	r.Route("/api/members", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Post("/import_csv", h.ImportCSV)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Put("/{id}/journey", h.UpdateJourney)
		r.Get("/{id}/care-logs", careHistory)
	})
}
