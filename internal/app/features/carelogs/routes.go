// internal/app/features/carelogs/routes.go
package carelogs

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the care log endpoints. The per-member history
// route lives under /api/members and is wired by the member router.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/api/care-logs", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
