// internal/app/features/volunteers/routes.go
package volunteers

import "github.com/go-chi/chi/v5"

// MountRoutes registers the volunteer API endpoints.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/api/volunteers", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/matches", h.Matches)
	})
}
