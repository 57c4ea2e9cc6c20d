// internal/app/features/journeys/routes.go
package journeys

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the journey template endpoints.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/api/journey-templates", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
