// internal/app/features/announcements/routes.go
package announcements

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the announcement endpoints.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/api/announcements", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/recipients", h.Recipients)
		r.Post("/{id}/send", h.Send)
	})
}
