// internal/app/features/events/routes.go
package events

import "github.com/go-chi/chi/v5"

// MountRoutes registers the event API endpoints.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/api/events", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/attendance", h.RecordAttendance)
		r.Get("/{id}/attendance", h.ListAttendance)
	})
	r.Get("/api/timezones", h.Timezones)
}
