// internal/app/features/groups/routes.go
package groups

import "github.com/go-chi/chi/v5"

// MountRoutes registers the group API endpoints.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/api/groups", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/members", h.ListMembers)
		r.Post("/{id}/members/{memberID}", h.AddMember)
		r.Delete("/{id}/members/{memberID}", h.RemoveMember)
	})
}
