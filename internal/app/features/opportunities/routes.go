// internal/app/features/opportunities/routes.go
package opportunities

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the volunteer opportunity endpoints.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/api/volunteer-opportunities", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)

		r.Post("/{id}/signups", h.SignUp)
		r.Get("/{id}/signups", h.ListSignups)
		r.Delete("/{id}/signups/{memberID}", h.CancelSignup)

		r.Get("/{id}/matches", h.Matches)
	})
}
