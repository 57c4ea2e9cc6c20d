// internal/app/features/auditlog/routes.go
package auditlog

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the audit trail read endpoints.
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/api/audit-events", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/entity/{id}", h.Entity)
	})
}
