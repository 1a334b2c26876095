package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// PermissionAuditRead guards the audit-trail endpoint. Principals holding the
// wildcard permission pass the guard as well.
const PermissionAuditRead = "audit.read"

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/refresh", h.refresh)
		r.Post("/api/auth/logout", h.logout)
		r.Post("/api/auth/password-reset", h.requestPasswordReset)
		r.Post("/api/auth/password-reset/confirm", h.confirmPasswordReset)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/auth/session", h.session)

		r.Group(func(r chi.Router) {
			r.Use(h.requirePermission(PermissionAuditRead))
			r.Get("/api/audit", h.auditTrail)
		})
	})

	return router
}
