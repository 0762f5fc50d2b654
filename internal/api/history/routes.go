package history

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers history routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})
}
