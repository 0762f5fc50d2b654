package interview

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers interview routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/interview", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/start", h.Start)
		r.Post("/answer", h.SubmitAnswer)
		r.Post("/reset", h.Reset)
		r.Post("/load/{id}", h.LoadEntry)
		r.Post("/resend", h.Resend)
		r.Get("/result/{format}", h.RenderResult)
	})
}
