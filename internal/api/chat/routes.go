package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers message routes. The /all route must come before
// the journey_id wildcard.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/messages", func(r chi.Router) {
		r.Post("/", h.SendMessage)
		r.Get("/all", h.ListAllMessages)
		r.Get("/{journey_id}", h.ListJourneyMessages)
	})
}
