package journey

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers journey routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/journeys", func(r chi.Router) {
		r.Post("/", h.CreateJourney)
		r.Get("/", h.ListJourneys)

		r.Get("/active/{user_id}", h.GetActiveJourney)
		r.Get("/state/{user_id}", h.GetJourneyState)

		r.Route("/{journey_id}", func(r chi.Router) {
			r.Get("/", h.GetJourney)
			r.Put("/", h.UpdateJourney)
			r.Post("/checkpoints/{checkpoint_name}", h.SaveCheckpoint)
			r.Post("/advance", h.AdvanceMilestone)
			r.Post("/complete", h.CompleteJourney)
			r.Get("/plan", h.ExportPlan)
		})
	})
}
