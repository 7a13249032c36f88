package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all box analysis routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/boxes", func(r chi.Router) {
		r.Get("/", h.HandleListBoxes)       // Catalog overview
		r.Get("/{name}", h.HandleGetBox)    // Statistics report
		r.Get("/{name}/hunt", h.HandleHunt) // Target hunt estimate
	})

	r.Route("/strategies", func(r chi.Router) {
		r.Get("/", h.HandleListStrategies)        // All strategies for a budget
		r.Get("/{strategy}", h.HandleGetStrategy) // One strategy with outcome scenarios
	})

	r.Post("/catalog/reload", h.HandleReloadCatalog)
}
