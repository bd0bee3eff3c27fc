package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/seriate-dev/seriate/internal/handlers"
)

func (s *Server) setupRoutes(h *handlers.Handlers) {
	s.router.Route("/api", func(r chi.Router) {
		// Events
		r.Post("/events", h.IngestEvents)
		r.Get("/events", h.QueryEvents)
		r.Get("/events/types", h.ListEventTypes)
		r.Get("/events/sources", h.ListSources)
		r.Get("/events/series", h.EventSeries)

		// Stats
		r.Get("/stats", h.GetStats)
	})

	// WebSocket for real-time updates
	s.router.Get("/ws", h.HandleWebSocket)

	// Health check
	s.router.Get("/health", h.Health)
}
