package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/seriate-dev/seriate/internal/api"
	"github.com/seriate-dev/seriate/internal/logger"
	"github.com/seriate-dev/seriate/internal/storage"
	"github.com/seriate-dev/seriate/internal/websocket"
)

// ingestRequest is the wrapped form of the ingest body. A bare JSON array of
// events is accepted as well.
type ingestRequest struct {
	Events []api.Event `json:"events"`
}

// IngestEvents handles POST /api/events
func (h *Handlers) IngestEvents(w http.ResponseWriter, r *http.Request) {
	log := logger.Logger()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "failed to read body: "+err.Error())
		return
	}

	var events []api.Event
	if err := json.Unmarshal(body, &events); err != nil {
		var req ingestRequest
		if err2 := json.Unmarshal(body, &req); err2 != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		events = req.Events
	}

	if len(events) == 0 {
		api.WriteJSON(w, http.StatusOK, api.IngestResponse{Accepted: 0})
		return
	}

	for i, event := range events {
		if event.EventType == "" {
			api.WriteErrorFromError(w, api.NewValidationError("eventType",
				fmt.Sprintf("eventType is required (event %d)", i)))
			return
		}
	}

	accepted, err := h.store.InsertEvents(r.Context(), events)
	if err != nil {
		log.Error("Failed to insert events", "error", err, "count", len(events))
		api.WriteErrorFromError(w, api.NewStorageError("insert events", err))
		return
	}

	h.hub.Broadcast(websocket.NewEventsMessage(events))

	api.WriteJSON(w, http.StatusOK, api.IngestResponse{Accepted: accepted})
}

// QueryEvents handles GET /api/events
func (h *Handlers) QueryEvents(w http.ResponseWriter, r *http.Request) {
	from, to := parseTimeRange(r)
	limit, offset := parsePagination(r)

	filter := storage.EventFilter{
		EventType: r.URL.Query().Get("type"),
		Source:    r.URL.Query().Get("source"),
		From:      from,
		To:        to,
	}

	events, err := h.store.QueryEvents(r.Context(), filter, limit, offset)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		events = []api.Event{}
	}

	api.WriteJSON(w, http.StatusOK, api.EventsResponse{Events: events, Count: len(events)})
}

// ListEventTypes handles GET /api/events/types
func (h *Handlers) ListEventTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.GetEventTypes(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if types == nil {
		types = []string{}
	}

	api.WriteJSON(w, http.StatusOK, api.EventTypesResponse{Types: types})
}

// ListSources handles GET /api/events/sources
func (h *Handlers) ListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.store.GetSources(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sources == nil {
		sources = []string{}
	}

	api.WriteJSON(w, http.StatusOK, api.SourcesResponse{Sources: sources})
}

// GetStats handles GET /api/stats
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	api.WriteJSON(w, http.StatusOK, stats)
}

// HandleWebSocket handles GET /ws
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWs(h.hub, w, r)
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
