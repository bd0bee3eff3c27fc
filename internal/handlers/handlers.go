package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/seriate-dev/seriate/internal/storage"
	"github.com/seriate-dev/seriate/internal/websocket"
)

type Handlers struct {
	store *storage.DuckDBStore
	hub   *websocket.Hub
}

func New(store *storage.DuckDBStore, hub *websocket.Hub) *Handlers {
	return &Handlers{
		store: store,
		hub:   hub,
	}
}

// Helper functions
func parseTimeRange(r *http.Request) (from, to time.Time) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	// Default to last 24 hours
	to = time.Now()
	from = to.Add(-24 * time.Hour)

	if fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			from = parsed
		}
	}

	if toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			to = parsed
		}
	}

	return from, to
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
			if limit > 1000 {
				limit = 1000
			}
		}
	}

	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return limit, offset
}
