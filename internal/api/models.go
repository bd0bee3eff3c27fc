package api

import "time"

// Event is a single row in the events table.
type Event struct {
	ID         string            `json:"id,omitempty"`
	EventType  string            `json:"eventType"`
	Source     string            `json:"source,omitempty"`
	Amount     int64             `json:"amount,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedAt  time.Time         `json:"createdAt,omitempty"`
}

// IngestResponse reports how many events of a batch were accepted.
type IngestResponse struct {
	Accepted int `json:"accepted"`
}

type EventsResponse struct {
	Events []Event `json:"events"`
	Count  int     `json:"count"`
}

type EventTypesResponse struct {
	Types []string `json:"types"`
}

type SourcesResponse struct {
	Sources []string `json:"sources"`
}

// SeriesPoint is one bucket of a periodic series. Bucket is the
// local-calendar bucket start carrying the UTC location.
type SeriesPoint struct {
	Bucket time.Time `json:"bucket"`
	Value  int64     `json:"value"`
}

type SeriesResponse struct {
	Series []SeriesPoint `json:"series"`
}

type StatsResponse struct {
	EventCount     int64      `json:"eventCount"`
	EventTypeCount int64      `json:"eventTypeCount"`
	OldestEvent    *time.Time `json:"oldestEvent,omitempty"`
	NewestEvent    *time.Time `json:"newestEvent,omitempty"`
}
