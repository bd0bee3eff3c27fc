package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/seriate-dev/seriate/internal/api"
	"github.com/seriate-dev/seriate/internal/periodic"
	"github.com/seriate-dev/seriate/internal/storage"
)

// defaultAggregateColumn is aggregated when the query names no column.
const defaultAggregateColumn = "id"

// EventSeries handles GET /api/events/series
//
// Query parameters:
//
//	unit       - bucket granularity: day, week, month, year (required)
//	op         - aggregate operation: count, sum, min, max (default count)
//	column     - column the aggregate is applied to (default id)
//	from, to   - RFC3339 window bounds (default last 30 days)
//	tz_offset  - signed seconds east of UTC, shifts bucket boundaries
//	cumulative - "true" for running totals
//	type       - restrict to one event type
//	source     - restrict to one source
//
// Buckets without matching rows carry a 0 value for all operations, so a
// min or max series cannot distinguish an empty bucket from a true zero.
func (h *Handlers) EventSeries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	unit, err := periodic.ParseIntervalUnit(q.Get("unit"))
	if err != nil {
		api.WriteErrorFromError(w, api.NewValidationError("unit", err.Error()))
		return
	}

	operation := periodic.OperationCount
	if opStr := q.Get("op"); opStr != "" {
		operation, err = periodic.ParseOperation(opStr)
		if err != nil {
			api.WriteErrorFromError(w, api.NewValidationError("op", err.Error()))
			return
		}
	}

	column := q.Get("column")
	if column == "" {
		column = defaultAggregateColumn
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if fromStr := q.Get("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			api.WriteErrorFromError(w, api.NewValidationError("from", "must be RFC3339"))
			return
		}
		from = parsed
	}
	if toStr := q.Get("to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			api.WriteErrorFromError(w, api.NewValidationError("to", "must be RFC3339"))
			return
		}
		to = parsed
	}

	tzOffset := 0
	if tzStr := q.Get("tz_offset"); tzStr != "" {
		parsed, err := strconv.Atoi(tzStr)
		if err != nil {
			api.WriteErrorFromError(w, api.NewValidationError("tz_offset", "must be an integer number of seconds"))
			return
		}
		tzOffset = parsed
	}

	opts := periodic.Options{
		Operation:      operation,
		ColumnName:     column,
		IntervalUnit:   unit,
		WindowStart:    from,
		WindowEnd:      to,
		TimezoneOffset: tzOffset,
		Cumulative:     q.Get("cumulative") == "true",
	}
	if err := opts.Validate(); err != nil {
		api.WriteErrorFromError(w, api.NewValidationError("", err.Error()))
		return
	}

	filter := storage.EventFilter{
		EventType: q.Get("type"),
		Source:    q.Get("source"),
	}

	series, err := h.store.EventSeries(r.Context(), filter, opts)
	if err != nil {
		api.WriteErrorFromError(w, api.NewStorageError("event series", err))
		return
	}

	points := make([]api.SeriesPoint, 0, len(series))
	for _, p := range series {
		points = append(points, api.SeriesPoint{Bucket: p.Bucket, Value: p.Value})
	}

	api.WriteJSON(w, http.StatusOK, api.SeriesResponse{Series: points})
}
