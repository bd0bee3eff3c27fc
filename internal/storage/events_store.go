package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/seriate-dev/seriate/internal/api"
	"github.com/seriate-dev/seriate/internal/periodic"
)

// EventFilter narrows event queries to a type and/or source, and optionally
// a time range.
type EventFilter struct {
	EventType string
	Source    string
	From      time.Time
	To        time.Time
}

// InsertEvents writes a batch of events in one transaction. Events without
// an ID get a generated one; events without a timestamp are stamped with the
// current time.
func (s *DuckDBStore) InsertEvents(ctx context.Context, events []api.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (id, event_type, source, amount, attributes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, event := range events {
		id := event.ID
		if id == "" {
			id = uuid.New().String()
		}
		createdAt := event.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		_, err := stmt.ExecContext(ctx,
			id,
			event.EventType,
			nullString(event.Source),
			event.Amount,
			mapToString(event.Attributes),
			createdAt.UTC(),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting event: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return inserted, nil
}

// QueryEvents returns events matching the filter, newest first.
func (s *DuckDBStore) QueryEvents(ctx context.Context, filter EventFilter, limit, offset int) ([]api.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// The driver hands JSON columns back as maps; cast to VARCHAR so
	// attributes scan as a string we can unmarshal.
	query := `
		SELECT id, event_type, source, amount, CAST(attributes AS VARCHAR), created_at
		FROM events
		WHERE created_at >= ?::TIMESTAMP AND created_at <= ?::TIMESTAMP
	`
	args := []interface{}{formatTimeForDB(filter.From), formatTimeForDB(filter.To)}

	if filter.EventType != "" {
		query += " AND event_type = ?"
		args = append(args, filter.EventType)
	}
	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, filter.Source)
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []api.Event
	for rows.Next() {
		var event api.Event
		var source sql.NullString
		var amount sql.NullInt64
		var attributes sql.NullString

		if err := rows.Scan(
			&event.ID, &event.EventType, &source, &amount, &attributes, &event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}

		event.Source = source.String
		event.Amount = amount.Int64
		event.CreatedAt = event.CreatedAt.UTC()
		if attributes.Valid && attributes.String != "" {
			if err := json.Unmarshal([]byte(attributes.String), &event.Attributes); err != nil {
				return nil, fmt.Errorf("parsing event attributes: %w", err)
			}
		}

		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

// GetEventTypes returns the distinct event types, sorted.
func (s *DuckDBStore) GetEventTypes(ctx context.Context) ([]string, error) {
	return s.distinctColumn(ctx, "event_type")
}

// GetSources returns the distinct non-null sources, sorted.
func (s *DuckDBStore) GetSources(ctx context.Context) ([]string, error) {
	return s.distinctColumn(ctx, "source")
}

func (s *DuckDBStore) distinctColumn(ctx context.Context, column string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// column is one of two fixed call sites, never user input
	query := fmt.Sprintf(
		"SELECT DISTINCT %s FROM events WHERE %s IS NOT NULL ORDER BY %s",
		column, column, column,
	)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", column, err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s values: %w", column, err)
	}

	return values, nil
}

// GetStats returns overall counts and the stored time range.
func (s *DuckDBStore) GetStats(ctx context.Context) (*api.StatsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &api.StatsResponse{}

	var oldest, newest sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT event_type), MIN(created_at), MAX(created_at)
		FROM events
	`).Scan(&stats.EventCount, &stats.EventTypeCount, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}

	if oldest.Valid {
		t := oldest.Time.UTC()
		stats.OldestEvent = &t
	}
	if newest.Valid {
		t := newest.Time.UTC()
		stats.NewestEvent = &t
	}

	return stats, nil
}

// EventSeries runs a periodic aggregation over the events matching the
// filter. Time-range filtering is deliberately left to the series window:
// constraining the relation would starve cumulative totals of pre-window
// rows.
func (s *DuckDBStore) EventSeries(ctx context.Context, filter EventFilter, opts periodic.Options) ([]periodic.SeriesPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	relation := periodic.NewRelation("events")
	if filter.EventType != "" {
		relation = relation.Where("event_type = $event_type", sql.Named("event_type", filter.EventType))
	}
	if filter.Source != "" {
		relation = relation.Where("source = $source", sql.Named("source", filter.Source))
	}

	return periodic.Execute(ctx, s.db, relation, opts)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func mapToString(m map[string]string) string {
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}
