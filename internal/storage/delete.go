package storage

import (
	"context"
	"fmt"
	"time"
)

// CountEventsInRange returns the number of events in the given time range,
// optionally restricted to one event type.
func (s *DuckDBStore) CountEventsInRange(ctx context.Context, from, to time.Time, eventType string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT COUNT(*) FROM events WHERE created_at >= ?::TIMESTAMP AND created_at <= ?::TIMESTAMP`
	args := []interface{}{formatTimeForDB(from), formatTimeForDB(to)}

	if eventType != "" {
		query += " AND event_type = ?"
		args = append(args, eventType)
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}

	return count, nil
}

// DeleteEventsInRange deletes events in the given time range, optionally
// restricted to one event type, and returns the number of deleted rows.
func (s *DuckDBStore) DeleteEventsInRange(ctx context.Context, from, to time.Time, eventType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `DELETE FROM events WHERE created_at >= ?::TIMESTAMP AND created_at <= ?::TIMESTAMP`
	args := []interface{}{formatTimeForDB(from), formatTimeForDB(to)}

	if eventType != "" {
		query += " AND event_type = ?"
		args = append(args, eventType)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting events: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading deleted row count: %w", err)
	}

	return deleted, nil
}
