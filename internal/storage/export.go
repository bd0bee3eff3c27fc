package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ExportEventsToParquet writes events to a Parquet file using DuckDB's
// COPY TO, optionally filtered by time range and event type. Returns the
// number of exported rows.
func (s *DuckDBStore) ExportEventsToParquet(ctx context.Context, outputPath string, from, to *time.Time, eventType string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if strings.ContainsRune(outputPath, '\'') {
		return 0, fmt.Errorf("output path cannot contain a single quote: %s", outputPath)
	}

	query := "SELECT * FROM events WHERE 1=1"
	var args []interface{}

	if from != nil {
		query += " AND created_at >= ?::TIMESTAMP"
		args = append(args, formatTimeForDB(*from))
	}
	if to != nil {
		query += " AND created_at <= ?::TIMESTAMP"
		args = append(args, formatTimeForDB(*to))
	}
	if eventType != "" {
		query += " AND event_type = ?"
		args = append(args, eventType)
	}

	copyQuery := fmt.Sprintf(
		"COPY (%s) TO '%s' (FORMAT PARQUET, COMPRESSION 'ZSTD')", query, outputPath,
	)

	if _, err := s.db.ExecContext(ctx, copyQuery, args...); err != nil {
		return 0, fmt.Errorf("executing COPY TO: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM read_parquet('%s')", outputPath)
	var count int64
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		// The export itself succeeded; the count is informational only.
		return 0, nil
	}

	return count, nil
}
