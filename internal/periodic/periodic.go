// Package periodic builds and runs gap-free periodic aggregation queries
// over an already-filtered event relation.
//
// Given a relation, a bucket unit, a reporting window and a timezone offset,
// Execute returns one (bucket, value) point per bucket in the window, with
// buckets that match no rows filled in, optionally as a running total. The
// heavy lifting happens in a single composed DuckDB statement; see
// buildPlan for the stage breakdown.
package periodic

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeriesPoint is one bucket of a periodic series.
type SeriesPoint struct {
	Bucket time.Time `json:"bucket"`
	Value  int64     `json:"value"`
}

// Execute runs the periodic aggregation described by opts over the relation
// and returns one point per bucket boundary in the truncated window,
// ascending by bucket, with no gaps and no duplicate buckets. A failure at
// any stage aborts the whole call; a partial series is never returned.
//
// Bucket timestamps are the local-calendar bucket starts produced by the
// timezone shift, carrying the UTC location. They are not shifted back by
// -TimezoneOffset: with TimezoneOffset = 3600, the local day 2024-01-02 is
// keyed 2024-01-02T00:00:00Z. The window bounds shift the same way, so a
// negative offset moves the first and last bucket keys to the earlier
// local days the shifted bounds fall in.
//
// Buckets that match no rows report 0 for every operation, including min
// and max; callers that need to tell an empty bucket from a genuine zero
// should run a count series alongside.
//
// Each call owns its statement text and bind values; concurrent calls only
// share the connection pool, which scopes acquisition and release per query.
func Execute(ctx context.Context, db *sql.DB, relation Relation, opts Options) ([]SeriesPoint, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid series options: %w", err)
	}

	plan, err := buildPlan(relation, opts)
	if err != nil {
		return nil, fmt.Errorf("building series plan: %w", err)
	}

	args, err := bindParameters(relation, opts)
	if err != nil {
		return nil, fmt.Errorf("binding series parameters: %w", err)
	}

	rows, err := db.QueryContext(ctx, plan, args...)
	if err != nil {
		return nil, fmt.Errorf("querying series: %w", err)
	}
	defer rows.Close()

	var series []SeriesPoint
	for rows.Next() {
		var point SeriesPoint
		if err := rows.Scan(&point.Bucket, &point.Value); err != nil {
			return nil, fmt.Errorf("scanning series point: %w", err)
		}
		point.Bucket = point.Bucket.UTC()
		series = append(series, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating series points: %w", err)
	}

	return series, nil
}
