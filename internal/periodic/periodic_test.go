package periodic

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE events (
			id          VARCHAR NOT NULL,
			event_type  VARCHAR NOT NULL,
			source      VARCHAR,
			amount      BIGINT,
			attributes  JSON,
			created_at  TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("failed to create events table: %v", err)
	}

	return db
}

var testEventID int

func insertEvent(t *testing.T, db *sql.DB, createdAt, eventType string, amount int64) {
	t.Helper()

	testEventID++
	_, err := db.Exec(
		`INSERT INTO events (id, event_type, amount, created_at) VALUES (?, ?, ?, ?::TIMESTAMP)`,
		fmt.Sprintf("event-%d", testEventID), eventType, amount, createdAt,
	)
	if err != nil {
		t.Fatalf("failed to insert event: %v", err)
	}
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func countOptions(from, to time.Time) Options {
	return Options{
		Operation:    OperationCount,
		ColumnName:   "id",
		IntervalUnit: IntervalDay,
		WindowStart:  from,
		WindowEnd:    to,
	}
}

func assertSeries(t *testing.T, got []SeriesPoint, want []SeriesPoint) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("expected %d series points, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Bucket.Equal(want[i].Bucket) {
			t.Errorf("point %d: expected bucket %v, got %v", i, want[i].Bucket, got[i].Bucket)
		}
		if got[i].Value != want[i].Value {
			t.Errorf("point %d: expected value %d, got %d", i, want[i].Value, got[i].Value)
		}
	}
}

func TestCountSeriesFillsEmptyBuckets(t *testing.T) {
	db := setupTestDB(t)
	insertEvent(t, db, "2024-01-01 10:00:00", "purchase", 5)
	insertEvent(t, db, "2024-01-01 11:00:00", "purchase", 3)

	opts := countOptions(utcDate(2024, 1, 1), utcDate(2024, 1, 3))

	series, err := Execute(context.Background(), db, NewRelation("events"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSeries(t, series, []SeriesPoint{
		{Bucket: utcDate(2024, 1, 1), Value: 2},
		{Bucket: utcDate(2024, 1, 2), Value: 0},
		{Bucket: utcDate(2024, 1, 3), Value: 0},
	})
}

func TestCumulativeCountSeries(t *testing.T) {
	db := setupTestDB(t)
	insertEvent(t, db, "2024-01-01 10:00:00", "purchase", 5)
	insertEvent(t, db, "2024-01-01 11:00:00", "purchase", 3)

	opts := countOptions(utcDate(2024, 1, 1), utcDate(2024, 1, 3))
	opts.Cumulative = true

	series, err := Execute(context.Background(), db, NewRelation("events"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSeries(t, series, []SeriesPoint{
		{Bucket: utcDate(2024, 1, 1), Value: 2},
		{Bucket: utcDate(2024, 1, 2), Value: 2},
		{Bucket: utcDate(2024, 1, 3), Value: 2},
	})
}

func TestTimezoneOffsetShiftsBuckets(t *testing.T) {
	db := setupTestDB(t)
	// 23:30 UTC is 00:30 the next day one hour east of UTC.
	insertEvent(t, db, "2024-01-01 23:30:00", "purchase", 1)

	opts := countOptions(utcDate(2024, 1, 1), utcDate(2024, 1, 2))
	opts.TimezoneOffset = 3600

	series, err := Execute(context.Background(), db, NewRelation("events"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSeries(t, series, []SeriesPoint{
		{Bucket: utcDate(2024, 1, 1), Value: 0},
		{Bucket: utcDate(2024, 1, 2), Value: 1},
	})
}

func TestNegativeTimezoneOffset(t *testing.T) {
	db := setupTestDB(t)
	// 00:30 UTC is 23:30 the previous day one hour west of UTC, so each
	// row lands in the local day before its UTC date.
	insertEvent(t, db, "2024-01-01 00:30:00", "purchase", 1)
	insertEvent(t, db, "2024-01-02 00:30:00", "purchase", 1)

	opts := countOptions(utcDate(2024, 1, 1), utcDate(2024, 1, 2))
	opts.TimezoneOffset = -3600

	series, err := Execute(context.Background(), db, NewRelation("events"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The window bounds shift west along with the rows, so the series
	// starts on the local day the shifted window start falls in.
	assertSeries(t, series, []SeriesPoint{
		{Bucket: utcDate(2023, 12, 31), Value: 1},
		{Bucket: utcDate(2024, 1, 1), Value: 1},
	})
}

func TestCumulativeSumIncludesRowsBeforeWindow(t *testing.T) {
	db := setupTestDB(t)
	insertEvent(t, db, "2024-01-01 09:00:00", "purchase", 5)
	insertEvent(t, db, "2024-01-02 09:00:00", "purchase", 3)

	opts := Options{
		Operation:    OperationSum,
		ColumnName:   "amount",
		IntervalUnit: IntervalDay,
		WindowStart:  utcDate(2024, 1, 2),
		WindowEnd:    utcDate(2024, 1, 3),
		Cumulative:   true,
	}

	series, err := Execute(context.Background(), db, NewRelation("events"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The running total at the window boundary includes the Jan 1 row even
	// though its bucket is trimmed from the output.
	assertSeries(t, series, []SeriesPoint{
		{Bucket: utcDate(2024, 1, 2), Value: 8},
		{Bucket: utcDate(2024, 1, 3), Value: 8},
	})
}

func TestNonCumulativeBucketsAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	insertEvent(t, db, "2024-01-01 09:00:00", "purchase", 5)
	insertEvent(t, db, "2024-01-02 09:00:00", "purchase", 3)

	opts := Options{
		Operation:    OperationSum,
		ColumnName:   "amount",
		IntervalUnit: IntervalDay,
		WindowStart:  utcDate(2024, 1, 2),
		WindowEnd:    utcDate(2024, 1, 3),
	}

	series, err := Execute(context.Background(), db, NewRelation("events"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSeries(t, series, []SeriesPoint{
		{Bucket: utcDate(2024, 1, 2), Value: 3},
		{Bucket: utcDate(2024, 1, 3), Value: 0},
	})
}

func TestMonthlySeriesCompleteness(t *testing.T) {
	db := setupTestDB(t)
	insertEvent(t, db, "2024-01-20 12:00:00", "signup", 1)
	insertEvent(t, db, "2024-04-05 12:00:00", "signup", 1)

	opts := countOptions(
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	)
	opts.IntervalUnit = IntervalMonth

	series, err := Execute(context.Background(), db, NewRelation("events"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSeries(t, series, []SeriesPoint{
		{Bucket: utcDate(2024, 1, 1), Value: 1},
		{Bucket: utcDate(2024, 2, 1), Value: 0},
		{Bucket: utcDate(2024, 3, 1), Value: 0},
		{Bucket: utcDate(2024, 4, 1), Value: 1},
		{Bucket: utcDate(2024, 5, 1), Value: 0},
	})

	seen := make(map[time.Time]bool)
	for i, point := range series {
		if seen[point.Bucket] {
			t.Errorf("bucket %v appears more than once", point.Bucket)
		}
		seen[point.Bucket] = true
		if i > 0 && !series[i-1].Bucket.Before(point.Bucket) {
			t.Errorf("series not strictly ascending at index %d", i)
		}
	}
}

func TestWeeklySeries(t *testing.T) {
	db := setupTestDB(t)
	// 2024-01-01 is a Monday; 2024-01-10 falls in the following week.
	insertEvent(t, db, "2024-01-01 08:00:00", "signup", 1)
	insertEvent(t, db, "2024-01-10 08:00:00", "signup", 1)

	opts := countOptions(utcDate(2024, 1, 1), utcDate(2024, 1, 14))
	opts.IntervalUnit = IntervalWeek

	series, err := Execute(context.Background(), db, NewRelation("events"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSeries(t, series, []SeriesPoint{
		{Bucket: utcDate(2024, 1, 1), Value: 1},
		{Bucket: utcDate(2024, 1, 8), Value: 1},
	})
}

func TestMinAndMaxSeries(t *testing.T) {
	db := setupTestDB(t)
	insertEvent(t, db, "2024-01-01 09:00:00", "purchase", 9)
	insertEvent(t, db, "2024-01-01 10:00:00", "purchase", 5)

	opts := Options{
		Operation:    OperationMin,
		ColumnName:   "amount",
		IntervalUnit: IntervalDay,
		WindowStart:  utcDate(2024, 1, 1),
		WindowEnd:    utcDate(2024, 1, 2),
	}

	series, err := Execute(context.Background(), db, NewRelation("events"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSeries(t, series, []SeriesPoint{
		{Bucket: utcDate(2024, 1, 1), Value: 5},
		{Bucket: utcDate(2024, 1, 2), Value: 0},
	})

	opts.Operation = OperationMax
	series, err = Execute(context.Background(), db, NewRelation("events"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSeries(t, series, []SeriesPoint{
		{Bucket: utcDate(2024, 1, 1), Value: 9},
		{Bucket: utcDate(2024, 1, 2), Value: 0},
	})
}

func TestRelationFiltersArePreserved(t *testing.T) {
	db := setupTestDB(t)
	insertEvent(t, db, "2024-01-01 09:00:00", "purchase", 5)
	insertEvent(t, db, "2024-01-01 10:00:00", "refund", 5)
	insertEvent(t, db, "2024-01-02 09:00:00", "purchase", 3)

	relation := NewRelation("events").
		Where("event_type = $event_type", sql.Named("event_type", "purchase"))

	opts := countOptions(utcDate(2024, 1, 1), utcDate(2024, 1, 2))

	series, err := Execute(context.Background(), db, relation, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSeries(t, series, []SeriesPoint{
		{Bucket: utcDate(2024, 1, 1), Value: 1},
		{Bucket: utcDate(2024, 1, 2), Value: 1},
	})
}

func TestCumulativeCountIsMonotonic(t *testing.T) {
	db := setupTestDB(t)
	insertEvent(t, db, "2024-01-01 09:00:00", "purchase", 1)
	insertEvent(t, db, "2024-01-03 09:00:00", "purchase", 1)
	insertEvent(t, db, "2024-01-03 10:00:00", "purchase", 1)
	insertEvent(t, db, "2024-01-05 09:00:00", "purchase", 1)

	opts := countOptions(utcDate(2024, 1, 1), utcDate(2024, 1, 6))
	opts.Cumulative = true

	series, err := Execute(context.Background(), db, NewRelation("events"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(series) != 6 {
		t.Fatalf("expected 6 points, got %d", len(series))
	}
	for i := 1; i < len(series); i++ {
		if series[i].Value < series[i-1].Value {
			t.Errorf("cumulative series decreased at index %d: %d -> %d",
				i, series[i-1].Value, series[i].Value)
		}
	}
	if series[5].Value != 4 {
		t.Errorf("expected final cumulative count 4, got %d", series[5].Value)
	}
}

func TestInvertedWindowReturnsEmptySeries(t *testing.T) {
	db := setupTestDB(t)
	insertEvent(t, db, "2024-01-01 09:00:00", "purchase", 1)

	opts := countOptions(utcDate(2024, 1, 5), utcDate(2024, 1, 1))

	series, err := Execute(context.Background(), db, NewRelation("events"), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 0 {
		t.Errorf("expected empty series for inverted window, got %v", series)
	}
}

func TestRepeatedExecutionIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	insertEvent(t, db, "2024-01-01 09:00:00", "purchase", 5)
	insertEvent(t, db, "2024-01-02 09:00:00", "purchase", 3)

	relation := NewRelation("events").
		Where("event_type = $event_type", sql.Named("event_type", "purchase"))
	opts := countOptions(utcDate(2024, 1, 1), utcDate(2024, 1, 4))
	opts.Cumulative = true

	first, err := Execute(context.Background(), db, relation, opts)
	if err != nil {
		t.Fatalf("unexpected error on first run: %v", err)
	}
	second, err := Execute(context.Background(), db, relation, opts)
	if err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated execution produced different series:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestExecuteRejectsInvalidOptions(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name string
		opts Options
	}{
		{
			name: "invalid interval unit",
			opts: Options{Operation: OperationCount, ColumnName: "id"},
		},
		{
			name: "invalid operation",
			opts: Options{IntervalUnit: IntervalDay, ColumnName: "id"},
		},
		{
			name: "empty column",
			opts: Options{Operation: OperationCount, IntervalUnit: IntervalDay},
		},
		{
			name: "unquotable column",
			opts: Options{Operation: OperationCount, IntervalUnit: IntervalDay, ColumnName: `id"; DROP TABLE events; --`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Execute(context.Background(), db, NewRelation("events"), tt.opts); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestExecuteRejectsReservedParameterCollision(t *testing.T) {
	db := setupTestDB(t)

	relation := NewRelation("events").
		Where("event_type = $window_start", sql.Named("window_start", "purchase"))
	opts := countOptions(utcDate(2024, 1, 1), utcDate(2024, 1, 2))

	if _, err := Execute(context.Background(), db, relation, opts); err == nil {
		t.Error("expected error for reserved parameter name, got nil")
	}
}
