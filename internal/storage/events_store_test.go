package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/seriate-dev/seriate/internal/api"
	"github.com/seriate-dev/seriate/internal/periodic"
)

func testEvents() []api.Event {
	return []api.Event{
		{
			ID:        "e1",
			EventType: "purchase",
			Source:    "web",
			Amount:    100,
			CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			Attributes: map[string]string{
				"currency": "EUR",
			},
		},
		{
			ID:        "e2",
			EventType: "purchase",
			Source:    "mobile",
			Amount:    50,
			CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "e3",
			EventType: "refund",
			Source:    "web",
			Amount:    25,
			CreatedAt: time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestInsertAndQueryEvents(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	inserted, err := store.InsertEvents(ctx, testEvents())
	if err != nil {
		t.Fatalf("InsertEvents() error = %v", err)
	}
	if inserted != 3 {
		t.Errorf("expected 3 inserted events, got %d", inserted)
	}

	filter := EventFilter{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
	}
	events, err := store.QueryEvents(ctx, filter, 50, 0)
	if err != nil {
		t.Fatalf("QueryEvents() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	// Newest first
	if events[0].ID != "e3" {
		t.Errorf("expected newest event first, got %s", events[0].ID)
	}
	if events[2].Attributes["currency"] != "EUR" {
		t.Errorf("expected attributes to round-trip, got %v", events[2].Attributes)
	}
}

func TestQueryEventsScansAttributes(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	events := []api.Event{
		{
			ID:        "a1",
			EventType: "purchase",
			CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			Attributes: map[string]string{
				"currency": "EUR",
				"plan":     "pro",
			},
		},
		{
			ID:        "a2",
			EventType: "purchase",
			CreatedAt: time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC),
		},
	}
	if _, err := store.InsertEvents(ctx, events); err != nil {
		t.Fatalf("InsertEvents() error = %v", err)
	}

	got, err := store.QueryEvents(ctx, EventFilter{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}, 10, 0)
	if err != nil {
		t.Fatalf("QueryEvents() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}

	// Newest first: a2 has no attributes, a1 has two
	if len(got[0].Attributes) != 0 {
		t.Errorf("expected no attributes for a2, got %v", got[0].Attributes)
	}
	if got[1].Attributes["currency"] != "EUR" || got[1].Attributes["plan"] != "pro" {
		t.Errorf("expected attributes to round-trip, got %v", got[1].Attributes)
	}
}

func TestQueryEventsFilters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.InsertEvents(ctx, testEvents()); err != nil {
		t.Fatalf("InsertEvents() error = %v", err)
	}

	filter := EventFilter{
		EventType: "purchase",
		Source:    "web",
		From:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
	}
	events, err := store.QueryEvents(ctx, filter, 50, 0)
	if err != nil {
		t.Fatalf("QueryEvents() error = %v", err)
	}
	if len(events) != 1 || events[0].ID != "e1" {
		t.Errorf("expected only e1, got %v", events)
	}
}

func TestInsertEventsGeneratesMissingIDs(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.InsertEvents(ctx, []api.Event{{EventType: "signup"}})
	if err != nil {
		t.Fatalf("InsertEvents() error = %v", err)
	}

	events, err := store.QueryEvents(ctx, EventFilter{
		From: time.Now().Add(-time.Hour),
		To:   time.Now().Add(time.Hour),
	}, 10, 0)
	if err != nil {
		t.Fatalf("QueryEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID == "" {
		t.Error("expected a generated event ID")
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("expected a generated created_at timestamp")
	}
}

func TestGetEventTypesAndSources(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.InsertEvents(ctx, testEvents()); err != nil {
		t.Fatalf("InsertEvents() error = %v", err)
	}

	types, err := store.GetEventTypes(ctx)
	if err != nil {
		t.Fatalf("GetEventTypes() error = %v", err)
	}
	if len(types) != 2 || types[0] != "purchase" || types[1] != "refund" {
		t.Errorf("unexpected event types: %v", types)
	}

	sources, err := store.GetSources(ctx)
	if err != nil {
		t.Fatalf("GetSources() error = %v", err)
	}
	if len(sources) != 2 || sources[0] != "mobile" || sources[1] != "web" {
		t.Errorf("unexpected sources: %v", sources)
	}
}

func TestGetStats(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	stats, err := store.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.EventCount != 0 || stats.OldestEvent != nil {
		t.Errorf("expected empty stats, got %+v", stats)
	}

	if _, err := store.InsertEvents(ctx, testEvents()); err != nil {
		t.Fatalf("InsertEvents() error = %v", err)
	}

	stats, err = store.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.EventCount != 3 {
		t.Errorf("expected 3 events, got %d", stats.EventCount)
	}
	if stats.EventTypeCount != 2 {
		t.Errorf("expected 2 event types, got %d", stats.EventTypeCount)
	}
	if stats.OldestEvent == nil || !stats.OldestEvent.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected oldest event: %v", stats.OldestEvent)
	}
}

func TestEventSeries(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.InsertEvents(ctx, testEvents()); err != nil {
		t.Fatalf("InsertEvents() error = %v", err)
	}

	opts := periodic.Options{
		Operation:    periodic.OperationCount,
		ColumnName:   "id",
		IntervalUnit: periodic.IntervalDay,
		WindowStart:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:    time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}

	series, err := store.EventSeries(ctx, EventFilter{EventType: "purchase"}, opts)
	if err != nil {
		t.Fatalf("EventSeries() error = %v", err)
	}

	want := []int64{2, 0, 0}
	if len(series) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(series))
	}
	for i, value := range want {
		if series[i].Value != value {
			t.Errorf("point %d: expected %d, got %d", i, value, series[i].Value)
		}
	}
}

func TestCountAndDeleteEventsInRange(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.InsertEvents(ctx, testEvents()); err != nil {
		t.Fatalf("InsertEvents() error = %v", err)
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	count, err := store.CountEventsInRange(ctx, from, to, "")
	if err != nil {
		t.Fatalf("CountEventsInRange() error = %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 events in range, got %d", count)
	}

	deleted, err := store.DeleteEventsInRange(ctx, from, to, "purchase")
	if err != nil {
		t.Fatalf("DeleteEventsInRange() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted events, got %d", deleted)
	}

	remaining, err := store.CountEventsInRange(ctx, from, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), "")
	if err != nil {
		t.Fatalf("CountEventsInRange() error = %v", err)
	}
	if remaining != 1 {
		t.Errorf("expected 1 remaining event, got %d", remaining)
	}
}

func TestExportEventsToParquet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.InsertEvents(ctx, testEvents()); err != nil {
		t.Fatalf("InsertEvents() error = %v", err)
	}

	outputPath := filepath.Join(t.TempDir(), "events.parquet")

	count, err := store.ExportEventsToParquet(ctx, outputPath, nil, nil, "purchase")
	if err != nil {
		t.Fatalf("ExportEventsToParquet() error = %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 exported events, got %d", count)
	}
}
