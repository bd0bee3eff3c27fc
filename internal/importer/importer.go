package importer

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/seriate-dev/seriate/internal/api"
	"github.com/seriate-dev/seriate/internal/storage"
)

// defaultBatchSize is the number of events inserted per transaction.
const defaultBatchSize = 1000

// Options configures the import operation
type Options struct {
	DryRun      bool
	FromDate    *time.Time
	ToDate      *time.Time
	SkipConfirm bool
	BatchSize   int
}

// Summary contains the results of scanning an import file
type Summary struct {
	File        string
	TotalLines  int
	TotalEvents int
	Skipped     int
	Errors      []error
}

// Importer reads JSON Lines event files and stores them in batches
type Importer struct {
	store   *storage.DuckDBStore
	verbose bool
}

// NewImporter creates a new importer
func NewImporter(store *storage.DuckDBStore, verbose bool) *Importer {
	return &Importer{store: store, verbose: verbose}
}

// Import runs the full import workflow for one file: scan, summarize,
// confirm, then insert.
func (i *Importer) Import(ctx context.Context, filePath string, opts Options) error {
	summary, events, err := i.scanFile(filePath, opts)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", filePath, err)
	}

	if summary.TotalEvents == 0 {
		fmt.Println("No events found to import.")
		return nil
	}

	printSummary(summary, opts)

	if opts.DryRun {
		fmt.Println("\nDry run - no changes made.")
		return nil
	}

	if !opts.SkipConfirm {
		if !confirmImport() {
			fmt.Println("Aborted.")
			return nil
		}
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	inserted := 0
	for start := 0; start < len(events); start += batchSize {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		end := start + batchSize
		if end > len(events) {
			end = len(events)
		}

		n, err := i.store.InsertEvents(ctx, events[start:end])
		if err != nil {
			return fmt.Errorf("inserting batch at offset %d: %w", start, err)
		}
		inserted += n

		if i.verbose {
			fmt.Printf("  Inserted %d/%d events\n", inserted, len(events))
		}
	}

	fmt.Printf("\nImport complete: %d events imported\n", inserted)
	return nil
}

// scanFile parses a JSON Lines file of events, applying the date filter
func (i *Importer) scanFile(filePath string, opts Options) (*Summary, []api.Event, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	summary := &Summary{File: filePath}
	var events []api.Event

	scanner := bufio.NewScanner(f)
	// Generous line limit for events with large attribute maps
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		summary.TotalLines++

		var event api.Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			summary.Errors = append(summary.Errors,
				fmt.Errorf("line %d: %w", summary.TotalLines, err))
			continue
		}

		if event.EventType == "" {
			summary.Errors = append(summary.Errors,
				fmt.Errorf("line %d: missing eventType", summary.TotalLines))
			continue
		}

		if !withinDateRange(event.CreatedAt, opts.FromDate, opts.ToDate) {
			summary.Skipped++
			continue
		}

		events = append(events, event)
		summary.TotalEvents++
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading file: %w", err)
	}

	return summary, events, nil
}

func withinDateRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// printSummary prints the import summary
func printSummary(summary *Summary, opts Options) {
	fmt.Println("\nImport Summary")
	fmt.Println("==============")
	fmt.Printf("File: %s\n", summary.File)

	if opts.FromDate != nil || opts.ToDate != nil {
		from := "beginning"
		to := "now"
		if opts.FromDate != nil {
			from = opts.FromDate.Format("2006-01-02")
		}
		if opts.ToDate != nil {
			to = opts.ToDate.Format("2006-01-02")
		}
		fmt.Printf("Time range: %s to %s\n", from, to)
	}

	fmt.Printf("Events to import: %d (%d lines, %d skipped)\n",
		summary.TotalEvents, summary.TotalLines, summary.Skipped)

	if len(summary.Errors) > 0 {
		fmt.Printf("Errors: %d\n", len(summary.Errors))
		for i, err := range summary.Errors {
			if i >= 5 {
				fmt.Printf("  ... and %d more\n", len(summary.Errors)-5)
				break
			}
			fmt.Printf("  %v\n", err)
		}
	}
}

// confirmImport prompts the user for confirmation
func confirmImport() bool {
	fmt.Print("Continue? [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// ParseDateArg parses a date argument in YYYY-MM-DD format
func ParseDateArg(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", dateStr)
	}

	return &t, nil
}

// ParseToDateArg parses a to-date argument and sets it to end of day
func ParseToDateArg(dateStr string) (*time.Time, error) {
	t, err := ParseDateArg(dateStr)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}

	// Set to end of day
	endOfDay := t.Add(24*time.Hour - time.Nanosecond)
	return &endOfDay, nil
}
