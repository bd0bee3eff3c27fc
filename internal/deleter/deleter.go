package deleter

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/seriate-dev/seriate/internal/storage"
)

// Options configures the delete operation
type Options struct {
	From        time.Time
	To          time.Time
	EventType   string // Optional filter by event type
	SkipConfirm bool   // Skip confirmation prompt (--yes flag)
}

// Summary contains the results of a delete operation
type Summary struct {
	EventCount int64
}

// Preview returns a summary of what would be deleted without actually deleting
func Preview(ctx context.Context, store *storage.DuckDBStore, opts Options) (*Summary, error) {
	count, err := store.CountEventsInRange(ctx, opts.From, opts.To, opts.EventType)
	if err != nil {
		return nil, fmt.Errorf("counting events: %w", err)
	}
	return &Summary{EventCount: count}, nil
}

// Execute performs the actual deletion
func Execute(ctx context.Context, store *storage.DuckDBStore, opts Options) (*Summary, error) {
	deleted, err := store.DeleteEventsInRange(ctx, opts.From, opts.To, opts.EventType)
	if err != nil {
		return nil, fmt.Errorf("deleting events: %w", err)
	}
	return &Summary{EventCount: deleted}, nil
}

// PrintSummary prints the delete summary to stdout
func PrintSummary(summary *Summary, opts Options) {
	fmt.Println("Delete Summary")
	fmt.Println("==============")
	fmt.Printf("Time range: %s to %s\n", opts.From.Format("2006-01-02"), opts.To.Format("2006-01-02"))

	if opts.EventType != "" {
		fmt.Printf("Event type: %s\n", opts.EventType)
	} else {
		fmt.Println("Event type: all")
	}

	fmt.Println()
	fmt.Printf("Records to be deleted: %d\n", summary.EventCount)
}

// PrintResult prints the deletion result to stdout
func PrintResult(summary *Summary) {
	fmt.Println()
	fmt.Printf("Deletion complete: %d events deleted\n", summary.EventCount)
}

// ConfirmDelete prompts the user for confirmation
func ConfirmDelete() bool {
	fmt.Println()
	fmt.Println("This action cannot be undone.")
	fmt.Print("Continue? [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// IsEmpty returns true if the summary has no records to delete
func (s *Summary) IsEmpty() bool {
	return s.EventCount == 0
}

// Run executes the full delete workflow with preview and confirmation
func Run(ctx context.Context, store *storage.DuckDBStore, opts Options) error {
	// Preview what would be deleted
	summary, err := Preview(ctx, store, opts)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	// Check if there's anything to delete
	if summary.IsEmpty() {
		fmt.Println("No records found in the specified time range.")
		return nil
	}

	// Print summary
	PrintSummary(summary, opts)

	// Ask for confirmation unless --yes flag is set
	if !opts.SkipConfirm {
		if !ConfirmDelete() {
			fmt.Println("Aborted.")
			return nil
		}
	}

	// Execute deletion
	result, err := Execute(ctx, store, opts)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	// Print result
	PrintResult(result)

	return nil
}
