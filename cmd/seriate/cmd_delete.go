package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/seriate-dev/seriate/internal/config"
	"github.com/seriate-dev/seriate/internal/deleter"
	"github.com/seriate-dev/seriate/internal/storage"
)

func cmdDelete(args []string) {
	if err := runDelete(args); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// DeleteFlags holds the parsed flags for the delete command
type DeleteFlags struct {
	From string
	To   string
	Type string
	Yes  bool
}

// parseDeleteFlags parses command line arguments into DeleteFlags
func parseDeleteFlags(args []string) (*DeleteFlags, error) {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)

	flags := &DeleteFlags{}
	fs.StringVar(&flags.From, "from", "", "Start date (YYYY-MM-DD, required)")
	fs.StringVar(&flags.To, "to", "", "End date (YYYY-MM-DD, required)")
	fs.StringVar(&flags.Type, "type", "", "Filter by event type")
	fs.BoolVar(&flags.Yes, "yes", false, "Skip confirmation prompts")

	fs.Usage = func() {
		fmt.Print(`Delete events from the database

Usage: seriate delete --from DATE --to DATE [options]

Options:
`)
		printFlags(fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return flags, nil
}

func runDelete(args []string) error {
	flags, err := parseDeleteFlags(reorderArgs(args))
	if err != nil {
		return err
	}

	if flags.From == "" || flags.To == "" {
		return fmt.Errorf("--from and --to are required for delete operations\nUsage: seriate delete --from YYYY-MM-DD --to YYYY-MM-DD")
	}

	// Parse dates
	fromTime, err := time.Parse("2006-01-02", flags.From)
	if err != nil {
		return fmt.Errorf("invalid --from date format: %v\nExpected format: YYYY-MM-DD", err)
	}

	toTime, err := time.Parse("2006-01-02", flags.To)
	if err != nil {
		return fmt.Errorf("invalid --to date format: %v\nExpected format: YYYY-MM-DD", err)
	}

	// Set to end of day for the 'to' date
	toTime = toTime.Add(24*time.Hour - time.Nanosecond)

	// Validate date range
	if fromTime.After(toTime) {
		return fmt.Errorf("--from date must be before --to date")
	}

	// Load config and initialize store
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := storage.NewDuckDBStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	// Run the delete operation
	opts := deleter.Options{
		From:        fromTime,
		To:          toTime,
		EventType:   flags.Type,
		SkipConfirm: flags.Yes,
	}

	ctx := context.Background()
	return deleter.Run(ctx, store, opts)
}
