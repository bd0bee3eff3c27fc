package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/seriate-dev/seriate/internal/config"
	"github.com/seriate-dev/seriate/internal/importer"
	"github.com/seriate-dev/seriate/internal/storage"
)

func cmdExport(args []string) {
	if err := runExport(args); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// ExportFlags holds the parsed flags for the export command
type ExportFlags struct {
	Output string
	From   string
	To     string
	Type   string
}

// parseExportFlags parses command line arguments into ExportFlags
func parseExportFlags(args []string) (*ExportFlags, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)

	flags := &ExportFlags{}
	fs.StringVar(&flags.Output, "output", "", "Output Parquet file path (required)")
	fs.StringVar(&flags.From, "from", "", "Start date filter (YYYY-MM-DD)")
	fs.StringVar(&flags.To, "to", "", "End date filter (YYYY-MM-DD)")
	fs.StringVar(&flags.Type, "type", "", "Filter by event type")

	fs.Usage = func() {
		fmt.Print(`Export events to a Parquet file

Usage: seriate export --output <file.parquet> [options]

Options:
`)
		printFlags(fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return flags, nil
}

func runExport(args []string) error {
	flags, err := parseExportFlags(reorderArgs(args))
	if err != nil {
		return err
	}

	if flags.Output == "" {
		return fmt.Errorf("--output is required for export\nUsage: seriate export --output <file.parquet>")
	}

	// Parse optional dates
	fromDate, err := importer.ParseDateArg(flags.From)
	if err != nil {
		return err
	}

	toDate, err := importer.ParseToDateArg(flags.To)
	if err != nil {
		return err
	}

	// Validate date range if both specified
	if fromDate != nil && toDate != nil && fromDate.After(*toDate) {
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

	ctx := context.Background()
	count, err := store.ExportEventsToParquet(ctx, flags.Output, fromDate, toDate, flags.Type)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("Exported %d events to %s\n", count, flags.Output)
	return nil
}
