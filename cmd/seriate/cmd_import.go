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

func cmdImport(args []string) {
	if err := runImport(args); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// ImportFlags holds the parsed flags for the import command
type ImportFlags struct {
	From      string
	To        string
	DryRun    bool
	Verbose   bool
	Yes       bool
	BatchSize int
	File      string
}

// parseImportFlags parses command line arguments into ImportFlags
func parseImportFlags(args []string) (*ImportFlags, error) {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)

	flags := &ImportFlags{}
	fs.StringVar(&flags.From, "from", "", "Only import events from DATE (YYYY-MM-DD)")
	fs.StringVar(&flags.To, "to", "", "Only import events up to DATE (YYYY-MM-DD)")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "Show what would be imported without storing")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Show detailed progress")
	fs.BoolVar(&flags.Yes, "yes", false, "Skip confirmation prompts")
	fs.IntVar(&flags.BatchSize, "batch-size", 1000, "Events per insert transaction")

	fs.Usage = func() {
		fmt.Print(`Import events from a JSON Lines file

Usage: seriate import <file.jsonl> [options]

Each line is one event object:
  {"eventType": "signup", "source": "web", "amount": 1, "createdAt": "2024-03-10T12:00:00Z"}

Options:
`)
		printFlags(fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	flags.File = fs.Arg(0)
	return flags, nil
}

func runImport(args []string) error {
	flags, err := parseImportFlags(reorderArgs(args))
	if err != nil {
		return err
	}

	if flags.File == "" {
		return fmt.Errorf("file argument is required\nUsage: seriate import <file.jsonl> [options]")
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

	imp := importer.NewImporter(store, flags.Verbose)

	opts := importer.Options{
		DryRun:      flags.DryRun,
		FromDate:    fromDate,
		ToDate:      toDate,
		SkipConfirm: flags.Yes,
		BatchSize:   flags.BatchSize,
	}

	ctx := context.Background()
	return imp.Import(ctx, flags.File, opts)
}
