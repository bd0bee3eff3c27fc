package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seriate-dev/seriate/internal/config"
	"github.com/seriate-dev/seriate/internal/logger"
	"github.com/seriate-dev/seriate/internal/server"
	"github.com/seriate-dev/seriate/internal/version"
)

func main() {
	// No arguments: start server (default behavior)
	if len(os.Args) < 2 {
		runServer()
		return
	}

	// Dispatch to subcommand
	switch os.Args[1] {
	case "import":
		cmdImport(os.Args[2:])
	case "export":
		cmdExport(os.Args[2:])
	case "delete":
		cmdDelete(os.Args[2:])
	case "serve":
		runServer()
	case "-v", "--version", "version":
		printVersion()
	case "-h", "--help", "help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("Seriate %s\n", version.Version)
	fmt.Printf("Git Commit: %s\n", version.GitCommit)
	fmt.Printf("Build Date: %s\n", version.BuildDate)
}

func printHelp() {
	fmt.Print(`Seriate - event analytics service with periodic series queries

Usage: seriate [command] [options]

Commands:
  import    Import events from a JSON Lines file
  export    Export events to a Parquet file
  delete    Delete events from the database
  serve     Start the API server (default if no command)

Options:
  -h, --help       Show this help message
  -v, --version    Show version information

Use "seriate [command] --help" for command-specific options.

Environment Variables:
  SERIATE_API_PORT       API server port (default: 8080)
  SERIATE_DATABASE_PATH  DuckDB database path (default: ./data/seriate.duckdb)
  SERIATE_FRONTEND_URL   Frontend URL for CORS (default: http://localhost:5173)
  SERIATE_LOG_LEVEL      Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
`)
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logging (text format for development readability)
	logger.InitializeText(cfg.SlogLevel())
	log := logger.Logger()

	srv, err := server.New(&cfg)
	if err != nil {
		log.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("Received shutdown signal")

		// Use a context with timeout for graceful shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during shutdown", "error", err)
		}
		os.Exit(0)
	}()

	log.Info("Seriate starting",
		"database", cfg.DatabasePath,
		"api_port", cfg.APIPort,
	)

	if err := srv.ListenAndServe(); err != nil {
		log.Error("Server error", "error", err)
		os.Exit(1)
	}
}
