package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/seriate-dev/seriate/internal/config"
	"github.com/seriate-dev/seriate/internal/handlers"
	"github.com/seriate-dev/seriate/internal/logger"
	appMiddleware "github.com/seriate-dev/seriate/internal/middleware"
	"github.com/seriate-dev/seriate/internal/storage"
	"github.com/seriate-dev/seriate/internal/websocket"
	"github.com/seriate-dev/seriate/pkg/compression"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

type Server struct {
	router  chi.Router
	storage *storage.DuckDBStore
	wsHub   *websocket.Hub
	config  *config.Config

	// HTTP server for graceful shutdown
	httpServer *http.Server
	mu         sync.Mutex
}

func New(cfg *config.Config) (*Server, error) {
	store, err := storage.NewDuckDBStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	// Configure WebSocket allowed origins
	websocket.SetAllowedOrigins([]string{cfg.FrontendURL, "http://localhost:5173", "http://localhost:8080"})

	s := &Server{
		router:  chi.NewRouter(),
		storage: store,
		wsHub:   hub,
		config:  cfg,
	}

	s.setupMiddleware()

	h := handlers.New(store, hub)
	s.setupRoutes(h)

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(RequestLogger)
	s.router.Use(middleware.Recoverer)

	// Ingest clients may compress payloads
	s.router.Use(compression.GzipDecompressMiddleware)

	// 10MB payload size limit on ingest
	s.router.Use(appMiddleware.DefaultPayloadLimitMiddleware)

	// CORS for frontend access
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.config.FrontendURL, "http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Encoding", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Add context timeout for API requests (skips WebSocket upgrade requests)
	// Handlers should check context.Done() to respect timeout
	s.router.Use(appMiddleware.DefaultContextTimeoutMiddleware)
}

func (s *Server) ListenAndServe() error {
	log := logger.Logger()

	addr := fmt.Sprintf(":%d", s.config.APIPort)
	h2s := &http2.Server{}
	handler := h2c.NewHandler(s.router, h2s)

	s.mu.Lock()
	// Note: WriteTimeout is disabled to accommodate WebSocket connections
	// which need to stay open for real-time updates
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}
	s.mu.Unlock()

	log.Info("API server starting",
		"addr", addr,
		"protocol", "HTTP/1.1 + h2c",
		"endpoints", "POST /api/events, GET /api/*, /ws, /health",
	)

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down server")

	var errs []error

	s.mu.Lock()
	httpServer := s.httpServer
	s.mu.Unlock()

	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down API server: %w", err))
		}
	}

	// Close storage
	if err := s.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing storage: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}
