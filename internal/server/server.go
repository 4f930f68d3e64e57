// Package server exposes the prompt store over HTTP. Every response body is a
// JSON envelope {"success", "data", "error"}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

// DefaultAPIKey is accepted on the sync routes when no key is configured.
const DefaultAPIKey = "default-dev-key"

// APIKeyHeader carries the shared secret for the sync routes.
const APIKeyHeader = "X-API-Key"

// DefaultImportBodyLimit caps the size of an import request body.
const DefaultImportBodyLimit = "64M"

// Config holds the server settings.
type Config struct {
	ListenAddr string
	APIKey     string
	// ImportBodyLimit is an echo size string such as "64M". Larger import
	// bodies are answered with 413.
	ImportBodyLimit string
}

// Server serves the HTTP API for a store.
type Server struct {
	echo   *echo.Echo
	store  types.Store
	log    zerolog.Logger
	config Config
}

// New creates a server for store. An empty APIKey falls back to
// DefaultAPIKey and logs a warning.
func New(store types.Store, config Config, log zerolog.Logger) *Server {
	if config.APIKey == "" {
		log.Warn().Msg("api_secret_key not set, sync routes accept the default development key")
		config.APIKey = DefaultAPIKey
	}
	if config.ImportBodyLimit == "" {
		config.ImportBodyLimit = DefaultImportBodyLimit
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		store:  store,
		log:    log,
		config: config,
	}

	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())

	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints.
func (s *Server) setupRoutes() {
	s.echo.GET("/healthz", func(c echo.Context) error {
		return ok(c, http.StatusOK, map[string]string{"status": "healthy"})
	})

	api := s.echo.Group("/api")

	api.GET("/prompts", s.listPrompts)
	api.POST("/prompts", s.createPrompt)
	api.GET("/prompts/:id", s.getPrompt)
	api.PUT("/prompts/:id", s.updatePrompt)
	api.DELETE("/prompts/:id", s.deletePrompt)

	api.GET("/tags", s.listTags)
	api.POST("/tags", s.createTag)
	api.DELETE("/tags", s.deleteTag)

	api.GET("/data/export", s.exportData)
	api.POST("/data/import", s.importData, middleware.BodyLimit(s.config.ImportBodyLimit))

	syncGroup := api.Group("/sync", s.requireAPIKey())
	syncGroup.GET("/export-for-clustering", s.exportForClustering)
	syncGroup.POST("/update-clusters", s.updateClusters)
}

// Handler returns the router, for tests and for embedding in another server.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured address and blocks until the server stops.
// It returns nil after a clean Shutdown.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.config.ListenAddr).Msg("listening")
	if err := s.echo.Start(s.config.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// requestLogger logs one line per request with its status and latency.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Msg("request")
			return nil
		},
	})
}
