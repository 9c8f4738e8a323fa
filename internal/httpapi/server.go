// Package httpapi provides the HTTP API for meetingd.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/meetingd/internal/bus"
	"github.com/fyrsmithlabs/meetingd/internal/notes"
	"github.com/fyrsmithlabs/meetingd/internal/tasks"
	"github.com/fyrsmithlabs/meetingd/internal/transcript"
)

// DefaultSession is the session id used when a request names none.
// Single-meeting deployments never need to pass one.
const DefaultSession = "default"

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Deps bundles the services the HTTP layer exposes. Publisher and NATS
// may be nil; fanout and the SSE stream are then disabled.
type Deps struct {
	Sessions  *transcript.Registry
	Notes     *notes.Generator
	Tasks     *tasks.Service
	Publisher *bus.Publisher
	NATS      *nats.Conn
}

// Server provides HTTP endpoints for meetingd.
type Server struct {
	echo   *echo.Echo
	logger *zap.Logger
	config *Config
	deps   Deps

	mu     sync.Mutex
	dedups map[string]*tasks.Deduplicator
}

// NewServer creates a new HTTP server.
func NewServer(deps Deps, logger *zap.Logger, cfg *Config) (*Server, error) {
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session registry cannot be nil")
	}
	if deps.Notes == nil {
		return nil, fmt.Errorf("notes generator cannot be nil")
	}
	if deps.Tasks == nil {
		return nil, fmt.Errorf("task service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8080,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(MetricsMiddleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:   e,
		logger: logger,
		config: cfg,
		deps:   deps,
		dedups: make(map[string]*tasks.Deduplicator),
	}

	// Register routes
	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	// Health check and metrics
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Transcription vendor webhook
	s.echo.POST("/webhook/transcription", s.handleWebhook)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")
	v1.POST("/extract-tasks", s.handleExtractTasks)
	v1.POST("/minutes", s.handleMinutes)
	v1.GET("/transcript", s.handleTranscript)
	v1.DELETE("/transcript", s.handleClearTranscript)
	v1.GET("/events/:session", s.handleEvents)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// sessionID resolves the session identifier from the request.
func sessionID(c echo.Context) string {
	if id := c.QueryParam("session_id"); id != "" {
		return id
	}
	return DefaultSession
}

// dedupFor returns the deduplication set for a session, creating it on
// first use. Clearing the transcript also resets it.
func (s *Server) dedupFor(session string) *tasks.Deduplicator {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dedups[session]
	if !ok {
		d = tasks.NewDeduplicator()
		s.dedups[session] = d
	}
	return d
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
