// Package server exposes the taskboard models over HTTP with Echo.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mesh-intelligence/taskboard/internal/logger"
	"github.com/mesh-intelligence/taskboard/internal/models"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Server owns the Echo router and the net/http server that runs it.
type Server struct {
	cfg    types.ServerConfig
	models *models.Manager
	log    *logger.Logger
	echo   *echo.Echo

	// mu serializes handlers; the store has a single unlocked connection.
	mu sync.Mutex

	httpServer *http.Server
}

// New builds a Server with its middleware and routes registered.
func New(cfg types.ServerConfig, m *models.Manager, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		cfg:    cfg,
		models: m,
		log:    log,
		echo:   echo.New(),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.errorHandler

	s.echo.Use(
		requestID(),
		s.requestLogger(),
		recoverer(),
		cors(cfg.CORSAllowedOrigins),
	)
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the router for use with httptest or a custom server.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured port and blocks until the server stops.
// A clean Shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info("Starting server on port {}", s.cfg.Port)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx
// is done. A Start that has not begun listening yet returns at once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
