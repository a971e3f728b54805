package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/cassette/pkg/assistant"
)

// Server is the API server for chatting with cassette sessions and managing
// their memory and activity logs.
type Server struct {
	config   Config
	sessions *assistant.Sessions
	logger   *slog.Logger
	app      *fiber.App
}

// NewServer creates a new API server.
// The sessions registry is injected so the MCP ask tool can share it.
func NewServer(config Config, sessions *assistant.Sessions, logger *slog.Logger) (*Server, error) {
	if sessions == nil {
		return nil, errors.New("sessions registry is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		sessions: sessions,
		logger:   logger,
		app:      app,
	}

	if config.Metrics != nil {
		app.Use(s.observe)
		app.Get("/metrics", adaptor.HTTPHandler(config.Metrics.Handler()))
	}

	app.Get("/ping", s.handlePing)

	v1 := app.Group("/v1")
	v1.Post("/sessions", s.handleCreateSession)
	v1.Post("/sessions/:id/messages", s.handleMessage)
	v1.Get("/sessions/:id/memory", s.handleGetMemory)
	v1.Put("/sessions/:id/memory", s.handlePutMemory)
	v1.Delete("/sessions/:id/memory", s.handleDeleteMemory)
	v1.Get("/sessions/:id/logs", s.handleGetLogs)
	v1.Delete("/sessions/:id/logs", s.handleDeleteLogs)

	if config.MCP != nil {
		app.All("/mcp", adaptor.HTTPHandler(config.MCP))
	}

	return s, nil
}

// observe records the request in the configured metrics, labeled by route
// template so session ids do not explode cardinality.
func (s *Server) observe(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}

	s.config.Metrics.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start).Seconds())
	return err
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
