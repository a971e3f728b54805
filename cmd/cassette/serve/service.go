package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/papercomputeco/cassette/api"
	"github.com/papercomputeco/cassette/api/mcp"
	"github.com/papercomputeco/cassette/pkg/assistant"
	"github.com/papercomputeco/cassette/pkg/bootstrap"
	"github.com/papercomputeco/cassette/pkg/config"
	eventstreamutils "github.com/papercomputeco/cassette/pkg/eventstream/utils"
	"github.com/papercomputeco/cassette/pkg/metrics"
	"github.com/papercomputeco/cassette/pkg/storage"
	"github.com/papercomputeco/cassette/pkg/worker"
)

// service is everything "cassette serve" runs, wired together.
type service struct {
	settings  *config.Settings
	driver    storage.Driver
	pool      *worker.Pool
	metrics   *metrics.Metrics
	assistant *assistant.Assistant
	sessions  *assistant.Sessions
	api       *api.Server
	logger    *slog.Logger
}

func newService(ctx context.Context, settings *config.Settings, configDir string, logger *slog.Logger) (*service, error) {
	s := &service{
		settings: settings,
		metrics:  metrics.New(),
		logger:   logger,
	}

	var err error
	s.driver, err = bootstrap.NewDriver(ctx, settings, configDir, logger)
	if err != nil {
		return nil, err
	}

	publisher, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		Provider: settings.EventStreamProvider,
		Brokers:  settings.EventStreamBrokers,
		Topic:    settings.EventStreamTopic,
		Logger:   logger,
	})
	if err != nil {
		s.driver.Close()
		return nil, err
	}

	s.pool, err = worker.NewPool(&worker.Config{
		Publisher: publisher,
		Logger:    logger,
	})
	if err != nil {
		publisher.Close()
		s.driver.Close()
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}

	if err := s.build(logger); err != nil {
		return nil, errors.Join(err, s.close())
	}

	return s, nil
}

func (s *service) build(logger *slog.Logger) error {
	var err error
	s.assistant, err = bootstrap.NewAssistant(s.settings, logger, s.onTurn)
	if err != nil {
		return fmt.Errorf("creating assistant: %w", err)
	}

	s.sessions, err = assistant.NewSessions(s.assistant, s.driver)
	if err != nil {
		return fmt.Errorf("creating sessions: %w", err)
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Tools:    s.assistant.Tools(),
		Sessions: s.sessions,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	s.api, err = api.NewServer(api.Config{
		ListenAddr: s.settings.APIListen,
		MCP:        mcpServer.Handler(),
		Metrics:    s.metrics,
	}, s.sessions, logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	return nil
}

// onTurn publishes the turn event and records it in metrics.
func (s *service) onTurn(t assistant.Turn) {
	s.pool.OnTurn(t)
	s.metrics.OnTurn(t)
}

// reload applies the hot-reloadable parts of a changed config file.
func (s *service) reload(cfg *config.Config) {
	s.assistant.Safety().SetKeywords(cfg.Safety.BlockedKeywords)
	s.logger.Info("config reloaded",
		"blocked_keywords", len(s.assistant.Safety().Keywords()),
	)
}

// close drains the event pool, then closes storage.
func (s *service) close() error {
	var errs []error
	if s.pool != nil {
		errs = append(errs, s.pool.Close())
	}
	if s.driver != nil {
		errs = append(errs, s.driver.Close())
	}
	return errors.Join(errs...)
}

// baseURL turns a listen address like ":8090" into a dialable URL.
func baseURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "http://" + strings.TrimPrefix(listen, "http://")
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
