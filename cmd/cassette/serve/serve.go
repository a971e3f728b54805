// Package servecmder provides the serve command, which runs the HTTP API and
// the MCP tool server.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/cassette/pkg/config"
	"github.com/papercomputeco/cassette/pkg/logger"
	"github.com/papercomputeco/cassette/pkg/runstate"
)

type serveCommander struct {
	flags     config.FlagSet
	configDir string
	debug     bool
	jsonLogs  bool
	logFile   string
	noWatch   bool

	listen          string
	storageProvider string
	storagePath     string
	weatherAPIKey   string
	weatherBaseURL  string
	replyDelay      time.Duration
	eventStream     string
	kafkaBrokers    string
	kafkaTopic      string

	logger *slog.Logger
}

var serveFlags = []string{
	config.FlagListen,
	config.FlagStorageProvider,
	config.FlagStoragePath,
	config.FlagWeatherAPIKey,
	config.FlagWeatherBaseURL,
	config.FlagReplyDelay,
	config.FlagEventStream,
	config.FlagKafkaBrokers,
	config.FlagKafkaTopic,
}

const serveLongDesc string = `Run the cassette HTTP API.

The API exposes independent chat sessions, each with its own memory record
and activity log, plus an MCP server at /mcp offering the time, calc, joke,
weather and ask tools.

When eventstream.provider is "kafka", every completed turn is published to
the configured topic by a background worker pool.

Edits to config.toml are picked up while running: the safety blocklist is
reloaded without a restart.

Examples:
  cassette serve
  cassette serve --listen :9000 --storage sqlite
  cassette serve --eventstream kafka --kafka-brokers localhost:9092`

const serveShortDesc string = "Run the cassette HTTP API and MCP server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{
		flags: config.Flags,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, cmder.flags, serveFlags)

			return cmder.run(v)
		},
	}

	config.AddStringFlag(cmd, cmder.flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, cmder.flags, config.FlagStorageProvider, &cmder.storageProvider)
	config.AddStringFlag(cmd, cmder.flags, config.FlagStoragePath, &cmder.storagePath)
	config.AddStringFlag(cmd, cmder.flags, config.FlagWeatherAPIKey, &cmder.weatherAPIKey)
	config.AddStringFlag(cmd, cmder.flags, config.FlagWeatherBaseURL, &cmder.weatherBaseURL)
	config.AddDurationFlag(cmd, cmder.flags, config.FlagReplyDelay, &cmder.replyDelay)
	config.AddStringFlag(cmd, cmder.flags, config.FlagEventStream, &cmder.eventStream)
	config.AddStringFlag(cmd, cmder.flags, config.FlagKafkaBrokers, &cmder.kafkaBrokers)
	config.AddStringFlag(cmd, cmder.flags, config.FlagKafkaTopic, &cmder.kafkaTopic)

	cmd.Flags().BoolVar(&cmder.jsonLogs, "json", false, "Emit JSON logs instead of pretty output")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file (default: serve.log in the cassette dir)")
	cmd.Flags().BoolVar(&cmder.noWatch, "no-watch", false, "Do not reload config.toml on change")

	return cmd
}

func (c *serveCommander) run(v *viper.Viper) error {
	state, err := runstate.NewManager(c.configDir)
	if err != nil {
		return fmt.Errorf("resolving run state: %w", err)
	}

	lock, err := state.Lock()
	if err != nil {
		return err
	}
	defer lock.Release()

	logPath := c.logFile
	if logPath == "" {
		logPath = state.LogPath
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	c.logger = logger.Multi(
		logger.New(logger.WithDebug(c.debug), logger.WithPretty(!c.jsonLogs), logger.WithJSON(c.jsonLogs)),
		logger.New(logger.WithDebug(c.debug), logger.WithJSON(true), logger.WithWriter(logFile)),
	)

	settings, err := config.Resolve(v)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := newService(ctx, settings, c.configDir, c.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.close(); err != nil {
			c.logger.Error("shutdown failed", "error", err)
		}
	}()

	url := baseURL(settings.APIListen)
	if err := state.SaveState(&runstate.State{
		PID:             os.Getpid(),
		APIURL:          url,
		MCPURL:          url + "/mcp",
		StorageProvider: settings.StorageProvider,
		EventStream:     settings.EventStreamProvider,
		LogPath:         logPath,
	}); err != nil {
		c.logger.Warn("could not record run state", "error", err)
	}
	defer func() {
		if err := state.ClearState(); err != nil {
			c.logger.Warn("could not clear run state", "error", err)
		}
	}()

	if !c.noWatch {
		go c.watch(ctx, svc)
	}

	c.logger.Info("starting cassette",
		"api_addr", settings.APIListen,
		"mcp_url", url+"/mcp",
		"storage", settings.StorageProvider,
		"eventstream", settings.EventStreamProvider,
	)

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := svc.api.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		c.logger.Info("received signal, shutting down")
	}

	if err := svc.api.Shutdown(); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

func (c *serveCommander) watch(ctx context.Context, svc *service) {
	cfger, err := config.NewConfiger(c.configDir)
	if err != nil {
		c.logger.Warn("config watch disabled", "error", err)
		return
	}

	err = cfger.Watch(ctx, svc.reload, func(err error) {
		c.logger.Warn("ignoring unreadable config change", "error", err)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Warn("config watch stopped", "error", err)
	}
}
