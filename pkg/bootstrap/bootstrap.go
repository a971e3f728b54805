// Package bootstrap turns resolved settings into the collaborators every
// command shares: the storage driver, the toolbox and the assistant.
package bootstrap

import (
	"context"
	"log/slog"

	"github.com/papercomputeco/cassette/pkg/assistant"
	"github.com/papercomputeco/cassette/pkg/config"
	"github.com/papercomputeco/cassette/pkg/safety"
	"github.com/papercomputeco/cassette/pkg/storage"
	storageutils "github.com/papercomputeco/cassette/pkg/storage/utils"
	"github.com/papercomputeco/cassette/pkg/tools"
)

// NewDriver opens the configured storage provider. File and sqlite storage
// default into the dot-dir resolved from configDir.
func NewDriver(ctx context.Context, s *config.Settings, configDir string, logger *slog.Logger) (storage.Driver, error) {
	return storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{
		Provider:  s.StorageProvider,
		Target:    s.StoragePath,
		ConfigDir: configDir,
		Logger:    logger,
	})
}

// NewToolbox builds the tools with the configured weather provider.
func NewToolbox(s *config.Settings, logger *slog.Logger) *tools.Toolbox {
	return tools.NewToolbox(tools.WeatherConfig{
		APIKey:  s.WeatherAPIKey,
		BaseURL: s.WeatherBaseURL,
		Timeout: s.WeatherTimeout,
		Logger:  logger,
	})
}

// NewAssistant builds the assistant. onTurn may be nil.
func NewAssistant(s *config.Settings, logger *slog.Logger, onTurn assistant.TurnHook) (*assistant.Assistant, error) {
	toolbox := NewToolbox(s, logger)
	if toolbox.Weather.Live() {
		logger.Debug("weather provider configured", "base_url", s.WeatherBaseURL)
	} else {
		logger.Debug("no weather api key, readings are simulated")
	}

	return assistant.New(assistant.Config{
		Tools:      toolbox,
		Safety:     safety.NewFilter(s.BlockedKeywords),
		Logger:     logger,
		ReplyDelay: s.ReplyDelay,
		OnTurn:     onTurn,
	})
}
