package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/papercomputeco/cassette/pkg/dotdir"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "CASSETTE"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the CASSETTE_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (CASSETTE_API_LISTEN, CASSETTE_WEATHER_API_KEY, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: CASSETTE_STORAGE_PROVIDER, CASSETTE_EVENTSTREAM_BROKERS, etc.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Storage
	v.SetDefault("storage.provider", d.Storage.Provider)
	v.SetDefault("storage.path", d.Storage.Path)

	// API
	v.SetDefault("api.listen", d.API.Listen)

	// Weather
	v.SetDefault("weather.api_key", d.Weather.APIKey)
	v.SetDefault("weather.base_url", d.Weather.BaseURL)
	v.SetDefault("weather.timeout", d.Weather.Timeout)

	// Safety
	v.SetDefault("safety.blocked_keywords", d.Safety.BlockedKeywords)

	// Event stream
	v.SetDefault("eventstream.provider", d.EventStream.Provider)
	v.SetDefault("eventstream.brokers", d.EventStream.Brokers)
	v.SetDefault("eventstream.topic", d.EventStream.Topic)

	// Assistant
	v.SetDefault("assistant.reply_delay", d.Assistant.ReplyDelay)
	v.SetDefault("assistant.tone", d.Assistant.Tone)
}

// Settings is the fully resolved runtime configuration, with durations
// parsed and lists split.
type Settings struct {
	StorageProvider string
	StoragePath     string

	APIListen string

	WeatherAPIKey  string
	WeatherBaseURL string
	WeatherTimeout time.Duration

	BlockedKeywords []string

	EventStreamProvider string
	EventStreamBrokers  []string
	EventStreamTopic    string

	ReplyDelay time.Duration
	Tone       string
}

// Resolve reads every key from v, applying the precedence chain set up by
// InitViper and BindRegisteredFlags.
func Resolve(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		StorageProvider:     v.GetString("storage.provider"),
		StoragePath:         v.GetString("storage.path"),
		APIListen:           v.GetString("api.listen"),
		WeatherAPIKey:       v.GetString("weather.api_key"),
		WeatherBaseURL:      v.GetString("weather.base_url"),
		BlockedKeywords:     getList(v, "safety.blocked_keywords"),
		EventStreamProvider: v.GetString("eventstream.provider"),
		EventStreamBrokers:  getList(v, "eventstream.brokers"),
		EventStreamTopic:    v.GetString("eventstream.topic"),
		Tone:                v.GetString("assistant.tone"),
	}

	if !isValidStorageProvider(s.StorageProvider) {
		return nil, fmt.Errorf("invalid storage.provider: %q (available: %s)",
			s.StorageProvider, strings.Join(StorageProviders, ", "))
	}

	var err error
	if s.WeatherTimeout, err = getDuration(v, "weather.timeout"); err != nil {
		return nil, err
	}
	if s.ReplyDelay, err = getDuration(v, "assistant.reply_delay"); err != nil {
		return nil, err
	}

	return s, nil
}

// getList accepts either a TOML array or a comma separated string, which is
// how lists arrive from environment variables.
func getList(v *viper.Viper, key string) []string {
	if raw, ok := v.Get(key).(string); ok {
		return splitList(raw)
	}
	return v.GetStringSlice(key)
}

func getDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
