package config

import (
	"github.com/papercomputeco/cassette/pkg/eventstream"
	"github.com/papercomputeco/cassette/pkg/eventstream/kafka"
	"github.com/papercomputeco/cassette/pkg/memory"
	"github.com/papercomputeco/cassette/pkg/safety"
	"github.com/papercomputeco/cassette/pkg/storage"
	"github.com/papercomputeco/cassette/pkg/tools"
)

// Event stream providers.
const (
	EventStreamNone  = eventstream.ProviderNone
	EventStreamKafka = eventstream.ProviderKafka
)

// StorageProviders lists the accepted storage.provider values.
var StorageProviders = []string{
	storage.ProviderMemory,
	storage.ProviderFile,
	storage.ProviderSQLite,
	storage.ProviderPostgres,
	storage.ProviderRedis,
}

const (
	defaultStorageProvider = storage.ProviderFile
	defaultAPIListen       = ":8090"

	defaultWeatherBaseURL = tools.DefaultWeatherBaseURL
	defaultWeatherTimeout = "5s"

	defaultEventStreamProvider = EventStreamNone
	defaultEventStreamTopic    = kafka.DefaultTopic

	defaultReplyDelay = "350ms"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Provider: defaultStorageProvider,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Weather: WeatherConfig{
			BaseURL: defaultWeatherBaseURL,
			Timeout: defaultWeatherTimeout,
		},
		Safety: SafetyConfig{
			BlockedKeywords: append([]string(nil), safety.DefaultKeywords...),
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Topic:    defaultEventStreamTopic,
		},
		Assistant: AssistantConfig{
			ReplyDelay: defaultReplyDelay,
			Tone:       string(memory.ToneFriendly),
		},
	}
}
