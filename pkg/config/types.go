package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/papercomputeco/cassette/pkg/memory"
)

// Config represents the persistent cassette configuration stored as
// config.toml in the .cassette/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Storage     StorageConfig     `toml:"storage"`
	API         APIConfig         `toml:"api"`
	Weather     WeatherConfig     `toml:"weather"`
	Safety      SafetyConfig      `toml:"safety"`
	EventStream EventStreamConfig `toml:"eventstream"`
	Assistant   AssistantConfig   `toml:"assistant"`
}

// StorageConfig selects where memory records live.
type StorageConfig struct {
	// Provider is one of memory, file, sqlite, postgres, redis.
	Provider string `toml:"provider,omitempty"`

	// Path is the directory (file), database path (sqlite), connection
	// string (postgres) or redis:// URL (redis). Empty resolves inside the
	// .cassette/ directory.
	Path string `toml:"path,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// WeatherConfig holds weather provider settings.
type WeatherConfig struct {
	APIKey  string `toml:"api_key,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
	Timeout string `toml:"timeout,omitempty"`
}

// SafetyConfig holds the blocklist.
type SafetyConfig struct {
	BlockedKeywords []string `toml:"blocked_keywords,omitempty"`
}

// EventStreamConfig selects where completed turns are published.
type EventStreamConfig struct {
	// Provider is none or kafka.
	Provider string   `toml:"provider,omitempty"`
	Brokers  []string `toml:"brokers,omitempty"`
	Topic    string   `toml:"topic,omitempty"`
}

// AssistantConfig holds reply behavior settings.
type AssistantConfig struct {
	// ReplyDelay is a Go duration string waited before every reply.
	ReplyDelay string `toml:"reply_delay,omitempty"`

	// Tone seeds the memory record the first time settings are saved from
	// the CLI without an explicit tone.
	Tone string `toml:"tone,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.provider": {
		get: func(c *Config) string { return c.Storage.Provider },
		set: func(c *Config, v string) error {
			if !isValidStorageProvider(v) {
				return fmt.Errorf("invalid value for storage.provider: %q (available: %s)",
					v, strings.Join(StorageProviders, ", "))
			}
			c.Storage.Provider = v
			return nil
		},
	},
	"storage.path": {
		get: func(c *Config) string { return c.Storage.Path },
		set: func(c *Config, v string) error { c.Storage.Path = v; return nil },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"weather.api_key": {
		get: func(c *Config) string { return c.Weather.APIKey },
		set: func(c *Config, v string) error { c.Weather.APIKey = v; return nil },
	},
	"weather.base_url": {
		get: func(c *Config) string { return c.Weather.BaseURL },
		set: func(c *Config, v string) error { c.Weather.BaseURL = v; return nil },
	},
	"weather.timeout": {
		get: func(c *Config) string { return c.Weather.Timeout },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for weather.timeout: %w", err)
			}
			c.Weather.Timeout = v
			return nil
		},
	},
	"safety.blocked_keywords": {
		get: func(c *Config) string { return strings.Join(c.Safety.BlockedKeywords, ",") },
		set: func(c *Config, v string) error { c.Safety.BlockedKeywords = splitList(v); return nil },
	},
	"eventstream.provider": {
		get: func(c *Config) string { return c.EventStream.Provider },
		set: func(c *Config, v string) error {
			if v != EventStreamNone && v != EventStreamKafka {
				return fmt.Errorf("invalid value for eventstream.provider: %q (available: %s, %s)",
					v, EventStreamNone, EventStreamKafka)
			}
			c.EventStream.Provider = v
			return nil
		},
	},
	"eventstream.brokers": {
		get: func(c *Config) string { return strings.Join(c.EventStream.Brokers, ",") },
		set: func(c *Config, v string) error { c.EventStream.Brokers = splitList(v); return nil },
	},
	"eventstream.topic": {
		get: func(c *Config) string { return c.EventStream.Topic },
		set: func(c *Config, v string) error { c.EventStream.Topic = v; return nil },
	},
	"assistant.reply_delay": {
		get: func(c *Config) string { return c.Assistant.ReplyDelay },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for assistant.reply_delay: %w", err)
			}
			c.Assistant.ReplyDelay = v
			return nil
		},
	},
	"assistant.tone": {
		get: func(c *Config) string { return c.Assistant.Tone },
		set: func(c *Config, v string) error {
			t, err := memory.ParseTone(v)
			if err != nil {
				return fmt.Errorf("invalid value for assistant.tone: %w", err)
			}
			c.Assistant.Tone = string(t)
			return nil
		},
	},
}

// splitList parses a comma separated list, dropping blanks.
func splitList(v string) []string {
	var out []string
	for item := range strings.SplitSeq(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func isValidStorageProvider(v string) bool {
	for _, p := range StorageProviders {
		if p == v {
			return true
		}
	}
	return false
}
