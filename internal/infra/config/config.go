// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig            `yaml:"server"`
	Room    RoomConfig              `yaml:"room"`
	Search  SearchConfig            `yaml:"search"`
	Filters map[string]FilterConfig `yaml:"filters"`
	Logging LoggingConfig           `yaml:"logging"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr" default:":8080"`
}

// RoomConfig represents room registry configuration.
type RoomConfig struct {
	CodeLength     int `yaml:"code_length" default:"6" validate:"gte=4,lte=12"`
	CreateAttempts int `yaml:"create_attempts" default:"5" validate:"gte=1,lte=100"`
}

// SearchConfig represents the video search configuration.
type SearchConfig struct {
	TimeoutSec   int              `yaml:"timeout_sec" default:"12" validate:"gte=1,lte=60"`
	MaxResults   int              `yaml:"max_results" default:"10" validate:"gte=1,lte=50"`
	AppendSuffix string           `yaml:"append_suffix" default:"karaoke"`
	ForceScrape  bool             `yaml:"force_scrape"`
	Providers    []ProviderConfig `yaml:"providers" validate:"required,min=1"`
}

// ProviderConfig represents a single search provider configuration.
type ProviderConfig struct {
	Type     string         `yaml:"type" validate:"required"`
	Settings map[string]any `yaml:"settings"`
}

// FilterConfig represents a content filter's configuration.
type FilterConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig represents logger configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Output string `yaml:"output" default:"stdout"`
}

// Load loads configuration from a YAML file. Environment variables take
// precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		for i := range c.Search.Providers {
			if c.Search.Providers[i].Type == "youtube_api" {
				if c.Search.Providers[i].Settings == nil {
					c.Search.Providers[i].Settings = make(map[string]any)
				}
				c.Search.Providers[i].Settings["api_key"] = v
				break
			}
		}
	}
}

// IsFilterEnabled reports whether a content filter is enabled. Filters not
// mentioned in the config default to enabled.
func (c *Config) IsFilterEnabled(name string) bool {
	fc, ok := c.Filters[name]
	if !ok {
		return true
	}
	return fc.Enabled
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
