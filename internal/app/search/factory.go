package search

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/palco-live/palco/internal/app/filter"
	"github.com/palco-live/palco/internal/infra/config"
	"github.com/palco-live/palco/internal/infra/scrape"
	"github.com/palco-live/palco/internal/infra/youtube"
)

// youtubeProviderConfig holds the youtube_api provider settings. An empty
// api_key does not fail validation; the factory skips the provider instead.
type youtubeProviderConfig struct {
	APIKey string `mapstructure:"api_key"`
	Region string `mapstructure:"region" default:"" validate:"omitempty,len=2"`
}

// scrapeProviderConfig holds the scraping provider settings.
type scrapeProviderConfig struct {
	BaseURL   string `mapstructure:"base_url" default:"https://www.youtube.com"`
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"`
}

// NewServiceFromConfig builds the search service from configuration.
// Providers are declared by type; the youtube_api provider becomes the
// primary and the scraping provider the fallback.
func NewServiceFromConfig(cfg *config.Config, filters *filter.Chain) (*Service, error) {
	if len(cfg.Search.Providers) == 0 {
		return nil, errors.New("no search providers configured")
	}

	timeout := time.Duration(cfg.Search.TimeoutSec) * time.Second

	var primary, fallback Provider
	for i, pcfg := range cfg.Search.Providers {
		zlog.Debug().Msgf("creating search provider: index=%d type=%s", i+1, pcfg.Type)

		switch pcfg.Type {
		case "youtube_api":
			var pc youtubeProviderConfig
			if err := decodeSettings(pcfg.Settings, &pc); err != nil {
				return nil, errors.Wrapf(err, "invalid settings for provider %q (index %d)", pcfg.Type, i)
			}
			if pc.APIKey == "" {
				zlog.Warn().Msgf("youtube API key not configured, provider skipped: index=%d", i+1)
				continue
			}
			client, err := youtube.New(youtube.Config{
				APIKey:  pc.APIKey,
				Region:  pc.Region,
				Timeout: timeout,
			})
			if err != nil {
				return nil, errors.Wrapf(err, "failed to create provider %q (index %d)", pcfg.Type, i)
			}
			primary = client

		case "scraping":
			var pc scrapeProviderConfig
			if err := decodeSettings(pcfg.Settings, &pc); err != nil {
				return nil, errors.Wrapf(err, "invalid settings for provider %q (index %d)", pcfg.Type, i)
			}
			fallback = scrape.New(scrape.Config{
				BaseURL:   pc.BaseURL,
				UserAgent: pc.UserAgent,
				Timeout:   timeout,
			})

		default:
			return nil, errors.Newf("unsupported search provider type: %s (index %d)", pcfg.Type, i)
		}

		zlog.Info().Msgf("registered search provider: index=%d type=%s", i+1, pcfg.Type)
	}

	if primary == nil && fallback == nil {
		return nil, errors.New("search requires at least one usable provider")
	}

	return NewService(primary, fallback, filters, Config{
		Timeout:      timeout,
		MaxResults:   cfg.Search.MaxResults,
		AppendSuffix: cfg.Search.AppendSuffix,
		ForceScrape:  cfg.Search.ForceScrape,
	}), nil
}

// decodeSettings decodes a settings map into a typed provider config,
// applying defaults and struct validation.
func decodeSettings(settings map[string]any, out any) error {
	if err := mapstructure.Decode(settings, out); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(out); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(out); err != nil {
		return errors.Wrap(err, "settings validation failed")
	}
	return nil
}
