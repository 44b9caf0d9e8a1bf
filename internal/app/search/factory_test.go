package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palco-live/palco/internal/app/filter"
	"github.com/palco-live/palco/internal/infra/config"
)

func searchConfig(providers ...config.ProviderConfig) *config.Config {
	return &config.Config{
		Search: config.SearchConfig{
			TimeoutSec:   12,
			MaxResults:   10,
			AppendSuffix: "karaoke",
			Providers:    providers,
		},
	}
}

func TestNewServiceFromConfig(t *testing.T) {
	cfg := searchConfig(
		config.ProviderConfig{Type: "youtube_api", Settings: map[string]any{"api_key": "test-key", "region": "BR"}},
		config.ProviderConfig{Type: "scraping"},
	)

	svc, err := NewServiceFromConfig(cfg, filter.NewChain())
	require.NoError(t, err)
	require.NotNil(t, svc.primary)
	require.NotNil(t, svc.fallback)
	assert.Equal(t, "youtube_api", svc.primary.Name())
	assert.Equal(t, "scraping", svc.fallback.Name())
}

func TestNewServiceFromConfig_MissingAPIKeySkipsProvider(t *testing.T) {
	cfg := searchConfig(
		config.ProviderConfig{Type: "youtube_api", Settings: map[string]any{"api_key": ""}},
		config.ProviderConfig{Type: "scraping"},
	)

	svc, err := NewServiceFromConfig(cfg, filter.NewChain())
	require.NoError(t, err)
	assert.Nil(t, svc.primary, "key-less provider is skipped, not fatal")
	require.NotNil(t, svc.fallback)
}

func TestNewServiceFromConfig_NoUsableProviders(t *testing.T) {
	cfg := searchConfig(
		config.ProviderConfig{Type: "youtube_api"},
	)

	_, err := NewServiceFromConfig(cfg, filter.NewChain())
	assert.Error(t, err)
}

func TestNewServiceFromConfig_UnknownProviderType(t *testing.T) {
	cfg := searchConfig(
		config.ProviderConfig{Type: "vimeo"},
	)

	_, err := NewServiceFromConfig(cfg, filter.NewChain())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vimeo")
}

func TestNewServiceFromConfig_InvalidRegion(t *testing.T) {
	cfg := searchConfig(
		config.ProviderConfig{Type: "youtube_api", Settings: map[string]any{"api_key": "test-key", "region": "BRA"}},
	)

	_, err := NewServiceFromConfig(cfg, filter.NewChain())
	assert.Error(t, err)
}
