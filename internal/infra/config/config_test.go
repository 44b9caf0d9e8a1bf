package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
room:
  code_length: 8
search:
  timeout_sec: 5
  max_results: 20
  providers:
    - type: youtube_api
      settings:
        api_key: test-key
        region: BR
    - type: scraping
filters:
  blocked_author_filter:
    enabled: false
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Room.CodeLength)
	assert.Equal(t, 5, cfg.Search.TimeoutSec)
	assert.Equal(t, 20, cfg.Search.MaxResults)
	require.Len(t, cfg.Search.Providers, 2)
	assert.Equal(t, "youtube_api", cfg.Search.Providers[0].Type)
	assert.Equal(t, "test-key", cfg.Search.Providers[0].Settings["api_key"])
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Defaults fill unspecified fields.
	assert.Equal(t, 5, cfg.Room.CreateAttempts)
	assert.Equal(t, "karaoke", cfg.Search.AppendSuffix)
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/server.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RequiresProviders(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":8080"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Providers")
}

func TestLoad_ValidatesRanges(t *testing.T) {
	path := writeConfig(t, `
room:
  code_length: 2
search:
  providers:
    - type: youtube_api
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CodeLength")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("YOUTUBE_API_KEY", "env-key")

	path := writeConfig(t, `
search:
  providers:
    - type: youtube_api
      settings:
        api_key: file-key
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "env-key", cfg.Search.Providers[0].Settings["api_key"])
}

func TestIsFilterEnabled(t *testing.T) {
	cfg := &Config{
		Filters: map[string]FilterConfig{
			"blocked_video_filter":  {Enabled: true},
			"blocked_author_filter": {Enabled: false},
		},
	}

	assert.True(t, cfg.IsFilterEnabled("blocked_video_filter"))
	assert.False(t, cfg.IsFilterEnabled("blocked_author_filter"))
	// Filters absent from the config default to enabled.
	assert.True(t, cfg.IsFilterEnabled("some_future_filter"))
}
