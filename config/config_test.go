package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresNewsKey(t *testing.T) {
	t.Setenv("BIGKINDS_API_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BIGKINDS_API_KEY")
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BIGKINDS_API_KEY", "news-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "news-key", cfg.News.APIKey)
	assert.Empty(t, cfg.OpenAI.APIKey)
	assert.Equal(t, "news_status.json", cfg.Store.StatusFile)
	assert.Equal(t, time.Second, cfg.GetPollInterval())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("BIGKINDS_API_KEY", "news-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("STATUS_FILE", "/data/status.json")
	t.Setenv("EVENT_POLL_INTERVAL", "250ms")
	t.Setenv("DEPLOYMENT_MODE", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "openai-key", cfg.OpenAI.APIKey)
	assert.Equal(t, "/data/status.json", cfg.Store.StatusFile)
	assert.Equal(t, 250*time.Millisecond, cfg.GetPollInterval())
	assert.True(t, cfg.IsProduction())
}

func TestGetPollIntervalFallsBackOnBadValue(t *testing.T) {
	cfg := &Config{}
	cfg.Events.PollInterval = "soon"
	assert.Equal(t, time.Second, cfg.GetPollInterval())
}
