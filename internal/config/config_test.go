package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WP_BASE_URL", "https://example.com/wp-json/wp/v2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 30*time.Second, cfg.WPTimeout)
	assert.Equal(t, 3, cfg.WPRetryCount)
	assert.Equal(t, 5, cfg.MaxConcurrency)
	assert.Equal(t, "", cfg.RedisURL)
	assert.Equal(t, "wpgate:", cfg.RedisPrefix)
	assert.Equal(t, 720*time.Hour, cfg.CacheTTL)
	assert.False(t, cfg.R2Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WP_BASE_URL", "https://example.com/wp-json/wp/v2")
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("WP_TIMEOUT", "5s")
	t.Setenv("WP_RETRY_COUNT", "1")
	t.Setenv("MAX_CONCURRENCY", "20")
	t.Setenv("CACHE_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 5*time.Second, cfg.WPTimeout)
	assert.Equal(t, 1, cfg.WPRetryCount)
	assert.Equal(t, 20, cfg.MaxConcurrency)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("WP_BASE_URL", "https://example.com/wp-json/wp/v2")
	t.Setenv("WP_RETRY_COUNT", "three")
	t.Setenv("WP_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.WPRetryCount)
	assert.Equal(t, 30*time.Second, cfg.WPTimeout)
}

func TestLoadRequiresBaseURL(t *testing.T) {
	t.Setenv("WP_BASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownEnv(t *testing.T) {
	t.Setenv("WP_BASE_URL", "https://example.com/wp-json/wp/v2")
	t.Setenv("APP_ENV", "prod")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadIncompleteR2(t *testing.T) {
	t.Setenv("WP_BASE_URL", "https://example.com/wp-json/wp/v2")
	t.Setenv("R2_ACCESS_KEY", "key")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")

	_, err := Load()
	assert.Error(t, err, "credentials without a bucket must not validate")

	t.Setenv("R2_BUCKET", "snapshots")
	_, err = Load()
	assert.Error(t, err, "bucket without an endpoint or account must not validate")

	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "acct")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.R2Enabled())
}
