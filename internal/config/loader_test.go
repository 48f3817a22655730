package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinrelay/coinrelay/internal/quota"
	"github.com/coinrelay/coinrelay/internal/upstream"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	BindEnv(v, "COINRELAY_")
	return v
}

func TestLoad(t *testing.T) {
	t.Run("LoadDefaults", func(t *testing.T) {
		cfg, err := Load(newViper(t))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8093, cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

		assert.Equal(t, upstream.DefaultBaseURL, cfg.Upstream.BaseURL)
		assert.Empty(t, cfg.Upstream.APIKey)
		assert.Zero(t, cfg.Upstream.PaceRPS)

		assert.Equal(t, int64(quota.DefaultLimit), cfg.Quota.Limit)
		assert.Equal(t, quota.DefaultResetWindow, cfg.Quota.ResetWindow)
		assert.Equal(t, quota.DefaultExemptPrefixes, cfg.Quota.ExemptPrefixes)

		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "structured", cfg.Logging.Profile)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, 9090, cfg.Metrics.Port)
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		t.Setenv("COINRELAY_SERVER_PORT", "9999")
		t.Setenv("COINRELAY_QUOTA_LIMIT", "10")
		t.Setenv("COINRELAY_QUOTA_RESET_WINDOW", "1h")
		t.Setenv("COINRELAY_QUOTA_EXEMPT_PREFIXES", "/health,/status")
		t.Setenv("COINRELAY_UPSTREAM_PACE_RPS", "4.5")

		cfg, err := Load(newViper(t))
		require.NoError(t, err)

		assert.Equal(t, 9999, cfg.Server.Port)
		assert.Equal(t, int64(10), cfg.Quota.Limit)
		assert.Equal(t, time.Hour, cfg.Quota.ResetWindow)
		assert.Equal(t, []string{"/health", "/status"}, cfg.Quota.ExemptPrefixes)
		assert.InDelta(t, 4.5, cfg.Upstream.PaceRPS, 0.0001)
	})

	t.Run("ConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
upstream:
  base_url: http://127.0.0.1:8080
  api_key: from-file
quota:
  limit: 5
  reset_window: 30s
`), 0o600))

		v := newViper(t)
		v.SetConfigFile(path)
		require.NoError(t, v.ReadInConfig())

		cfg, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:8080", cfg.Upstream.BaseURL)
		assert.Equal(t, "from-file", cfg.Upstream.APIKey)
		assert.Equal(t, int64(5), cfg.Quota.Limit)
		assert.Equal(t, 30*time.Second, cfg.Quota.ResetWindow)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"negative limit", func(c *Config) { c.Quota.Limit = -1 }},
		{"negative window", func(c *Config) { c.Quota.ResetWindow = -time.Second }},
		{"negative pace", func(c *Config) { c.Upstream.PaceRPS = -1 }},
		{"relative base url", func(c *Config) { c.Upstream.BaseURL = "openapiv1.coinstats.app" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Upstream.BaseURL = upstream.DefaultBaseURL
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetConfig(t *testing.T) {
	cfg, err := Load(newViper(t))
	require.NoError(t, err)
	assert.Same(t, cfg, GetConfig())
}
