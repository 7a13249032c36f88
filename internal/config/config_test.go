package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"BOX_CATALOG_PATH", "BOX_SNAPSHOT_PATH", "GO_PORT", "DEV_MODE", "LOG_LEVEL",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "JACKPOT_MULTIPLE", "REQUEST_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
	assert.Equal(t, 5.0, cfg.JackpotMultiple)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.True(t, filepath.IsAbs(cfg.CatalogPath))
	assert.Equal(t, "catalog.json", filepath.Base(cfg.CatalogPath))
	assert.True(t, filepath.IsAbs(cfg.SnapshotPath))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOX_CATALOG_PATH", "/srv/boxes.msgpack")
	t.Setenv("BOX_CATALOG_RELOAD", "")
	t.Setenv("GO_PORT", "9090")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("JACKPOT_MULTIPLE", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/boxes.msgpack", cfg.CatalogPath)
	assert.Empty(t, cfg.CatalogReload)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)

	model, err := cfg.RiskModel()
	require.NoError(t, err)
	assert.Equal(t, 10.0, model.JackpotMultiple)
}

func TestLoad_UnparseableValuesFallBack(t *testing.T) {
	t.Setenv("GO_PORT", "eighty")
	t.Setenv("DEV_MODE", "sometimes")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.DevMode)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Port: 8080, RateLimitRPS: 1, RateLimitBurst: 1, RequestTimeout: time.Second, JackpotMultiple: 5}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port too high", func(c *Config) { c.Port = 70000 }},
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"zero rps", func(c *Config) { c.RateLimitRPS = 0 }},
		{"zero burst", func(c *Config) { c.RateLimitBurst = 0 }},
		{"no timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"jackpot multiple too small", func(c *Config) { c.JackpotMultiple = 1 }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
