package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.test")
	t.Setenv("API_TOKEN", "token-123")
	t.Setenv("TENANT", "shami")
	t.Setenv("WS_URL", "wss://api.example.test/ws")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.API.ClockOffset)
	assert.Equal(t, 20, cfg.Feed.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Feed.ReconnectWait)
	assert.Equal(t, 60*time.Second, cfg.Feed.MaxReconnectWait)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_CLOCK_OFFSET_HOURS", "3")
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Hour, cfg.API.ClockOffset)
	assert.Equal(t, 50, cfg.Feed.PageSize)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{name: "missing base URL", unset: "API_BASE_URL"},
		{name: "missing token", unset: "API_TOKEN"},
		{name: "missing tenant", unset: "TENANT"},
		{name: "missing ws URL", unset: "WS_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_Rejections(t *testing.T) {
	setRequiredEnv(t)

	base, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero page size", mutate: func(c *Config) { c.Feed.PageSize = 0 }},
		{name: "sub-second reconnect wait", mutate: func(c *Config) { c.Feed.ReconnectWait = 100 * time.Millisecond }},
		{name: "max wait below initial wait", mutate: func(c *Config) { c.Feed.MaxReconnectWait = time.Second }},
		{name: "bad log level", mutate: func(c *Config) { c.Logger.Level = "verbose" }},
		{name: "bad log format", mutate: func(c *Config) { c.Logger.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
