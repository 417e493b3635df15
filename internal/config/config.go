package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	API    APIConfig
	Feed   FeedConfig
	Logger LoggerConfig
}

// APIConfig holds settings for the remote REST API.
type APIConfig struct {
	BaseURL string
	Token   string
	Tenant  string
	Timeout time.Duration
	// ClockOffset compensates the server's fixed clock skew. Applied on
	// ingress to every timestamp and reversed on egress.
	ClockOffset time.Duration
}

// FeedConfig holds settings for the live order feed.
type FeedConfig struct {
	WSURL            string
	PageSize         int
	ReconnectWait    time.Duration // initial wait between reconnect attempts
	MaxReconnectWait time.Duration // backoff cap
	MaxReconnectFor  time.Duration // total time before giving up; 0 retries forever
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			BaseURL:     getEnv("API_BASE_URL", ""),
			Token:       getEnv("API_TOKEN", ""),
			Tenant:      getEnv("TENANT", ""),
			Timeout:     time.Duration(getEnvAsInt("API_TIMEOUT_SECONDS", 30)) * time.Second,
			ClockOffset: time.Duration(getEnvAsInt("SERVER_CLOCK_OFFSET_HOURS", 2)) * time.Hour,
		},
		Feed: FeedConfig{
			WSURL:            getEnv("WS_URL", ""),
			PageSize:         getEnvAsInt("PAGE_SIZE", 20),
			ReconnectWait:    time.Duration(getEnvAsInt("WS_RECONNECT_WAIT_SECONDS", 5)) * time.Second,
			MaxReconnectWait: time.Duration(getEnvAsInt("WS_MAX_RECONNECT_WAIT_SECONDS", 60)) * time.Second,
			MaxReconnectFor:  time.Duration(getEnvAsInt("WS_MAX_RECONNECT_FOR_SECONDS", 600)) * time.Second,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	if _, err := url.Parse(c.API.BaseURL); err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}

	if c.API.Token == "" {
		return fmt.Errorf("API token is required")
	}

	if c.API.Tenant == "" {
		return fmt.Errorf("tenant is required")
	}

	if c.Feed.WSURL == "" {
		return fmt.Errorf("WebSocket URL is required")
	}

	if c.Feed.PageSize < 1 {
		return fmt.Errorf("page size must be at least 1")
	}

	if c.Feed.ReconnectWait < time.Second {
		return fmt.Errorf("reconnect wait must be at least 1 second")
	}

	if c.Feed.MaxReconnectWait < c.Feed.ReconnectWait {
		return fmt.Errorf("max reconnect wait cannot be less than the initial wait")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
