// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aristath/boxengine/internal/modules/riskmodel"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	CatalogPath      string // JSON catalog or msgpack snapshot (always absolute)
	CatalogReload    string // cron schedule, empty disables reloading
	SnapshotPath     string // where the last good catalog is kept (always absolute)
	SnapshotSchedule string // cron schedule, empty disables snapshots
	LogLevel         string
	Port             int
	DevMode          bool
	RequestTimeout   time.Duration
	RateLimitRPS     float64
	RateLimitBurst   int
	JackpotMultiple  float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	catalogPath, err := filepath.Abs(getEnv("BOX_CATALOG_PATH", "data/catalog.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
	}
	snapshotPath, err := filepath.Abs(getEnv("BOX_SNAPSHOT_PATH", "data/catalog.msgpack"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve snapshot path: %w", err)
	}

	cfg := &Config{
		CatalogPath:      catalogPath,
		CatalogReload:    getEnvAllowEmpty("BOX_CATALOG_RELOAD", "@every 5m"),
		SnapshotPath:     snapshotPath,
		SnapshotSchedule: getEnvAllowEmpty("BOX_SNAPSHOT_SCHEDULE", "@every 15m"),
		Port:             getEnvAsInt("GO_PORT", 8080),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		RequestTimeout:   time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		RateLimitRPS:     getEnvAsFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:   getEnvAsInt("RATE_LIMIT_BURST", 40),
		JackpotMultiple:  getEnvAsFloat("JACKPOT_MULTIPLE", riskmodel.Default().JackpotMultiple),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if configuration values are usable
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("GO_PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimitRPS)
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimitBurst)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if _, err := c.RiskModel(); err != nil {
		return err
	}
	return nil
}

// RiskModel returns the default risk model with configured overrides applied
func (c *Config) RiskModel() (riskmodel.Model, error) {
	model := riskmodel.Default()
	model.JackpotMultiple = c.JackpotMultiple
	if err := model.Validate(); err != nil {
		return model, fmt.Errorf("invalid risk model: %w", err)
	}
	return model, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty distinguishes an unset variable from one explicitly set to ""
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
