package config

import (
	"os"
	"strconv"
	"time"

	"phoenix/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	LLM      LLMConfig
	Server   ServerConfig
	Ops      OpsConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// LLMConfig holds the generative-text provider settings. The credential is
// optional: without one the service still runs every deterministic path and
// only the LLM-backed features degrade.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// OpsConfig holds the operational endpoint settings (health, pprof)
type OpsConfig struct {
	Port         string
	PprofEnabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		LLM: LLMConfig{
			APIKey:  os.Getenv("LLM_API_KEY"),
			BaseURL: getEnvOrDefault("LLM_BASE_URL", "https://api.deepseek.com/v1"),
			Model:   getEnvOrDefault("LLM_MODEL", "deepseek-chat"),
			Timeout: getEnvDurationOrDefault("LLM_TIMEOUT", 60*time.Second),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Ops: OpsConfig{
			Port:         getEnvOrDefault("OPS_PORT", "6060"),
			PprofEnabled: getEnvBoolOrDefault("PPROF_ENABLED", true),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if config.LLM.BaseURL == "" {
		return errors.ConfigInvalid("LLM base URL cannot be empty")
	}
	if config.LLM.Timeout <= 0 {
		return errors.ConfigInvalid("LLM timeout must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
