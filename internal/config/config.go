// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/metcalfc/nrr/internal/logger"
)

// Config holds all runtime configuration.
type Config struct {
	// StateDir is where the library and reader settings are persisted.
	StateDir string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is "text" or "json".
	LogFormat string
	// LogFile receives log output while a full-screen reader is running.
	LogFile string
	// CacheSize is the number of parsed novels kept in memory.
	CacheSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		StateDir:  getEnv("NRR_STATE_DIR", defaultStateDir()),
		LogLevel:  getEnv("NRR_LOG_LEVEL", "warn"),
		LogFormat: getEnv("NRR_LOG_FORMAT", "text"),
		LogFile:   os.Getenv("NRR_LOG_FILE"),
		CacheSize: getEnvInt("NRR_CACHE_SIZE", 8),
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.StateDir == "" {
		return fmt.Errorf("state directory must not be empty")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("NRR_LOG_LEVEL: %w", err)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("NRR_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.CacheSize < 1 || c.CacheSize > 1024 {
		return fmt.Errorf("NRR_CACHE_SIZE must be 1-1024, got %d", c.CacheSize)
	}
	return nil
}

// JSONLogs reports whether log records should be written as JSON.
func (c *Config) JSONLogs() bool {
	return c.LogFormat == "json"
}

// defaultStateDir returns XDG_STATE_HOME/nrr or ~/.local/state/nrr
func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "nrr")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "nrr")
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
