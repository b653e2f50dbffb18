// Package config provides configuration handling for the interface monitor.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/irctrakz/netmon/pkg/core"
	"github.com/irctrakz/netmon/pkg/logging"
)

// Config represents the complete monitor configuration.
type Config struct {
	// Monitor contains the refresh loop configuration.
	Monitor core.MonitorConfig `json:"monitor" yaml:"monitor"`

	// Logging contains the logging configuration.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LoggingConfig contains configuration for logging.
type LoggingConfig struct {
	// Level is the logging level (debug, info, warn, error).
	Level string `json:"level" yaml:"level"`

	// File is the log file path.
	File string `json:"file" yaml:"file"`

	// MaxSize is the maximum size of the log file in megabytes.
	MaxSize int `json:"maxSize" yaml:"maxSize"`

	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int `json:"maxBackups" yaml:"maxBackups"`

	// MaxAge is the maximum number of days to retain old log files.
	MaxAge int `json:"maxAge" yaml:"maxAge"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Monitor: core.MonitorConfig{
			Interval:     "30s",
			RemoveStale:  true,
			ReportFormat: "text",
			Debug:        false,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// LoadFromFile loads configuration from a file.
func LoadFromFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Determine file format based on extension
	switch {
	case strings.HasSuffix(path, ".json"):
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", path)
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv(config *Config) {
	// Monitor config
	if val := os.Getenv("MONITOR_INTERVAL"); val != "" {
		config.Monitor.Interval = val
	}
	if val := os.Getenv("MONITOR_REMOVE_STALE"); val != "" {
		config.Monitor.RemoveStale = val == "true" || val == "1"
	}
	if val := os.Getenv("MONITOR_REPORT_FORMAT"); val != "" {
		config.Monitor.ReportFormat = val
	}
	if val := os.Getenv("MONITOR_DEBUG"); val != "" {
		config.Monitor.Debug = val == "true" || val == "1"
	}

	// Logging config
	if val := os.Getenv("LOGGING_LEVEL"); val != "" {
		config.Logging.Level = val
	}
	if val := os.Getenv("LOGGING_FILE"); val != "" {
		config.Logging.File = val
	}
	if val := os.Getenv("LOGGING_MAX_SIZE"); val != "" {
		if maxSize, err := strconv.Atoi(val); err == nil {
			config.Logging.MaxSize = maxSize
		}
	}
	if val := os.Getenv("LOGGING_MAX_BACKUPS"); val != "" {
		if maxBackups, err := strconv.Atoi(val); err == nil {
			config.Logging.MaxBackups = maxBackups
		}
	}
	if val := os.Getenv("LOGGING_MAX_AGE"); val != "" {
		if maxAge, err := strconv.Atoi(val); err == nil {
			config.Logging.MaxAge = maxAge
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	interval, err := time.ParseDuration(c.Monitor.Interval)
	if err != nil {
		return fmt.Errorf("invalid monitor interval %q: %w", c.Monitor.Interval, err)
	}
	if interval <= 0 {
		return fmt.Errorf("monitor interval must be positive: %s", c.Monitor.Interval)
	}

	switch c.Monitor.ReportFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid report format %q (must be \"text\" or \"json\")", c.Monitor.ReportFormat)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}
	if c.Logging.MaxSize <= 0 {
		return fmt.Errorf("logging maxSize must be positive: %d", c.Logging.MaxSize)
	}

	return nil
}

// Interval returns the parsed refresh interval. Validate must have
// succeeded first.
func (c *Config) Interval() time.Duration {
	d, err := time.ParseDuration(c.Monitor.Interval)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
