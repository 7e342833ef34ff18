package config

import (
	"fmt"
	"time"

	"github.com/habitual/habitual/internal/constants"
	"github.com/habitual/habitual/internal/utils"
)

// Config represents the habitual configuration file
type Config struct {
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// IANA timezone used to decide "today", or Local
	Timezone string `yaml:"timezone" mapstructure:"timezone"`

	// User selected by the last login
	DefaultUser string `yaml:"default_user,omitempty" mapstructure:"default_user"`

	Suggest SuggestConfig `yaml:"suggest" mapstructure:"suggest"`

	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// StorageConfig selects and locates the persistence backend
type StorageConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
	// PostgreSQL connection string; the OS keyring is used when empty
	DSN string `yaml:"dsn,omitempty" mapstructure:"dsn"`
}

// SuggestConfig configures the text-generation service
type SuggestConfig struct {
	Model          string `yaml:"model" mapstructure:"model"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// LogConfig configures the log file
type LogConfig struct {
	Debug bool   `yaml:"debug" mapstructure:"debug"`
	Level string `yaml:"level,omitempty" mapstructure:"level"`
}

// Validate checks values that cannot be fixed up silently
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case constants.BackendCSV, constants.BackendSQLite, constants.BackendPostgres:
	default:
		return fmt.Errorf("invalid storage backend %q (expected %s, %s or %s)",
			c.Storage.Backend, constants.BackendCSV, constants.BackendSQLite, constants.BackendPostgres)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir cannot be empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.Suggest.TimeoutSeconds <= 0 {
		return fmt.Errorf("suggest.timeout_seconds must be positive, got %d", c.Suggest.TimeoutSeconds)
	}
	return nil
}

// SuggestTimeout returns the per-call timeout for suggestion requests
func (c *Config) SuggestTimeout() time.Duration {
	return time.Duration(c.Suggest.TimeoutSeconds) * time.Second
}
