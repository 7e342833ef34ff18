package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/habitual/habitual/internal/constants"
)

// Load reads the configuration at path on top of the defaults. A missing
// file is not an error. HABITUAL_* environment variables override file
// values (HABITUAL_STORAGE_BACKEND, HABITUAL_SUGGEST_MODEL, ...).
func Load(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.Storage.DataDir, err = ExpandPath(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// are absent from the file
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.data_dir", cfg.Storage.DataDir)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("default_user", cfg.DefaultUser)
	v.SetDefault("suggest.model", cfg.Suggest.Model)
	v.SetDefault("suggest.base_url", cfg.Suggest.BaseURL)
	v.SetDefault("suggest.timeout_seconds", cfg.Suggest.TimeoutSeconds)
	v.SetDefault("log.debug", cfg.Log.Debug)
	v.SetDefault("log.level", cfg.Log.Level)
}

// Update applies fn to the configuration stored at path and writes it back.
// Only file values are rewritten; environment overrides are never persisted.
func Update(path string, fn func(*Config)) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return err
	}

	fn(cfg)
	return Save(path, cfg)
}

// Save writes cfg to path as YAML
func Save(path string, cfg *Config) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Dir returns the directory holding the config file at path
func Dir(path string) (string, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
