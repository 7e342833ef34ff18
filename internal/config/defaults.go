package config

import (
	"os"

	"github.com/habitual/habitual/internal/constants"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: constants.BackendCSV,
			DataDir: constants.DefaultDataDir,
		},
		Timezone: constants.DefaultTimezone,
		Suggest: SuggestConfig{
			Model:          constants.DefaultSuggestModel,
			BaseURL:        constants.DefaultSuggestBaseURL,
			TimeoutSeconds: int(constants.DefaultSuggestTimeout.Seconds()),
		},
	}
}

// WriteDefault writes a commented default configuration to path
func WriteDefault(path string) error {
	content := `# habitual configuration

storage:
  # csv (one profile and one tracking file per user), sqlite or postgres
  backend: csv
  data_dir: ~/.config/habitual/data
  # dsn: postgres://user@localhost:5432/habitual?sslmode=disable
  # Leave dsn unset to read it from the OS keyring (habitual keyring set-dsn)

# IANA timezone name used to decide what "today" is, or Local
timezone: Local

# Habit suggestions and login greeting. The API key is read from
# GEMINI_API_KEY or the OS keyring (habitual keyring set-key)
suggest:
  model: gemini-1.5-flash
  base_url: https://generativelanguage.googleapis.com
  timeout_seconds: 30

log:
  debug: false
`
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0600)
}
