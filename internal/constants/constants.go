package constants

import "time"

const (
	AppName           = "habitual"
	Version           = "v0.3.0"
	DefaultConfigPath = "~/.config/habitual/config.yaml"
	DefaultDataDir    = "~/.config/habitual/data"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Keyring accounts
	KeyringAPIKeyUser     = "gemini-api-key"
	KeyringConnectionUser = "database-connection"

	// Environment
	EnvAPIKey          = "GEMINI_API_KEY"
	EnvPrefix          = "HABITUAL"
	EnvTestPostgresDSN = "HABITUAL_TEST_POSTGRES_DSN"

	// Storage backends
	BackendCSV      = "csv"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	// CSV file naming
	ProfileFilePrefix  = "user_data_"
	TrackingFilePrefix = "tracking_"
	CSVFileSuffix      = ".csv"
	SQLiteFileName     = "habitual.db"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupNamePrefix = "habitual-"

	// Lock constants
	LockfileName = "habitual.lock"

	// Suggestion defaults
	DefaultSuggestModel   = "gemini-1.5-flash"
	DefaultSuggestBaseURL = "https://generativelanguage.googleapis.com"
	DefaultSuggestTimeout = 30 * time.Second
	SuggestMaxRetries     = 3
	SuggestInitialDelay   = 1 * time.Second

	// DefaultTimezone uses the system local timezone
	DefaultTimezone = "Local"

	// MenuEscape returns to the main menu from any interactive prompt
	MenuEscape = "menu"
)
