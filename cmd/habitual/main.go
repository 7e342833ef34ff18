package main

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/habitual/habitual/internal/cli"
	"github.com/habitual/habitual/internal/cli/analysis"
	"github.com/habitual/habitual/internal/cli/backups"
	"github.com/habitual/habitual/internal/cli/habits"
	"github.com/habitual/habitual/internal/cli/system"
	"github.com/habitual/habitual/internal/cli/users"
	"github.com/habitual/habitual/internal/config"
	"github.com/habitual/habitual/internal/constants"
	errs "github.com/habitual/habitual/internal/errors"
	"github.com/habitual/habitual/internal/keyring"
	"github.com/habitual/habitual/internal/logger"
	"github.com/habitual/habitual/internal/suggest"
	"github.com/habitual/habitual/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." default:"${config_path}"`
	User    string `help:"Act as this user instead of the last logged in one." short:"u"`
	Debug   bool   `help:"Log debug output to stderr."`
	Today   string `help:"Override today's date (YYYY-MM-DD)." hidden:""`

	Init    system.InitCmd    `cmd:"" help:"Initialize habitual storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Apply pending database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run diagnostics on storage, data and environment."`
	Inspect system.DebugCmd   `cmd:"" name:"debug" help:"Inspect paths and raw user data."`

	Users users.UserCmd  `cmd:"" name:"user" help:"Manage users."`
	Login users.LoginCmd `cmd:"" help:"Log in and show today's report."`

	Habit   habits.HabitCmd   `cmd:"" help:"Manage current habits."`
	Track   habits.TrackCmd   `cmd:"" help:"Track a habit value."`
	Correct habits.CorrectCmd `cmd:"" help:"Correct a tracked value."`
	History habits.HistoryCmd `cmd:"" help:"Show the history of a habit."`

	Analyze analysis.AnalyzeCmd `cmd:"" help:"Average, total or count tracked values."`
	Streak  analysis.StreakCmd  `cmd:"" help:"Show the current streak of a habit."`
	Longest analysis.LongestCmd `cmd:"" help:"Show the longest current streaks."`
	Broken  analysis.BrokenCmd  `cmd:"" help:"Check whether a habit streak is broken."`
	Report  analysis.ReportCmd  `cmd:"" help:"Show today's report."`
	Suggest analysis.SuggestCmd `cmd:"" help:"Suggest new habits."`

	Shell system.ShellCmd `cmd:"" help:"Launch the interactive menu." default:"1"`
	Tui   system.TuiCmd   `cmd:"" help:"Launch the habit dashboard."`

	Backup   backups.BackupCmd  `cmd:"" help:"Manage backups."`
	Keyring  system.KeyringCmd `cmd:"" help:"Manage secrets in the OS keyring."`
	Settings system.ConfigCmd  `cmd:"" name:"config" help:"Manage the configuration file."`
}

// Commands that run before storage is usable or manage it themselves
var skipLoad = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"config":  true,
	"keyring": true,
}

// Commands that never touch storage
var skipStore = map[string]bool{
	"config":  true,
	"keyring": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track daily and weekly habits, streaks and reports"),
		kong.UsageOnError(),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)
	command := strings.Fields(ctx.Command())[0]

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errs.Fatal(err)
	}

	logDir, err := config.Dir(CLI.Config)
	if err != nil {
		errs.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug || cfg.Log.Debug, Level: cfg.Log.Level, Dir: logDir}); err != nil {
		errs.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Close()

	today, err := resolveToday(cfg)
	if err != nil {
		errs.Fatal(err)
	}

	username := CLI.User
	if username == "" {
		username = cfg.DefaultUser
	}

	appCtx := &cli.Context{
		Config:     cfg,
		ConfigPath: CLI.Config,
		Session:    cli.NewSession(username, today),
		Suggester:  newSuggester(cfg),
		Out:        os.Stdout,
	}

	if !skipStore[command] {
		store, err := cli.NewStore(cfg)
		if err != nil {
			errs.Fatal(err)
		}
		defer store.Close()
		appCtx.Store = store

		if !skipLoad[command] {
			if err := store.Load(); err != nil {
				errs.Fatal(err)
			}
		}
	}

	logger.Debug("Running command", "command", ctx.Command(), "session", appCtx.Session.ID, "user", username)
	if err := ctx.Run(appCtx); err != nil {
		errs.Fatal(err)
	}
}

func resolveToday(cfg *config.Config) (time.Time, error) {
	if CLI.Today != "" {
		return utils.ParseDate(CLI.Today)
	}
	return utils.TodayInTimezone(cfg.Timezone)
}

// newSuggester prefers the environment key over the keyring
func newSuggester(cfg *config.Config) suggest.Generator {
	key := os.Getenv(constants.EnvAPIKey)
	if key == "" {
		stored, err := keyring.GetAPIKey()
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup failed", "error", err)
		}
		key = stored
	}
	return suggest.New(key, suggest.Options{
		BaseURL: cfg.Suggest.BaseURL,
		Model:   cfg.Suggest.Model,
		Timeout: time.Duration(cfg.Suggest.TimeoutSeconds) * time.Second,
	})
}
