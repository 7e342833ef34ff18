package system

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/habitual/habitual/internal/cli"
	"github.com/habitual/habitual/internal/constants"
	"github.com/habitual/habitual/internal/keyring"
	"github.com/habitual/habitual/internal/lock"
	"github.com/habitual/habitual/internal/models"
	"github.com/habitual/habitual/internal/storage/sqlstore"
	"github.com/habitual/habitual/internal/tracker"
	"github.com/habitual/habitual/internal/utils"
)

// errSkipped marks a check that does not apply to the current setup
var errSkipped = errors.New("skipped")

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(*cli.Context) error
	warning bool
	needsDB bool
}

var checks = []check{
	{name: "Storage reachable", run: checkStorageReachable},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "User data integrity", run: checkUserIntegrity, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warning: true},
	{name: "Session lock", run: checkLock, warning: true},
	{name: "OS keyring", run: checkKeyring, warning: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	reachable := true
	for _, c := range checks {
		if c.needsDB && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			ctx.Printf("⊘ %s: SKIPPED (%s)\n", c.name, strings.TrimSuffix(err.Error(), ": "+errSkipped.Error()))
		case c.warning:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Storage reachable" {
				reachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if s, ok := ctx.Store.(*sqlstore.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	s, ok := ctx.Store.(*sqlstore.Store)
	if !ok {
		return fmt.Errorf("no schema for %s storage: %w", ctx.Config.Storage.Backend, errSkipped)
	}
	current, latest, err := s.SchemaVersion()
	if err != nil {
		return err
	}
	if current != latest {
		return fmt.Errorf("schema version %d, expected %d (run 'habitual init' to migrate)", current, latest)
	}
	return nil
}

// checkUserIntegrity reports habits that analytics would trip over: logged
// habits without a unit, current habits without a periodicity, and
// periodicities other than daily or weekly
func checkUserIntegrity(ctx *cli.Context) error {
	users, err := ctx.Store.ListUsers()
	if err != nil {
		return err
	}

	var problems []string
	for _, username := range users {
		profile, err := ctx.Store.LoadProfile(username)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", username, err))
			continue
		}
		events, err := ctx.Store.LoadEvents(username)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", username, err))
			continue
		}
		problems = append(problems, integrityProblems(username, &profile, events, ctx.Today())...)
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%d problems found:\n   - %s", len(problems), strings.Join(problems, "\n   - "))
	}
	return nil
}

func integrityProblems(username string, profile *models.Profile, events []models.Event, today time.Time) []string {
	var problems []string
	t := tracker.New(profile, events, today)

	for _, habit := range t.Log.Habits() {
		if _, err := t.Catalog.UnitOf(habit); err != nil {
			problems = append(problems, fmt.Sprintf("%s: habit %q is logged but has no unit", username, habit))
		}
	}
	for _, habit := range t.Catalog.CurrentHabits() {
		if _, err := t.Catalog.PeriodicityOf(habit); err != nil {
			problems = append(problems, fmt.Sprintf("%s: current habit %q has no periodicity", username, habit))
		}
	}
	for habit, period := range profile.Periods {
		if !period.Valid() {
			problems = append(problems, fmt.Sprintf("%s: habit %q has invalid periodicity %q", username, habit, period))
		}
	}
	return problems
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.BackupsSupported() {
		return fmt.Errorf("not available for postgres: %w", errSkipped)
	}
	backups, err := ctx.BackupManager().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s (run 'habitual backup create')", ctx.BackupManager().GetBackupDir())
	}
	return nil
}

func checkLock(ctx *cli.Context) error {
	holder, running, err := lock.Inspect(ctx.Config.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("lockfile is unreadable: %w", err)
	}
	if holder.PID == 0 {
		return nil
	}
	if !running {
		return fmt.Errorf("stale lockfile from pid %d, it will be replaced by the next session", holder.PID)
	}
	return fmt.Errorf("a session is running (pid %d since %s)", holder.PID, holder.Started.Format("2006-01-02 15:04:05"))
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available, suggestions need %s", constants.EnvAPIKey)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("invalid timezone %q", ctx.Config.Timezone)
	}
	now, err := utils.NowInTimezone(ctx.Config.Timezone)
	if err != nil {
		return err
	}
	if now.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format("2006-01-02 15:04:05"))
	}
	return nil
}
