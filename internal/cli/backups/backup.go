package backups

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/habitual/habitual/internal/cli"
	"github.com/habitual/habitual/internal/constants"
)

var errUnsupported = errors.New("backups are only supported for the csv and sqlite backends, use pg_dump for postgres")

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	if !ctx.BackupsSupported() {
		return errUnsupported
	}
	backupPath, err := ctx.BackupManager().CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	if !ctx.BackupsSupported() {
		return errUnsupported
	}
	mgr := ctx.BackupManager()
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		ctx.Printf("  %s  %s  %d files  (%.1f KB)\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.Name, b.Files, sizeKB)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	Backup string `arg:"" help:"Name or path of the backup to restore."`
	Yes    bool   `short:"y" help:"Restore without asking for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	if !ctx.BackupsSupported() {
		return errUnsupported
	}
	mgr := ctx.BackupManager()

	if !c.Yes {
		ctx.Println("⚠️  WARNING: This will replace your current data with the backup.")
		ctx.Println("⚠️  IMPORTANT: All habitual sessions (shell and TUI) must be stopped before restore.")
		ctx.Println("A backup of your current data will be created before restoring.")
		ctx.Printf("\nRestore from: %s\n", mgr.Resolve(c.Backup))

		confirmed := false
		err := huh.NewConfirm().
			Title("Continue?").
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	// Close the current store before its files are replaced
	if err := ctx.Store.Close(); err != nil {
		ctx.Printf("Warning: failed to close storage: %v\n", err)
	}

	preRestore, err := mgr.RestoreBackup(c.Backup)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.Println("✓ Data restored successfully!")
	if preRestore != "" {
		ctx.Printf("  Previous data saved as %s\n", filepath.Base(preRestore))
	}
	return nil
}
