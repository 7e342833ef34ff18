package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/habitual/habitual/internal/cli"
	"github.com/habitual/habitual/internal/config"
	"github.com/habitual/habitual/internal/constants"
	"github.com/habitual/habitual/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing data files before initialization."`
	Source string `help:"Source data directory, SQLite file or PostgreSQL connection string to copy users from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if ctx.ConfigPath != "" {
		if _, err := os.Stat(ctx.ConfigPath); os.IsNotExist(err) {
			if err := config.WriteDefault(ctx.ConfigPath); err != nil {
				return fmt.Errorf("failed to write default config: %w", err)
			}
			ctx.Printf("Wrote default configuration to: %s\n", ctx.ConfigPath)
		}
	}

	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitual storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying users from: %s\n", c.Source)
		if err := c.copyFrom(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

// reset removes the data files of file backends
func (c *InitCmd) reset(ctx *cli.Context) error {
	if !ctx.BackupsSupported() {
		return fmt.Errorf("--force is not supported for the postgres backend")
	}
	dataDir := ctx.Config.Storage.DataDir

	if c.Source != "" {
		absData, err := filepath.Abs(dataDir)
		if err == nil {
			absSource, err := filepath.Abs(c.Source)
			if err == nil && (absSource == absData || filepath.Dir(absSource) == absData) {
				return fmt.Errorf("cannot use --force when the source is inside the data directory: %s", dataDir)
			}
		}
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing storage: %w", err)
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access data directory: %w", err)
	}
	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, constants.CSVFileSuffix) || strings.HasSuffix(name, ".db")) {
			continue
		}
		if err := os.Remove(filepath.Join(dataDir, name)); err != nil {
			return fmt.Errorf("failed to delete %s: %w", name, err)
		}
		removed++
	}
	ctx.Printf("Deleted %d data files in: %s\n", removed, dataDir)
	return nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context) error {
	source, err := cli.OpenSource(c.Source)
	if err != nil {
		return err
	}
	defer source.Close()

	copied, skipped, err := storage.CopyUsers(source, ctx.Store)
	if err != nil {
		return err
	}
	for _, name := range copied {
		ctx.Printf("  Copied user %s\n", name)
	}
	for _, name := range skipped {
		ctx.Printf("  Skipped user %s (already exists)\n", name)
	}
	ctx.Printf("    Copied %d users\n", len(copied))
	return nil
}
