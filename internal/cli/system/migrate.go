package system

import (
	"fmt"

	"github.com/habitual/habitual/internal/cli"
	"github.com/habitual/habitual/internal/storage/sqlstore"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	s, ok := ctx.Store.(*sqlstore.Store)
	if !ok {
		return fmt.Errorf("migrate command only supports the sqlite and postgres backends")
	}
	// Init reopens the database and applies pending migrations
	if err := s.Close(); err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	current, latest, err := s.SchemaVersion()
	if err != nil {
		return err
	}
	ctx.Printf("Database is at schema version %d (latest %d).\n", current, latest)
	return nil
}
