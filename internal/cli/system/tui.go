package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/habitual/habitual/internal/cli"
	"github.com/habitual/habitual/internal/lock"
	"github.com/habitual/habitual/internal/logger"
	"github.com/habitual/habitual/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	model, err := tui.NewModel(ctx)
	if err != nil {
		return err
	}

	l, err := lock.Acquire(ctx.Config.Storage.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release lock", "error", err)
		}
	}()

	// Perform automatic backup on TUI startup
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
