package system

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/habitual/habitual/internal/cli"
	"github.com/habitual/habitual/internal/config"
)

type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Write a default configuration file."`
	Show ConfigShowCmd `cmd:"" help:"Show the effective configuration." default:"1"`
	Path ConfigPathCmd `cmd:"" help:"Show the configuration file path."`
}

type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing configuration file."`
}

func (c *ConfigInitCmd) Run(ctx *cli.Context) error {
	path, err := config.ExpandPath(ctx.ConfigPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	ctx.Printf("✓ Wrote default configuration to %s\n", path)
	return nil
}

// ConfigShowCmd prints the configuration after defaults and environment overrides
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	shown := *ctx.Config
	if shown.Storage.DSN != "" {
		shown.Storage.DSN = maskPassword(shown.Storage.DSN)
	}
	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	ctx.Printf("# %s\n%s", ctx.ConfigPath, data)
	return nil
}

type ConfigPathCmd struct{}

func (c *ConfigPathCmd) Run(ctx *cli.Context) error {
	path, err := config.ExpandPath(ctx.ConfigPath)
	if err != nil {
		return err
	}
	ctx.Println(path)
	return nil
}
