package system

import (
	"encoding/json"
	"fmt"

	"github.com/habitual/habitual/internal/cli"
	"github.com/habitual/habitual/internal/constants"
	"github.com/habitual/habitual/internal/models"
)

type DebugCmd struct {
	Path DebugPathCmd `cmd:"" help:"Show storage and config paths."`
	Dump DebugDumpCmd `cmd:"" help:"Dump a user's profile and event log as JSON."`
}

type DebugPathCmd struct{}

func (cmd *DebugPathCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"backend": ctx.Config.Storage.Backend,
		"storage": ctx.Store.GetConfigPath(),
		"config":  ctx.ConfigPath,
	}
	return printJSON(ctx, output)
}

type DebugDumpCmd struct {
	Username string `arg:"" optional:"" help:"User to dump (default: current user)."`
}

type userDump struct {
	Profile models.Profile `json:"profile"`
	Events  []eventDump    `json:"events"`
}

type eventDump struct {
	Date  string  `json:"date"`
	Habit string  `json:"habit"`
	Value float64 `json:"value"`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	username := cmd.Username
	if username == "" {
		var err error
		if username, err = ctx.User(); err != nil {
			return err
		}
	}

	profile, err := ctx.Store.LoadProfile(username)
	if err != nil {
		return err
	}
	events, err := ctx.Store.LoadEvents(username)
	if err != nil {
		return err
	}

	dump := userDump{Profile: profile, Events: make([]eventDump, 0, len(events))}
	for _, e := range events {
		dump.Events = append(dump.Events, eventDump{Date: e.Date.Format(constants.DateFormat), Habit: e.Habit, Value: e.Value})
	}
	return printJSON(ctx, dump)
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}
