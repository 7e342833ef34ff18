package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/habitual/habitual/internal/cli"
	"github.com/habitual/habitual/internal/config"
	"github.com/habitual/habitual/internal/logger"
	"github.com/habitual/habitual/internal/models"
	"github.com/habitual/habitual/internal/storage"
	"github.com/habitual/habitual/internal/suggest"
	"github.com/habitual/habitual/internal/tracker"
	"github.com/habitual/habitual/internal/utils"
)

type UserCmd struct {
	Create UserCreateCmd `cmd:"" help:"Create a new user."`
	List   UserListCmd   `cmd:"" help:"List users."`
}

type UserCreateCmd struct {
	Username string `arg:"" help:"Username."`
	DOB      string `help:"Date of birth in YYYY-MM-DD format." default:""`
	City     string `help:"City you live in." default:""`
}

func (c *UserCreateCmd) Run(ctx *cli.Context) error {
	return Create(ctx, c.Username, c.DOB, c.City)
}

// Create registers a new user with an empty habit catalog and event log
func Create(ctx *cli.Context, username, dob, city string) error {
	username = strings.TrimSpace(username)
	if err := storage.ValidateUsername(username); err != nil {
		return err
	}
	if dob != "" {
		if _, err := utils.ParseDate(dob); err != nil {
			return fmt.Errorf("invalid date of birth: %w", err)
		}
	}

	if err := ctx.Store.CreateUser(models.NewProfile(username, dob, strings.TrimSpace(city))); err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			return fmt.Errorf("user %q already exists", username)
		}
		return err
	}

	logger.Info("User created", "user", username)
	ctx.Printf("User %s created!\n", username)
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *cli.Context) error {
	names, err := ctx.Store.ListUsers()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		ctx.Println("No users found.")
		return nil
	}

	current := ""
	if ctx.Session != nil {
		current = ctx.Session.Username
	}
	for _, name := range names {
		marker := "  "
		if name == current {
			marker = "* "
		}
		ctx.Println(marker + name)
	}
	return nil
}

type LoginCmd struct {
	Username string `arg:"" help:"Username."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	return Login(ctx, c.Username)
}

// Login selects username for the session, remembers it as the default user,
// and prints the greeting and today's report
func Login(ctx *cli.Context, username string) error {
	username = strings.TrimSpace(username)
	exists, err := ctx.Store.UserExists(username)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user data for %q not found: %w", username, storage.ErrMissingUserData)
	}

	if ctx.Session == nil {
		ctx.Session = cli.NewSession(username, ctx.Today())
	}
	ctx.Session.Username = username

	if ctx.ConfigPath != "" {
		if err := config.Update(ctx.ConfigPath, func(cfg *config.Config) { cfg.DefaultUser = username }); err != nil {
			logger.Warn("Failed to remember default user", "user", username, "error", err)
		}
		if ctx.Config != nil {
			ctx.Config.DefaultUser = username
		}
	}
	logger.Info("User logged in", "session", ctx.Session.ID.String(), "user", username)

	return ctx.View(func(t *tracker.Tracker) error {
		ctx.Println(greeting(ctx, *t.Profile(), t.Log.Events()))
		ctx.Println()

		report, err := t.TodayReport()
		if err != nil {
			return err
		}
		ctx.PrintReport(report)
		ctx.Println()
		ctx.Printf("Hello %s! What would you like to do today?\n", username)
		return nil
	})
}

// greeting asks the generator for a personal welcome and falls back to a
// plain one when suggestions are unavailable
func greeting(ctx *cli.Context, profile models.Profile, events []models.Event) string {
	fallback := fmt.Sprintf("Welcome back, %s!", profile.Username)

	text, err := ctx.Generator().Greeting(context.Background(), profile, events)
	if err != nil {
		if !errors.Is(err, suggest.ErrUnavailable) {
			logger.Warn("Greeting generation failed", "user", profile.Username, "error", err)
		}
		return fallback
	}
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	return text
}
