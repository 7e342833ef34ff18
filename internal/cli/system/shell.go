package system

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/habitual/habitual/internal/cli"
	"github.com/habitual/habitual/internal/cli/analysis"
	"github.com/habitual/habitual/internal/cli/habits"
	"github.com/habitual/habitual/internal/cli/users"
	"github.com/habitual/habitual/internal/constants"
	errs "github.com/habitual/habitual/internal/errors"
	"github.com/habitual/habitual/internal/lock"
	"github.com/habitual/habitual/internal/logger"
	"github.com/habitual/habitual/internal/tracker"
)

// errBackToMenu is returned by a prompt when the user types the menu escape
var errBackToMenu = errors.New("back to menu")

// Prompter asks the user for input. The shell uses huh forms; tests script the answers.
type Prompter interface {
	Choose(title string, options []string) (int, error)
	Input(title string) (string, error)
}

type huhPrompter struct{}

func (huhPrompter) Choose(title string, options []string) (int, error) {
	opts := make([]huh.Option[int], len(options))
	for i, label := range options {
		opts[i] = huh.NewOption(fmt.Sprintf("%d. %s", i+1, label), i+1)
	}
	choice := 0
	err := huh.NewSelect[int]().
		Title(title).
		Options(opts...).
		Value(&choice).
		Run()
	return choice, err
}

func (huhPrompter) Input(title string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		Description(fmt.Sprintf("Type %q to return to the main menu.", constants.MenuEscape)).
		Value(&value).
		Run()
	return value, err
}

const menuExit = 14

var menuItems = []string{
	"Create User",
	"Log In",
	"Add New Current Habit",
	"Remove Current Habit",
	"Track Habit",
	"Track Historical Habit",
	"Correct Tracked Habit",
	"Analyze Number of Current Habits",
	"Analyze Habits (Specific, All, or Current)",
	"Analyze Longest Streak",
	"Analyze if Habit is Broken",
	"Today Report",
	"Suggest a Habit",
	"Exit",
}

type ShellCmd struct{}

func (c *ShellCmd) Run(ctx *cli.Context) error {
	l, err := lock.Acquire(ctx.Config.Storage.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release lock", "error", err)
		}
	}()

	ctx.PerformAutomaticBackup()
	return NewShell(ctx, huhPrompter{}).Loop()
}

// Shell is the numbered main menu. A failed action is reported and the
// menu is shown again.
type Shell struct {
	ctx    *cli.Context
	prompt Prompter
}

func NewShell(ctx *cli.Context, prompt Prompter) *Shell {
	return &Shell{ctx: ctx, prompt: prompt}
}

// Loop shows the menu until the user exits
func (s *Shell) Loop() error {
	for {
		s.ctx.Println()
		choice, err := s.prompt.Choose("Habit Tracker Main Menu", menuItems)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				choice = menuExit
			} else {
				return err
			}
		}
		if choice == menuExit {
			s.ctx.Println("Exiting the Habit Tracker. Goodbye!")
			return nil
		}

		err = s.dispatch(choice)
		switch {
		case err == nil:
		case errors.Is(err, errBackToMenu), errors.Is(err, huh.ErrUserAborted):
			s.ctx.Println("You are back on the main menu.")
		default:
			errs.Report(s.ctx.Writer(), err)
		}
	}
}

func (s *Shell) dispatch(choice int) error {
	switch choice {
	case 1:
		name, dob, city, err := s.ask3("Enter your username:", "Enter your date of birth (YYYY-MM-DD):", "Enter your city:")
		if err != nil {
			return err
		}
		return users.Create(s.ctx, name, dob, city)
	case 2:
		name, err := s.ask("Enter your username:")
		if err != nil {
			return err
		}
		return users.Login(s.ctx, name)
	case 3:
		name, unit, period, err := s.ask3("Enter the habit name:",
			"What is the unit of measurement (e.g., hours, minutes, times):",
			"How often is this habit tracked (daily or weekly):")
		if err != nil {
			return err
		}
		return habits.Add(s.ctx, name, unit, period)
	case 4:
		name, err := s.ask("Enter the habit name to remove:")
		if err != nil {
			return err
		}
		return habits.Remove(s.ctx, name)
	case 5:
		name, err := s.ask("Enter the habit name to track:")
		if err != nil {
			return err
		}
		value, err := s.askFloat("Enter the value for tracking:")
		if err != nil {
			return err
		}
		return habits.Track(s.ctx, name, value, "")
	case 6:
		name, err := s.ask("Enter the habit name to track:")
		if err != nil {
			return err
		}
		value, err := s.askFloat("Enter the value for tracking:")
		if err != nil {
			return err
		}
		date, err := s.ask("Enter the date you completed the habit (YYYY-MM-DD):")
		if err != nil {
			return err
		}
		return habits.Track(s.ctx, name, value, date)
	case 7:
		date, habit, err := s.ask2("Enter the date to correct (YYYY-MM-DD):", "Enter the habit name to correct:")
		if err != nil {
			return err
		}
		value, err := s.askFloat("Enter the new value:")
		if err != nil {
			return err
		}
		entry, err := s.askInt("Enter the entry number to correct (1 for first entry of day, 2 for the second, etc.):")
		if err != nil {
			return err
		}
		return habits.Correct(s.ctx, date, habit, value, entry)
	case 8:
		return habits.List(s.ctx)
	case 9:
		return s.analyze()
	case 10:
		return analysis.Longest(s.ctx)
	case 11:
		habit, err := s.ask("Enter the habit name:")
		if err != nil {
			return err
		}
		periods, err := s.askInt("Enter the number of periods to check for a broken streak:")
		if err != nil {
			return err
		}
		return analysis.Broken(s.ctx, habit, periods)
	case 12:
		return analysis.Report(s.ctx)
	case 13:
		return analysis.Suggest(s.ctx)
	default:
		return fmt.Errorf("invalid choice %d, please choose a number between 1 and %d", choice, menuExit)
	}
}

func (s *Shell) analyze() error {
	kind, err := s.ask("Analyze (s)pecific habit, (a)ll habits, or (c)urrent habits?")
	if err != nil {
		return err
	}
	switch strings.ToLower(kind) {
	case "s", "specific":
		habit, err := s.ask("Which habit's history do you want to see:")
		if err != nil {
			return err
		}
		return habits.History(s.ctx, habit)
	case "a", "all":
		return analysis.Analyze(s.ctx, tracker.ScopeAll)
	case "c", "current":
		return analysis.Analyze(s.ctx, tracker.ScopeCurrent)
	default:
		return fmt.Errorf("invalid choice %q, expected s, a or c", kind)
	}
}

func (s *Shell) ask(title string) (string, error) {
	value, err := s.prompt.Input(title)
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, constants.MenuEscape) {
		return "", errBackToMenu
	}
	return value, nil
}

func (s *Shell) ask2(a, b string) (string, string, error) {
	first, err := s.ask(a)
	if err != nil {
		return "", "", err
	}
	second, err := s.ask(b)
	return first, second, err
}

func (s *Shell) ask3(a, b, c string) (string, string, string, error) {
	first, second, err := s.ask2(a, b)
	if err != nil {
		return "", "", "", err
	}
	third, err := s.ask(c)
	return first, second, third, err
}

func (s *Shell) askFloat(title string) (float64, error) {
	value, err := s.ask(title)
	if err != nil {
		return 0, err
	}
	return habits.ParseValue(value)
}

func (s *Shell) askInt(title string) (int, error) {
	value, err := s.ask(title)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", value)
	}
	return n, nil
}
