package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/habitual/habitual/internal/cli"
	"github.com/habitual/habitual/internal/constants"
	"github.com/habitual/habitual/internal/logger"
	"github.com/habitual/habitual/internal/models"
	"github.com/habitual/habitual/internal/suggest"
	"github.com/habitual/habitual/internal/tracker"
	"github.com/habitual/habitual/internal/utils"
)

type AnalyzeCmd struct {
	Scope string `arg:"" help:"Habits to analyze: all (every logged habit) or current." enum:"all,current" default:"current"`
	Task  string `help:"Statistic to compute: average, total or count (default: all three)." default:""`
}

func (c *AnalyzeCmd) Run(ctx *cli.Context) error {
	var tasks []tracker.AggregateTask
	if c.Task != "" {
		task, err := tracker.ParseAggregateTask(c.Task)
		if err != nil {
			return err
		}
		tasks = []tracker.AggregateTask{task}
	}
	return Analyze(ctx, tracker.Scope(c.Scope), tasks...)
}

var verbs = map[tracker.AggregateTask]string{
	tracker.TaskAverage: "AVERAGED",
	tracker.TaskTotal:   "TOTALLED",
	tracker.TaskCount:   "TRACKED",
}

// Analyze prints the given statistics for every habit in scope. With no
// tasks it prints average, total and count.
func Analyze(ctx *cli.Context, scope tracker.Scope, tasks ...tracker.AggregateTask) error {
	if scope != tracker.ScopeAll && scope != tracker.ScopeCurrent {
		return fmt.Errorf("invalid scope %q, expected all or current", scope)
	}
	if len(tasks) == 0 {
		tasks = []tracker.AggregateTask{tracker.TaskAverage, tracker.TaskTotal, tracker.TaskCount}
	}

	return ctx.View(func(t *tracker.Tracker) error {
		for _, task := range tasks {
			rows, err := t.Aggregate(task, scope)
			if err != nil {
				return fmt.Errorf("cannot compute %s: %w", task, err)
			}
			if len(rows) == 0 {
				ctx.Println("No habits to analyze.")
				return nil
			}
			for _, row := range rows {
				if task == tracker.TaskCount {
					ctx.Printf("For Habit: %s, you %s %d times\n", row.Habit, verbs[task], row.Count)
					continue
				}
				ctx.Printf("For Habit: %s, you %s %s %s\n", row.Habit, verbs[task], round2(row.Value), row.Unit)
			}
		}
		return nil
	})
}

type StreakCmd struct {
	Habit string `arg:"" help:"Habit name."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	return Streak(ctx, c.Habit)
}

// Streak prints the current streak of one habit
func Streak(ctx *cli.Context, habit string) error {
	return ctx.View(func(t *tracker.Tracker) error {
		s, err := t.Streak(habit)
		if err != nil {
			return err
		}
		if s.Count == 0 {
			ctx.Printf("You have no streak for the habit %s. Keep tracking your habits.\n", s.Habit)
			return nil
		}
		ctx.Printf("Your streak for the habit %s is %d %s since %s. Congratulations!!!\n",
			s.Habit, s.Count, unitOf(s.Periodicity, s.Count), utils.FormatDate(s.LastDateTracked))
		return nil
	})
}

type LongestCmd struct{}

func (c *LongestCmd) Run(ctx *cli.Context) error {
	return Longest(ctx)
}

// Longest prints the longest daily and weekly streaks and the habit kept up the longest
func Longest(ctx *cli.Context) error {
	return ctx.View(func(t *tracker.Tracker) error {
		longest, err := t.LongestStreak()
		if err != nil {
			return err
		}
		if longest.Overall == nil {
			ctx.Println("You have no current habits to compare.")
			return nil
		}

		if s := longest.Daily; s != nil {
			ctx.Printf("Your current longest daily streak is %d for %s%s\n", s.Count, s.Habit, since(s))
		}
		if s := longest.Weekly; s != nil {
			ctx.Printf("Your current longest weekly streak is %d for %s%s\n", s.Count, s.Habit, since(s))
		}
		if longest.Overall.Count > 0 {
			ctx.Printf("The habit you have been tracking for the longest time is %s%s\n", longest.Overall.Habit, since(longest.Overall))
		}
		return nil
	})
}

type BrokenCmd struct {
	Habit     string `arg:"" help:"Habit name."`
	Threshold int    `arg:"" help:"Number of periods (days or weeks) the streak should cover."`
}

func (c *BrokenCmd) Run(ctx *cli.Context) error {
	return Broken(ctx, c.Habit, c.Threshold)
}

// Broken checks whether habit kept a streak for the last threshold periods
func Broken(ctx *cli.Context, habit string, threshold int) error {
	return ctx.View(func(t *tracker.Tracker) error {
		check, err := t.IsBroken(habit, threshold)
		if err != nil {
			return err
		}

		if check.Reached {
			ctx.Println(cli.DoneStyle.Render(fmt.Sprintf("You had a streak for %s for the last %d %s",
				check.Habit, check.Threshold, unitOf(check.Periodicity, check.Threshold))))
			return nil
		}

		where := utils.FormatDate(check.BrokenAt)
		if check.Periodicity == models.Weekly {
			where = "the week of " + where
		}
		ctx.Println(cli.PendingStyle.Render(fmt.Sprintf("You had a streak of %d but it was broken on %s", check.Count, where)))
		return nil
	})
}

type ReportCmd struct{}

func (c *ReportCmd) Run(ctx *cli.Context) error {
	return Report(ctx)
}

// Report prints today's done and pending habits
func Report(ctx *cli.Context) error {
	return ctx.View(func(t *tracker.Tracker) error {
		report, err := t.TodayReport()
		if err != nil {
			return err
		}
		ctx.PrintReport(report)
		return nil
	})
}

type SuggestCmd struct{}

func (c *SuggestCmd) Run(ctx *cli.Context) error {
	return Suggest(ctx)
}

// Suggest asks the text-generation service for new habit ideas
func Suggest(ctx *cli.Context) error {
	return ctx.View(func(t *tracker.Tracker) error {
		text, err := ctx.Generator().Suggestions(context.Background(), *t.Profile())
		if err != nil {
			if errors.Is(err, suggest.ErrUnavailable) {
				return fmt.Errorf("%w (set %s or run 'habitual keyring set-key')", err, constants.EnvAPIKey)
			}
			logger.Error("Suggestion request failed", "user", t.Profile().Username, "error", err)
			return fmt.Errorf("failed to get suggestions: %w", err)
		}
		ctx.Println(text)
		return nil
	})
}

func since(s *tracker.Streak) string {
	if s.LastDateTracked.IsZero() {
		return ""
	}
	return " since " + utils.FormatDate(s.LastDateTracked)
}

func unitOf(period models.Periodicity, n int) string {
	word := "day"
	if period == models.Weekly {
		word = "week"
	}
	if n != 1 {
		word += "s"
	}
	return word
}

func round2(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
