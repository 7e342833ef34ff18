package suggest

import (
	"fmt"
	"strings"

	"github.com/habitual/habitual/internal/constants"
	"github.com/habitual/habitual/internal/models"
)

const suggestionTemplate = `You will receive a person's name, date of birth, city and current habits.
Recommend 3 habits this person is likely to be interested in, each with a very
short sentence of at most 20 words explaining why. Then add a 4th habit that is
a creative, fun suggestion, and explain why.

Return the response in the following format only.

Template:
    Here are some potential habits you might be interested in.
    Habit 1.  You might be interested in Habit 1 because ......
    Habit 2.  You might be interested in Habit 2 because ......
    Habit 3.  You might be interested in Habit 3 because ......
    Habit 4.  You might be interested in Habit 4 because ......

The person you will recommend habits for is:
    Name: %s
    DOB: %s
    City: %s
    Current habits: %s
`

const greetingTemplate = `You will receive a person's name, date of birth, city and habit tracking history.
Write a warm, motivating greeting for a user of a habit tracking app. Make it
appropriate for the user's location and age, and add one fun motivational
comment that inspires them to be consistent with their habits.

Return the response in the following format only.

Template:
    Hello, NAME it is great to see you again.  Great job with your tracking of .....
    This is an important habit because ...SOMETHING FUN.

The person is:
    Name: %s
    DOB: %s
    City: %s
    Habits History:
%s
`

// maxHistoryLines bounds the history sent with a greeting prompt
const maxHistoryLines = 60

// SuggestionPrompt renders the habit suggestion prompt for profile
func SuggestionPrompt(profile models.Profile) string {
	habits := "none"
	if len(profile.CurrentHabits) > 0 {
		habits = strings.Join(profile.CurrentHabits, ", ")
	}
	return fmt.Sprintf(suggestionTemplate, profile.Username, profile.DateOfBirth, profile.City, habits)
}

// GreetingPrompt renders the login greeting prompt. Only the most recent
// events are included.
func GreetingPrompt(profile models.Profile, events []models.Event) string {
	if len(events) > maxHistoryLines {
		events = events[len(events)-maxHistoryLines:]
	}

	var b strings.Builder
	if len(events) == 0 {
		b.WriteString("        (no entries yet)\n")
	}
	for _, e := range events {
		fmt.Fprintf(&b, "        %s %s %g\n", e.Date.Format(constants.DateFormat), e.Habit, e.Value)
	}
	return fmt.Sprintf(greetingTemplate, profile.Username, profile.DateOfBirth, profile.City, b.String())
}
