package routine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/shared"
)

// warnWindow is how close to the deadline the countdown turns to a warning.
const warnWindow = 2 * time.Minute

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: clock %q must be HH:MM", shared.ErrInvalidInput, s)
	}

	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: invalid hour in %q", shared.ErrInvalidInput, s)
	}

	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: invalid minute in %q", shared.ErrInvalidInput, s)
	}

	return hours*60 + minutes, nil
}

// clockMinutes is ParseClock for already validated task times; bad input reads as midnight.
func clockMinutes(s string) int {
	m, _ := ParseClock(s)
	return m
}

// MinutesOf returns minutes since midnight of t, ignoring seconds.
func MinutesOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// FormatClock renders t as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format(shared.ClockLayout)
}

// isVeryLate reports whether an overdue task has run past the next start.
// The last task has no next start to compare against and is never very late.
func isVeryLate(now int, next *models.Task) bool {
	return next != nil && now > clockMinutes(next.StartTime)
}

// TaskStatusAt returns the display status of task at now.
func TaskStatusAt(task models.Task, next *models.Task, now time.Time) models.TaskStatus {
	current := MinutesOf(now)

	switch {
	case current < clockMinutes(task.StartTime):
		return models.StatusNotStarted
	case current <= clockMinutes(task.DeadlineTime):
		return models.StatusInTime
	case isVeryLate(current, next):
		return models.StatusVeryLate
	default:
		return models.StatusLate
	}
}

// CompletionStatusAt returns the tier recorded when task is marked done at now.
func CompletionStatusAt(task models.Task, next *models.Task, now time.Time) models.CompletionStatus {
	current := MinutesOf(now)
	deadline := clockMinutes(task.DeadlineTime)

	switch {
	case current < deadline:
		return models.CompletionEarly
	case current == deadline:
		return models.CompletionOnTime
	case isVeryLate(current, next):
		return models.CompletionVeryLate
	default:
		return models.CompletionLate
	}
}

// TimeDifference returns now minus the deadline in minutes; negative means early.
func TimeDifference(task models.Task, now time.Time) int {
	return MinutesOf(now) - clockMinutes(task.DeadlineTime)
}

// Remaining returns the time left until today's deadline and whether it has passed.
// Once overdue the duration is how long ago the deadline was.
func Remaining(task models.Task, now time.Time) (time.Duration, bool) {
	m := clockMinutes(task.DeadlineTime)
	deadline := time.Date(now.Year(), now.Month(), now.Day(), m/60, m%60, 0, 0, now.Location())

	left := deadline.Sub(now)
	if left < 0 {
		return -left, true
	}
	return left, false
}

// UrgencyOf classifies a countdown for display.
func UrgencyOf(remaining time.Duration, overdue bool) models.Urgency {
	switch {
	case overdue:
		return models.UrgencyDanger
	case remaining <= warnWindow:
		return models.UrgencyWarning
	default:
		return models.UrgencyNormal
	}
}

// FormatCountdown renders a duration as MM:SS, or H:MM:SS past an hour.
func FormatCountdown(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
