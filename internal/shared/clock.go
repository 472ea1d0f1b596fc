package shared

import "time"

const (
	// DayKeyLayout formats the per-day completion key suffix (completed_20250102).
	DayKeyLayout = "20060102"
	// DateLayout formats calendar dates stored in game data and week stats.
	DateLayout = "2006-01-02"
	// ClockLayout is the HH:MM layout used by task times.
	ClockLayout = "15:04"
)

// Clock is the time source used by timing and persistence code.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to [Clock].
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// DayKey returns the YYYYMMDD form of t.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// DateString returns the YYYY-MM-DD form of t.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// Yesterday returns the calendar date before t as YYYY-MM-DD.
func Yesterday(t time.Time) string {
	return DateString(t.AddDate(0, 0, -1))
}
