// package models defines the data model for the morning routine game
package models

import (
	"slices"
	"time"
)

// TaskStatus is the display state of the current task at a point in time.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInTime     TaskStatus = "in_time"
	StatusLate       TaskStatus = "late"
	StatusVeryLate   TaskStatus = "very_late"
	StatusCompleted  TaskStatus = "completed"
)

// Message returns the short status line shown under the countdown.
func (s TaskStatus) Message() string {
	switch s {
	case StatusNotStarted:
		return "Get ready to start"
	case StatusInTime:
		return "Keep going, plenty of time!"
	case StatusLate:
		return "A little over time, you can do it!"
	case StatusVeryLate:
		return "Way over time, hurry up!"
	case StatusCompleted:
		return "Task complete!"
	default:
		return "Keep it up!"
	}
}

// CompletionStatus is the timeliness tier recorded when a task is marked done.
type CompletionStatus string

const (
	CompletionEarly    CompletionStatus = "early"
	CompletionOnTime   CompletionStatus = "on_time"
	CompletionLate     CompletionStatus = "late"
	CompletionVeryLate CompletionStatus = "very_late"
)

// Task is one timed step of the morning routine.
//
// StartTime <= DeadlineTime is expected but not enforced.
type Task struct {
	ID           int    `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name" validate:"required"`
	Icon         string `json:"icon" yaml:"icon"`
	StartTime    string `json:"startTime" yaml:"startTime" validate:"required,datetime=15:04"`
	DeadlineTime string `json:"deadlineTime" yaml:"deadlineTime" validate:"required,datetime=15:04"`
}

// CompletionRecord captures a single task completion.
type CompletionRecord struct {
	ID             string           `json:"id"`
	TaskID         int              `json:"taskId"`
	TaskName       string           `json:"taskName"`
	TaskIndex      int              `json:"taskIndex"`
	Status         CompletionStatus `json:"status"`
	Timestamp      time.Time        `json:"timestamp"`
	CompletionTime string           `json:"completionTime"`
	TimeDifference int              `json:"timeDifference"`
}

// MinutesEarly returns how many minutes before the deadline the task was done, or 0.
func (r CompletionRecord) MinutesEarly() int {
	if r.TimeDifference >= 0 {
		return 0
	}
	return -r.TimeDifference
}

// DayEntry is the per-task entry of a [DayRecord].
type DayEntry struct {
	Status    CompletionStatus `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
}

// DayRecord maps task index to its completion for one calendar day.
type DayRecord map[int]DayEntry

// AllEarly reports whether the day has at least one completion and all are early.
func (d DayRecord) AllEarly() bool {
	if len(d) == 0 {
		return false
	}
	for _, e := range d {
		if e.Status != CompletionEarly {
			return false
		}
	}
	return true
}

// GameData holds the long-lived counters of the game.
type GameData struct {
	StreakDays           int      `json:"streakDays"`
	LastCompleteDate     string   `json:"lastCompleteDate"`
	TotalCompletions     int      `json:"totalCompletions"`
	FlashCompletions     int      `json:"flashCompletions"`
	PerfectDays          int      `json:"perfectDays"`
	AllTasksCount        int      `json:"allTasksCount"`
	FirstVisit           bool     `json:"firstVisit"`
	UnlockedAchievements []string `json:"unlockedAchievements"`
}

// NewGameData returns the zero-progress game data for a first visit.
func NewGameData() GameData {
	return GameData{FirstVisit: true, UnlockedAchievements: []string{}}
}

// HasUnlocked reports whether the achievement id is in the unlocked set.
func (g GameData) HasUnlocked(id string) bool {
	return slices.Contains(g.UnlockedAchievements, id)
}

// Unlock adds id to the unlocked set, returning false if it was already there.
func (g *GameData) Unlock(id string) bool {
	if g.HasUnlocked(id) {
		return false
	}
	g.UnlockedAchievements = append(g.UnlockedAchievements, id)
	return true
}

// UpdateStreak applies a full-day completion on today (YYYY-MM-DD).
//
// Consecutive days increment the streak, a gap or first completion resets it
// to 1, and a repeat on the same day leaves it unchanged.
func (g *GameData) UpdateStreak(today, yesterday string) {
	switch g.LastCompleteDate {
	case today:
		return
	case yesterday:
		g.StreakDays++
	default:
		g.StreakDays = 1
	}
	g.LastCompleteDate = today
}

// WeekStats accumulates completion tallies until reset.
type WeekStats struct {
	TotalTasks          int      `json:"totalTasks"`
	CompletedTasks      int      `json:"completedTasks"`
	EarlyCompletions    int      `json:"earlyCompletions"`
	OnTimeCompletions   int      `json:"onTimeCompletions"`
	LateCompletions     int      `json:"lateCompletions"`
	VeryLateCompletions int      `json:"veryLateCompletions"`
	DatesCompleted      []string `json:"datesCompleted"`
}

// NewWeekStats returns empty week stats.
func NewWeekStats() WeekStats {
	return WeekStats{DatesCompleted: []string{}}
}

// Record tallies one completion made on date (YYYY-MM-DD).
func (w *WeekStats) Record(status CompletionStatus, date string) {
	w.TotalTasks++
	switch status {
	case CompletionEarly:
		w.EarlyCompletions++
	case CompletionOnTime:
		w.OnTimeCompletions++
	case CompletionLate:
		w.LateCompletions++
	case CompletionVeryLate:
		w.VeryLateCompletions++
	default:
		return
	}
	w.CompletedTasks++
	if !slices.Contains(w.DatesCompleted, date) {
		w.DatesCompleted = append(w.DatesCompleted, date)
	}
}

// AchievementType is the counter an achievement is measured against.
type AchievementType string

const (
	AchievementStreakDays       AchievementType = "streak_days"
	AchievementFlashCompletions AchievementType = "flash_completions"
	AchievementPerfectDay       AchievementType = "perfect_day"
	AchievementFirstCompletion  AchievementType = "first_completion"
	AchievementAllTasksComplete AchievementType = "all_tasks_complete"
	AchievementWeeklyChallenge  AchievementType = "weekly_challenge"
)

// Achievement is a reward unlocked when a counter reaches Requirement.
type Achievement struct {
	ID          string          `json:"id"`
	Type        AchievementType `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Requirement int             `json:"requirement"`
	Unlocked    bool            `json:"unlocked"`
}

// SoundPack names a set of sound cues.
type SoundPack string

const (
	SoundPackDefault SoundPack = "default"
	SoundPackVideo1  SoundPack = "video1"
	SoundPackVideo2  SoundPack = "video2"
)

// SoundPacks lists the available packs in display order.
var SoundPacks = []SoundPack{SoundPackDefault, SoundPackVideo1, SoundPackVideo2}

// Valid reports whether p is a known pack.
func (p SoundPack) Valid() bool {
	return slices.Contains(SoundPacks, p)
}

// Sound names one cue within a pack.
type Sound string

const (
	SoundClick       Sound = "click"
	SoundSuccess     Sound = "success"
	SoundError       Sound = "error"
	SoundCountdown   Sound = "countdown"
	SoundCelebration Sound = "celebration"
)

// Urgency classifies the countdown display.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyWarning
	UrgencyDanger
)

// Feedback is the panel shown after a completion.
type Feedback struct {
	Title           string `json:"title"`
	Message         string `json:"message"`
	NextTaskMessage string `json:"nextTaskMessage,omitempty"`
	Color           string `json:"color"`
	Icon            string `json:"icon"`
}

// Medal is shown on the celebration screen.
type Medal struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
