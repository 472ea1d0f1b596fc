package game

import (
	"github.com/desertthunder/morningcharge/internal/models"
)

// Event reports a state change of the session.
type Event struct {
	Kind    EventKind
	Step    int    // Completed tasks so far
	Total   int    // Tasks in today's list
	Message string // Human-readable message for display
	Data    any    // Kind-specific payload
}

// EventKind enumerates session events.
type EventKind int

const (
	TaskCompleted EventKind = iota
	AchievementUnlocked
	AllComplete
	TasksChanged
	SessionReset
	SettingsChanged
)

func (k EventKind) String() string {
	switch k {
	case TaskCompleted:
		return "task_completed"
	case AchievementUnlocked:
		return "achievement_unlocked"
	case AllComplete:
		return "all_complete"
	case TasksChanged:
		return "tasks_changed"
	case SessionReset:
		return "session_reset"
	case SettingsChanged:
		return "settings_changed"
	default:
		return ""
	}
}

func completedEvent(step, total int, record models.CompletionRecord) Event {
	return Event{
		Kind:    TaskCompleted,
		Step:    step,
		Total:   total,
		Message: record.TaskName + " " + string(record.Status),
		Data:    record,
	}
}

func unlockedEvent(a models.Achievement) Event {
	return Event{
		Kind:    AchievementUnlocked,
		Message: a.Icon + " " + a.Title,
		Data:    a,
	}
}

func allCompleteEvent(total int, celebration string) Event {
	return Event{
		Kind:    AllComplete,
		Step:    total,
		Total:   total,
		Message: celebration,
	}
}

// send delivers ev without blocking; events are dropped when nobody keeps up.
func (s *Session) send(ev Event) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- ev:
	default:
		s.logger.Debug("dropped session event", "kind", ev.Kind.String())
	}
}
