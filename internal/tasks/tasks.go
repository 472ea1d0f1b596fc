package tasks

import (
	"strings"

	"github.com/desertthunder/morningcharge/internal/models"
)

// DefaultIcon is used for tasks saved without an icon.
const DefaultIcon = "📝"

// RawTask is a task as found in stored or supplied data, possibly with derived hints.
type RawTask struct {
	models.Task `yaml:",inline"`

	// NextTaskStartTime mirrors the start of the following task. It is always
	// re-derivable and never persisted.
	NextTaskStartTime string `json:"nextTaskStartTime,omitempty" yaml:"nextTaskStartTime,omitempty"`
}

var defaultRaw = []RawTask{
	{Task: models.Task{ID: 1, Name: "Get up", Icon: "🛏️", StartTime: "06:50", DeadlineTime: "06:55"}, NextTaskStartTime: "06:55"},
	{Task: models.Task{ID: 2, Name: "Get dressed", Icon: "👔", StartTime: "06:55", DeadlineTime: "07:00"}, NextTaskStartTime: "07:00"},
	{Task: models.Task{ID: 3, Name: "Brush teeth & wash face", Icon: "🦷", StartTime: "07:00", DeadlineTime: "07:05"}, NextTaskStartTime: "07:05"},
	{Task: models.Task{ID: 4, Name: "Breakfast", Icon: "🍞", StartTime: "07:05", DeadlineTime: "07:15"}, NextTaskStartTime: "07:15"},
}

// DefaultTasks returns the built-in routine.
func DefaultTasks() []models.Task {
	return Normalize(defaultRaw)
}

// Normalize strips derived fields from raw. It is idempotent.
func Normalize(raw []RawTask) []models.Task {
	tasks := make([]models.Task, 0, len(raw))
	for _, r := range raw {
		tasks = append(tasks, r.Task)
	}
	return tasks
}

// Denormalize attaches each task's next-start hint, the inverse of [Normalize].
func Denormalize(tasks []models.Task) []RawTask {
	raw := make([]RawTask, len(tasks))
	for i, t := range tasks {
		raw[i] = RawTask{Task: t}
		if i+1 < len(tasks) {
			raw[i].NextTaskStartTime = tasks[i+1].StartTime
		} else {
			raw[i].NextTaskStartTime = t.DeadlineTime
		}
	}
	return raw
}

// Clean trims every field, fills in the default icon and renumbers ids from 1.
func Clean(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = models.Task{
			ID:           i + 1,
			Name:         strings.TrimSpace(t.Name),
			Icon:         strings.TrimSpace(t.Icon),
			StartTime:    strings.TrimSpace(t.StartTime),
			DeadlineTime: strings.TrimSpace(t.DeadlineTime),
		}
		if out[i].Icon == "" {
			out[i].Icon = DefaultIcon
		}
	}
	return out
}

// Find returns the index of the task with id, or -1.
func Find(tasks []models.Task, id int) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
