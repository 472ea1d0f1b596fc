package routine

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/shared"
)

// Lifecycle states and events. Untyped so they convert to statekit IDs.
const (
	StateAdvancing   = "advancing"
	StateAllComplete = "all_complete"

	eventFinish = "finish"
	eventReset  = "reset"

	guardAllDone = "allDone"
)

// trackerContext lets the lifecycle refuse "finish" until every task is done.
type trackerContext struct {
	Total     int
	Completed int
}

// Stats summarizes a session.
type Stats struct {
	TotalTasks       int     `json:"totalTasks"`
	CompletedTasks   int     `json:"completedTasks"`
	EarlyCompletions int     `json:"earlyCompletions"`
	CompletionRate   float64 `json:"completionRate"`
	IsAllCompleted   bool    `json:"isAllCompleted"`
}

// Tracker walks the ordered task list for one session.
//
// Not safe for concurrent use.
type Tracker struct {
	tasks     []models.Task
	index     int
	records   []models.CompletionRecord
	lifecycle *statekit.Interpreter[trackerContext]
}

// NewTracker creates a tracker positioned at the first task.
func NewTracker(tasks []models.Task) (*Tracker, error) {
	builder := statekit.NewMachine[trackerContext]("routine-tracker").
		WithInitial(statekit.StateID(StateAdvancing)).
		WithContext(trackerContext{Total: len(tasks)}).
		WithGuard(guardAllDone, func(ctx trackerContext, _ statekit.Event) bool {
			return ctx.Total > 0 && ctx.Completed >= ctx.Total
		})

	builder.State(StateAdvancing).
		On(eventFinish).Target(StateAllComplete).Guard(guardAllDone).
		Done()

	builder.State(StateAllComplete).
		On(eventReset).Target(StateAdvancing).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build tracker state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &Tracker{tasks: tasks, lifecycle: interpreter}, nil
}

// State returns the lifecycle state name.
func (t *Tracker) State() string {
	return string(t.lifecycle.State().Value)
}

// IsAllComplete reports whether the last task has been completed.
func (t *Tracker) IsAllComplete() bool {
	return t.State() == StateAllComplete
}

// SetTasks replaces the task list and restarts the session.
func (t *Tracker) SetTasks(tasks []models.Task) {
	t.tasks = tasks
	t.lifecycle.UpdateContext(func(c *trackerContext) { c.Total = len(tasks) })
	t.Reset()
}

// Reset moves the cursor back to the first task and clears the records.
func (t *Tracker) Reset() {
	t.index = 0
	t.records = nil
	t.lifecycle.UpdateContext(func(c *trackerContext) { c.Completed = 0 })
	if t.IsAllComplete() {
		t.lifecycle.Send(statekit.Event{Type: eventReset})
	}
}

// Tasks returns the task list.
func (t *Tracker) Tasks() []models.Task { return t.tasks }

// Total returns the number of tasks.
func (t *Tracker) Total() int { return len(t.tasks) }

// Index returns the cursor position.
func (t *Tracker) Index() int { return t.index }

// Current returns the task under the cursor.
func (t *Tracker) Current() (models.Task, bool) {
	if t.IsAllComplete() || t.index >= len(t.tasks) {
		return models.Task{}, false
	}
	return t.tasks[t.index], true
}

// Next returns the task after the cursor, or nil when the cursor is on the last task.
func (t *Tracker) Next() *models.Task {
	return t.after(t.index)
}

func (t *Tracker) after(i int) *models.Task {
	if i+1 >= len(t.tasks) {
		return nil
	}
	next := t.tasks[i+1]
	return &next
}

// Status returns the display status of the current task at now.
func (t *Tracker) Status(now time.Time) models.TaskStatus {
	task, ok := t.Current()
	if !ok {
		return models.StatusCompleted
	}
	return TaskStatusAt(task, t.Next(), now)
}

// Complete records the current task as done at now and advances.
//
// It returns false without changing anything when there is no current task.
func (t *Tracker) Complete(now time.Time) (models.CompletionRecord, bool) {
	task, ok := t.Current()
	if !ok {
		return models.CompletionRecord{}, false
	}

	next := t.Next()
	record := models.CompletionRecord{
		ID:             shared.GenerateID(),
		TaskID:         task.ID,
		TaskName:       task.Name,
		TaskIndex:      t.index,
		Status:         CompletionStatusAt(task, next, now),
		Timestamp:      now,
		CompletionTime: FormatClock(now),
		TimeDifference: TimeDifference(task, now),
	}
	t.records = append(t.records, record)
	t.lifecycle.UpdateContext(func(c *trackerContext) { c.Completed = len(t.records) })

	t.lifecycle.Send(statekit.Event{Type: eventFinish})
	if !t.IsAllComplete() {
		t.index++
	}

	return record, true
}

// Records returns a copy of the completions recorded this session.
func (t *Tracker) Records() []models.CompletionRecord {
	out := make([]models.CompletionRecord, len(t.records))
	copy(out, t.records)
	return out
}

// CompletedCount returns the number of completions this session.
func (t *Tracker) CompletedCount() int { return len(t.records) }

// EarlyCount returns the number of early completions this session.
func (t *Tracker) EarlyCount() int {
	n := 0
	for _, r := range t.records {
		if r.Status == models.CompletionEarly {
			n++
		}
	}
	return n
}

// CompletionRate returns the completed share of tasks as a percentage.
func (t *Tracker) CompletionRate() float64 {
	if len(t.tasks) == 0 {
		return 0
	}
	return float64(len(t.records)) / float64(len(t.tasks)) * 100
}

// Stats returns the session summary.
func (t *Tracker) Stats() Stats {
	return Stats{
		TotalTasks:       len(t.tasks),
		CompletedTasks:   len(t.records),
		EarlyCompletions: t.EarlyCount(),
		CompletionRate:   t.CompletionRate(),
		IsAllCompleted:   t.IsAllComplete(),
	}
}
