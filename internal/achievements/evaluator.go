package achievements

import (
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/morningcharge/internal/models"
)

// Listener is notified once per newly unlocked achievement.
type Listener func(models.Achievement)

// Evaluator unlocks achievements whose requirement a counter has reached.
//
// Unlocks are monotonic: Evaluate never re-reports an unlocked entry.
type Evaluator struct {
	mu           sync.Mutex
	achievements []models.Achievement
	listeners    []Listener
	logger       *log.Logger
}

// NewEvaluator creates an evaluator over the full catalog with nothing unlocked.
func NewEvaluator(logger *log.Logger) *Evaluator {
	return &Evaluator{achievements: Catalog(), logger: logger}
}

// Load marks the given ids unlocked, ignoring ids not in the catalog.
func (e *Evaluator) Load(unlocked []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.achievements {
		if slices.Contains(unlocked, e.achievements[i].ID) {
			e.achievements[i].Unlocked = true
		}
	}
}

// Subscribe registers l for unlock notifications.
func (e *Evaluator) Subscribe(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Evaluate unlocks every locked achievement of kind with requirement <= value
// and returns them in ascending requirement order.
func (e *Evaluator) Evaluate(kind models.AchievementType, value int) []models.Achievement {
	e.mu.Lock()
	var unlocked []models.Achievement
	for i := range e.achievements {
		a := &e.achievements[i]
		if a.Type != kind || a.Unlocked || a.Requirement > value {
			continue
		}
		a.Unlocked = true
		unlocked = append(unlocked, *a)
	}
	listeners := slices.Clone(e.listeners)
	e.mu.Unlock()

	slices.SortStableFunc(unlocked, func(a, b models.Achievement) int {
		return a.Requirement - b.Requirement
	})

	for _, a := range unlocked {
		for _, l := range listeners {
			e.notify(l, a)
		}
	}

	return unlocked
}

func (e *Evaluator) notify(l Listener, a models.Achievement) {
	defer func() {
		if r := recover(); r != nil && e.logger != nil {
			e.logger.Error("achievement listener panicked", "achievement", a.ID, "error", fmt.Sprint(r))
		}
	}()
	l(a)
}

// All returns a copy of every achievement with its unlock state.
func (e *Evaluator) All() []models.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.achievements)
}

// UnlockedIDs returns the ids of unlocked achievements in catalog order.
func (e *Evaluator) UnlockedIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := []string{}
	for _, a := range e.achievements {
		if a.Unlocked {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// Progress returns the unlocked and total counts.
func (e *Evaluator) Progress() (unlocked, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, a := range e.achievements {
		if a.Unlocked {
			unlocked++
		}
	}
	return unlocked, len(e.achievements)
}
