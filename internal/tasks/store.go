package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/shared"
)

// Source names where a loaded task list came from.
type Source string

const (
	SourceOverride Source = "override"
	SourceURL      Source = "url"
	SourceDefaults Source = "defaults"
)

// Persister stores the raw user override. Implemented by repositories.Store.
type Persister interface {
	TasksOverride() ([]byte, bool)
	SaveTasksOverride(raw []byte) bool
	ClearTasksOverride() bool
}

// Remote deletes a task on the server side.
type Remote interface {
	DeleteTask(ctx context.Context, id int) error
}

// Store loads and edits the routine task list.
type Store struct {
	persist Persister
	remote  Remote
	logger  *log.Logger
}

// NewStore creates a task store. remote may be nil for local-only deletion.
func NewStore(persist Persister, remote Remote, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{persist: persist, remote: remote, logger: logger}
}

// Load returns the task list by priority: saved override, then the tasks
// parameter of tasksURL, then the defaults.
func (s *Store) Load(tasksURL string) ([]models.Task, Source) {
	if raw, ok := s.persist.TasksOverride(); ok {
		tasks, err := ParseJSON(raw)
		if err == nil {
			return tasks, SourceOverride
		}
		s.logger.Warn("ignoring saved task list", "error", err)
	}

	if tasksURL != "" {
		tasks, err := ParseURL(tasksURL)
		if err == nil {
			return tasks, SourceURL
		}
		s.logger.Warn("ignoring task list from url", "error", err)
	}

	return DefaultTasks(), SourceDefaults
}

// Current returns the task list without a URL source.
func (s *Store) Current() []models.Task {
	tasks, _ := s.Load("")
	return tasks
}

// Prepare cleans tasks and validates the result without saving it.
func Prepare(tasks []models.Task) ([]models.Task, error) {
	cleaned := Clean(tasks)
	if err := Validate(cleaned); err != nil {
		return nil, err
	}
	return cleaned, nil
}

// SaveList cleans, validates and persists tasks, returning what was stored.
// Nothing is written when validation fails.
func (s *Store) SaveList(tasks []models.Task) ([]models.Task, error) {
	cleaned, err := Prepare(tasks)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}

	if !s.persist.SaveTasksOverride(data) {
		return nil, fmt.Errorf("failed to save tasks")
	}
	return cleaned, nil
}

// Save persists tasks and reports success.
func (s *Store) Save(tasks []models.Task) bool {
	if _, err := s.SaveList(tasks); err != nil {
		s.logger.Warn("task list not saved", "error", err)
		return false
	}
	return true
}

// Add appends task to the current list and saves it.
func (s *Store) Add(task models.Task) ([]models.Task, error) {
	return s.SaveList(append(s.Current(), task))
}

// Delete removes the task with id. The remote is asked first and the local
// list is only changed when it succeeds.
func (s *Store) Delete(ctx context.Context, id int) ([]models.Task, error) {
	current := s.Current()
	if len(current) <= 1 {
		return nil, shared.ErrLastTask
	}

	idx := Find(current, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: id %d", shared.ErrTaskNotFound, id)
	}

	if s.remote != nil {
		if err := s.remote.DeleteTask(ctx, id); err != nil {
			s.logger.Warn("remote delete failed, keeping task", "id", id, "error", err)
			return nil, fmt.Errorf("%w: %v", shared.ErrRemoteDelete, err)
		}
	}

	return s.SaveList(slices.Delete(slices.Clone(current), idx, idx+1))
}

// Reset drops the saved override so the defaults apply again.
func (s *Store) Reset() bool {
	return s.persist.ClearTasksOverride()
}
