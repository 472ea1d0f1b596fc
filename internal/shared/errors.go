package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Storage errors
	ErrNotFound        = fmt.Errorf("not found")
	ErrVersionConflict = fmt.Errorf("version conflict")

	// Task list errors
	ErrInvalidTasks   = fmt.Errorf("invalid task list")
	ErrEmptyTaskName  = fmt.Errorf("task name cannot be empty")
	ErrLastTask       = fmt.Errorf("at least one task must remain")
	ErrTaskNotFound   = fmt.Errorf("task not found")
	ErrRemoteDelete   = fmt.Errorf("remote task deletion failed")
	ErrUnknownFormat  = fmt.Errorf("unknown file format")
	ErrTimeout        = fmt.Errorf("operation timed out")
	ErrRateLimited    = fmt.Errorf("rate limit exceeded")
	ErrNothingToDo     = fmt.Errorf("no tasks loaded")
	ErrRoutineComplete = fmt.Errorf("routine already complete")
	ErrRoutineRestDay = fmt.Errorf("routine is not scheduled today")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
