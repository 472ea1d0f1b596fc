package tasks

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/shared"
)

//go:embed tasks.schema.json
var schemaJSON string

var (
	validate = validator.New()
	schema   = gojsonschema.NewStringLoader(schemaJSON)
)

// ParseJSON checks data against the task list schema, decodes and validates it.
func ParseJSON(data []byte) ([]models.Task, error) {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidTasks, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidTasks, strings.Join(msgs, "; "))
	}

	var raw []RawTask
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidTasks, err)
	}

	tasks := Normalize(raw)
	if err := Validate(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ParseURL reads the JSON task list from the `tasks` query parameter of rawURL.
func ParseURL(rawURL string) ([]models.Task, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	param := u.Query().Get("tasks")
	if param == "" {
		return nil, fmt.Errorf("%w: url has no tasks parameter", shared.ErrMissingArgument)
	}

	return ParseJSON([]byte(param))
}

// Validate checks every task, reporting an empty name as [shared.ErrEmptyTaskName].
func Validate(tasks []models.Task) error {
	if len(tasks) == 0 {
		return fmt.Errorf("%w: no tasks", shared.ErrInvalidTasks)
	}

	for i, t := range tasks {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w (task %d)", shared.ErrEmptyTaskName, i+1)
		}
		if err := validate.Struct(t); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return fmt.Errorf("%w: task %d: field %s failed %q", shared.ErrInvalidTasks, i+1, verrs[0].Field(), verrs[0].Tag())
			}
			return fmt.Errorf("%w: task %d: %v", shared.ErrInvalidTasks, i+1, err)
		}
	}
	return nil
}
