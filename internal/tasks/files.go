package tasks

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/shared"
)

// Format is a task file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", shared.ErrUnknownFormat, path)
	}
}

// Decode parses a task list in the given format.
//
// YAML is converted to JSON first so both formats go through the same schema.
func Decode(data []byte, format Format) ([]models.Task, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		var raw []RawTask
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidTasks, err)
		}
		asJSON, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to convert yaml tasks: %w", err)
		}
		return ParseJSON(asJSON)
	default:
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownFormat, format)
	}
}

// Encode renders tasks in the given format.
func Encode(tasks []models.Task, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(tasks, "", "  ")
	case FormatYAML:
		return yaml.Marshal(tasks)
	default:
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownFormat, format)
	}
}

// ReadFile loads a task list from path, choosing the format by extension.
func ReadFile(fs afero.Fs, path string) ([]models.Task, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return Decode(data, format)
}

// WriteFile writes tasks to path, choosing the format by extension.
func WriteFile(fs afero.Fs, path string, tasks []models.Task) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	data, err := Encode(tasks, format)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
