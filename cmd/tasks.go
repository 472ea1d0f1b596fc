package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/morningcharge/internal/formatter"
	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/shared"
	"github.com/desertthunder/morningcharge/internal/tasks"
)

// TasksList prints the task list with each task's status at now.
func (r *Runner) TasksList(ctx context.Context, cmd *cli.Command) error {
	kind, err := outputKind(cmd)
	if err != nil {
		return err
	}

	env, err := r.openEnv(envOpts{})
	if err != nil {
		return err
	}
	defer env.Close()

	data, err := formatter.Tasks(kind, env.session.Tasks(), env.session.TaskStatuses())
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// TasksAdd appends a task and saves the list.
func (r *Runner) TasksAdd(ctx context.Context, cmd *cli.Command) error {
	env, err := r.openEnv(envOpts{})
	if err != nil {
		return err
	}
	defer env.Close()

	updated, err := env.tasks.Add(models.Task{
		Name:         cmd.String("name"),
		Icon:         cmd.String("icon"),
		StartTime:    cmd.String("start"),
		DeadlineTime: cmd.String("deadline"),
	})
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	added := updated[len(updated)-1]
	r.logger.Info("task added", "id", added.ID, "name", added.Name)
	return r.writePlain("✓ Added %d. %s %s (%s-%s)\n", added.ID, added.Icon, added.Name, added.StartTime, added.DeadlineTime)
}

// TasksRemove deletes a task, asking the configured remote first.
func (r *Runner) TasksRemove(ctx context.Context, cmd *cli.Command) error {
	raw := strings.TrimSpace(cmd.StringArg("id"))
	if raw == "" {
		return fmt.Errorf("%w: task id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: task id must be a number", shared.ErrInvalidArgument)
	}

	env, err := r.openEnv(envOpts{remote: true})
	if err != nil {
		return err
	}
	defer env.Close()

	updated, err := env.tasks.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to remove task %d: %w", id, err)
	}

	return r.writePlain("✓ Removed task %d, %d remaining\n", id, len(updated))
}

// TasksImport replaces the task list from a JSON or YAML file.
func (r *Runner) TasksImport(ctx context.Context, cmd *cli.Command) error {
	path := strings.TrimSpace(cmd.StringArg("path"))
	if path == "" {
		return fmt.Errorf("%w: file path", shared.ErrMissingArgument)
	}

	list, err := tasks.ReadFile(r.fs, path)
	if err != nil {
		return err
	}

	env, err := r.openEnv(envOpts{})
	if err != nil {
		return err
	}
	defer env.Close()

	saved, err := env.tasks.SaveList(list)
	if err != nil {
		return fmt.Errorf("failed to import tasks: %w", err)
	}

	r.logger.Info("tasks imported", "path", path, "count", len(saved))
	return r.writePlain("✓ Imported %d tasks from %s\n", len(saved), path)
}

// TasksExport writes the task list. JSON and YAML files round-trip through
// import; other formats are for reading.
func (r *Runner) TasksExport(ctx context.Context, cmd *cli.Command) error {
	env, err := r.openEnv(envOpts{})
	if err != nil {
		return err
	}
	defer env.Close()

	list := env.session.Tasks()
	path := cmd.String("output")

	if path != "" {
		if _, err := tasks.FormatOf(path); err == nil {
			if err := tasks.WriteFile(r.fs, path, list); err != nil {
				return err
			}
			return r.writePlain("✓ Exported %d tasks to %s\n", len(list), path)
		}
	}

	kind, err := outputKind(cmd)
	if err != nil {
		return err
	}
	data, err := formatter.Tasks(kind, list, nil)
	if err != nil {
		return err
	}
	return r.emit(cmd, data)
}

// TasksReset drops saved edits so the defaults apply again.
func (r *Runner) TasksReset(ctx context.Context, cmd *cli.Command) error {
	env, err := r.openEnv(envOpts{})
	if err != nil {
		return err
	}
	defer env.Close()

	if !env.tasks.Reset() {
		return fmt.Errorf("failed to reset tasks")
	}
	return r.writePlain("✓ Tasks reset to defaults (%d tasks)\n", len(tasks.DefaultTasks()))
}
