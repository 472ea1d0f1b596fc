package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/morningcharge/internal/formatter"
	"github.com/desertthunder/morningcharge/internal/game"
	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/services"
	"github.com/desertthunder/morningcharge/internal/shared"
)

// outputKind resolves --json and --format into a [formatter.Kind].
func outputKind(cmd *cli.Command) (formatter.Kind, error) {
	if cmd.Bool("json") {
		return formatter.JSON, nil
	}
	return formatter.ParseKind(cmd.String("format"))
}

// emit writes data to --output when given, otherwise to the runner's output.
func (r *Runner) emit(cmd *cli.Command, data []byte) error {
	path := cmd.String("output")
	if path == "" {
		return r.writeBytes(data)
	}

	if err := formatter.WriteExport(r.fs, path, data); err != nil {
		return err
	}
	r.logger.Info("export written", "path", path, "bytes", len(data))
	return r.writePlain("✓ Exported to %s\n", path)
}

type statusOutput struct {
	Status   game.Snapshot       `json:"status"`
	Tasks    []models.Task       `json:"tasks"`
	Statuses []models.TaskStatus `json:"statuses"`
}

// Status prints the current task, its countdown and the status of every task.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	env, err := r.openEnv(envOpts{})
	if err != nil {
		return err
	}
	defer env.Close()

	snap := env.session.Snapshot()
	tasks := env.session.Tasks()
	statuses := env.session.TaskStatuses()

	if cmd.Bool("json") {
		return r.writeJSON(statusOutput{Status: snap, Tasks: tasks, Statuses: statuses}, true)
	}

	text, err := formatter.StatusToText(snap)
	if err != nil {
		return err
	}
	if err := r.writeBytes(text); err != nil {
		return err
	}

	list, err := formatter.TasksToText(tasks, statuses)
	if err != nil {
		return err
	}
	r.writePlain("\n")
	return r.writeBytes(list)
}

// Stats prints session, week and lifetime numbers.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	kind, err := outputKind(cmd)
	if err != nil {
		return err
	}

	env, err := r.openEnv(envOpts{})
	if err != nil {
		return err
	}
	defer env.Close()

	data, err := formatter.Stats(kind, env.session.Stats())
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// Achievements prints the achievement catalog with unlock state.
func (r *Runner) Achievements(ctx context.Context, cmd *cli.Command) error {
	kind, err := outputKind(cmd)
	if err != nil {
		return err
	}

	env, err := r.openEnv(envOpts{})
	if err != nil {
		return err
	}
	defer env.Close()

	data, err := formatter.Achievements(kind, env.session.Achievements())
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// History prints or exports the completions recorded on a day.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	kind, err := outputKind(cmd)
	if err != nil {
		return err
	}

	day := r.clock.Now()
	if s := strings.TrimSpace(cmd.String("date")); s != "" {
		day, err = time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			return fmt.Errorf("%w: date must be YYYY-MM-DD", shared.ErrInvalidFlag)
		}
	}

	env, err := r.openEnv(envOpts{})
	if err != nil {
		return err
	}
	defer env.Close()

	if cmd.Bool("days") {
		return r.recordedDays(env, kind)
	}

	records := env.store.History(day)
	r.logger.Debug("history loaded", "date", shared.DateString(day), "records", len(records))

	data, err := formatter.History(kind, records)
	if err != nil {
		return err
	}
	return r.emit(cmd, data)
}

type daysOutput struct {
	Days        []string `json:"days"`
	Completions int      `json:"completions"`
}

// recordedDays lists the days with recorded progress.
func (r *Runner) recordedDays(env *routineEnv, kind formatter.Kind) error {
	out := daysOutput{Days: env.store.RecordedDays(), Completions: env.store.LoggedCompletions()}
	if kind == formatter.JSON {
		return r.writeJSON(out, true)
	}

	r.writePlainHeader("Recorded days")
	for _, d := range out.Days {
		r.writePlain("%s\n", d)
	}
	return r.writePlainln("%d days, %d completions logged", len(out.Days), out.Completions)
}

// ResetToday clears today's completions.
func (r *Runner) ResetToday(ctx context.Context, cmd *cli.Command) error {
	env, err := r.openEnv(envOpts{})
	if err != nil {
		return err
	}
	defer env.Close()

	if !env.session.ResetToday() {
		return fmt.Errorf("failed to reset today's progress")
	}
	return r.writePlain("✓ Today's progress cleared\n")
}

// ResetWeek clears this week's stats and today's completions.
func (r *Runner) ResetWeek(ctx context.Context, cmd *cli.Command) error {
	env, err := r.openEnv(envOpts{})
	if err != nil {
		return err
	}
	defer env.Close()

	if !env.session.ResetWeek() {
		return fmt.Errorf("failed to reset weekly stats")
	}
	return r.writePlain("✓ Weekly stats cleared\n")
}

// Sound prints the sound pack, or sets it and plays a preview.
func (r *Runner) Sound(ctx context.Context, cmd *cli.Command) error {
	sound := services.NewTerminalSound(os.Stderr, r.config.Routine.SoundEnabled)
	env, err := r.openEnv(envOpts{sound: sound})
	if err != nil {
		return err
	}
	defer env.Close()

	pack := strings.TrimSpace(cmd.StringArg("pack"))
	if pack == "" {
		current := env.session.SoundPack()
		r.writePlainHeader("Sound packs")
		for _, p := range models.SoundPacks {
			marker := " "
			if p == current {
				marker = "*"
			}
			r.writePlain("%s %s\n", marker, p)
		}
		return nil
	}

	if err := env.session.SetSoundPack(models.SoundPack(pack)); err != nil {
		return err
	}
	return r.writePlain("✓ Sound pack set to %s\n", pack)
}
