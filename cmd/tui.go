package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/morningcharge/internal/services"
	"github.com/desertthunder/morningcharge/internal/shared"
	"github.com/desertthunder/morningcharge/internal/ui"
)

// TUI launches the interactive countdown.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.Log.File
	if logPath == "" {
		logPath = "./tmp/charge-tui.log"
	}
	fileLogger, f, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer f.Close()
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	sound := services.NewTerminalSound(os.Stderr, r.config.Routine.SoundEnabled)
	voice := services.NewLogAnnouncer(shared.WithLogger(fileLogger, "component", "voice"), io.Discard, r.config.Routine)

	env, err := r.openEnv(envOpts{
		tasksURL: cmd.String("tasks-url"),
		sound:    sound,
		voice:    voice,
		remote:   true,
	})
	if err != nil {
		return err
	}
	defer env.Close()

	opts := ui.Options{
		Logger: fileLogger,
		OnReload: func(cfg *shared.Config) {
			sound.SetEnabled(cfg.Routine.SoundEnabled)
			voice.Configure(cfg.Routine)
			shared.SetLogLevel(fileLogger, shared.ParseLogLevel(cfg.Log.Level))
			fileLogger.Info("settings reloaded", "path", r.configPath)
		},
	}
	if exists, _ := afero.Exists(r.fs, r.configPath); exists {
		opts.ConfigPath = r.configPath
	}

	fileLogger.Info("starting tui", "tasks", env.session.Total(), "source", env.source)
	return ui.Run(ctx, env.session, opts)
}
