package main

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/morningcharge/internal/game"
	"github.com/desertthunder/morningcharge/internal/repositories"
	"github.com/desertthunder/morningcharge/internal/services"
	"github.com/desertthunder/morningcharge/internal/shared"
	"github.com/desertthunder/morningcharge/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	fs         afero.Fs
	clock      shared.Clock
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Fs         afero.Fs
	Clock      shared.Clock
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Clock == nil {
		opts.Clock = shared.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		fs:         opts.Fs,
		clock:      opts.Clock,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, tuiCommand, statusCommand, tasksCommand, statsCommand,
		achievementsCommand, historyCommand, resetCommand, soundCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// routineEnv bundles what a routine command needs, opened from config.
type routineEnv struct {
	db      *sql.DB
	store   *repositories.Store
	tasks   *tasks.Store
	session *game.Session
	source  tasks.Source
}

func (e *routineEnv) Close() error {
	return e.db.Close()
}

// envOpts picks the collaborators a command wants wired into its session.
type envOpts struct {
	tasksURL string
	sound    services.SoundPlayer
	voice    services.Announcer
	remote   bool
}

// openEnv opens the database and builds the task store and session.
func (r *Runner) openEnv(opts envOpts) (*routineEnv, error) {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := repositories.NewStore(db, r.clock, shared.WithLogger(r.logger, "component", "store"))

	var remote tasks.Remote
	if opts.remote {
		remote = services.NewRemoteTasks(r.config.Remote, r.httpClient, shared.WithLogger(r.logger, "component", "remote"))
	}
	taskStore := tasks.NewStore(store, remote, shared.WithLogger(r.logger, "component", "tasks"))
	list, source := taskStore.Load(opts.tasksURL)

	session, err := game.NewSession(list, game.Config{
		Store:   store,
		Clock:   r.clock,
		Routine: r.config.Routine,
		Sound:   opts.sound,
		Voice:   opts.voice,
		Logger:  shared.WithLogger(r.logger, "component", "session"),
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	r.logger.Debug("routine loaded", "tasks", len(list), "source", source)
	return &routineEnv{db: db, store: store, tasks: taskStore, session: session, source: source}, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
