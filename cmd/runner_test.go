package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/morningcharge/internal/game"
	"github.com/desertthunder/morningcharge/internal/shared"
	tu "github.com/desertthunder/morningcharge/internal/testing"
)

// newTestRunner returns a runner on a temp database, an in-memory fs and a
// clock fixed at 06:52 on a Monday.
func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer, afero.Fs) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "charge.db")
	config.Routine.SoundEnabled = false

	output := &bytes.Buffer{}
	fs := afero.NewMemMapFs()
	runner := NewRunner(RunnerOpts{
		Config: config,
		Fs:     fs,
		Clock:  tu.At("06:52"),
		Logger: shared.NewLogger(io.Discard),
		Output: output,
	})
	return runner, output, fs
}

// run executes args against the runner's command tree.
func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{
		Name:      "charge",
		Commands:  r.register(),
		Writer:    io.Discard,
		ErrWriter: io.Discard,
	}
	return app.Run(context.Background(), append([]string{"charge"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			fs := afero.NewMemMapFs()
			clock := tu.At("06:52")

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Fs:         fs,
				Clock:      clock,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.fs != fs {
				t.Error("expected fs to be set")
			}
			if runner.clock != clock {
				t.Error("expected clock to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
			if _, ok := runner.clock.(shared.SystemClock); !ok {
				t.Errorf("expected system clock, got %T", runner.clock)
			}
			if runner.fs == nil {
				t.Error("expected default fs to be set")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		var names []string
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names = append(names, cmd.Name)
		}

		for _, want := range []string{"setup", "tui", "status", "tasks", "stats", "achievements", "history", "reset", "sound", "serve"} {
			if !slices.Contains(names, want) {
				t.Errorf("expected %s command, got %v", want, names)
			}
		}
	})
}

func TestSetup(t *testing.T) {
	runner, output, fs := newTestRunner(t)

	if err := run(t, runner, "setup", "--config", "/etc/charge/config.toml"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if exists, _ := afero.Exists(fs, "/etc/charge/config.toml"); !exists {
		t.Error("expected config file to be created")
	}
	tu.AssertFileExists(t, runner.config.Database.Path)
	if !strings.Contains(output.String(), "✓ Database:") {
		t.Errorf("expected setup summary, got %q", output.String())
	}
}

func TestStatusCommand(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)
		if err := run(t, runner, "status"); err != nil {
			t.Fatalf("status failed: %v", err)
		}

		for _, want := range []string{"Progress: 0/4", "Now: 🛏️ Get up", "Countdown: 03:00", "1. 🛏️ Get up"} {
			if !strings.Contains(output.String(), want) {
				t.Errorf("expected %q in output, got: %s", want, output.String())
			}
		}
	})

	t.Run("JSON", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)
		if err := run(t, runner, "status", "--json"); err != nil {
			t.Fatalf("status failed: %v", err)
		}

		var got statusOutput
		if err := json.Unmarshal(output.Bytes(), &got); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if got.Status.Mode != game.ModeActive {
			t.Errorf("expected active mode, got %s", got.Status.Mode)
		}
		if len(got.Tasks) != 4 || len(got.Statuses) != 4 {
			t.Errorf("expected 4 tasks and statuses, got %d/%d", len(got.Tasks), len(got.Statuses))
		}
	})

	t.Run("Rest Day", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)
		runner.config.Routine.EnabledDays = []int{0, 6}

		if err := run(t, runner, "status"); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !strings.Contains(output.String(), "Rest day") {
			t.Errorf("expected rest day, got: %s", output.String())
		}
	})
}

func TestTasksCommand(t *testing.T) {
	t.Run("Add And List", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)

		err := run(t, runner, "tasks", "add", "--name", "Pack bag", "--icon", "🎒", "--start", "07:15", "--deadline", "07:20")
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if !strings.Contains(output.String(), "✓ Added 5. 🎒 Pack bag") {
			t.Errorf("unexpected add output: %s", output.String())
		}

		output.Reset()
		if err := run(t, runner, "tasks", "list", "--format", "csv"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), "5,Pack bag,🎒,07:15,07:20") {
			t.Errorf("expected new task in list, got: %s", output.String())
		}
	})

	t.Run("Add Empty Name", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)

		err := run(t, runner, "tasks", "add", "--name", "  ", "--start", "07:15", "--deadline", "07:20")
		if !errors.Is(err, shared.ErrEmptyTaskName) {
			t.Errorf("expected ErrEmptyTaskName, got %v", err)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)

		if err := run(t, runner, "tasks", "remove", "2"); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if !strings.Contains(output.String(), "✓ Removed task 2, 3 remaining") {
			t.Errorf("unexpected output: %s", output.String())
		}

		if err := run(t, runner, "tasks", "remove", "99"); !errors.Is(err, shared.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
		if err := run(t, runner, "tasks", "remove", "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Import", func(t *testing.T) {
		runner, output, fs := newTestRunner(t)
		yaml := "- name: Stretch\n  icon: \"🧘\"\n  startTime: \"06:30\"\n  deadlineTime: \"06:40\"\n"
		if err := afero.WriteFile(fs, "/tasks.yaml", []byte(yaml), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		if err := run(t, runner, "tasks", "import", "/tasks.yaml"); err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if !strings.Contains(output.String(), "✓ Imported 1 tasks") {
			t.Errorf("unexpected output: %s", output.String())
		}

		output.Reset()
		run(t, runner, "tasks", "list")
		if !strings.Contains(output.String(), "Stretch") {
			t.Errorf("expected imported task, got: %s", output.String())
		}
	})

	t.Run("Export", func(t *testing.T) {
		runner, _, fs := newTestRunner(t)

		if err := run(t, runner, "tasks", "export", "--output", "/out/tasks.json"); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		data, err := afero.ReadFile(fs, "/out/tasks.json")
		if err != nil {
			t.Fatalf("expected export file: %v", err)
		}
		if !strings.Contains(string(data), `"name": "Get up"`) {
			t.Errorf("unexpected export: %s", data)
		}

		if err := run(t, runner, "tasks", "export", "--format", "md", "--output", "/out/tasks.md"); err != nil {
			t.Fatalf("markdown export failed: %v", err)
		}
		if data, _ := afero.ReadFile(fs, "/out/tasks.md"); !strings.Contains(string(data), "# Morning Routine") {
			t.Errorf("unexpected markdown export: %s", data)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)
		run(t, runner, "tasks", "remove", "1")

		output.Reset()
		if err := run(t, runner, "tasks", "reset"); err != nil {
			t.Fatalf("reset failed: %v", err)
		}
		if !strings.Contains(output.String(), "4 tasks") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})
}

func TestReportCommands(t *testing.T) {
	t.Run("Stats JSON", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)
		if err := run(t, runner, "stats", "--json"); err != nil {
			t.Fatalf("stats failed: %v", err)
		}

		var stats game.Stats
		if err := json.Unmarshal(output.Bytes(), &stats); err != nil {
			t.Fatalf("failed to decode stats: %v", err)
		}
		if stats.Session.TotalTasks != 4 {
			t.Errorf("expected 4 total tasks, got %d", stats.Session.TotalTasks)
		}
	})

	t.Run("Stats Bad Format", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		if err := run(t, runner, "stats", "--format", "xml"); !errors.Is(err, shared.ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})

	t.Run("Achievements", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)
		if err := run(t, runner, "achievements", "--format", "markdown"); err != nil {
			t.Fatalf("achievements failed: %v", err)
		}
		if !strings.Contains(output.String(), "# Achievements") {
			t.Errorf("expected markdown heading, got: %s", output.String())
		}
		if strings.Count(output.String(), "- [ ]") != 12 {
			t.Errorf("expected 12 locked achievements, got: %s", output.String())
		}
	})

	t.Run("History Export", func(t *testing.T) {
		runner, _, fs := newTestRunner(t)
		if err := run(t, runner, "history", "--format", "csv", "--output", "/exports/history.csv"); err != nil {
			t.Fatalf("history failed: %v", err)
		}
		data, err := afero.ReadFile(fs, "/exports/history.csv")
		if err != nil {
			t.Fatalf("expected export file: %v", err)
		}
		if !strings.HasPrefix(string(data), "Task,Status,Completed At,Difference") {
			t.Errorf("unexpected CSV: %s", data)
		}
	})

	t.Run("History Days", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)

		env, err := runner.openEnv(envOpts{})
		if err != nil {
			t.Fatalf("failed to open env: %v", err)
		}
		if _, err := env.session.Complete(); err != nil {
			t.Fatalf("complete failed: %v", err)
		}
		env.Close()

		if err := run(t, runner, "history", "--days"); err != nil {
			t.Fatalf("history failed: %v", err)
		}
		for _, want := range []string{"Recorded days", "2025-03-03", "1 days, 1 completions logged"} {
			if !strings.Contains(output.String(), want) {
				t.Errorf("expected %q in output, got: %s", want, output.String())
			}
		}

		output.Reset()
		if err := run(t, runner, "history", "--days", "--format", "json"); err != nil {
			t.Fatalf("history json failed: %v", err)
		}
		var got daysOutput
		if err := json.Unmarshal(output.Bytes(), &got); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(got.Days) != 1 || got.Completions != 1 {
			t.Errorf("unexpected days output %+v", got)
		}
	})

	t.Run("History Bad Date", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		if err := run(t, runner, "history", "--date", "03/03/2025"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestResetAndSound(t *testing.T) {
	t.Run("Reset", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)

		if err := run(t, runner, "reset", "today"); err != nil {
			t.Fatalf("reset today failed: %v", err)
		}
		if err := run(t, runner, "reset", "week"); err != nil {
			t.Fatalf("reset week failed: %v", err)
		}
		if !strings.Contains(output.String(), "Today's progress cleared") || !strings.Contains(output.String(), "Weekly stats cleared") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("Sound", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)

		if err := run(t, runner, "sound", "video2"); err != nil {
			t.Fatalf("sound failed: %v", err)
		}

		output.Reset()
		if err := run(t, runner, "sound"); err != nil {
			t.Fatalf("sound list failed: %v", err)
		}
		if !strings.Contains(output.String(), "* video2") {
			t.Errorf("expected video2 selected, got: %s", output.String())
		}

		if err := run(t, runner, "sound", "trumpet"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
