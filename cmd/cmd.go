// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlag(value string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (text, markdown, csv, json)",
		Value:   value,
	}
}

func jsonFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func outputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write to a file instead of stdout",
	}
}

// tuiCommand starts the interactive countdown
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive morning routine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "tasks-url",
				Usage: "URL whose 'tasks' query parameter holds a JSON task list",
			},
		},
		Action: r.TUI,
	}
}

// statusCommand prints where the routine stands right now
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show the current task and every task's status",
		Flags:  []cli.Flag{jsonFlag()},
		Action: r.Status,
	}
}

// tasksCommand edits the task list
func tasksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "View and edit the routine's tasks",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List tasks",
				Flags:  []cli.Flag{formatFlag("text")},
				Action: r.TasksList,
			},
			{
				Name:  "add",
				Usage: "Append a task",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Task name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "icon",
						Usage: "Emoji shown next to the task",
					},
					&cli.StringFlag{
						Name:     "start",
						Usage:    "Start time (HH:MM)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "deadline",
						Usage:    "Deadline (HH:MM)",
						Required: true,
					},
				},
				Action: r.TasksAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a task by ID, deleting it on the remote first",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.TasksRemove,
			},
			{
				Name:  "import",
				Usage: "Replace the task list from a JSON or YAML file",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Action: r.TasksImport,
			},
			{
				Name:  "export",
				Usage: "Export the task list",
				Flags: []cli.Flag{
					formatFlag("json"),
					outputFlag(),
				},
				Action: r.TasksExport,
			},
			{
				Name:   "reset",
				Usage:  "Drop saved edits and go back to the default tasks",
				Action: r.TasksReset,
			},
		},
	}
}

// statsCommand prints session, lifetime and weekly stats
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show today's, this week's and lifetime stats",
		Flags:  []cli.Flag{jsonFlag(), formatFlag("text")},
		Action: r.Stats,
	}
}

// achievementsCommand lists achievements
func achievementsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "achievements",
		Aliases: []string{"ach"},
		Usage:   "List achievements and which are unlocked",
		Flags:   []cli.Flag{jsonFlag(), formatFlag("text")},
		Action:  r.Achievements,
	}
}

// historyCommand exports the completion log for a day
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show or export the completions of a day",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "date",
				Usage: "Day to show (YYYY-MM-DD), defaults to today",
			},
			&cli.BoolFlag{
				Name:  "days",
				Usage: "List the days with recorded progress instead",
			},
			formatFlag("text"),
			outputFlag(),
		},
		Action: r.History,
	}
}

// resetCommand clears progress
func resetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Clear recorded progress",
		Commands: []*cli.Command{
			{
				Name:   "today",
				Usage:  "Clear today's completions",
				Action: r.ResetToday,
			},
			{
				Name:   "week",
				Usage:  "Clear this week's stats and today's completions",
				Action: r.ResetWeek,
			},
		},
	}
}

// soundCommand shows or sets the sound pack
func soundCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sound",
		Usage: "Show or set the sound pack",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "pack",
			},
		},
		Action: r.Sound,
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the routine over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host, overrides the config",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port, overrides the config",
			},
		},
		Action: r.Serve,
	}
}
