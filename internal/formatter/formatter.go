// package formatter renders tasks, status, stats, achievements and history as plain text, Markdown or CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/desertthunder/morningcharge/internal/game"
	"github.com/desertthunder/morningcharge/internal/models"
	"github.com/desertthunder/morningcharge/internal/shared"
)

// Kind is an output format.
type Kind string

const (
	Text     Kind = "text"
	Markdown Kind = "markdown"
	CSV      Kind = "csv"
	JSON     Kind = "json"
)

// ParseKind maps a flag value to a [Kind]. "md" and "txt" are accepted aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrUnknownFormat, s)
	}
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

func statusAt(statuses []models.TaskStatus, i int) string {
	if i < len(statuses) {
		return string(statuses[i])
	}
	return ""
}

// TasksToCSV renders tasks with columns: ID, Name, Icon, Start, Deadline, Status.
//
// statuses may be nil or shorter than tasks.
func TasksToCSV(tasks []models.Task, statuses []models.TaskStatus) ([]byte, error) {
	rows := make([][]string, 0, len(tasks))
	for i, t := range tasks {
		rows = append(rows, []string{
			strconv.Itoa(t.ID), t.Name, t.Icon, t.StartTime, t.DeadlineTime, statusAt(statuses, i),
		})
	}
	return writeCSV([]string{"ID", "Name", "Icon", "Start", "Deadline", "Status"}, rows)
}

// TasksToMarkdown renders tasks as a Markdown table.
func TasksToMarkdown(tasks []models.Task, statuses []models.TaskStatus) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Morning Routine\n\n")
	buf.WriteString(fmt.Sprintf("**Tasks**: %d\n\n", len(tasks)))
	buf.WriteString("| # | Task | Start | Deadline | Status |\n")
	buf.WriteString("|---|------|-------|----------|--------|\n")
	for i, t := range tasks {
		buf.WriteString(fmt.Sprintf("| %d | %s %s | %s | %s | %s |\n",
			t.ID, t.Icon, t.Name, t.StartTime, t.DeadlineTime, statusAt(statuses, i)))
	}

	return buf.Bytes(), nil
}

// TasksToText renders one task per line.
func TasksToText(tasks []models.Task, statuses []models.TaskStatus) ([]byte, error) {
	var buf bytes.Buffer

	if len(tasks) == 0 {
		buf.WriteString("No tasks configured.\n")
		return buf.Bytes(), nil
	}

	for i, t := range tasks {
		line := fmt.Sprintf("%d. %s %s  %s-%s", t.ID, t.Icon, t.Name, t.StartTime, t.DeadlineTime)
		if s := statusAt(statuses, i); s != "" {
			line += "  [" + s + "]"
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// Tasks renders tasks in kind.
func Tasks(kind Kind, tasks []models.Task, statuses []models.TaskStatus) ([]byte, error) {
	switch kind {
	case CSV:
		return TasksToCSV(tasks, statuses)
	case Markdown:
		return TasksToMarkdown(tasks, statuses)
	case JSON:
		return shared.MarshalJSON(tasks, true)
	default:
		return TasksToText(tasks, statuses)
	}
}

// StatusToText renders a session snapshot for the status command.
func StatusToText(snap game.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Date: %s\n", snap.Date))
	switch snap.Mode {
	case game.ModeRestDay:
		buf.WriteString("Rest day today, enjoy your morning!\n")
		return buf.Bytes(), nil
	case game.ModeEmpty:
		buf.WriteString("Nothing to do. Add tasks with `charge tasks add`.\n")
		return buf.Bytes(), nil
	case game.ModeComplete:
		buf.WriteString(fmt.Sprintf("All %d tasks complete!\n", snap.Total))
		return buf.Bytes(), nil
	}

	buf.WriteString(fmt.Sprintf("Progress: %d/%d\n", snap.Completed, snap.Total))
	if snap.Current != nil {
		buf.WriteString(fmt.Sprintf("Now: %s %s (%s-%s)\n", snap.Current.Icon, snap.Current.Name, snap.Current.StartTime, snap.Current.DeadlineTime))
		buf.WriteString(fmt.Sprintf("Countdown: %s\n", snap.Countdown))
		buf.WriteString(fmt.Sprintf("Status: %s\n", snap.Message))
	}
	if snap.Next != nil {
		buf.WriteString(fmt.Sprintf("Next: %s %s at %s\n", snap.Next.Icon, snap.Next.Name, snap.Next.StartTime))
	}

	return buf.Bytes(), nil
}

// StatsToText renders session, lifetime and week numbers.
func StatsToText(stats game.Stats) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("Today\n")
	buf.WriteString(fmt.Sprintf("  Completed: %d/%d (%.0f%%)\n", stats.Session.CompletedTasks, stats.Session.TotalTasks, stats.Session.CompletionRate))
	buf.WriteString(fmt.Sprintf("  Early: %d\n", stats.Session.EarlyCompletions))

	buf.WriteString("All time\n")
	buf.WriteString(fmt.Sprintf("  Streak: %d days\n", stats.Game.StreakDays))
	buf.WriteString(fmt.Sprintf("  Completions: %d\n", stats.Game.TotalCompletions))
	buf.WriteString(fmt.Sprintf("  Early completions: %d\n", stats.Game.FlashCompletions))
	buf.WriteString(fmt.Sprintf("  Full routines: %d\n", stats.Game.AllTasksCount))
	buf.WriteString(fmt.Sprintf("  Perfect days: %d\n", stats.Game.PerfectDays))

	w := stats.Week
	buf.WriteString("This week\n")
	buf.WriteString(fmt.Sprintf("  Completed: %d\n", w.CompletedTasks))
	buf.WriteString(fmt.Sprintf("  Early / on time / late / very late: %d / %d / %d / %d\n",
		w.EarlyCompletions, w.OnTimeCompletions, w.LateCompletions, w.VeryLateCompletions))
	buf.WriteString(fmt.Sprintf("  Days: %d\n", len(w.DatesCompleted)))

	return buf.Bytes(), nil
}

// StatsToMarkdown renders stats as a Markdown report.
func StatsToMarkdown(stats game.Stats) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Morning Charge Stats\n\n")
	buf.WriteString("## Today\n\n")
	buf.WriteString(fmt.Sprintf("- **Completed**: %d/%d\n", stats.Session.CompletedTasks, stats.Session.TotalTasks))
	buf.WriteString(fmt.Sprintf("- **Early**: %d\n\n", stats.Session.EarlyCompletions))
	buf.WriteString("## All time\n\n")
	buf.WriteString(fmt.Sprintf("- **Streak**: %d days\n", stats.Game.StreakDays))
	buf.WriteString(fmt.Sprintf("- **Completions**: %d\n", stats.Game.TotalCompletions))
	buf.WriteString(fmt.Sprintf("- **Perfect days**: %d\n\n", stats.Game.PerfectDays))
	buf.WriteString("## This week\n\n")
	buf.WriteString("| Early | On time | Late | Very late | Days |\n")
	buf.WriteString("|-------|---------|------|-----------|------|\n")
	w := stats.Week
	buf.WriteString(fmt.Sprintf("| %d | %d | %d | %d | %d |\n",
		w.EarlyCompletions, w.OnTimeCompletions, w.LateCompletions, w.VeryLateCompletions, len(w.DatesCompleted)))

	return buf.Bytes(), nil
}

// Stats renders stats in kind. CSV is not supported.
func Stats(kind Kind, stats game.Stats) ([]byte, error) {
	switch kind {
	case Markdown:
		return StatsToMarkdown(stats)
	case JSON:
		return shared.MarshalJSON(stats, true)
	case CSV:
		return nil, fmt.Errorf("%w: csv stats", shared.ErrUnknownFormat)
	default:
		return StatsToText(stats)
	}
}

func lockIcon(a models.Achievement) string {
	if a.Unlocked {
		return a.Icon
	}
	return "🔒"
}

// AchievementsToText renders the catalog with unlock markers.
func AchievementsToText(list []models.Achievement) ([]byte, error) {
	var buf bytes.Buffer

	unlocked := 0
	for _, a := range list {
		if a.Unlocked {
			unlocked++
		}
	}
	buf.WriteString(fmt.Sprintf("Achievements: %d/%d\n\n", unlocked, len(list)))

	for _, a := range list {
		buf.WriteString(fmt.Sprintf("%s %s - %s\n", lockIcon(a), a.Title, a.Description))
	}

	return buf.Bytes(), nil
}

// AchievementsToMarkdown renders the catalog as a Markdown checklist.
func AchievementsToMarkdown(list []models.Achievement) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Achievements\n\n")
	for _, a := range list {
		mark := " "
		if a.Unlocked {
			mark = "x"
		}
		buf.WriteString(fmt.Sprintf("- [%s] %s **%s**: %s\n", mark, a.Icon, a.Title, a.Description))
	}

	return buf.Bytes(), nil
}

// AchievementsToCSV renders the catalog with columns: ID, Type, Title, Requirement, Unlocked.
func AchievementsToCSV(list []models.Achievement) ([]byte, error) {
	rows := make([][]string, 0, len(list))
	for _, a := range list {
		rows = append(rows, []string{
			a.ID, string(a.Type), a.Title, strconv.Itoa(a.Requirement), strconv.FormatBool(a.Unlocked),
		})
	}
	return writeCSV([]string{"ID", "Type", "Title", "Requirement", "Unlocked"}, rows)
}

// Achievements renders the catalog in kind.
func Achievements(kind Kind, list []models.Achievement) ([]byte, error) {
	switch kind {
	case CSV:
		return AchievementsToCSV(list)
	case Markdown:
		return AchievementsToMarkdown(list)
	case JSON:
		return shared.MarshalJSON(list, true)
	default:
		return AchievementsToText(list)
	}
}

// HistoryToCSV renders completion records with columns:
// Task, Status, Completed At, Difference.
func HistoryToCSV(records []models.CompletionRecord) ([]byte, error) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.TaskName, string(r.Status), r.CompletionTime, strconv.Itoa(r.TimeDifference),
		})
	}
	return writeCSV([]string{"Task", "Status", "Completed At", "Difference"}, rows)
}

// HistoryToText renders one completion per line.
func HistoryToText(records []models.CompletionRecord) ([]byte, error) {
	var buf bytes.Buffer

	if len(records) == 0 {
		buf.WriteString("No completions recorded.\n")
		return buf.Bytes(), nil
	}

	for _, r := range records {
		diff := fmt.Sprintf("%+d min", r.TimeDifference)
		buf.WriteString(fmt.Sprintf("%s  %-24s %-9s %s\n", r.CompletionTime, r.TaskName, r.Status, diff))
	}

	return buf.Bytes(), nil
}

// History renders completion records in kind.
func History(kind Kind, records []models.CompletionRecord) ([]byte, error) {
	switch kind {
	case CSV:
		return HistoryToCSV(records)
	case JSON:
		return shared.MarshalJSON(records, true)
	case Markdown:
		var buf bytes.Buffer
		buf.WriteString("| Time | Task | Status | Difference |\n")
		buf.WriteString("|------|------|--------|------------|\n")
		for _, r := range records {
			buf.WriteString(fmt.Sprintf("| %s | %s | %s | %+d |\n", r.CompletionTime, r.TaskName, r.Status, r.TimeDifference))
		}
		return buf.Bytes(), nil
	default:
		return HistoryToText(records)
	}
}

// WriteExport writes data to path on fs, creating parent directories.
func WriteExport(fs afero.Fs, path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
