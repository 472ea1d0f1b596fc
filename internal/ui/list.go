package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/morningcharge/internal/models"
)

var _ list.Item = taskItem{}

// taskItem wraps [models.Task] with its status to implement [list.Item].
type taskItem struct {
	task   models.Task
	status string
}

func (i taskItem) FilterValue() string { return i.task.Name }
func (i taskItem) Title() string       { return fmt.Sprintf("%s %s", i.task.Icon, i.task.Name) }
func (i taskItem) Description() string {
	desc := fmt.Sprintf("%s - %s", i.task.StartTime, i.task.DeadlineTime)
	if i.status != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.status)
	}
	return desc
}

// taskItems builds list items, marking tasks before index as done.
func taskItems(tasks []models.Task, statuses []models.TaskStatus, index int, allDone bool) []list.Item {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		status := ""
		switch {
		case allDone || i < index:
			status = "✅ done"
		case i < len(statuses):
			status = string(statuses[i])
		}
		items[i] = taskItem{task: t, status: status}
	}
	return items
}
