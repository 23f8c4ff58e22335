package chat

import (
	"fmt"
	"strings"

	"github.com/tasknest/tasknest/internal/tools"
)

// formatTaskList renders a list_tasks result into the user-facing reply:
// a newest-first line per task with a Done/Pending marker and a trailing
// count, or an invitation to add a task when the list is empty.
func formatTaskList(result tools.Result) string {
	taskList, _ := result.Fields["tasks"].([]map[string]any)
	if len(taskList) == 0 {
		return "You don't have any tasks yet. Would you like to add one? Just say 'add task [title]'!"
	}

	lines := make([]string, 0, len(taskList))
	for _, t := range taskList {
		marker := "Pending"
		if done, _ := t["completed"].(bool); done {
			marker = "Done"
		}
		lines = append(lines, fmt.Sprintf("[%v] %v - %s", t["id"], t["title"], marker))
	}

	filter, _ := result.Fields["filter"].(string)
	if filter == "" {
		filter = "all"
	}
	header := fmt.Sprintf("Here are your %s tasks:\n\n", filter)
	footer := fmt.Sprintf("\n\nTotal: %d task(s)", len(taskList))

	return header + strings.Join(lines, "\n") + footer
}
