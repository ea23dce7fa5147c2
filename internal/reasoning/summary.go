package reasoning

import (
	"fmt"
	"strings"

	"github.com/archonlabs/archon/pkg/models"
)

// statusIcon maps a task status to its summary marker.
func statusIcon(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusCompleted:
		return "✅"
	case models.TaskStatusFailed:
		return "❌"
	case models.TaskStatusBlocked:
		return "⏸️"
	case models.TaskStatusExecuting:
		return "🔄"
	default:
		return "⏳"
	}
}

// Summary renders a human-readable report of an executed task tree.
func Summary(task *models.Task) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Task: %s\n", task.Description)
	fmt.Fprintf(&b, "Status: %s\n", task.Status)
	fmt.Fprintf(&b, "Confidence: %.1f%%\n\n", task.Confidence*100)

	if len(task.Subtasks) > 0 {
		b.WriteString("## Subtasks:\n")
		for i, sub := range task.Subtasks {
			fmt.Fprintf(&b, "%d. %s %s - %s\n", i+1, statusIcon(sub.Status), sub.Description, sub.Status)
		}
		b.WriteString("\n")
	}

	toolNames := collectToolNames(task)
	if len(toolNames) > 0 {
		b.WriteString("## Tools Used:\n")
		for _, name := range toolNames {
			fmt.Fprintf(&b, "- %s\n", name)
		}
		b.WriteString("\n")
	}

	switch task.Status {
	case models.TaskStatusCompleted:
		b.WriteString("✅ Task completed successfully!\n")
	case models.TaskStatusFailed:
		b.WriteString("❌ Task failed. Consider trying an alternative approach.\n")
	}

	return b.String()
}

// collectToolNames gathers tool names from the root and its subtasks, in
// invocation order.
func collectToolNames(task *models.Task) []string {
	var names []string
	for _, call := range task.ToolCalls {
		names = append(names, call.Name)
	}
	for _, sub := range task.Subtasks {
		for _, call := range sub.ToolCalls {
			names = append(names, call.Name)
		}
	}
	return names
}
