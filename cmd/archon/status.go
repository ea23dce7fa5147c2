package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/archonlabs/archon/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent run outcomes",
	Long: `Display the most recent recorded runs and their outcomes.

Task trees only live for the duration of one invocation, so this reads
the run history database (project-local if present, global otherwise).`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := openHistoryReadOnly()
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Println("No runs recorded yet. Run 'archon ask <request>' to start.")
		return nil
	}
	defer store.Close()

	runs, err := store.RecentRuns(10)
	if err != nil {
		return fmt.Errorf("list recent runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet. Run 'archon ask <request>' to start.")
		return nil
	}

	fmt.Println("Recent runs:")
	for _, run := range runs {
		fmt.Printf("  %s  %s  %s  (%d subtasks, %dms)\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			statusLabel(run.Status),
			truncate(run.Request, 60),
			run.SubtaskCount,
			run.DurationMS,
		)
	}
	return nil
}

// statusLabel colors a task status for terminal output.
func statusLabel(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusCompleted:
		return color.GreenString("%-9s", status)
	case models.TaskStatusFailed:
		return color.RedString("%-9s", status)
	case models.TaskStatusBlocked:
		return color.YellowString("%-9s", status)
	default:
		return fmt.Sprintf("%-9s", status)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
