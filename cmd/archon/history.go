package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the stored summary of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	historyCmd.AddCommand(historyShowCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistoryReadOnly()
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Println("No runs recorded yet.")
		return nil
	}
	defer store.Close()

	runs, err := store.RecentRuns(historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		tools := "-"
		if len(run.ToolCalls) > 0 {
			tools = strings.Join(run.ToolCalls, ",")
		}
		fmt.Printf("%s  %s  %s  %s  tools=%s\n",
			run.ID[:8],
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			statusLabel(run.Status),
			truncate(run.Request, 50),
			truncate(tools, 40),
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistoryReadOnly()
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Println("No runs recorded yet.")
		return nil
	}
	defer store.Close()

	id := args[0]
	run, err := store.GetRun(id)
	if err != nil {
		return err
	}
	if run == nil {
		// Allow the short prefix printed by the list view.
		runs, err := store.RecentRuns(200)
		if err != nil {
			return err
		}
		for _, r := range runs {
			if strings.HasPrefix(r.ID, id) {
				run = r
				break
			}
		}
	}
	if run == nil {
		return fmt.Errorf("no run with id %q", id)
	}

	fmt.Printf("Run %s\n", run.ID)
	fmt.Printf("Request: %s\n", run.Request)
	fmt.Printf("Started: %s  Duration: %dms\n\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.DurationMS)
	fmt.Println(run.Summary)
	return nil
}
