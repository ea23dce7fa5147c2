package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/archonlabs/archon/internal/learning"
	"github.com/archonlabs/archon/internal/planner"
	"github.com/archonlabs/archon/pkg/models"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Show decomposition patterns learned from past runs",
	Long: `Patterns are learned in memory while the engine runs. This command
rebuilds them from the recorded run history so you can see which request
shapes the planner would reuse.`,
	RunE: runPatterns,
}

func runPatterns(cmd *cobra.Command, args []string) error {
	store, err := openHistoryReadOnly()
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Println("No runs recorded yet.")
		return nil
	}
	defer store.Close()

	runs, err := store.RecentRuns(500)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	patterns := learning.NewStore()
	p := planner.New(patterns)

	// Replay oldest first so running means accumulate in run order.
	for i := len(runs) - 1; i >= 0; i-- {
		run := runs[i]
		if run.TaskJSON == "" {
			continue
		}
		var task models.Task
		if err := json.Unmarshal([]byte(run.TaskJSON), &task); err != nil {
			continue
		}
		if err := p.LearnFromExecution(&task, run.Success); err != nil {
			return fmt.Errorf("replay run %s: %w", run.ID, err)
		}
	}

	snapshot := patterns.Snapshot()
	if len(snapshot) == 0 {
		fmt.Println("No patterns learned yet. Patterns come from successful multi-step runs.")
		return nil
	}

	for _, pat := range snapshot {
		fmt.Printf("%q\n", pat.Trigger)
		fmt.Printf("  steps:   %s\n", strings.Join(pat.TaskSequence, " -> "))
		if len(pat.ToolSequence) > 0 {
			fmt.Printf("  tools:   %s\n", strings.Join(pat.ToolSequence, ", "))
		}
		fmt.Printf("  success: %.0f%%  uses: %d  avg: %s\n",
			pat.SuccessRate*100, pat.UsageCount,
			time.Duration(pat.AvgDurationMS)*time.Millisecond)
	}
	return nil
}
