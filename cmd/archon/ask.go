package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/archonlabs/archon/internal/graph"
)

var askExplain bool

var askCmd = &cobra.Command{
	Use:   "ask <request>",
	Short: "Process a coding request",
	Long: `Decompose a natural-language request into a task tree, execute it
through the sandbox tool registry, and print an execution summary.

Exits non-zero when the task tree does not complete.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askExplain, "explain", false, "Print the planned tree and execution order before running")
}

func runAsk(cmd *cobra.Command, args []string) error {
	request := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	deps, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	if askExplain {
		if err := explainPlan(deps, request); err != nil {
			return err
		}
	}

	result, err := deps.engine.ProcessRequest(context.Background(), request)
	if err != nil {
		return err
	}

	fmt.Println(result.Summary)

	if !result.Success {
		fmt.Fprintln(os.Stderr, color.RedString("Request did not complete."))
		os.Exit(1)
	}
	return nil
}

// explainPlan decomposes the request without executing it and prints the
// tree plus a dependency-respecting execution order.
func explainPlan(deps *engineDeps, request string) error {
	task, err := deps.planner.Decompose(request)
	if err != nil {
		return err
	}

	fmt.Printf("Plan for: %s\n", task.Description)
	fmt.Printf("Intent: %s  Confidence: %.1f%%\n", task.Intent, task.Confidence*100)

	if len(task.Subtasks) == 0 {
		fmt.Println("Single-step task, no decomposition needed.")
		fmt.Println()
		return nil
	}

	for i, sub := range task.Subtasks {
		fmt.Printf("  %d. [%s] %s\n", i+1, sub.Intent, sub.Description)
	}

	order, err := graph.ExecutionOrder(task.Subtasks)
	if err != nil {
		return err
	}
	position := make(map[string]int, len(task.Subtasks))
	for i, sub := range task.Subtasks {
		position[sub.ID] = i + 1
	}
	var steps []string
	for _, id := range order {
		steps = append(steps, fmt.Sprintf("%d", position[id]))
	}
	fmt.Printf("Execution order: %s\n\n", strings.Join(steps, " -> "))
	return nil
}
