package tool

import (
	"context"

	"github.com/archonlabs/archon/pkg/models"
)

// NewSandboxRegistry returns a registry with simulated versions of the
// standard tool set. Each tool succeeds and echoes its parameters without
// touching files, processes or the network, so the full planning and
// execution pipeline can run anywhere. The simulations are idempotent,
// which the executor's whole-tree retry re-execution relies on.
func NewSandboxRegistry() *Registry {
	r := NewRegistry()

	r.Register(NewFunc("read_file", "Read a file from the workspace (simulated)",
		func(ctx context.Context, params map[string]any) (*models.ToolOutput, error) {
			return echo("read_file", params), nil
		}))

	r.Register(NewFunc("write_file", "Write a file to the workspace (simulated)",
		func(ctx context.Context, params map[string]any) (*models.ToolOutput, error) {
			return echo("write_file", params), nil
		}))

	r.Register(NewFunc("search_code", "Search the codebase (simulated)",
		func(ctx context.Context, params map[string]any) (*models.ToolOutput, error) {
			out := echo("search_code", params)
			out.Result["matches"] = []any{}
			return out, nil
		}))

	r.Register(NewFunc("git_status", "Show working tree status (simulated)",
		func(ctx context.Context, params map[string]any) (*models.ToolOutput, error) {
			out := echo("git_status", params)
			out.Result["clean"] = true
			return out, nil
		}))

	r.Register(NewFunc("run_command", "Run a command (simulated)",
		func(ctx context.Context, params map[string]any) (*models.ToolOutput, error) {
			out := echo("run_command", params)
			out.Result["exit_code"] = 0
			return out, nil
		}))

	return r
}

func echo(name string, params map[string]any) *models.ToolOutput {
	result := map[string]any{"tool": name, "simulated": true}
	for k, v := range params {
		result[k] = v
	}
	return &models.ToolOutput{Success: true, Result: result}
}
