// Package executor walks a task tree depth-first, invoking tools for leaf
// tasks and retrying failed subtasks with alternative approaches. Subtasks
// run sequentially in declared order; dependency gating only decides
// whether a subtask runs at all in the current pass.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/archonlabs/archon/internal/tool"
	"github.com/archonlabs/archon/pkg/models"
)

const (
	defaultMaxRetries   = 3
	defaultMaxTreeDepth = 16
)

// searchLimit caps results for planned search_code calls.
const searchLimit = 10

// ErrMaxDepth indicates the tree recursion cap was exceeded. This is an
// infrastructure fault, not a task failure: a pathologically deep or
// endlessly-retried tree aborts loudly instead of exhausting the stack.
var ErrMaxDepth = errors.New("task tree exceeds maximum depth")

// Learner receives execution feedback. The planner implements it.
type Learner interface {
	LearnFromExecution(task *models.Task, success bool) error
}

// Executor runs task trees against a tool registry.
type Executor struct {
	learner    Learner
	tools      *tool.Registry
	maxRetries int
	maxDepth   int
	logger     *DebugLogger
}

// Option configures an Executor.
type Option func(*Executor)

// WithMaxRetries sets the shared per-tree retry budget.
func WithMaxRetries(n int) Option {
	return func(e *Executor) {
		if n >= 0 {
			e.maxRetries = n
		}
	}
}

// WithMaxDepth sets the recursion cap for tree walks.
func WithMaxDepth(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *DebugLogger) Option {
	return func(e *Executor) { e.logger = l }
}

// New creates an executor. The learner receives success/failure feedback
// after every terminal composite outcome.
func New(learner Learner, tools *tool.Registry, opts ...Option) *Executor {
	e := &Executor{
		learner:    learner,
		tools:      tools,
		maxRetries: defaultMaxRetries,
		maxDepth:   defaultMaxTreeDepth,
		logger:     NopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxRetries returns the configured retry budget.
func (e *Executor) MaxRetries() int {
	return e.maxRetries
}

// Execute runs a task tree to a settled state and returns the mutated
// tree. The input is cloned first, so the caller's copy is untouched.
// Tool failures and exhausted retries surface as task status, never as
// a returned error; errors are reserved for infrastructure faults.
func (e *Executor) Execute(ctx context.Context, task *models.Task) (*models.Task, error) {
	run := task.Clone()
	if err := e.execute(ctx, run, 0); err != nil {
		return nil, err
	}
	return run, nil
}

func (e *Executor) execute(ctx context.Context, task *models.Task, depth int) error {
	if depth > e.maxDepth {
		return fmt.Errorf("%w: depth %d at task %q", ErrMaxDepth, depth, task.ID)
	}

	// Settled trees are returned as-is: completed work never re-runs on a
	// direct call, and a failed tree with no retry budget left stays failed.
	if task.Status == models.TaskStatusCompleted {
		return nil
	}
	if task.Status == models.TaskStatusFailed && task.RetryCount >= e.maxRetries {
		return nil
	}

	task.Status = models.TaskStatusExecuting
	e.logger.Log("executing task %s (%s): %s", task.ID, task.Intent, task.Description)

	if task.Leaf() {
		return e.executeTools(ctx, task)
	}

	for i := range task.Subtasks {
		sub := task.Subtasks[i]

		if !dependenciesMet(sub, task.Subtasks) {
			e.logger.Log("subtask %s blocked on unmet dependencies %v", sub.ID, sub.Dependencies)
			sub.Status = models.TaskStatusBlocked
			continue
		}

		if err := e.execute(ctx, sub, depth+1); err != nil {
			return err
		}

		if sub.Status == models.TaskStatusFailed {
			return e.handleFailure(ctx, task, i, depth)
		}
	}

	if allCompleted(task.Subtasks) {
		e.complete(task)
		if err := e.learner.LearnFromExecution(task, true); err != nil {
			return fmt.Errorf("record execution feedback: %w", err)
		}
	}
	// Otherwise some subtask is blocked: the tree stays non-terminal for
	// this pass and the caller sees the partial result.

	return nil
}

// dependenciesMet reports whether every dependency of the subtask names a
// sibling that has completed. Unknown ids are never met, so a malformed
// reference blocks its subtask instead of wedging the walk.
func dependenciesMet(sub *models.Task, siblings []*models.Task) bool {
	for _, depID := range sub.Dependencies {
		met := false
		for _, sibling := range siblings {
			if sibling.ID == depID && sibling.Status == models.TaskStatusCompleted {
				met = true
				break
			}
		}
		if !met {
			return false
		}
	}
	return true
}

func allCompleted(tasks []*models.Task) bool {
	for _, t := range tasks {
		if t.Status != models.TaskStatusCompleted {
			return false
		}
	}
	return true
}

func (e *Executor) complete(task *models.Task) {
	task.Status = models.TaskStatusCompleted
	now := time.Now().UTC()
	task.CompletedAt = &now
}

// handleFailure spends one unit of the tree's retry budget replacing the
// failed subtask with an alternative approach, then re-executes the entire
// parent. The walk revisits every sibling; completed ones short-circuit,
// but any whose status was reset will invoke its tools again, so tools
// must be idempotent. With the budget exhausted the parent fails and the
// failure is recorded.
func (e *Executor) handleFailure(ctx context.Context, task *models.Task, failedIdx, depth int) error {
	failed := task.Subtasks[failedIdx]
	log.Printf("[executor] subtask failed: %s", failed.Description)

	if task.RetryCount < e.maxRetries {
		task.RetryCount++
		e.logger.Log("retrying task %s (attempt %d/%d)", task.ID, task.RetryCount, e.maxRetries)

		task.Subtasks[failedIdx] = alternativeApproach(failed)
		return e.execute(ctx, task, depth)
	}

	task.Status = models.TaskStatusFailed
	if err := e.learner.LearnFromExecution(task, false); err != nil {
		return fmt.Errorf("record execution feedback: %w", err)
	}
	return nil
}

// executeTools runs the intent-keyed tool plan for a leaf task. Calls run
// sequentially with no per-call timeout; the first failure fails the task
// immediately. Tools missing from the registry are skipped with a warning.
func (e *Executor) executeTools(ctx context.Context, task *models.Task) error {
	for _, call := range planToolCalls(task) {
		if err := ctx.Err(); err != nil {
			task.Status = models.TaskStatusFailed
			task.Outputs = append(task.Outputs, models.ToolOutput{Success: false, Error: err.Error()})
			return nil
		}

		t := e.tools.Get(call.Name)
		if t == nil {
			log.Printf("[executor] tool %q not registered, skipping", call.Name)
			continue
		}

		e.logger.Log("task %s invoking tool %s", task.ID, call.Name)
		output, err := t.Execute(ctx, call.Parameters)
		if err != nil {
			log.Printf("[executor] tool %s failed: %v", call.Name, err)
			task.Status = models.TaskStatusFailed
			return nil
		}
		if output == nil || !output.Success {
			log.Printf("[executor] tool %s reported failure", call.Name)
			task.Status = models.TaskStatusFailed
			return nil
		}

		task.ToolCalls = append(task.ToolCalls, call)
		task.Outputs = append(task.Outputs, *output)
	}

	e.complete(task)
	return nil
}

// planToolCalls maps a leaf task's intent to the tools it needs.
func planToolCalls(task *models.Task) []models.ToolCall {
	var calls []models.ToolCall
	lower := strings.ToLower(task.Description)

	switch task.Intent {
	case models.IntentFileOperation:
		if strings.Contains(lower, "read") {
			for _, file := range task.Context.FilesInvolved {
				calls = append(calls, models.ToolCall{
					Name:       "read_file",
					Parameters: map[string]any{"path": file},
				})
			}
		} else if strings.Contains(lower, "write") || strings.Contains(lower, "create") {
			path := ""
			if len(task.Context.FilesInvolved) > 0 {
				path = task.Context.FilesInvolved[0]
			}
			calls = append(calls, models.ToolCall{
				Name:       "write_file",
				Parameters: map[string]any{"path": path, "content": ""},
			})
		}

	case models.IntentCodeGeneration:
		for _, file := range task.Context.FilesInvolved {
			calls = append(calls, models.ToolCall{
				Name:       "read_file",
				Parameters: map[string]any{"path": file},
			})
		}
		calls = append(calls, models.ToolCall{
			Name:       "write_file",
			Parameters: map[string]any{"path": "", "content": ""},
		})

	case models.IntentResearch:
		calls = append(calls, models.ToolCall{
			Name:       "search_code",
			Parameters: map[string]any{"query": task.Description, "limit": searchLimit},
		})

	case models.IntentGitOperation:
		calls = append(calls, models.ToolCall{
			Name:       "git_status",
			Parameters: map[string]any{},
		})

	case models.IntentBuildOperation:
		for _, cmd := range task.Context.BuildCommands {
			fields, err := shellquote.Split(cmd)
			if err != nil {
				fields = strings.Fields(cmd)
			}
			command := ""
			var args []string
			if len(fields) > 0 {
				command = fields[0]
				args = fields[1:]
			}
			calls = append(calls, models.ToolCall{
				Name:       "run_command",
				Parameters: map[string]any{"command": command, "args": args},
			})
		}

	default:
		calls = append(calls, models.ToolCall{
			Name:       "search_code",
			Parameters: map[string]any{"query": task.Description},
		})
	}

	return calls
}
