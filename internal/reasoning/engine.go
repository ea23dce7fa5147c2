// Package reasoning coordinates planning and execution behind the single
// ProcessRequest entry point front-ends call into.
package reasoning

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/archonlabs/archon/internal/executor"
	"github.com/archonlabs/archon/internal/history"
	"github.com/archonlabs/archon/internal/planner"
	"github.com/archonlabs/archon/pkg/models"
)

// Result is the outcome of one processed request.
type Result struct {
	// Task is the executed task tree.
	Task *models.Task `json:"task"`
	// Summary is the human-readable execution report.
	Summary string `json:"summary"`
	// Success reports whether the tree reached completed.
	Success bool `json:"success"`
}

// Recorder persists finished runs. history.Store implements it; a nil
// recorder disables persistence.
type Recorder interface {
	RecordRun(run history.Run) error
}

// Engine wires the planner and executor together and tracks in-flight
// task trees.
type Engine struct {
	planner  *planner.Planner
	executor *executor.Executor
	recorder Recorder

	mu     sync.RWMutex
	active []*models.Task
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder enables run persistence.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// New creates an engine over the given planner and executor.
func New(p *planner.Planner, x *executor.Executor, opts ...Option) *Engine {
	e := &Engine{planner: p, executor: x}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessRequest decomposes a request, executes the resulting tree and
// renders a summary. Tool failures and exhausted retries surface through
// Success and the summary; a returned error means planning or
// infrastructure failed and no execution outcome exists.
func (e *Engine) ProcessRequest(ctx context.Context, request string) (*Result, error) {
	startedAt := time.Now().UTC()

	task, err := e.planner.Decompose(request)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.active = append(e.active, task)
	e.mu.Unlock()

	executed, err := e.executor.Execute(ctx, task)
	if err != nil {
		return nil, err
	}

	// The executor worked on a clone; swap it back in so status queries
	// reflect the real outcome rather than the planned tree.
	e.swapActive(task.ID, executed)

	summary := Summary(executed)
	success := executed.Status == models.TaskStatusCompleted

	if e.recorder != nil {
		run := history.NewRun(executed, request, summary, success, startedAt, time.Now().UTC())
		if err := e.recorder.RecordRun(run); err != nil {
			log.Printf("[reasoning] record run: %v", err)
		}
	}

	return &Result{Task: executed, Summary: summary, Success: success}, nil
}

// TaskStatuses returns a snapshot of every tracked task's status, in
// insertion order.
func (e *Engine) TaskStatuses() []models.TaskStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()

	statuses := make([]models.TaskStatus, len(e.active))
	for i, t := range e.active {
		statuses[i] = t.Status
	}
	return statuses
}

// ActiveTasks returns a deep-copied snapshot of the tracked task trees.
func (e *Engine) ActiveTasks() []*models.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tasks := make([]*models.Task, len(e.active))
	for i, t := range e.active {
		tasks[i] = t.Clone()
	}
	return tasks
}

// CancelTask stops tracking the task with the given id and reports whether
// it was found. This is best-effort and non-preemptive: an execution
// already in progress is unaffected.
func (e *Engine) CancelTask(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, t := range e.active {
		if t.ID == id {
			e.active = append(e.active[:i], e.active[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Engine) swapActive(id string, executed *models.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, t := range e.active {
		if t.ID == id {
			e.active[i] = executed
			return
		}
	}
}
