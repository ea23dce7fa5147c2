package reasoning

import (
	"context"
	"strings"
	"testing"

	"github.com/archonlabs/archon/internal/executor"
	"github.com/archonlabs/archon/internal/history"
	"github.com/archonlabs/archon/internal/learning"
	"github.com/archonlabs/archon/internal/planner"
	"github.com/archonlabs/archon/internal/tool"
	"github.com/archonlabs/archon/pkg/models"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	p := planner.New(learning.NewStore())
	x := executor.New(p, tool.NewSandboxRegistry())
	return New(p, x, opts...)
}

func TestProcessRequest_SimpleSuccess(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.ProcessRequest(context.Background(), "Search for usages of the session type")
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}

	if !result.Success {
		t.Error("Success = false, want true")
	}
	if result.Task.Status != models.TaskStatusCompleted {
		t.Errorf("Task.Status = %q, want %q", result.Task.Status, models.TaskStatusCompleted)
	}
	if !strings.Contains(result.Summary, "# Task: Search for usages of the session type") {
		t.Errorf("Summary missing task line:\n%s", result.Summary)
	}
	if !strings.Contains(result.Summary, "✅ Task completed successfully!") {
		t.Errorf("Summary missing success banner:\n%s", result.Summary)
	}
}

func TestProcessRequest_ComplexDecomposition(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.ProcessRequest(context.Background(), "Review the codebase and suggest architectural improvements")
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}

	if len(result.Task.Subtasks) != 5 {
		t.Fatalf("len(Subtasks) = %d, want 5", len(result.Task.Subtasks))
	}
	if !result.Success {
		t.Error("Success = false, want true")
	}
	if !strings.Contains(result.Summary, "## Subtasks:") {
		t.Errorf("Summary missing subtask section:\n%s", result.Summary)
	}
	if !strings.Contains(result.Summary, "## Tools Used:") {
		t.Errorf("Summary missing tools section:\n%s", result.Summary)
	}
}

func TestProcessRequest_FailureSurfacesAsSuccessFalse(t *testing.T) {
	p := planner.New(learning.NewStore())
	// Empty registry fails nothing; register a failing search_code so the
	// leaf plan errors out.
	r := tool.NewRegistry()
	r.Register(tool.NewFunc("search_code", "", func(ctx context.Context, params map[string]any) (*models.ToolOutput, error) {
		return nil, tool.NewError("search_code", tool.CodeExecutionFailed, "down")
	}))
	x := executor.New(p, r)
	e := New(p, x)

	result, err := e.ProcessRequest(context.Background(), "Search for usages of the session type")
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v (tool failures are status, not errors)", err)
	}
	if result.Success {
		t.Error("Success = true, want false")
	}
	if !strings.Contains(result.Summary, "❌ Task failed. Consider trying an alternative approach.") {
		t.Errorf("Summary missing failure banner:\n%s", result.Summary)
	}
}

func TestTaskStatuses_ReflectExecutedTree(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.ProcessRequest(context.Background(), "Search for usages of the session type"); err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}

	statuses := e.TaskStatuses()
	if len(statuses) != 1 {
		t.Fatalf("len(statuses) = %d, want 1", len(statuses))
	}
	if statuses[0] != models.TaskStatusCompleted {
		t.Errorf("statuses[0] = %q, want %q (executed tree swapped into the queue)", statuses[0], models.TaskStatusCompleted)
	}
}

func TestCancelTask(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.ProcessRequest(context.Background(), "Search for usages of the session type")
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}

	if !e.CancelTask(result.Task.ID) {
		t.Error("CancelTask(known id) = false, want true")
	}
	if len(e.TaskStatuses()) != 0 {
		t.Errorf("len(statuses) after cancel = %d, want 0", len(e.TaskStatuses()))
	}
	if e.CancelTask(result.Task.ID) {
		t.Error("CancelTask(removed id) = true, want false")
	}
	if e.CancelTask("no-such-id") {
		t.Error("CancelTask(unknown id) = true, want false")
	}
}

func TestActiveTasks_ReturnsCopies(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.ProcessRequest(context.Background(), "Search for usages of the session type"); err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}

	tasks := e.ActiveTasks()
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	tasks[0].Status = models.TaskStatusFailed

	if got := e.TaskStatuses()[0]; got != models.TaskStatusCompleted {
		t.Errorf("mutating the snapshot changed engine state: status = %q", got)
	}
}

// captureRecorder remembers the last recorded run.
type captureRecorder struct {
	runs []history.Run
}

func (r *captureRecorder) RecordRun(run history.Run) error {
	r.runs = append(r.runs, run)
	return nil
}

func TestProcessRequest_RecordsRun(t *testing.T) {
	rec := &captureRecorder{}
	e := newTestEngine(t, WithRecorder(rec))

	if _, err := e.ProcessRequest(context.Background(), "Search for usages of the session type"); err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}

	if len(rec.runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(rec.runs))
	}
	run := rec.runs[0]
	if run.Request != "Search for usages of the session type" {
		t.Errorf("run.Request = %q", run.Request)
	}
	if !run.Success {
		t.Error("run.Success = false, want true")
	}
	if run.Status != models.TaskStatusCompleted {
		t.Errorf("run.Status = %q, want %q", run.Status, models.TaskStatusCompleted)
	}
}

func TestSummary_BlockedSubtask(t *testing.T) {
	task := models.NewTask("Chained work", models.IntentComplex)
	task.Status = models.TaskStatusExecuting
	blocked := models.NewTask("Stuck step", models.IntentResearch)
	blocked.Status = models.TaskStatusBlocked
	task.Subtasks = []*models.Task{blocked}

	s := Summary(task)
	if !strings.Contains(s, "⏸️ Stuck step - blocked") {
		t.Errorf("Summary missing blocked line:\n%s", s)
	}
	if strings.Contains(s, "✅ Task completed") || strings.Contains(s, "❌ Task failed") {
		t.Errorf("non-terminal tree got a terminal banner:\n%s", s)
	}
}

func TestSummary_ConfidencePercent(t *testing.T) {
	task := models.NewTask("Fix the login bug", models.IntentBugFix)
	task.Status = models.TaskStatusCompleted
	task.Confidence = 0.9

	s := Summary(task)
	if !strings.Contains(s, "Confidence: 90.0%") {
		t.Errorf("Summary missing confidence line:\n%s", s)
	}
}
