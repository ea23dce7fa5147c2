package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has been created but not planned.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusPlanning indicates the task is being decomposed.
	TaskStatusPlanning TaskStatus = "planning"
	// TaskStatusExecuting indicates the task or its subtasks are running.
	TaskStatusExecuting TaskStatus = "executing"
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusBlocked indicates the task is waiting on unmet dependencies.
	TaskStatusBlocked TaskStatus = "blocked"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusPlanning, TaskStatusExecuting,
		TaskStatusCompleted, TaskStatusFailed, TaskStatusBlocked:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is a final state. Blocked is not
// terminal: a blocked task could run again in a later pass, it just will
// not be revisited within the current one.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// TaskIntent classifies what kind of work a task represents. The intent
// drives tool planning and alternative-approach generation.
type TaskIntent string

const (
	// IntentFileOperation covers reading, writing, editing or deleting files.
	IntentFileOperation TaskIntent = "file_operation"
	// IntentCodeGeneration covers creating or implementing new code.
	IntentCodeGeneration TaskIntent = "code_generation"
	// IntentRefactoring covers restructuring or optimizing existing code.
	IntentRefactoring TaskIntent = "refactoring"
	// IntentBugFix covers diagnosing and fixing defects.
	IntentBugFix TaskIntent = "bug_fix"
	// IntentTesting covers writing or running tests.
	IntentTesting TaskIntent = "testing"
	// IntentDocumentation covers docs, comments and READMEs.
	IntentDocumentation TaskIntent = "documentation"
	// IntentResearch covers searching and analyzing the codebase.
	IntentResearch TaskIntent = "research"
	// IntentBuildOperation covers building, compiling and running.
	IntentBuildOperation TaskIntent = "build_operation"
	// IntentGitOperation covers version-control actions.
	IntentGitOperation TaskIntent = "git_operation"
	// IntentComplex marks multi-step work that needs decomposition.
	IntentComplex TaskIntent = "complex"
)

// Valid returns true if the intent is a known value.
func (i TaskIntent) Valid() bool {
	switch i {
	case IntentFileOperation, IntentCodeGeneration, IntentRefactoring,
		IntentBugFix, IntentTesting, IntentDocumentation, IntentResearch,
		IntentBuildOperation, IntentGitOperation, IntentComplex:
		return true
	default:
		return false
	}
}

// ParseIntent converts a stored intent name back into a TaskIntent.
// Matching is case-insensitive; unknown names map to IntentComplex so
// replayed sequences always yield a usable intent.
func ParseIntent(s string) TaskIntent {
	if i := TaskIntent(strings.ToLower(s)); i.Valid() {
		return i
	}
	return IntentComplex
}

// TaskContext carries everything the planner could extract from the
// request about the surrounding project.
type TaskContext struct {
	// FilesInvolved lists file paths mentioned in the request.
	FilesInvolved []string `json:"files_involved,omitempty"`
	// SymbolsReferenced lists code symbols mentioned in the request.
	SymbolsReferenced []string `json:"symbols_referenced,omitempty"`
	// TestFiles lists files recognized as tests.
	TestFiles []string `json:"test_files,omitempty"`
	// BuildCommands lists build/test commands inferred for the project.
	BuildCommands []string `json:"build_commands,omitempty"`
	// GitBranch is the branch the work targets, if known.
	GitBranch string `json:"git_branch,omitempty"`
	// ProjectType is the inferred project ecosystem (rust, go, ...).
	ProjectType string `json:"project_type,omitempty"`
	// Constraints lists restrictions the request imposes.
	Constraints []string `json:"constraints,omitempty"`
}

// Task is a unit of work in a plan tree. Subtasks execute depth-first in
// declared order; Dependencies reference sibling task IDs only.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`
	// Description is the human-readable statement of the work.
	Description string `json:"description"`
	// Intent classifies the kind of work.
	Intent TaskIntent `json:"intent"`
	// Subtasks are the ordered children of this task.
	Subtasks []*Task `json:"subtasks,omitempty"`
	// Dependencies lists sibling task IDs that must complete first.
	Dependencies []string `json:"dependencies,omitempty"`
	// Status is the current state of the task.
	Status TaskStatus `json:"status"`
	// ToolCalls records the tool invocations issued for this task.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// Outputs records the results of successful tool invocations.
	Outputs []ToolOutput `json:"outputs,omitempty"`
	// Context is the project context extracted at planning time.
	Context TaskContext `json:"context"`
	// Confidence estimates how likely this plan step is to succeed (0-1).
	Confidence float64 `json:"confidence"`
	// RetryCount is the shared retry budget consumed for this tree.
	RetryCount int `json:"retry_count,omitempty"`
	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`
	// CompletedAt is when the task reached a terminal state, if it has.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewTask creates a pending task with a fresh ID. Confidence starts at
// zero; the planner assigns it per decomposition path.
func NewTask(description string, intent TaskIntent) *Task {
	return &Task{
		ID:          uuid.New().String(),
		Description: description,
		Intent:      intent,
		Status:      TaskStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

// Leaf returns true if the task has no subtasks.
func (t *Task) Leaf() bool {
	return len(t.Subtasks) == 0
}

// SubtaskByID returns the direct child with the given ID, or nil.
func (t *Task) SubtaskByID(id string) *Task {
	for _, st := range t.Subtasks {
		if st.ID == id {
			return st
		}
	}
	return nil
}

// Clone returns a deep copy of the task tree. Execution mutates its input,
// so callers that need the original intact hand the executor a clone.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.Subtasks != nil {
		c.Subtasks = make([]*Task, len(t.Subtasks))
		for i, st := range t.Subtasks {
			c.Subtasks[i] = st.Clone()
		}
	}
	c.Dependencies = append([]string(nil), t.Dependencies...)
	if t.ToolCalls != nil {
		c.ToolCalls = make([]ToolCall, len(t.ToolCalls))
		for i, tc := range t.ToolCalls {
			c.ToolCalls[i] = tc.Clone()
		}
	}
	if t.Outputs != nil {
		c.Outputs = make([]ToolOutput, len(t.Outputs))
		for i, out := range t.Outputs {
			c.Outputs[i] = out.Clone()
		}
	}
	c.Context = t.Context.clone()
	if t.CompletedAt != nil {
		done := *t.CompletedAt
		c.CompletedAt = &done
	}
	return &c
}

func (c TaskContext) clone() TaskContext {
	out := c
	out.FilesInvolved = append([]string(nil), c.FilesInvolved...)
	out.SymbolsReferenced = append([]string(nil), c.SymbolsReferenced...)
	out.TestFiles = append([]string(nil), c.TestFiles...)
	out.BuildCommands = append([]string(nil), c.BuildCommands...)
	out.Constraints = append([]string(nil), c.Constraints...)
	return out
}
