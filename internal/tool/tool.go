// Package tool defines the executable capabilities the executor invokes.
// The orchestration core treats every tool as an opaque named operation;
// the concrete behaviors live with whoever registers them.
package tool

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/archonlabs/archon/pkg/models"
)

// Error codes for tool failures.
const (
	CodeInvalidParameters = "invalid_parameters"
	CodeExecutionFailed   = "execution_failed"
	CodePermissionDenied  = "permission_denied"
	CodeNotFound          = "not_found"
)

// Error is a tool execution failure with a categorized code.
type Error struct {
	// Tool is the name of the tool that failed.
	Tool string `json:"tool"`
	// Code categorizes the failure.
	Code string `json:"code"`
	// Message describes what went wrong.
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewError creates a tool error.
func NewError(tool, code, message string) *Error {
	return &Error{Tool: tool, Code: code, Message: message}
}

// Tool is a named capability the executor can invoke. Implementations must
// be safe for concurrent use.
type Tool interface {
	// Name returns the unique tool identifier (snake_case).
	Name() string
	// Description returns a human-readable summary of what the tool does.
	Description() string
	// Execute runs the tool with the given parameters. A non-nil error
	// means the invocation failed; the output is only meaningful on success.
	Execute(ctx context.Context, params map[string]any) (*models.ToolOutput, error)
}

// Registry is a concurrency-safe name-indexed tool collection.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool under its name, replacing any previous registration.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns the tool registered under name, or nil if there is none.
func (r *Registry) Get(name string) Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
