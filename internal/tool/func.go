package tool

import (
	"context"

	"github.com/archonlabs/archon/pkg/models"
)

// Func adapts a plain function into a Tool. It carries no mutable state
// after construction, so it is safe for concurrent use.
type Func struct {
	name        string
	description string
	fn          func(ctx context.Context, params map[string]any) (*models.ToolOutput, error)
}

// NewFunc wraps fn as a tool with the given name and description.
func NewFunc(name, description string, fn func(ctx context.Context, params map[string]any) (*models.ToolOutput, error)) *Func {
	return &Func{name: name, description: description, fn: fn}
}

// Name returns the tool identifier.
func (f *Func) Name() string { return f.name }

// Description returns the tool summary.
func (f *Func) Description() string { return f.description }

// Execute invokes the wrapped function.
func (f *Func) Execute(ctx context.Context, params map[string]any) (*models.ToolOutput, error) {
	return f.fn(ctx, params)
}
