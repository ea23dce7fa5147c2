package models

// ToolCall records a single tool invocation planned or issued for a task.
type ToolCall struct {
	// Name is the registered tool name.
	Name string `json:"name"`
	// Parameters are the arguments passed to the tool.
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Clone returns a copy with its own parameter map.
func (c ToolCall) Clone() ToolCall {
	out := ToolCall{Name: c.Name}
	if c.Parameters != nil {
		out.Parameters = make(map[string]any, len(c.Parameters))
		for k, v := range c.Parameters {
			out.Parameters[k] = v
		}
	}
	return out
}

// ToolOutput is the result of one tool invocation.
type ToolOutput struct {
	// Success reports whether the tool ran without error.
	Success bool `json:"success"`
	// Result holds the tool's structured output.
	Result map[string]any `json:"result,omitempty"`
	// Error holds the failure message when Success is false.
	Error string `json:"error,omitempty"`
}

// Clone returns a copy with its own result map.
func (o ToolOutput) Clone() ToolOutput {
	out := ToolOutput{Success: o.Success, Error: o.Error}
	if o.Result != nil {
		out.Result = make(map[string]any, len(o.Result))
		for k, v := range o.Result {
			out.Result[k] = v
		}
	}
	return out
}
