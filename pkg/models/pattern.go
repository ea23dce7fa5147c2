package models

import "time"

// LearnedPattern captures a decomposition that executed successfully, keyed
// by a request trigger. Patterns only ever record successes, so SuccessRate
// stays at 1.0 under the current feedback rules; the field exists so the
// planner can rank patterns if that ever changes.
type LearnedPattern struct {
	// Trigger is the normalized request prefix this pattern matches.
	Trigger string `json:"trigger"`
	// TaskSequence is the ordered list of subtask intent names.
	TaskSequence []string `json:"task_sequence"`
	// ToolSequence is the ordered list of tool names the run used.
	ToolSequence []string `json:"tool_sequence,omitempty"`
	// SuccessRate is the running mean of recorded outcomes (0-1).
	SuccessRate float64 `json:"success_rate"`
	// AvgDurationMS is the running mean execution time in milliseconds.
	AvgDurationMS int64 `json:"avg_duration_ms"`
	// UsageCount is how many successful runs reinforced this pattern.
	UsageCount int `json:"usage_count"`
	// LastUsed is when the pattern was last reinforced.
	LastUsed time.Time `json:"last_used"`
}

// Clone returns a copy with its own sequence slices.
func (p LearnedPattern) Clone() LearnedPattern {
	out := p
	out.TaskSequence = append([]string(nil), p.TaskSequence...)
	out.ToolSequence = append([]string(nil), p.ToolSequence...)
	return out
}
