package graph

import (
	"errors"
	"strings"
	"testing"

	"github.com/archonlabs/archon/pkg/models"
)

func makeTask(id string, deps ...string) *models.Task {
	return &models.Task{
		ID:           id,
		Description:  "task " + id,
		Intent:       models.IntentResearch,
		Dependencies: deps,
		Status:       models.TaskStatusPending,
	}
}

func TestValidateSiblings(t *testing.T) {
	tests := []struct {
		name    string
		tasks   []*models.Task
		wantErr error
	}{
		{
			name:  "empty set is valid",
			tasks: nil,
		},
		{
			name:  "no dependencies is valid",
			tasks: []*models.Task{makeTask("a"), makeTask("b")},
		},
		{
			name:  "linear chain is valid",
			tasks: []*models.Task{makeTask("a"), makeTask("b", "a"), makeTask("c", "b")},
		},
		{
			name:  "diamond is valid",
			tasks: []*models.Task{makeTask("a"), makeTask("b", "a"), makeTask("c", "a"), makeTask("d", "b", "c")},
		},
		{
			name:    "unknown dependency rejected",
			tasks:   []*models.Task{makeTask("a", "ghost")},
			wantErr: ErrUnknownDependency,
		},
		{
			name:    "self dependency rejected",
			tasks:   []*models.Task{makeTask("a", "a")},
			wantErr: ErrCycleDetected,
		},
		{
			name:    "two-node cycle rejected",
			tasks:   []*models.Task{makeTask("a", "b"), makeTask("b", "a")},
			wantErr: ErrCycleDetected,
		},
		{
			name: "longer cycle rejected",
			tasks: []*models.Task{
				makeTask("a", "c"), makeTask("b", "a"), makeTask("c", "b"),
			},
			wantErr: ErrCycleDetected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSiblings(tt.tasks)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSiblings() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSiblings() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSiblings_CyclePath(t *testing.T) {
	tasks := []*models.Task{makeTask("a", "b"), makeTask("b", "a")}

	err := ValidateSiblings(tasks)
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	// The error names the cycle so a bad plan can be diagnosed.
	if !strings.Contains(err.Error(), "->") {
		t.Errorf("cycle error %q should include the offending path", err.Error())
	}
}

func TestExecutionOrder(t *testing.T) {
	tests := []struct {
		name  string
		tasks []*models.Task
		want  []string
	}{
		{
			name:  "independent tasks keep declared order",
			tasks: []*models.Task{makeTask("a"), makeTask("b"), makeTask("c")},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "dependency pulled ahead of dependent",
			tasks: []*models.Task{makeTask("a", "b"), makeTask("b")},
			want:  []string{"b", "a"},
		},
		{
			name:  "linear chain unchanged",
			tasks: []*models.Task{makeTask("a"), makeTask("b", "a"), makeTask("c", "b")},
			want:  []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExecutionOrder(tt.tasks)
			if err != nil {
				t.Fatalf("ExecutionOrder() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ExecutionOrder() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ExecutionOrder()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExecutionOrder_RejectsCycle(t *testing.T) {
	tasks := []*models.Task{makeTask("a", "b"), makeTask("b", "a")}

	if _, err := ExecutionOrder(tasks); !errors.Is(err, ErrCycleDetected) {
		t.Errorf("ExecutionOrder() error = %v, want %v", err, ErrCycleDetected)
	}
}
