package main

import (
	"testing"

	"github.com/archonlabs/archon/internal/config"
	"github.com/archonlabs/archon/pkg/models"
)

func TestGetConfigValue(t *testing.T) {
	cfg := config.Default()
	cfg.Planner.PlaybookPath = "/etc/archon/playbook.yaml"

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"max retries", "defaults.max_retries", "3"},
		{"max plan steps", "defaults.max_plan_steps", "32"},
		{"max tree depth", "defaults.max_tree_depth", "16"},
		{"playbook path", "planner.playbook_path", "/etc/archon/playbook.yaml"},
		{"history enabled", "history.enabled", "true"},
		{"unset history path", "history.path", "(not set)"},
		{"key is case-insensitive", "Defaults.Max_Retries", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := getConfigValue(cfg, tt.key)
			if err != nil {
				t.Fatalf("getConfigValue(%q) error: %v", tt.key, err)
			}
			if result != tt.expected {
				t.Errorf("getConfigValue(%q) = %q, want %q", tt.key, result, tt.expected)
			}
		})
	}
}

func TestGetConfigValue_UnknownKey(t *testing.T) {
	if _, err := getConfigValue(config.Default(), "nope.nothing"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(*config.Config) bool
	}{
		{
			name:  "set max retries",
			key:   "defaults.max_retries",
			value: "5",
			check: func(c *config.Config) bool { return c.Defaults.MaxRetries == 5 },
		},
		{
			name:    "negative max retries rejected",
			key:     "defaults.max_retries",
			value:   "-1",
			wantErr: true,
		},
		{
			name:    "zero plan steps rejected",
			key:     "defaults.max_plan_steps",
			value:   "0",
			wantErr: true,
		},
		{
			name:  "disable history",
			key:   "history.enabled",
			value: "false",
			check: func(c *config.Config) bool { return !c.History.Enabled },
		},
		{
			name:    "bad boolean rejected",
			key:     "history.enabled",
			value:   "maybe",
			wantErr: true,
		},
		{
			name:    "unknown key rejected",
			key:     "nope.nothing",
			value:   "x",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			err := setConfigValue(cfg, tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Errorf("setConfigValue(%q, %q) expected error", tt.key, tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("setConfigValue(%q, %q) error: %v", tt.key, tt.value, err)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("setConfigValue(%q, %q) did not apply", tt.key, tt.value)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"short string unchanged", "abc", 10, "abc"},
		{"exact length unchanged", "abcde", 5, "abcde"},
		{"long string truncated", "abcdefghij", 8, "abcde..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.max); got != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
			}
		})
	}
}

func TestStatusLabel_Width(t *testing.T) {
	// Labels pad to a fixed width so run listings line up.
	for _, status := range []models.TaskStatus{
		models.TaskStatusPending,
		models.TaskStatusCompleted,
		models.TaskStatusFailed,
		models.TaskStatusBlocked,
	} {
		if len(statusLabel(status)) < 9 {
			t.Errorf("statusLabel(%q) shorter than field width", status)
		}
	}
}
