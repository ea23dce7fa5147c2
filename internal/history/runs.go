package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/archonlabs/archon/pkg/models"
)

// Run is one persisted request execution.
type Run struct {
	ID           string
	Request      string
	Intent       models.TaskIntent
	Status       models.TaskStatus
	Success      bool
	Confidence   float64
	SubtaskCount int
	ToolCalls    []string
	Summary      string
	TaskJSON     string
	StartedAt    time.Time
	FinishedAt   time.Time
	DurationMS   int64
}

// NewRun builds a run record from an executed task tree.
func NewRun(task *models.Task, request, summary string, success bool, startedAt, finishedAt time.Time) Run {
	var toolNames []string
	for _, call := range task.ToolCalls {
		toolNames = append(toolNames, call.Name)
	}
	for _, sub := range task.Subtasks {
		for _, call := range sub.ToolCalls {
			toolNames = append(toolNames, call.Name)
		}
	}

	taskJSON := ""
	if data, err := json.Marshal(task); err == nil {
		taskJSON = string(data)
	}

	return Run{
		ID:           uuid.New().String(),
		Request:      request,
		Intent:       task.Intent,
		Status:       task.Status,
		Success:      success,
		Confidence:   task.Confidence,
		SubtaskCount: len(task.Subtasks),
		ToolCalls:    toolNames,
		Summary:      summary,
		TaskJSON:     taskJSON,
		StartedAt:    startedAt,
		FinishedAt:   finishedAt,
		DurationMS:   finishedAt.Sub(startedAt).Milliseconds(),
	}
}

// RecordRun inserts a run record.
func (s *Store) RecordRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(`
		INSERT INTO runs (id, request, intent, status, success, confidence,
			subtask_count, tool_calls, summary, task_json,
			started_at, finished_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.Request, string(run.Intent), string(run.Status),
		boolToInt(run.Success), run.Confidence, run.SubtaskCount,
		strings.Join(run.ToolCalls, ","), run.Summary, run.TaskJSON,
		formatTime(run.StartedAt), formatTime(run.FinishedAt), run.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun returns the run with the given id, or nil if it does not exist.
func (s *Store) GetRun(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.conn.QueryRow(`
		SELECT id, request, intent, status, success, confidence,
			subtask_count, tool_calls, summary, task_json,
			started_at, finished_at, duration_ms
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.conn.Query(`
		SELECT id, request, intent, status, success, confidence,
			subtask_count, tool_calls, summary, task_json,
			started_at, finished_at, duration_ms
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run                 Run
		intent, status      string
		success             int
		toolCalls           sql.NullString
		summary, taskJSON   sql.NullString
		startedAt, finished string
	)
	err := sc.Scan(&run.ID, &run.Request, &intent, &status, &success,
		&run.Confidence, &run.SubtaskCount, &toolCalls, &summary, &taskJSON,
		&startedAt, &finished, &run.DurationMS)
	if err != nil {
		return nil, err
	}

	run.Intent = models.TaskIntent(intent)
	run.Status = models.TaskStatus(status)
	run.Success = success != 0
	if toolCalls.Valid && toolCalls.String != "" {
		run.ToolCalls = strings.Split(toolCalls.String, ",")
	}
	run.Summary = summary.String
	run.TaskJSON = taskJSON.String

	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = parseTime(finished); err != nil {
		return nil, fmt.Errorf("parse finished_at: %w", err)
	}
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
