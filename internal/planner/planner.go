// Package planner turns a free-form request into an executable task tree.
// Decomposition first tries a learned pattern, then the playbook for
// complex requests, and falls back to a single leaf task.
package planner

import (
	"fmt"
	"log"
	"time"

	"github.com/archonlabs/archon/internal/graph"
	"github.com/archonlabs/archon/internal/intent"
	"github.com/archonlabs/archon/internal/learning"
	"github.com/archonlabs/archon/pkg/models"
)

// Confidence assigned per decomposition path. Pattern-derived plans carry
// the pattern's success rate instead.
const (
	complexConfidence = 0.8
	simpleConfidence  = 0.9
)

// defaultMaxSteps bounds how many subtasks a decomposition may produce
// before the plan is rejected as malformed.
const defaultMaxSteps = 32

// Planner decomposes requests and records execution feedback.
type Planner struct {
	classifier intent.Classifier
	store      *learning.Store
	playbook   *Playbook
	maxSteps   int
}

// Option configures a Planner.
type Option func(*Planner)

// WithClassifier replaces the default keyword classifier.
func WithClassifier(c intent.Classifier) Option {
	return func(p *Planner) { p.classifier = c }
}

// WithPlaybook replaces the default playbook.
func WithPlaybook(pb *Playbook) Option {
	return func(p *Planner) { p.playbook = pb }
}

// WithMaxSteps bounds the subtask count per decomposition.
func WithMaxSteps(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.maxSteps = n
		}
	}
}

// New creates a planner backed by the given pattern store.
func New(store *learning.Store, opts ...Option) *Planner {
	p := &Planner{
		classifier: intent.NewKeywordClassifier(),
		store:      store,
		playbook:   NewPlaybook(),
		maxSteps:   defaultMaxSteps,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Store returns the planner's pattern store.
func (p *Planner) Store() *learning.Store {
	return p.store
}

// Decompose turns a request into a task tree. The returned root is always
// pending: planning status is only held while subtasks are being populated.
func (p *Planner) Decompose(request string) (*models.Task, error) {
	taskIntent := p.classifier.Classify(request)

	task := models.NewTask(request, taskIntent)
	task.Status = models.TaskStatusPlanning
	task.Context = intent.AnalyzeContext(request)

	if pattern, ok := p.store.BestMatch(request); ok {
		return p.applyPattern(task, pattern)
	}

	if taskIntent == models.IntentComplex {
		return p.decomposeComplex(task)
	}

	task.Status = models.TaskStatusPending
	task.Confidence = simpleConfidence
	return task, nil
}

// applyPattern replays a learned task sequence as a linear chain of
// subtasks, each depending on its predecessor.
func (p *Planner) applyPattern(task *models.Task, pattern models.LearnedPattern) (*models.Task, error) {
	log.Printf("[planner] applying pattern %q (success rate %.0f%%)", pattern.Trigger, pattern.SuccessRate*100)

	for i, intentName := range pattern.TaskSequence {
		sub := models.NewTask(
			fmt.Sprintf("%s (step %d of pattern)", intentName, i+1),
			models.ParseIntent(intentName),
		)
		sub.Context = task.Context
		sub.Confidence = pattern.SuccessRate
		if i > 0 {
			sub.Dependencies = []string{task.Subtasks[i-1].ID}
		}
		task.Subtasks = append(task.Subtasks, sub)
	}

	task.Confidence = pattern.SuccessRate
	return p.finishDecomposition(task)
}

// decomposeComplex expands a complex request through the playbook into a
// linear chain of subtasks, classifying each step on its own text.
func (p *Planner) decomposeComplex(task *models.Task) (*models.Task, error) {
	for i, step := range p.playbook.Steps(task.Description) {
		sub := models.NewTask(step, p.classifier.Classify(step))
		sub.Context = task.Context
		sub.Confidence = complexConfidence
		if i > 0 {
			sub.Dependencies = []string{task.Subtasks[i-1].ID}
		}
		task.Subtasks = append(task.Subtasks, sub)
	}

	return p.finishDecomposition(task)
}

// finishDecomposition validates the sibling dependency structure and
// returns the tree in pending state. A violation is a planning error the
// caller must surface, not a status.
func (p *Planner) finishDecomposition(task *models.Task) (*models.Task, error) {
	if len(task.Subtasks) > p.maxSteps {
		return nil, fmt.Errorf("decomposition of %q produced %d subtasks, limit %d", task.Description, len(task.Subtasks), p.maxSteps)
	}
	if err := graph.ValidateSiblings(task.Subtasks); err != nil {
		return nil, fmt.Errorf("invalid decomposition of %q: %w", task.Description, err)
	}
	task.Status = models.TaskStatusPending
	return task, nil
}

// LearnFromExecution records feedback from a finished tree. Only
// successful multi-subtask executions reinforce a pattern; everything
// else is a no-op.
func (p *Planner) LearnFromExecution(task *models.Task, success bool) error {
	if !success || len(task.Subtasks) == 0 {
		return nil
	}

	trigger := learning.Trigger(task.Description)
	if trigger == "" {
		return nil
	}

	taskSeq := make([]string, len(task.Subtasks))
	for i, sub := range task.Subtasks {
		taskSeq[i] = string(sub.Intent)
	}

	var toolSeq []string
	for _, call := range task.ToolCalls {
		toolSeq = append(toolSeq, call.Name)
	}

	var duration time.Duration
	if task.CompletedAt != nil {
		duration = task.CompletedAt.Sub(task.CreatedAt)
	}

	p.store.Record(trigger, taskSeq, toolSeq, duration)
	return nil
}
