// Package graph validates the dependency structure of a decomposed task's
// subtasks. Dependencies are sibling-scoped: every id must name another
// subtask of the same parent, and the edges must form a DAG.
package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/archonlabs/archon/pkg/models"
)

// ErrCycleDetected indicates a circular dependency among sibling subtasks.
var ErrCycleDetected = errors.New("circular dependency detected")

// ErrUnknownDependency indicates a dependency id that names no sibling.
var ErrUnknownDependency = errors.New("dependency references unknown sibling")

// ValidateSiblings checks that every dependency of every task references a
// sibling in the same slice and that the dependency edges are acyclic.
// A malformed set would otherwise leave subtasks permanently blocked with
// no diagnosis, so planners reject it up front.
func ValidateSiblings(tasks []*models.Task) error {
	byID := make(map[string]*models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	for _, t := range tasks {
		for _, depID := range t.Dependencies {
			if _, ok := byID[depID]; !ok {
				return fmt.Errorf("%w: task %q depends on %q", ErrUnknownDependency, t.ID, depID)
			}
		}
	}

	// Color states: 0 = unvisited, 1 = visiting, 2 = done.
	state := make(map[string]int, len(tasks))

	var visit func(id string, path []string) error
	visit = func(id string, path []string) error {
		switch state[id] {
		case 2:
			return nil
		case 1:
			cycleStart := 0
			for i, p := range path {
				if p == id {
					cycleStart = i
					break
				}
			}
			cycle := append(path[cycleStart:], id)
			return fmt.Errorf("%w: %s", ErrCycleDetected, strings.Join(cycle, " -> "))
		}

		state[id] = 1
		for _, depID := range byID[id].Dependencies {
			if err := visit(depID, append(path, id)); err != nil {
				return err
			}
		}
		state[id] = 2
		return nil
	}

	for _, t := range tasks {
		if state[t.ID] == 0 {
			if err := visit(t.ID, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExecutionOrder returns sibling ids in an order where every dependency
// precedes its dependents. The executor itself walks subtasks in declared
// order; this is a diagnostic surface for plan inspection.
func ExecutionOrder(tasks []*models.Task) ([]string, error) {
	if err := ValidateSiblings(tasks); err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	visited := make(map[string]bool, len(tasks))
	order := make([]string, 0, len(tasks))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, depID := range byID[id].Dependencies {
			visit(depID)
		}
		order = append(order, id)
	}

	// Walk in declared order so independent tasks keep their position.
	for _, t := range tasks {
		visit(t.ID)
	}
	return order, nil
}
