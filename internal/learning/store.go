// Package learning holds the in-memory store of decompositions that
// executed successfully. Patterns live for the process lifetime only;
// nothing here touches disk.
package learning

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/archonlabs/archon/pkg/models"
)

// triggerWords is how many leading words of a description form its
// pattern lookup key.
const triggerWords = 5

// Trigger normalizes a description into a pattern key: the first five
// whitespace-separated words, lower-cased.
func Trigger(description string) string {
	words := strings.Fields(description)
	if len(words) > triggerWords {
		words = words[:triggerWords]
	}
	return strings.ToLower(strings.Join(words, " "))
}

// Store is a concurrency-safe pattern map keyed by trigger. Reads take the
// shared lock and return copies, so callers never observe a half-written
// pattern and cannot mutate stored state.
type Store struct {
	mu       sync.RWMutex
	patterns map[string]models.LearnedPattern
}

// NewStore returns an empty pattern store.
func NewStore() *Store {
	return &Store{patterns: make(map[string]models.LearnedPattern)}
}

// BestMatch returns the stored pattern whose trigger is a case-insensitive
// substring of the request, picking the highest success rate among matches.
// Ties break toward the lexically smallest trigger so planning stays
// deterministic.
func (s *Store) BestMatch(request string) (models.LearnedPattern, bool) {
	lower := strings.ToLower(request)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best  models.LearnedPattern
		found bool
	)
	for _, trigger := range s.sortedTriggersLocked() {
		p := s.patterns[trigger]
		if !strings.Contains(lower, strings.ToLower(p.Trigger)) {
			continue
		}
		if !found || p.SuccessRate > best.SuccessRate {
			best = p
			found = true
		}
	}
	if !found {
		return models.LearnedPattern{}, false
	}
	return best.Clone(), true
}

// Record reinforces the pattern stored under trigger, creating it on first
// use. A record always represents a success: the running success rate folds
// in a 1.0 sample and the usage count grows by one. Task and tool sequences
// are captured on creation and kept unchanged afterwards.
func (s *Store) Record(trigger string, taskSeq, toolSeq []string, duration time.Duration) models.LearnedPattern {
	now := time.Now().UTC()
	ms := duration.Milliseconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.patterns[trigger]
	if ok {
		p.UsageCount++
		n := float64(p.UsageCount)
		p.SuccessRate = (p.SuccessRate*(n-1) + 1.0) / n
		p.AvgDurationMS = (p.AvgDurationMS*int64(p.UsageCount-1) + ms) / int64(p.UsageCount)
		p.LastUsed = now
	} else {
		p = models.LearnedPattern{
			Trigger:       trigger,
			TaskSequence:  append([]string(nil), taskSeq...),
			ToolSequence:  append([]string(nil), toolSeq...),
			SuccessRate:   1.0,
			AvgDurationMS: ms,
			UsageCount:    1,
			LastUsed:      now,
		}
	}
	s.patterns[trigger] = p
	return p.Clone()
}

// Get returns the pattern stored under trigger, if any.
func (s *Store) Get(trigger string) (models.LearnedPattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.patterns[trigger]
	if !ok {
		return models.LearnedPattern{}, false
	}
	return p.Clone(), true
}

// Snapshot returns a copy of every stored pattern, sorted by trigger.
func (s *Store) Snapshot() []models.LearnedPattern {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.LearnedPattern, 0, len(s.patterns))
	for _, trigger := range s.sortedTriggersLocked() {
		out = append(out, s.patterns[trigger].Clone())
	}
	return out
}

// Len returns the number of stored patterns.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patterns)
}

func (s *Store) sortedTriggersLocked() []string {
	triggers := make([]string, 0, len(s.patterns))
	for t := range s.patterns {
		triggers = append(triggers, t)
	}
	sort.Strings(triggers)
	return triggers
}
