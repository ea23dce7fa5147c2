package planner

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Rule maps request keywords to a hand-authored subtask sequence. A rule
// applies when every keyword appears in the lower-cased request.
type Rule struct {
	// Name identifies the rule in diagnostics.
	Name string `yaml:"name"`
	// Match lists keywords that must all appear in the request.
	Match []string `yaml:"match"`
	// Steps are the subtask descriptions, executed as a linear chain.
	Steps []string `yaml:"steps"`
}

// builtinRules are the decomposition recipes for well-known complex
// requests. First match wins, so more specific rules come first.
var builtinRules = []Rule{
	{
		Name:  "implement-authentication",
		Match: []string{"implement", "authentication"},
		Steps: []string{
			"Research existing authentication patterns in the codebase",
			"Design authentication schema and data models",
			"Implement user registration endpoint",
			"Implement login endpoint with token generation",
			"Add authentication middleware",
			"Implement password reset functionality",
			"Add session management",
			"Write tests for authentication flow",
		},
	},
	{
		Name:  "refactor",
		Match: []string{"refactor"},
		Steps: []string{
			"Analyze current code structure",
			"Identify code smells and improvement areas",
			"Create refactoring plan",
			"Implement refactored code",
			"Update tests for refactored code",
			"Verify functionality preservation",
		},
	},
	{
		Name:  "fix-bug",
		Match: []string{"fix", "bug"},
		Steps: []string{
			"Reproduce the bug",
			"Identify root cause",
			"Implement fix",
			"Add regression test",
			"Verify fix in different scenarios",
		},
	},
	{
		Name:  "add-feature",
		Match: []string{"add", "feature"},
		Steps: []string{
			"Analyze requirements",
			"Design feature implementation",
			"Implement core functionality",
			"Add error handling",
			"Write tests",
			"Update documentation",
		},
	},
}

// Playbook resolves a complex request to a subtask sequence: user-loaded
// rules first, then the built-in recipes, then a generic skeleton.
type Playbook struct {
	mu    sync.RWMutex
	rules []Rule
}

// playbookFile is the YAML shape of a user-authored rule file.
type playbookFile struct {
	Rules []Rule `yaml:"rules"`
}

// NewPlaybook returns a playbook carrying the built-in rules.
func NewPlaybook() *Playbook {
	return &Playbook{rules: append([]Rule{}, builtinRules...)}
}

// LoadFile merges rules from a YAML file. Loaded rules take precedence
// over the built-ins, matching in file order.
func (p *Playbook) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read playbook %s: %w", path, err)
	}

	var file playbookFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse playbook %s: %w", path, err)
	}

	for i, r := range file.Rules {
		if len(r.Match) == 0 {
			return fmt.Errorf("playbook %s: rule %d (%q) has no match keywords", path, i, r.Name)
		}
		if len(r.Steps) == 0 {
			return fmt.Errorf("playbook %s: rule %d (%q) has no steps", path, i, r.Name)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.rules = append(append([]Rule{}, file.Rules...), p.rules...)
	return nil
}

// Steps returns the subtask descriptions for a request: the first rule
// whose keywords all appear wins; otherwise the generic five-step skeleton.
func (p *Playbook) Steps(request string) []string {
	lower := strings.ToLower(request)

	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, r := range p.rules {
		if ruleMatches(r, lower) {
			return append([]string{}, r.Steps...)
		}
	}

	return []string{
		fmt.Sprintf("Analyze: %s", request),
		fmt.Sprintf("Plan implementation for: %s", request),
		fmt.Sprintf("Execute: %s", request),
		fmt.Sprintf("Test: %s", request),
		fmt.Sprintf("Document: %s", request),
	}
}

// Len returns the number of loaded rules.
func (p *Playbook) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.rules)
}

func ruleMatches(r Rule, lowerRequest string) bool {
	for _, kw := range r.Match {
		if !strings.Contains(lowerRequest, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}
