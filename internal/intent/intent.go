// Package intent classifies user requests into task intents and extracts
// project context from the request text.
package intent

import (
	"strings"
	"unicode"

	"github.com/archonlabs/archon/pkg/models"
)

// Classifier determines the intent of a request. Implementations must be
// deterministic for the same input.
type Classifier interface {
	Classify(request string) models.TaskIntent
}

// rule maps trigger keywords to the intent they indicate.
type rule struct {
	intent   models.TaskIntent
	keywords []string
}

// defaultRules is the classification ladder. Order matters: the first rule
// with a matching keyword wins, so "fix the failing test" is a bug fix, not
// a testing task.
var defaultRules = []rule{
	{models.IntentBugFix, []string{"fix", "bug", "error", "problem"}},
	{models.IntentTesting, []string{"test", "spec"}},
	{models.IntentRefactoring, []string{"refactor", "optimize", "improve"}},
	{models.IntentDocumentation, []string{"document", "comment", "readme"}},
	{models.IntentBuildOperation, []string{"build", "compile", "run"}},
	{models.IntentGitOperation, []string{"git", "commit", "branch", "merge"}},
	{models.IntentCodeGeneration, []string{"create", "implement", "add"}},
	{models.IntentFileOperation, []string{"read", "write", "edit", "delete"}},
	{models.IntentResearch, []string{"find", "search", "analyze"}},
}

// KeywordClassifier classifies requests by matching an ordered keyword
// ladder against the request's words. Requests that match no rule are
// Complex and go through decomposition.
type KeywordClassifier struct {
	rules []rule
}

// NewKeywordClassifier returns a classifier with the default ladder.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{rules: defaultRules}
}

// Classify returns the intent of the first matching rule, or Complex.
func (c *KeywordClassifier) Classify(request string) models.TaskIntent {
	words := tokenize(request)
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if matchAny(words, kw) {
				return r.intent
			}
		}
	}
	return models.IntentComplex
}

// tokenize lower-cases the request and splits it into alphanumeric words,
// dropping punctuation so "bug." still reads as "bug".
func tokenize(request string) []string {
	return strings.FieldsFunc(strings.ToLower(request), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// inflections are the word endings a keyword tolerates: "test" matches
// "tests", "tested" and "testing". Anything else is a different word, so
// "improvements" does not match "improve".
var inflections = []string{"", "s", "es", "d", "ed", "ing"}

// matchAny reports whether the keyword matches any word, directly or via a
// simple inflection. Doubled-consonant forms ("running" for "run") count.
func matchAny(words []string, kw string) bool {
	doubled := kw + kw[len(kw)-1:]
	for _, w := range words {
		if matchWord(w, kw) || matchWord(w, doubled) {
			return true
		}
	}
	return false
}

func matchWord(w, stem string) bool {
	if !strings.HasPrefix(w, stem) {
		return false
	}
	rest := w[len(stem):]
	for _, inf := range inflections {
		if rest == inf {
			return true
		}
	}
	return false
}
