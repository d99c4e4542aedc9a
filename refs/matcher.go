// Package refs indexes artifact identifiers and validates every reference
// surface: structured refs arrays, inline mentions inside document content,
// and mentions inside an external source tree. The index is rebuilt per
// invocation from a store snapshot and passed explicitly.
package refs

import (
	"fmt"
	"regexp"
	"strings"
)

// Mention is one inline reference found in text.
type Mention struct {
	// ID is the referenced artifact id, possibly clause-scoped.
	ID string
	// Line is the 1-based line number of the match.
	Line int
}

// Matcher finds inline artifact mentions in text. The concrete delimiter
// syntax is configuration; swapping syntaxes swaps the Matcher, not code
// paths.
type Matcher interface {
	Find(text string) []Mention
}

// Replacer rewrites inline mentions in place, used by the renderer to
// expand mentions into links without knowing the delimiter syntax.
type Replacer interface {
	// Replace calls fn with each mentioned id; when fn returns true the
	// whole mention is replaced with fn's result.
	Replace(text string, fn func(id string) (string, bool)) string
}

// PatternMatcher matches mentions with a regular expression whose first
// capture group is the referenced id.
type PatternMatcher struct {
	re *regexp.Regexp
}

// NewPatternMatcher compiles the pattern. The pattern must contain at least
// one capture group.
func NewPatternMatcher(pattern string) (*PatternMatcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile reference pattern: %w", err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("reference pattern %q has no capture group", pattern)
	}
	return &PatternMatcher{re: re}, nil
}

// Find returns every mention in text with its line number.
func (m *PatternMatcher) Find(text string) []Mention {
	var mentions []Mention
	for i, line := range strings.Split(text, "\n") {
		for _, groups := range m.re.FindAllStringSubmatch(line, -1) {
			mentions = append(mentions, Mention{ID: groups[1], Line: i + 1})
		}
	}
	return mentions
}

// Replace implements Replacer.
func (m *PatternMatcher) Replace(text string, fn func(id string) (string, bool)) string {
	return m.re.ReplaceAllStringFunc(text, func(match string) string {
		groups := m.re.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		if repl, ok := fn(groups[1]); ok {
			return repl
		}
		return match
	})
}
