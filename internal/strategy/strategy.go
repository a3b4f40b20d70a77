// Package strategy provides the matchers that turn the text before the caret
// into completion candidates.
//
// A Strategy pairs a regular expression, which extracts the search term from
// the end of the text, with a Searcher that looks candidates up. Its embedded
// dropdown.Strategy is the identity the dropdown uses to deduplicate and
// render the candidates.
package strategy

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/oakwood-commons/textcomplete/internal/dropdown"
)

// Searcher looks up values for a term.
type Searcher interface {
	Search(ctx context.Context, term string) ([]any, error)
}

// SearchFunc adapts a function to Searcher.
type SearchFunc func(ctx context.Context, term string) ([]any, error)

func (f SearchFunc) Search(ctx context.Context, term string) ([]any, error) { return f(ctx, term) }

// Strategy is one completion source.
type Strategy struct {
	dropdown.Strategy

	// Match must match at the end of the text before the caret.
	Match *regexp.Regexp
	// Index selects the capture group holding the term.
	Index    int
	Searcher Searcher
	// Replace returns the replacement for the matched text. It may reference
	// capture groups with $1 or ${name}. When nil only the term is replaced,
	// by the value followed by a space.
	Replace func(value any) string
	// Limit caps the values taken from one search. Zero takes all.
	Limit int
}

// Term extracts the search term from text. ok is false when the strategy does
// not apply.
func (s *Strategy) Term(text string) (term string, ok bool) {
	m := s.Match.FindStringSubmatchIndex(text)
	if m == nil || m[1] != len(text) {
		return "", false
	}
	if 2*s.Index+1 >= len(m) || m[2*s.Index] < 0 {
		return "", true
	}
	return text[m[2*s.Index]:m[2*s.Index+1]], true
}

// Search looks up term and wraps the values as candidates of this strategy.
func (s *Strategy) Search(ctx context.Context, term string) ([]dropdown.Candidate, error) {
	values, err := s.Searcher.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", s.ID, err)
	}
	if s.Limit > 0 && len(values) > s.Limit {
		values = values[:s.Limit]
	}
	out := make([]dropdown.Candidate, len(values))
	for i, v := range values {
		out[i] = dropdown.Candidate{Value: v, Strategy: &s.Strategy, Term: term}
	}
	return out, nil
}

// Apply rewrites the text before the caret for a committed value. ok is false
// when the strategy no longer matches text.
func (s *Strategy) Apply(text string, value any) (string, bool) {
	m := s.Match.FindStringSubmatchIndex(text)
	if m == nil || m[1] != len(text) {
		return text, false
	}
	if s.Replace != nil {
		expanded := s.Match.ExpandString(nil, s.Replace(value), text, m)
		return text[:m[0]] + string(expanded), true
	}

	start, end := m[0], m[1]
	if 2*s.Index+1 < len(m) && m[2*s.Index] >= 0 {
		start, end = m[2*s.Index], m[2*s.Index+1]
	}
	return text[:start] + valueString(value) + " " + text[end:], true
}

// valueString is the text inserted for a value when no replace template is
// configured.
func valueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case Function:
		return t.Name
	case map[string]any:
		for _, key := range []string{"name", "value", "id"} {
			if s, ok := t[key]; ok {
				return fmt.Sprint(s)
			}
		}
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
