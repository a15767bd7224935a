// Package htsmatch suggests HTS codes for part descriptions the catalog
// doesn't know yet. It runs a multi-pattern Aho-Corasick pass over the
// description first and falls back to fuzzy matching for near-miss keywords,
// giving operators a starting point when remediating not-found parts.
package htsmatch

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// Keyword associates a description keyword with an HTS code.
type Keyword struct {
	Pattern  string // keyword as stored, e.g. "park bench"
	HTSCode  string
	Priority int // higher wins when several keywords hit
}

// Suggestion is a proposed HTS classification for a description.
type Suggestion struct {
	HTSCode  string
	Pattern  string
	Priority int
	Fuzzy    bool // true when produced by the fuzzy fallback
	Score    int  // fuzzy rank distance, 0 for exact keyword hits
}

// Engine matches part descriptions against a keyword table in a single pass.
// Time complexity is O(n + m) in the description length and match count,
// independent of the number of keywords.
type Engine struct {
	matcher  *ahocorasick.Matcher
	patterns []string
	metadata [][]Keyword
	mu       sync.RWMutex
}

// NewEngine builds the matcher from a keyword table.
func NewEngine(keywords []Keyword) *Engine {
	e := &Engine{}
	e.Build(keywords)
	return e
}

// Build reconstructs the state machine; call it again when the keyword
// table changes.
func (e *Engine) Build(keywords []Keyword) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(keywords) == 0 {
		e.matcher = nil
		e.patterns = nil
		e.metadata = nil
		return
	}

	// Group metadata by normalized pattern so duplicate keywords pointing at
	// different HTS codes stay resolvable by priority.
	patternToIndex := make(map[string]int)
	patterns := make([]string, 0, len(keywords))
	metadata := make([][]Keyword, 0, len(keywords))

	for _, kw := range keywords {
		clean := strings.ToUpper(strings.TrimSpace(kw.Pattern))
		if clean == "" {
			continue
		}
		if idx, ok := patternToIndex[clean]; ok {
			metadata[idx] = append(metadata[idx], kw)
			continue
		}
		patternToIndex[clean] = len(patterns)
		patterns = append(patterns, clean)
		metadata = append(metadata, []Keyword{kw})
	}

	bytePatterns := make([][]byte, len(patterns))
	for i, p := range patterns {
		bytePatterns[i] = []byte(p)
	}

	e.patterns = patterns
	e.metadata = metadata
	e.matcher = ahocorasick.NewMatcher(bytePatterns)
}

// Match returns the best keyword hit for a description, or nil when no
// keyword appears in it.
func (e *Engine) Match(description string) *Suggestion {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.matcher == nil || len(e.patterns) == 0 {
		return nil
	}

	normalized := strings.ToUpper(description)
	hits := e.matcher.Match([]byte(normalized))
	if len(hits) == 0 {
		return nil
	}

	var best *Suggestion
	for _, idx := range hits {
		if idx < 0 || idx >= len(e.metadata) {
			continue
		}
		for _, kw := range e.metadata[idx] {
			if best == nil || kw.Priority > best.Priority {
				best = &Suggestion{
					HTSCode:  kw.HTSCode,
					Pattern:  kw.Pattern,
					Priority: kw.Priority,
				}
			}
		}
	}
	return best
}
