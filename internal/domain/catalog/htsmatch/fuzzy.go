package htsmatch

import (
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FuzzyMatcher catches keyword variations the exact engine misses, such as
// "benches" vs "bench" or OCR artefacts in extracted descriptions.
type FuzzyMatcher struct {
	keywords []Keyword
	mu       sync.RWMutex
}

// NewFuzzyMatcher creates a fuzzy matcher over the same keyword table the
// exact engine uses.
func NewFuzzyMatcher(keywords []Keyword) *FuzzyMatcher {
	fm := &FuzzyMatcher{}
	fm.Build(keywords)
	return fm
}

// Build replaces the keyword table.
func (fm *FuzzyMatcher) Build(keywords []Keyword) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	fm.keywords = make([]Keyword, 0, len(keywords))
	for _, kw := range keywords {
		kw.Pattern = strings.ToUpper(strings.TrimSpace(kw.Pattern))
		if kw.Pattern == "" {
			continue
		}
		fm.keywords = append(fm.keywords, kw)
	}
}

// Match ranks every keyword against the description words and returns the
// closest one within maxDistance, or nil.
func (fm *FuzzyMatcher) Match(description string, maxDistance int) *Suggestion {
	fm.mu.RLock()
	defer fm.mu.RUnlock()

	if len(fm.keywords) == 0 {
		return nil
	}

	normalized := strings.ToUpper(description)
	words := strings.Fields(normalized)
	if len(words) == 0 {
		return nil
	}

	type candidate struct {
		kw   Keyword
		rank int
	}
	var candidates []candidate

	for _, kw := range fm.keywords {
		best := -1
		for _, w := range words {
			rank := fuzzy.RankMatch(kw.Pattern, w)
			if rank >= 0 && rank <= maxDistance && (best < 0 || rank < best) {
				best = rank
			}
		}
		// Multi-word keywords rank against the whole description.
		if strings.Contains(kw.Pattern, " ") {
			rank := fuzzy.RankMatch(kw.Pattern, normalized)
			if rank >= 0 && rank <= maxDistance && (best < 0 || rank < best) {
				best = rank
			}
		}
		if best >= 0 {
			candidates = append(candidates, candidate{kw: kw, rank: best})
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].rank != candidates[j].rank {
			return candidates[i].rank < candidates[j].rank
		}
		return candidates[i].kw.Priority > candidates[j].kw.Priority
	})

	top := candidates[0]
	return &Suggestion{
		HTSCode:  top.kw.HTSCode,
		Pattern:  top.kw.Pattern,
		Priority: top.kw.Priority,
		Fuzzy:    true,
		Score:    top.rank,
	}
}

// Suggester combines the exact engine with the fuzzy fallback.
type Suggester struct {
	engine *Engine
	fuzzy  *FuzzyMatcher
}

// NewSuggester builds both matchers from one keyword table.
func NewSuggester(keywords []Keyword) *Suggester {
	return &Suggester{
		engine: NewEngine(keywords),
		fuzzy:  NewFuzzyMatcher(keywords),
	}
}

// Suggest returns the best HTS suggestion for a description: exact keyword
// hits win, fuzzy matches within distance 2 cover the rest.
func (s *Suggester) Suggest(description string) *Suggestion {
	if m := s.engine.Match(description); m != nil {
		return m
	}
	return s.fuzzy.Match(description, 2)
}
