package filter

import "github.com/sahilm/fuzzy"

// Scorer ranks a title query against a note name. ok is false when the query
// is not a subsequence of the name. Implementations must be deterministic.
type Scorer interface {
	Score(query, name string) (score int, ok bool)
}

// SubsequenceScorer is the default Scorer. Matching is case-insensitive;
// adjacent runs, matches after a word separator and camelCase humps score
// higher. Names are passed through with their case intact since the hump
// bonus depends on it.
type SubsequenceScorer struct{}

// Score implements Scorer. An empty query matches everything with score 0.
func (SubsequenceScorer) Score(query, name string) (int, bool) {
	if query == "" {
		return 0, true
	}
	matches := fuzzy.Find(query, []string{name})
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].Score, true
}
