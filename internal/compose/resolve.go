package compose

import (
	"github.com/C1Z4/ourhour-chatbot/internal/namematch"
)

// Resolution is the outcome of resolving a name from a question.
type Resolution int

const (
	// NotFound means neither a match nor a suggestion was found.
	NotFound Resolution = iota
	// Exact means the name resolved to one record.
	Exact
	// Suggested means only loosely similar names were found.
	Suggested
)

func (r Resolution) String() string {
	switch r {
	case Exact:
		return "exact"
	case Suggested:
		return "suggested"
	default:
		return "not_found"
	}
}

// NameResolution is a resolved query against one matcher. Match is set
// for Exact, and for Suggested when a best fuzzy match exists.
type NameResolution struct {
	Query       string
	Resolution  Resolution
	Match       namematch.Match
	Suggestions []string
}

// Resolve matches query with m. Only a query naming a full display name is
// Exact. Any looser hit becomes Suggested: the best fuzzy match first, then
// every name sharing the query's fragment, then loosely similar names,
// capped at namematch.DefaultMaxSuggestions.
func Resolve(m *namematch.Matcher, query string) NameResolution {
	r := NameResolution{Query: query}
	if name, ok := m.ExactName(query); ok {
		r.Resolution = Exact
		r.Match = namematch.Match{Name: name, Similarity: 1.0}
		return r
	}

	var candidates []string
	if best, ok := m.FindBestMatch(query, namematch.DefaultThreshold); ok {
		r.Match = best
		candidates = append(candidates, best.Name)
	}
	candidates = append(candidates, m.Sharing(query)...)
	candidates = append(candidates, m.SuggestNames(query, namematch.DefaultMaxSuggestions)...)

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		r.Suggestions = append(r.Suggestions, c)
		if len(r.Suggestions) == namematch.DefaultMaxSuggestions {
			break
		}
	}
	if len(r.Suggestions) > 0 {
		r.Resolution = Suggested
	}
	return r
}
