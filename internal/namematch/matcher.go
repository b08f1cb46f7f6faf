// Package namematch resolves approximate person and project names against
// the names known to an organization snapshot.
package namematch

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Default thresholds and result caps.
const (
	DefaultThreshold      = 0.6
	DefaultMultiThreshold = 0.4
	DefaultMaxMatches     = 5
	SuggestThreshold      = 0.3
	DefaultMaxSuggestions = 3
)

// Match is one resolved name and its similarity in [0, 1].
type Match struct {
	Name       string
	Similarity float64
}

// Normalize lower-cases s and removes all spaces.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// Matcher resolves queries against a fixed list of display names. It is
// read-only after construction and safe for concurrent use.
type Matcher struct {
	names      []string
	full       map[string]string
	variations *Variations
}

// New builds a Matcher and its name variations from names.
func New(names []string) *Matcher {
	return NewWithVariations(names, nil)
}

// NewWithVariations builds a Matcher over precomputed variations.
func NewWithVariations(names []string, v *Variations) *Matcher {
	if v == nil {
		v = BuildVariations(names)
	}
	full := make(map[string]string, len(names))
	for _, name := range names {
		key := Normalize(name)
		if _, dup := full[key]; key != "" && !dup {
			full[key] = name
		}
	}
	return &Matcher{names: append([]string(nil), names...), full: full, variations: v}
}

// ExactName returns the display name whose normalized form equals query.
// Fragments such as a surname or given name never match here.
func (m *Matcher) ExactName(query string) (string, bool) {
	name, ok := m.full[Normalize(query)]
	return name, ok
}

// Sharing returns every name indexed under query's fragment when more than
// one name shares it, as with a common surname.
func (m *Matcher) Sharing(query string) []string {
	q := Normalize(query)
	if !m.variations.Ambiguous(q) {
		return nil
	}
	names, _ := m.variations.Lookup(q)
	return names
}

// Names returns the raw names in source order.
func (m *Matcher) Names() []string { return m.names }

// Variations returns the fragment index used by FindBestMatch.
func (m *Matcher) Variations() *Variations { return m.variations }

// FindBestMatch resolves query to a single name. Exact variation hits
// score 1.0, substring containment scores the length ratio of the two
// strings, and everything else is scored by Ratio. Results below
// threshold are discarded.
func (m *Matcher) FindBestMatch(query string, threshold float64) (Match, bool) {
	q := Normalize(query)
	if q == "" {
		return Match{}, false
	}

	if names, ok := m.variations.Lookup(q); ok {
		return Match{Name: names[0], Similarity: 1.0}, true
	}

	qLen := utf8.RuneCountInString(q)
	for _, key := range m.variations.Keys() {
		if !strings.Contains(key, q) && !strings.Contains(q, key) {
			continue
		}
		kLen := utf8.RuneCountInString(key)
		sim := float64(min(qLen, kLen)) / float64(max(qLen, kLen))
		if sim >= threshold {
			names, _ := m.variations.Lookup(key)
			return Match{Name: names[0], Similarity: sim}, true
		}
	}

	var best Match
	found := false
	for _, key := range m.variations.Keys() {
		sim := Ratio(q, key)
		if sim >= threshold && sim > best.Similarity {
			names, _ := m.variations.Lookup(key)
			best = Match{Name: names[0], Similarity: sim}
			found = true
		}
	}
	return best, found
}

// FindMultipleMatches scores every raw name by Ratio and returns up to limit
// names scoring at least threshold, best first. Equal scores keep source
// order.
func (m *Matcher) FindMultipleMatches(query string, limit int, threshold float64) []Match {
	q := Normalize(query)
	if q == "" || limit <= 0 {
		return nil
	}

	var matches []Match
	for _, name := range m.names {
		sim := Ratio(q, Normalize(name))
		if sim >= threshold {
			matches = append(matches, Match{Name: name, Similarity: sim})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// SuggestNames returns up to limit loosely similar names for a "did you
// mean" prompt.
func (m *Matcher) SuggestNames(query string, limit int) []string {
	matches := m.FindMultipleMatches(query, limit, SuggestThreshold)
	names := make([]string, len(matches))
	for i, match := range matches {
		names[i] = match.Name
	}
	return names
}
