package query

import (
	"sort"
	"strings"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
)

const fuzzyMinSimilarity = 0.3
const fuzzyMaxSuggestions = 3

// trigrams returns the set of 3-character substrings of s, padded with a
// boundary marker so short names still produce at least one trigram.
func trigrams(s string) map[string]bool {
	s = "  " + strings.ToLower(s) + "  "
	set := make(map[string]bool)
	for i := 0; i+3 <= len(s); i++ {
		set[s[i:i+3]] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// FuzzySuggestions ranks every known symbol name by trigram-Jaccard
// similarity to query, returning up to fuzzyMaxSuggestions names at or above
// fuzzyMinSimilarity. Used to enrich "no match" errors from find_symbol and
// get_context with "did you mean" hints.
func FuzzySuggestions(g *codegraph.Graph, queryName string) []string {
	target := trigrams(queryName)

	type scored struct {
		name  string
		score float64
	}
	var candidates []scored
	for _, name := range g.AllSymbolNames() {
		score := jaccard(target, trigrams(name))
		if score >= fuzzyMinSimilarity {
			candidates = append(candidates, scored{name, score})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > fuzzyMaxSuggestions {
		candidates = candidates[:fuzzyMaxSuggestions]
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	return names
}
