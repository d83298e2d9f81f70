package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultSuggestLimit caps "did you mean" lists.
const DefaultSuggestLimit = 5

// Suggest fuzzy-matches query against item names and returns the best
// matches, best first. It backs the "did you mean" line shown when a
// substring search comes back empty, and the quick-jump picker.
func Suggest[T Entity](items []T, query string, limit int) []T {
	query = strings.TrimSpace(query)
	if query == "" || len(items) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.DisplayName()
	}

	matches := fuzzy.Find(query, names)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]T, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	return out
}
