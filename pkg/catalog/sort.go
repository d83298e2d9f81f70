package catalog

import (
	"sort"
	"strings"

	"github.com/mixxbar/mixx/pkg/model"
)

// SortByFavorites returns a new slice with favorited items first and each
// partition ordered by case-insensitive name. Equal names keep input order.
//
// A nil items or nil favorites means the screen is still loading; the result
// is nil so callers can tell "not ready" apart from "no results".
func SortByFavorites[T Entity](items []T, favorites model.FavoriteSet) []T {
	if items == nil || favorites == nil {
		return nil
	}
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		fi := favorites.Has(sorted[i].EntityID())
		fj := favorites.Has(sorted[j].EntityID())
		if fi != fj {
			return fi
		}
		return strings.ToLower(sorted[i].DisplayName()) < strings.ToLower(sorted[j].DisplayName())
	})
	return sorted
}

// SortByName orders items by case-insensitive name without a favorites split.
func SortByName[T Entity](items []T) []T {
	if items == nil {
		return nil
	}
	return SortByFavorites(items, model.FavoriteSet{})
}
