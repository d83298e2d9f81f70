package model

import "sort"

// FavoriteSet is the set of cocktail IDs the user has favorited. A nil set
// means favorites have not been loaded yet.
type FavoriteSet map[string]struct{}

// NewFavoriteSet builds a set from the backend's ID list.
func NewFavoriteSet(ids []string) FavoriteSet {
	set := make(FavoriteSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is favorited.
func (f FavoriteSet) Has(id string) bool {
	_, ok := f[id]
	return ok
}

// With returns a copy of the set with id added.
func (f FavoriteSet) With(id string) FavoriteSet {
	out := make(FavoriteSet, len(f)+1)
	for k := range f {
		out[k] = struct{}{}
	}
	out[id] = struct{}{}
	return out
}

// Without returns a copy of the set with id removed.
func (f FavoriteSet) Without(id string) FavoriteSet {
	out := make(FavoriteSet, len(f))
	for k := range f {
		if k != id {
			out[k] = struct{}{}
		}
	}
	return out
}

// IDs returns the favorited IDs in sorted order.
func (f FavoriteSet) IDs() []string {
	ids := make([]string, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
