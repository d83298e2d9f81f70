// Package catalog holds the client-side catalog state engine: id lookups,
// the categorized ingredient tree, favorite-aware ordering and faceted search.
// Every function here is pure and returns fresh values; inputs are never mutated.
package catalog

import "github.com/mixxbar/mixx/pkg/model"

// Entity is anything the catalog can index, sort and search by name.
type Entity interface {
	EntityID() string
	DisplayName() string
}

// Index builds an id -> entity map for O(1) lookup. The pointers refer to the
// elements of items, so dict[e.ID] == &items[i]. A nil or empty slice yields an
// empty map.
func Index[T Entity](items []T) map[string]*T {
	dict := make(map[string]*T, len(items))
	for i := range items {
		dict[items[i].EntityID()] = &items[i]
	}
	return dict
}

// IndexIngredients indexes the flat ingredient list.
func IndexIngredients(ingredients []model.Ingredient) map[string]*model.Ingredient {
	return Index(ingredients)
}

// IndexGlassware indexes the glassware list.
func IndexGlassware(glassware []model.Glassware) map[string]*model.Glassware {
	return Index(glassware)
}

// IngredientName resolves an ingredient id, falling back to the id itself.
func IngredientName(dict map[string]*model.Ingredient, id string) string {
	if ing, ok := dict[id]; ok && ing != nil {
		return ing.Name
	}
	return id
}

// GlassName resolves a glassware id, falling back to the id itself.
func GlassName(dict map[string]*model.Glassware, id string) string {
	if g, ok := dict[id]; ok && g != nil {
		return g.Name
	}
	return id
}
