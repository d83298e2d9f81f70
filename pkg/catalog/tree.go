package catalog

import (
	"github.com/mixxbar/mixx/pkg/model"
)

// OwnedSet builds a lookup set from the backend's owned-ingredient ID list.
func OwnedSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// MarkOwned returns a copy of master with every leaf's Owned flag set from
// ownedIDs. The master tree is left untouched.
func MarkOwned(master *model.CategorizedIngredients, ownedIDs []string) *model.CategorizedIngredients {
	if master == nil {
		return nil
	}
	owned := OwnedSet(ownedIDs)
	marked := master.Clone()
	for ci := range marked.Categories {
		cat := &marked.Categories[ci]
		for si := range cat.Subcategories {
			refs := cat.Subcategories[si].Ingredients
			for ri := range refs {
				refs[ri].Owned = owned[refs[ri].ID]
			}
		}
	}
	return marked
}

// OwnedTree builds the "My Ingredients" tree: the master's nesting restricted
// to owned ingredients, in canonical category order, with empty subcategories
// and categories dropped.
//
// Ownership comes from ownedIDs alone, so a stale Owned flag on master cannot
// leak into the result. A nil ownedIDs means the owned list has not loaded and
// yields nil; an empty list yields an empty tree.
func OwnedTree(ownedIDs []string, master *model.CategorizedIngredients) *model.CategorizedIngredients {
	if ownedIDs == nil {
		return nil
	}
	result := &model.CategorizedIngredients{Categories: []model.Category{}}
	if len(ownedIDs) == 0 || master == nil {
		return result
	}

	owned := OwnedSet(ownedIDs)
	for _, name := range orderedCategoryNames(master) {
		cat, _ := master.Category(name)
		out := model.Category{Name: cat.Name}
		for _, sub := range cat.Subcategories {
			var keep []model.IngredientRef
			for _, ref := range sub.Ingredients {
				if owned[ref.ID] {
					ref.Owned = true
					keep = append(keep, ref)
				}
			}
			if len(keep) == 0 {
				continue
			}
			out.Subcategories = append(out.Subcategories, model.Subcategory{Name: sub.Name, Ingredients: keep})
		}
		if len(out.Subcategories) == 0 {
			continue
		}
		result.Categories = append(result.Categories, out)
	}
	return result
}

// orderedCategoryNames lists master's categories with the canonical ones first.
func orderedCategoryNames(master *model.CategorizedIngredients) []string {
	cats := make([]model.Category, len(master.Categories))
	copy(cats, master.Categories)
	model.SortCategories(cats)
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names
}

// Prune drops empty subcategories and categories in place. Callers own tree.
func Prune(tree *model.CategorizedIngredients) {
	if tree == nil {
		return
	}
	cats := tree.Categories[:0]
	for _, cat := range tree.Categories {
		subs := cat.Subcategories[:0]
		for _, sub := range cat.Subcategories {
			if len(sub.Ingredients) > 0 {
				subs = append(subs, sub)
			}
		}
		cat.Subcategories = subs
		if len(cat.Subcategories) > 0 {
			cats = append(cats, cat)
		}
	}
	tree.Categories = cats
}
