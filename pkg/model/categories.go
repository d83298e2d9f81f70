package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// CategoryOrder is the canonical display order of ingredient categories.
// Categories the backend sends that are not listed here follow, alphabetically.
var CategoryOrder = []string{
	"Spirits",
	"Liqueurs",
	"Wines and Champagnes",
	"Beers and Ciders",
	"Mixers",
	"Other",
}

// IngredientRef is a leaf of the categorized ingredient tree.
type IngredientRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owned bool   `json:"owned,omitempty"`
}

// Subcategory groups ingredients under a category
type Subcategory struct {
	Name        string
	Ingredients []IngredientRef
}

// Category is a top-level ingredient grouping
type Category struct {
	Name          string
	Subcategories []Subcategory
}

// CategorizedIngredients is the category -> subcategory -> ingredient tree.
// Categories keep CategoryOrder; subcategories are alphabetical.
type CategorizedIngredients struct {
	Categories []Category
}

// Clone creates a deep copy of the tree
func (c *CategorizedIngredients) Clone() *CategorizedIngredients {
	if c == nil {
		return nil
	}
	clone := &CategorizedIngredients{Categories: make([]Category, len(c.Categories))}
	for i, cat := range c.Categories {
		subs := make([]Subcategory, len(cat.Subcategories))
		for j, sub := range cat.Subcategories {
			refs := make([]IngredientRef, len(sub.Ingredients))
			copy(refs, sub.Ingredients)
			subs[j] = Subcategory{Name: sub.Name, Ingredients: refs}
		}
		clone.Categories[i] = Category{Name: cat.Name, Subcategories: subs}
	}
	return clone
}

// Len returns the number of ingredient leaves in the tree.
func (c *CategorizedIngredients) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, cat := range c.Categories {
		for _, sub := range cat.Subcategories {
			n += len(sub.Ingredients)
		}
	}
	return n
}

// IsEmpty returns true if the tree has no categories
func (c *CategorizedIngredients) IsEmpty() bool {
	return c == nil || len(c.Categories) == 0
}

// Category looks up a category by name.
func (c *CategorizedIngredients) Category(name string) (*Category, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Categories {
		if c.Categories[i].Name == name {
			return &c.Categories[i], true
		}
	}
	return nil, false
}

// Walk calls fn for every leaf in display order.
func (c *CategorizedIngredients) Walk(fn func(category, subcategory string, ref IngredientRef)) {
	if c == nil {
		return
	}
	for _, cat := range c.Categories {
		for _, sub := range cat.Subcategories {
			for _, ref := range sub.Ingredients {
				fn(cat.Name, sub.Name, ref)
			}
		}
	}
}

// CategoryRank returns the position of name in CategoryOrder, or
// len(CategoryOrder) for categories outside the canonical list.
func CategoryRank(name string) int {
	for i, c := range CategoryOrder {
		if c == name {
			return i
		}
	}
	return len(CategoryOrder)
}

// SortCategories orders categories canonically, unknown ones alphabetically after.
func SortCategories(cats []Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		ri, rj := CategoryRank(cats[i].Name), CategoryRank(cats[j].Name)
		if ri != rj {
			return ri < rj
		}
		return cats[i].Name < cats[j].Name
	})
}

// UnmarshalJSON reads the backend's nested object form:
//
//	{"Spirits": {"Gin": [{"id": "1", "name": "Gin"}]}}
func (c *CategorizedIngredients) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string][]IngredientRef
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode categorized ingredients: %w", err)
	}

	cats := make([]Category, 0, len(raw))
	for name, subs := range raw {
		cat := Category{Name: name, Subcategories: make([]Subcategory, 0, len(subs))}
		for subName, refs := range subs {
			cat.Subcategories = append(cat.Subcategories, Subcategory{Name: subName, Ingredients: refs})
		}
		sort.Slice(cat.Subcategories, func(i, j int) bool {
			return cat.Subcategories[i].Name < cat.Subcategories[j].Name
		})
		cats = append(cats, cat)
	}
	SortCategories(cats)
	c.Categories = cats
	return nil
}

// MarshalJSON writes the nested object form, keys in display order.
func (c CategorizedIngredients) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(cat.Name)
		buf.Write(key)
		buf.WriteString(":{")
		for j, sub := range cat.Subcategories {
			if j > 0 {
				buf.WriteByte(',')
			}
			subKey, _ := json.Marshal(sub.Name)
			buf.Write(subKey)
			buf.WriteByte(':')
			refs := sub.Ingredients
			if refs == nil {
				refs = []IngredientRef{}
			}
			val, err := json.Marshal(refs)
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Categorize groups a flat ingredient list into a tree, for backends or
// fixtures that only expose GET /ingredients.
func Categorize(ingredients []Ingredient) *CategorizedIngredients {
	byCat := make(map[string]map[string][]IngredientRef)
	for _, ing := range ingredients {
		subs, ok := byCat[ing.Category]
		if !ok {
			subs = make(map[string][]IngredientRef)
			byCat[ing.Category] = subs
		}
		subs[ing.Subcategory] = append(subs[ing.Subcategory], IngredientRef{ID: ing.ID, Name: ing.Name})
	}

	tree := &CategorizedIngredients{Categories: make([]Category, 0, len(byCat))}
	for name, subs := range byCat {
		cat := Category{Name: name}
		for subName, refs := range subs {
			sort.SliceStable(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
			cat.Subcategories = append(cat.Subcategories, Subcategory{Name: subName, Ingredients: refs})
		}
		sort.Slice(cat.Subcategories, func(i, j int) bool {
			return cat.Subcategories[i].Name < cat.Subcategories[j].Name
		})
		tree.Categories = append(tree.Categories, cat)
	}
	SortCategories(tree.Categories)
	return tree
}
