package ui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/mixxbar/mixx/pkg/model"
)

// CocktailItem wraps model.Cocktail to implement list.Item
type CocktailItem struct {
	Cocktail model.Cocktail
	Glass    string
	Favorite bool
}

func (i CocktailItem) Title() string {
	return i.Cocktail.Name
}

func (i CocktailItem) Description() string {
	if i.Cocktail.HasSubtitle() {
		return *i.Cocktail.Subtitle
	}
	return i.Glass
}

func (i CocktailItem) FilterValue() string {
	return i.Cocktail.Name
}

// cocktailItems converts cocktails to list items, resolving glass names and
// favorite marks through the given lookups.
func cocktailItems(cocktails []model.Cocktail, glass func(string) string, favorite func(string) bool) []list.Item {
	items := make([]list.Item, len(cocktails))
	for i, c := range cocktails {
		items[i] = CocktailItem{Cocktail: c, Glass: glass(c.Glass), Favorite: favorite(c.ID)}
	}
	return items
}
