package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// CocktailDelegate draws one cocktail per line: favorite mark, name,
// subtitle and glass.
type CocktailDelegate struct {
	Theme     Theme
	ShowGlass bool
}

func (d CocktailDelegate) Height() int {
	return 1
}

func (d CocktailDelegate) Spacing() int {
	return 0
}

func (d CocktailDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d CocktailDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(CocktailItem)
	if !ok {
		return
	}
	t := d.Theme
	selected := index == m.Index()

	cursor := "  "
	if selected {
		cursor = t.Renderer.NewStyle().Foreground(t.Primary).Render("> ")
	}
	fav := RenderFavorite(t, i.Favorite)

	// Fixed widths: cursor(2) + favorite(1) + gap(1) + glass column
	glassWidth := 0
	if d.ShowGlass {
		glassWidth = 18
	}
	available := m.Width() - 4 - glassWidth
	if available < 10 {
		available = 10
	}

	name := i.Cocktail.Name
	if i.Cocktail.HasSubtitle() {
		name += " · " + *i.Cocktail.Subtitle
	}
	name = runewidth.Truncate(name, available, "…")
	name = runewidth.FillRight(name, available)

	nameStyle := t.Renderer.NewStyle()
	if selected {
		nameStyle = nameStyle.Foreground(t.Primary).Bold(true)
	}
	row := cursor + fav + " " + nameStyle.Render(name)

	if d.ShowGlass {
		glass := runewidth.Truncate(i.Glass, glassWidth-1, "…")
		row += " " + t.Renderer.NewStyle().Foreground(t.Subtext).Render(glass)
	}
	fmt.Fprint(w, row)
}
