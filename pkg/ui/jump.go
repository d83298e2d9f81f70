package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/mixxbar/mixx/pkg/model"
)

// JumpKind says what a jump target opens.
type JumpKind string

const (
	JumpCocktail   JumpKind = "cocktail"
	JumpIngredient JumpKind = "ingredient"
)

// JumpItem is one target in the quick-jump picker.
type JumpItem struct {
	Kind JumpKind
	ID   string
	Name string
}

// JumpModel is a fuzzy picker over every cocktail and ingredient name.
type JumpModel struct {
	allItems      []JumpItem
	filteredItems []JumpItem

	searchInput   textinput.Model
	selectedIndex int

	width  int
	height int
	theme  Theme

	confirmed    bool
	selectedItem *JumpItem
}

// NewJumpModel creates the picker. Cocktails are listed before ingredients.
func NewJumpModel(cocktails []model.Cocktail, ingredients []model.IngredientRef, theme Theme) JumpModel {
	ti := textinput.New()
	ti.Placeholder = "Jump to a cocktail or ingredient..."
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	items := make([]JumpItem, 0, len(cocktails)+len(ingredients))
	for _, c := range cocktails {
		items = append(items, JumpItem{Kind: JumpCocktail, ID: c.ID, Name: c.Name})
	}
	for _, ref := range ingredients {
		items = append(items, JumpItem{Kind: JumpIngredient, ID: ref.ID, Name: ref.Name})
	}

	return JumpModel{
		allItems:      items,
		filteredItems: items,
		searchInput:   ti,
		theme:         theme,
		width:         60,
		height:        20,
	}
}

// SetSize updates the picker dimensions
func (m *JumpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	inputWidth := width - 20
	if inputWidth < 20 {
		inputWidth = 20
	}
	if inputWidth > 50 {
		inputWidth = 50
	}
	m.searchInput.Width = inputWidth
}

// Update handles one key press and reports whether it was consumed.
func (m *JumpModel) Update(key string) (handled bool) {
	switch key {
	case "up", "ctrl+k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
		return true
	case "down", "ctrl+j":
		if m.selectedIndex < len(m.filteredItems)-1 {
			m.selectedIndex++
		}
		return true
	case "enter":
		if m.selectedIndex < len(m.filteredItems) {
			item := m.filteredItems[m.selectedIndex]
			m.selectedItem = &item
			m.confirmed = true
		}
		return true
	case "esc":
		m.confirmed = false
		m.selectedItem = nil
		return true
	case "backspace":
		if v := []rune(m.searchInput.Value()); len(v) > 0 {
			m.searchInput.SetValue(string(v[:len(v)-1]))
			m.filterItems()
		}
		return true
	case "space":
		key = " "
	}
	if len([]rune(key)) == 1 {
		m.searchInput.SetValue(m.searchInput.Value() + key)
		m.filterItems()
		return true
	}
	return false
}

func (m *JumpModel) filterItems() {
	defer func() { m.selectedIndex = 0 }()
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		m.filteredItems = m.allItems
		return
	}
	names := make([]string, len(m.allItems))
	for i, item := range m.allItems {
		names[i] = item.Name
	}
	matches := fuzzy.Find(query, names)
	m.filteredItems = make([]JumpItem, 0, len(matches))
	for _, match := range matches {
		m.filteredItems = append(m.filteredItems, m.allItems[match.Index])
	}
}

// IsConfirmed returns true if user confirmed a selection
func (m *JumpModel) IsConfirmed() bool {
	return m.confirmed
}

// SelectedItem returns the chosen target, or nil if none
func (m *JumpModel) SelectedItem() *JumpItem {
	return m.selectedItem
}

// SearchValue returns the current search input value
func (m *JumpModel) SearchValue() string {
	return m.searchInput.Value()
}

// Items returns the targets matching the current search, best first.
func (m *JumpModel) Items() []JumpItem {
	return m.filteredItems
}

// View renders the picker centered in its area.
func (m *JumpModel) View() string {
	t := m.theme

	boxWidth := 55
	if m.width < 65 {
		boxWidth = m.width - 10
	}
	if boxWidth < 35 {
		boxWidth = 35
	}
	contentWidth := boxWidth - 4

	var lines []string
	lines = append(lines, t.Title("Jump to"), "")

	inputStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 1).
		Width(contentWidth - 2)
	searchValue := m.searchInput.Value()
	if searchValue == "" {
		searchValue = t.Muted(m.searchInput.Placeholder)
	}
	lines = append(lines, inputStyle.Render(searchValue), "")

	maxVisible := m.height - 12
	if maxVisible < 5 {
		maxVisible = 5
	}
	if maxVisible > 15 {
		maxVisible = 15
	}

	if len(m.filteredItems) == 0 {
		lines = append(lines, t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).Render("  No matches"))
	}
	for i, item := range m.filteredItems {
		if i >= maxVisible {
			more := strconv.Itoa(len(m.filteredItems)-maxVisible) + " more"
			lines = append(lines, t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).Render("  ... and "+more))
			break
		}
		lines = append(lines, m.renderItem(item, i == m.selectedIndex, contentWidth))
	}

	lines = append(lines, "", t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).
		Render("↑/↓: navigate • enter: open • esc: cancel"))

	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *JumpModel) renderItem(item JumpItem, selected bool, maxWidth int) string {
	t := m.theme
	prefix := "  "
	nameStyle := t.Renderer.NewStyle()
	if selected {
		prefix = "▸ "
		nameStyle = nameStyle.Foreground(t.Primary).Bold(true)
	}
	kind := string(item.Kind)
	name := runewidth.Truncate(item.Name, maxWidth-len(kind)-4, "…")
	padding := maxWidth - runewidth.StringWidth(prefix+name) - len(kind)
	if padding < 1 {
		padding = 1
	}
	return nameStyle.Render(prefix+name) + strings.Repeat(" ", padding) + t.Muted(kind)
}
