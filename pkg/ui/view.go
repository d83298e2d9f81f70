package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mixxbar/mixx/pkg/catalog"
	"github.com/mixxbar/mixx/pkg/screen"
)

// View implements tea.Model
func (m Model) View() string {
	if m.help.IsVisible() {
		return m.help.View()
	}
	if m.jump != nil {
		return m.jump.View()
	}
	if m.form != nil {
		return m.viewForm()
	}

	var body string
	switch {
	case m.showDetail:
		body = m.viewDetail()
	case m.tab == TabCocktails:
		body = m.viewCocktails()
	case m.tab == TabIngredients:
		body = m.viewIngredients()
	case m.tab == TabRecommendations:
		body = m.viewRecommendations()
	case m.tab == TabAccount:
		body = m.viewAccount()
	}

	return strings.Join([]string{
		m.viewHeader(),
		RenderDivider(m.theme, m.width),
		body,
		m.viewStatus(),
	}, "\n")
}

func (m Model) viewHeader() string {
	t := m.theme
	active := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Underline(true).Padding(0, 1)
	inactive := t.Renderer.NewStyle().Foreground(t.Subtext).Padding(0, 1)

	tabs := []string{t.Title("Mixx")}
	for tab := TabCocktails; tab < tabCount; tab++ {
		style := inactive
		if tab == m.tab {
			style = active
		}
		tabs = append(tabs, style.Render(tab.String()))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	who := "Guest"
	if m.opts.Session != nil {
		who = m.opts.Session.State().DisplayName()
	}
	right := t.Muted(who)
	if len(m.loading) > 0 {
		right = m.spinner.View() + " " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) viewStatus() string {
	t := m.theme
	if m.status == "" {
		return t.Muted("tab: switch view • ctrl+p: jump • ?: help • q: quit")
	}
	color := t.Info
	if m.statusErr {
		color = t.Danger
	}
	return t.Renderer.NewStyle().Foreground(color).Render(m.status)
}

func (m Model) viewSearchLine(query string) string {
	if m.searching {
		return m.search.View()
	}
	if query == "" {
		return m.theme.Muted("/ to search")
	}
	return m.theme.Muted("search: ") + query + m.theme.Muted("  (esc clears)")
}

func (m Model) viewFacets(set catalog.FacetSet) string {
	t := m.theme
	parts := make([]string, 0, len(catalog.Facets))
	for i, f := range catalog.Facets {
		mark := "[ ]"
		style := t.Renderer.NewStyle().Foreground(t.Subtext)
		if set.Has(f) {
			mark = "[x]"
			style = style.Foreground(t.Primary)
		}
		hotkey := []string{"N", "I", "G"}[i]
		parts = append(parts, style.Render(fmt.Sprintf("%s %s (%s)", mark, f.Label(), hotkey)))
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewCocktails() string {
	t := m.theme
	c := m.currentCocktails()

	lines := []string{
		t.Title(m.source.Title()) + t.Muted("  (v: switch list)"),
		m.viewSearchLine(c.Query()),
		m.viewFacets(c.Facets()),
		"",
	}

	switch {
	case m.source.NeedsLogin() && !m.loggedIn():
		lines = append(lines, t.Muted("Log in from the Account view to see "+strings.ToLower(m.source.Title())+"."))
	case !c.Loaded():
		lines = append(lines, t.Muted("Loading cocktails..."))
	case len(m.list.Items()) == 0:
		lines = append(lines, m.viewEmptyCocktails(c))
	default:
		lines = append(lines, m.list.View())
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewEmptyCocktails(c *screen.Cocktails) string {
	t := m.theme
	if c.Query() == "" {
		switch m.source {
		case screen.SourceMine:
			return t.Muted("Add ingredients to your bar to see what you can make.")
		case screen.SourceFavorites:
			return t.Muted("No favorites yet. Press f on a cocktail to add one.")
		}
		return t.Muted("No cocktails.")
	}
	out := t.Muted("No cocktails match \"" + c.Query() + "\".")
	if sugg := c.Suggestions(3); len(sugg) > 0 {
		names := make([]string, len(sugg))
		for i, s := range sugg {
			names[i] = s.Name
		}
		out += "\n" + t.Muted("Did you mean: ") + strings.Join(names, ", ") + t.Muted("?")
	}
	return out
}

func (m Model) viewIngredients() string {
	t := m.theme
	title := "All Ingredients"
	if m.ingMine {
		title = "My Ingredients"
	}
	hint := "  (m: all/mine)"
	if m.loggedIn() {
		hint = "  (m: all/mine • space: add/remove • s: save)"
	}
	lines := []string{t.Title(title) + t.Muted(hint), m.viewSearchLine(m.ingredients.Query()), ""}

	if !m.ingredients.Loaded() {
		return strings.Join(append(lines, t.Muted("Loading ingredients...")), "\n")
	}

	tree := m.ingredientTree()
	if len(tree.lines) == 0 {
		empty := "No ingredients match."
		if m.ingMine && m.ingredients.Query() == "" {
			empty = "Your bar is empty. Switch to all ingredients (m) and press space to add some."
		}
		lines = append(lines, t.Muted(empty))
	} else {
		height := m.height - 8
		if m.usedIn != "" {
			height--
		}
		lines = append(lines, scrollWindow(tree.lines, tree.LineOf(m.ingCursor), height)...)
	}
	if m.usedIn != "" {
		lines = append(lines, t.Renderer.NewStyle().Foreground(t.Info).Render(m.usedIn))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewRecommendations() string {
	t := m.theme
	if !m.loggedIn() {
		return t.Muted("Log in from the Account view to get recommendations.")
	}
	if !m.recs.Loaded() {
		return t.Muted("Loading recommendations...")
	}

	lines := []string{t.Title("Ingredients to buy") + t.Muted("  (r: other picks)"), ""}
	if len(m.recPicks) == 0 {
		lines = append(lines, t.Muted("Nothing to recommend yet."))
	}
	most := 0
	for _, p := range m.recPicks {
		most = max(most, len(p.Unlocks))
	}
	for _, p := range m.recPicks {
		ratio := 0.0
		if most > 0 {
			ratio = float64(len(p.Unlocks)) / float64(most)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", RenderMiniBar(ratio, 8, t), p.Name,
			t.Muted(fmt.Sprintf("unlocks %d", len(p.Unlocks)))))
		names := make([]string, len(p.Unlocks))
		for i, c := range p.Unlocks {
			names[i] = c.Name
		}
		if len(names) > 0 {
			lines = append(lines, "    "+t.Muted(strings.Join(names, ", ")))
		}
	}

	lines = append(lines, "", t.Title("Cocktails to try"), "")
	if len(m.recCocktails) == 0 {
		lines = append(lines, t.Muted("No cocktail picks right now."))
	}
	for i, c := range m.recCocktails {
		prefix := "  "
		nameStyle := t.Renderer.NewStyle()
		if i == m.recCursor {
			prefix = t.Renderer.NewStyle().Foreground(t.Primary).Render("> ")
			nameStyle = nameStyle.Foreground(t.Primary).Bold(true)
		}
		name := c.Name
		if c.Subtitle != nil && *c.Subtitle != "" {
			name += " · " + *c.Subtitle
		}
		lines = append(lines, prefix+RenderFavorite(t, m.recs.IsFavorite(c.ID))+" "+nameStyle.Render(name))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewAccount() string {
	t := m.theme
	st := m.account.State()
	if !st.LoggedIn {
		return strings.Join([]string{
			t.Title("Not logged in"),
			"",
			"L  Log in",
			"S  Sign up",
		}, "\n")
	}
	return strings.Join([]string{
		t.Title(st.DisplayName()),
		t.Muted("User " + st.UserID),
		"",
		"n  Change name",
		"e  Change email",
		"p  Change password",
		"O  Log out",
		t.Renderer.NewStyle().Foreground(t.Danger).Render("D  Delete account"),
	}, "\n")
}

func (m Model) viewDetail() string {
	t := m.theme
	if m.detail == nil || m.detail.Cocktail() == nil {
		return t.Muted("Loading cocktail...")
	}
	header := RenderFavorite(t, m.detail.IsFavorite()) + " "
	if m.loggedIn() {
		header += RenderLikeBadge(t, m.detail.LikeStatus()) + "  "
	}
	header += t.Muted("l: like • d: dislike • f: favorite • c: copy • esc: back")
	return header + "\n" + m.viewport.View()
}

func (m Model) viewForm() string {
	box := m.theme.FocusedPanelStyle().Padding(1, 2).Render(
		m.form.View() + "\n" + m.theme.Muted("esc: cancel"))
	if m.status != "" {
		box += "\n" + m.viewStatus()
	}
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
