package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type shortcut struct{ key, desc string }

type shortcutSection struct {
	title string
	keys  []shortcut
}

var helpSections = []shortcutSection{
	{"NAVIGATION", []shortcut{
		{"tab/shift+tab", "Next / previous view"},
		{"j/↓  k/↑", "Move down / up"},
		{"enter", "Open cocktail"},
		{"ctrl+p", "Jump to cocktail or ingredient"},
		{"esc", "Back"},
	}},
	{"COCKTAILS", []shortcut{
		{"/", "Search"},
		{"v", "Cycle all / mine / favorites"},
		{"N I G", "Toggle name / ingredient / glass search"},
		{"f", "Toggle favorite"},
	}},
	{"COCKTAIL", []shortcut{
		{"l / d", "Like / dislike"},
		{"f", "Toggle favorite"},
		{"c", "Copy recipe"},
	}},
	{"INGREDIENTS", []shortcut{
		{"m", "All / my ingredients"},
		{"space", "Add or remove from bar"},
		{"s", "Save changes"},
		{"enter", "Cocktails using it"},
	}},
	{"RECOMMENDATIONS", []shortcut{
		{"r", "Show other picks"},
	}},
	{"ACCOUNT", []shortcut{
		{"L / S / O", "Log in / sign up / log out"},
		{"n e p", "Change name / email / password"},
		{"D", "Delete account"},
	}},
	{"GENERAL", []shortcut{
		{"?", "Toggle this help"},
		{"q/ctrl+c", "Quit"},
	}},
}

// HelpOverlayModel shows keyboard shortcuts help
type HelpOverlayModel struct {
	visible bool
	width   int
	height  int
	theme   Theme
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(theme Theme) HelpOverlayModel {
	return HelpOverlayModel{theme: theme}
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions
func (m *HelpOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update closes the overlay on any key.
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		m.visible = false
	}
	return m, nil
}

// View renders the help overlay
func (m HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}
	t := m.theme
	var b strings.Builder

	b.WriteString(t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Render("Mixx Help"))
	b.WriteString("\n\n")

	sectionStyle := t.Renderer.NewStyle().Bold(true).Foreground(t.Secondary)
	keyStyle := t.Renderer.NewStyle().Foreground(t.Primary).Width(16)
	descStyle := t.Renderer.NewStyle().Foreground(t.Subtext)

	for i, section := range helpSections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(section.title) + "\n")
		for _, s := range section.keys {
			b.WriteString("  " + keyStyle.Render(s.key) + descStyle.Render(s.desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(t.Renderer.NewStyle().Faint(true).Italic(true).Render("[Press any key to close]"))

	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2).
		Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
