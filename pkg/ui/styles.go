package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mixxbar/mixx/pkg/model"
	"github.com/mixxbar/mixx/pkg/pantry"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired, adaptive for light terminals
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}
	ColorSubtext   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#44475A"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#50FA7B"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B35900", Dark: "#FFB86C"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF5555"}
	ColorInfo      = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#8BE9FD"}
	ColorFavorite  = lipgloss.AdaptiveColor{Light: "#BF3989", Dark: "#FF79C6"}
)

// Theme bundles the renderer and colors every view draws with.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor
	Info      lipgloss.AdaptiveColor
	Favorite  lipgloss.AdaptiveColor

	Base lipgloss.Style
}

// DefaultTheme returns the standard palette bound to r. A nil r uses the
// default renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Subtext:   ColorSubtext,
		Border:    ColorBorder,
		Success:   ColorSuccess,
		Warning:   ColorWarning,
		Danger:    ColorDanger,
		Info:      ColorInfo,
		Favorite:  ColorFavorite,
		Base:      r.NewStyle(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES
// ══════════════════════════════════════════════════════════════════════════════

// PanelStyle is the border around an unfocused panel.
func (t Theme) PanelStyle() lipgloss.Style {
	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)
}

// FocusedPanelStyle is the border around the panel that has focus.
func (t Theme) FocusedPanelStyle() lipgloss.Style {
	return t.PanelStyle().BorderForeground(t.Primary)
}

// Title renders a bold heading.
func (t Theme) Title(s string) string {
	return t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Render(s)
}

// Muted renders s in the subtext color.
func (t Theme) Muted(s string) string {
	return t.Renderer.NewStyle().Foreground(t.Subtext).Render(s)
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGES
// ══════════════════════════════════════════════════════════════════════════════

// RenderLikeBadge shows the user's rating of a cocktail.
func RenderLikeBadge(t Theme, status model.LikeStatus) string {
	style := t.Renderer.NewStyle().Bold(true)
	switch status {
	case model.LikeLiked:
		return style.Foreground(t.Success).Render("▲ Liked")
	case model.LikeDisliked:
		return style.Foreground(t.Danger).Render("▼ Disliked")
	default:
		return t.Renderer.NewStyle().Foreground(t.Subtext).Render("· Not rated")
	}
}

// FavoriteMark is the marker drawn beside favorite cocktails.
const FavoriteMark = "★"

// RenderFavorite returns the favorite marker, or padding of the same width.
func RenderFavorite(t Theme, favorite bool) string {
	if !favorite {
		return " "
	}
	return t.Renderer.NewStyle().Foreground(t.Favorite).Render(FavoriteMark)
}

// RenderPantryBadge shows an ingredient's ownership, including unsaved edits.
func RenderPantryBadge(t Theme, state pantry.State) string {
	switch state {
	case pantry.Owned:
		return t.Renderer.NewStyle().Foreground(t.Success).Render("[x]")
	case pantry.PendingAdded:
		return t.Renderer.NewStyle().Foreground(t.Warning).Render("[+]")
	case pantry.PendingRemoved:
		return t.Renderer.NewStyle().Foreground(t.Danger).Render("[-]")
	default:
		return t.Renderer.NewStyle().Foreground(t.Subtext).Render("[ ]")
	}
}

// RenderMiniBar renders a horizontal bar for a value between 0 and 1.
func RenderMiniBar(value float64, width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}

	var barColor lipgloss.AdaptiveColor
	switch {
	case value >= 0.75:
		barColor = t.Success
	case value >= 0.5:
		barColor = t.Warning
	case value >= 0.25:
		barColor = t.Info
	default:
		barColor = t.Secondary
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return t.Renderer.NewStyle().Foreground(barColor).Render(bar)
}

// ══════════════════════════════════════════════════════════════════════════════
// DIVIDERS
// ══════════════════════════════════════════════════════════════════════════════

// RenderDivider renders a horizontal divider line
func RenderDivider(t Theme, width int) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Border).
		Render(strings.Repeat("─", width))
}
