package ui

import (
	"strings"

	"github.com/mixxbar/mixx/pkg/model"
	"github.com/mixxbar/mixx/pkg/pantry"
)

// treeNode is one row of the category tree. Leaves carry an ingredient ID.
type treeNode struct {
	Label    string
	ID       string
	Children []treeNode
}

// buildTreeNodes turns the category -> subcategory -> ingredient tree into
// generic nodes. Empty groups are dropped.
func buildTreeNodes(tree *model.CategorizedIngredients) []treeNode {
	if tree == nil {
		return nil
	}
	nodes := make([]treeNode, 0, len(tree.Categories))
	for _, cat := range tree.Categories {
		catNode := treeNode{Label: cat.Name}
		for _, sub := range cat.Subcategories {
			subNode := treeNode{Label: sub.Name}
			for _, ref := range sub.Ingredients {
				subNode.Children = append(subNode.Children, treeNode{Label: ref.Name, ID: ref.ID})
			}
			if len(subNode.Children) > 0 {
				catNode.Children = append(catNode.Children, subNode)
			}
		}
		if len(catNode.Children) > 0 {
			nodes = append(nodes, catNode)
		}
	}
	return nodes
}

// renderedTree is the flattened output of renderTree. ids[i] is the
// ingredient on lines[i], or "" for a heading.
type renderedTree struct {
	lines []string
	ids   []string
}

// Leaves returns the ingredient IDs in display order.
func (r renderedTree) Leaves() []string {
	var out []string
	for _, id := range r.ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// LineOf returns the line an ingredient is drawn on, or -1.
func (r renderedTree) LineOf(id string) int {
	if id == "" {
		return -1
	}
	for i, v := range r.ids {
		if v == id {
			return i
		}
	}
	return -1
}

type treeRenderer struct {
	theme  Theme
	cursor string
	state  func(id string) pantry.State
	out    renderedTree
}

// renderTree draws nodes depth-first. state may be nil, in which case no
// ownership badges are drawn.
func renderTree(nodes []treeNode, cursor string, state func(string) pantry.State, t Theme) renderedTree {
	r := &treeRenderer{theme: t, cursor: cursor, state: state}
	r.render(nodes, 0)
	return r.out
}

func (r *treeRenderer) render(nodes []treeNode, depth int) {
	t := r.theme
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		if n.ID == "" {
			style := t.Renderer.NewStyle().Bold(true)
			if depth == 0 {
				style = style.Foreground(t.Primary)
			} else {
				style = style.Foreground(t.Secondary)
			}
			r.emit(indent+style.Render(n.Label), "")
			r.render(n.Children, depth+1)
			continue
		}

		prefix := "  "
		nameStyle := t.Renderer.NewStyle()
		if n.ID == r.cursor {
			prefix = t.Renderer.NewStyle().Foreground(t.Primary).Render("> ")
			nameStyle = nameStyle.Foreground(t.Primary).Bold(true)
		}
		badge := ""
		if r.state != nil {
			badge = RenderPantryBadge(t, r.state(n.ID)) + " "
		}
		r.emit(indent+prefix+badge+nameStyle.Render(n.Label), n.ID)
	}
}

func (r *treeRenderer) emit(line, id string) {
	r.out.lines = append(r.out.lines, line)
	r.out.ids = append(r.out.ids, id)
}

// scrollWindow returns at most height lines of lines, keeping focus visible.
func scrollWindow(lines []string, focus, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := 0
	if focus >= height {
		start = focus - height + 1
	}
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return lines[start : start+height]
}
