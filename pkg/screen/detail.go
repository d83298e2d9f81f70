package screen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"golang.org/x/sync/errgroup"

	"github.com/mixxbar/mixx/pkg/api"
	"github.com/mixxbar/mixx/pkg/catalog"
	"github.com/mixxbar/mixx/pkg/model"
)

// RecipeLine is one resolved ingredient line of a recipe.
type RecipeLine struct {
	IngredientID string
	Name         string
	Quantity     string
	Unit         string
}

// String formats the line as "2 oz Gin".
func (l RecipeLine) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Quantity, l.Unit, l.Name} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Detail is a single cocktail with its recipe, rating and favorite state.
type Detail struct {
	backend Backend
	auth    Auth
	id      string

	mu          sync.RWMutex
	cocktail    *model.Cocktail
	ingredients map[string]*model.Ingredient
	glassware   map[string]*model.Glassware
	likeStatus  model.LikeStatus
	favorite    bool
}

// NewDetail creates the detail screen for cocktail id.
func NewDetail(backend Backend, auth Auth, id string) *Detail {
	return &Detail{backend: backend, auth: auth, id: id, likeStatus: model.LikeNone}
}

// ID returns the cocktail ID this screen shows.
func (d *Detail) ID() string {
	return d.id
}

func (d *Detail) loggedIn() bool {
	return d.auth != nil && d.auth.LoggedIn()
}

// Load fetches the cocktail, the lookup dictionaries and, when logged in, the
// user's rating and favorites.
func (d *Detail) Load(ctx context.Context) error {
	var (
		cocktail    *model.Cocktail
		ingredients []model.Ingredient
		glassware   []model.Glassware
		status      = model.LikeNone
		favorites   model.FavoriteSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cocktail, err = d.backend.Cocktail(gctx, d.id)
		return err
	})
	g.Go(func() error {
		var err error
		ingredients, err = d.backend.Ingredients(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		glassware, err = d.backend.Glassware(gctx)
		return err
	})
	if d.loggedIn() {
		g.Go(func() error {
			var err error
			status, err = d.backend.LikeStatus(gctx, d.id)
			return err
		})
		g.Go(func() error {
			var err error
			favorites, err = d.backend.Favorites(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load cocktail %s: %w", d.id, err)
	}
	if cocktail == nil || cocktail.ID == "" {
		return fmt.Errorf("load cocktail %s: %w", d.id, &api.Error{Op: "get cocktail", Code: 404})
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	c := cocktail.Clone()
	c.Directions = capitalize(c.Directions)
	c.Garnish = capitalize(c.Garnish)
	d.cocktail = &c
	d.ingredients = catalog.IndexIngredients(ingredients)
	d.glassware = catalog.IndexGlassware(glassware)
	d.likeStatus = status
	d.favorite = favorites.Has(d.id)
	return nil
}

// Cocktail returns the loaded cocktail, or nil.
func (d *Detail) Cocktail() *model.Cocktail {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.cocktail == nil {
		return nil
	}
	c := d.cocktail.Clone()
	return &c
}

// GlassName returns the display name of the cocktail's glass.
func (d *Detail) GlassName() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.cocktail == nil {
		return ""
	}
	return catalog.GlassName(d.glassware, d.cocktail.Glass)
}

// Lines returns the recipe with ingredient names resolved.
func (d *Detail) Lines() []RecipeLine {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.cocktail == nil {
		return nil
	}
	lines := make([]RecipeLine, 0, len(d.cocktail.Ingredients))
	for _, item := range d.cocktail.Ingredients {
		lines = append(lines, RecipeLine{
			IngredientID: item.IngredientID,
			Name:         catalog.IngredientName(d.ingredients, item.IngredientID),
			Quantity:     item.Quantity.String(),
			Unit:         item.Unit,
		})
	}
	return lines
}

// LikeStatus returns the user's rating.
func (d *Detail) LikeStatus() model.LikeStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.likeStatus
}

// IsFavorite reports whether the cocktail is a favorite.
func (d *Detail) IsFavorite() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.favorite
}

// SetLikeStatus presses the like or dislike button. Pressing the active
// button clears it. The old status is removed before the new one is added,
// and local state only changes once the server accepts.
func (d *Detail) SetLikeStatus(ctx context.Context, want model.LikeStatus) (model.LikeStatus, error) {
	if !d.loggedIn() {
		return model.LikeNone, api.ErrNotLoggedIn
	}
	if !want.IsValid() {
		return d.LikeStatus(), fmt.Errorf("invalid like status %q", want)
	}
	current := d.LikeStatus()
	next := current.Toggle(want)
	if want == model.LikeNone {
		next = model.LikeNone
	}
	if next == current {
		return current, nil
	}

	if action := api.RemoveAction(current); action != "" {
		if err := d.backend.Rate(ctx, action, d.id); err != nil {
			return current, err
		}
		d.setLikeStatus(model.LikeNone)
	}
	if action := api.AddAction(next); action != "" {
		if err := d.backend.Rate(ctx, action, d.id); err != nil {
			return d.LikeStatus(), err
		}
	}
	d.setLikeStatus(next)
	return next, nil
}

func (d *Detail) setLikeStatus(s model.LikeStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.likeStatus = s
}

// ToggleFavorite flips the favorite state on the server, then locally.
func (d *Detail) ToggleFavorite(ctx context.Context) (bool, error) {
	if !d.loggedIn() {
		return false, api.ErrNotLoggedIn
	}
	was := d.IsFavorite()
	if err := toggleFavorite(ctx, d.backend, d.id, was); err != nil {
		return was, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.favorite = !was
	return d.favorite, nil
}

// Markdown renders the cocktail as a Markdown document.
func (d *Detail) Markdown() string {
	c := d.Cocktail()
	if c == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Name)
	if c.HasSubtitle() {
		fmt.Fprintf(&b, "_%s_\n\n", *c.Subtitle)
	}
	b.WriteString("## Ingredients\n\n")
	for _, line := range d.Lines() {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	b.WriteString("\n## Directions\n\n")
	b.WriteString(c.Directions + "\n")
	if c.Garnish != "" {
		fmt.Fprintf(&b, "\n**Garnish:** %s\n", c.Garnish)
	}
	if glass := d.GlassName(); glass != "" {
		fmt.Fprintf(&b, "\n**Glass:** %s\n", glass)
	}
	if d.loggedIn() {
		fav := "no"
		if d.IsFavorite() {
			fav = "yes"
		}
		fmt.Fprintf(&b, "\n**Rating:** %s · **Favorite:** %s\n", d.LikeStatus(), fav)
	}
	return b.String()
}

// PlainText is the recipe as unstyled text, e.g. for the clipboard.
func (d *Detail) PlainText() string {
	c := d.Cocktail()
	if c == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(c.Name + "\n")
	for _, line := range d.Lines() {
		b.WriteString("  " + line.String() + "\n")
	}
	b.WriteString(c.Directions + "\n")
	if c.Garnish != "" {
		b.WriteString("Garnish: " + c.Garnish + "\n")
	}
	if glass := d.GlassName(); glass != "" {
		b.WriteString("Glass: " + glass + "\n")
	}
	return b.String()
}

// ErrNothingToRender is returned by Render before Load succeeds.
var ErrNothingToRender = errors.New("no cocktail loaded")

// Render styles the Markdown for a terminal of the given width.
func (d *Detail) Render(width int, style string) (string, error) {
	md := d.Markdown()
	if md == "" {
		return "", ErrNothingToRender
	}
	if width <= 0 {
		width = 80
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render cocktail: %w", err)
	}
	return out, nil
}
