package screen

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mixxbar/mixx/pkg/api"
	"github.com/mixxbar/mixx/pkg/catalog"
	"github.com/mixxbar/mixx/pkg/model"
)

// Source selects which cocktails a Cocktails screen lists.
type Source string

const (
	SourceAll       Source = "all"
	SourceMine      Source = "mine"
	SourceFavorites Source = "favorites"
)

// IsValid returns true if the source is a recognized value
func (s Source) IsValid() bool {
	switch s {
	case SourceAll, SourceMine, SourceFavorites:
		return true
	}
	return false
}

// Title is the heading shown above the list.
func (s Source) Title() string {
	switch s {
	case SourceMine:
		return "My Cocktails"
	case SourceFavorites:
		return "My Favorites"
	default:
		return "All Cocktails"
	}
}

// NeedsLogin reports whether the source lists user-specific cocktails.
func (s Source) NeedsLogin() bool {
	return s == SourceMine || s == SourceFavorites
}

// Cocktails is a searchable, favorite-aware cocktail list.
type Cocktails struct {
	backend Backend
	auth    Auth
	source  Source

	mu          sync.RWMutex
	cocktails   []model.Cocktail
	ingredients map[string]*model.Ingredient
	glassware   map[string]*model.Glassware
	favorites   model.FavoriteSet
	query       string
	facets      catalog.FacetSet
	loaded      bool
}

// NewCocktails creates a list screen for source.
func NewCocktails(backend Backend, auth Auth, source Source, facets catalog.FacetSet) *Cocktails {
	if !source.IsValid() {
		source = SourceAll
	}
	return &Cocktails{backend: backend, auth: auth, source: source, facets: facets}
}

// Source returns which cocktails are listed.
func (c *Cocktails) Source() Source {
	return c.source
}

// Load fetches the cocktails, lookup dictionaries and favorites in parallel.
func (c *Cocktails) Load(ctx context.Context) error {
	loggedIn := c.auth != nil && c.auth.LoggedIn()
	if c.source.NeedsLogin() && !loggedIn {
		return api.ErrNotLoggedIn
	}

	var (
		cocktails   []model.Cocktail
		ingredients []model.Ingredient
		glassware   []model.Glassware
		favorites   = model.NewFavoriteSet(nil)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if c.source == SourceMine {
			cocktails, err = c.backend.PossibleCocktails(gctx)
		} else {
			cocktails, err = c.backend.Cocktails(gctx)
		}
		return err
	})
	g.Go(func() error {
		var err error
		ingredients, err = c.backend.Ingredients(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		glassware, err = c.backend.Glassware(gctx)
		return err
	})
	if loggedIn {
		g.Go(func() error {
			var err error
			favorites, err = c.backend.Favorites(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load %s: %w", strings.ToLower(c.source.Title()), err)
	}
	if cocktails == nil {
		cocktails = []model.Cocktail{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cocktails = cocktails
	c.ingredients = catalog.IndexIngredients(ingredients)
	c.glassware = catalog.IndexGlassware(glassware)
	c.favorites = favorites
	c.loaded = true
	return nil
}

// Loaded reports whether Load has succeeded.
func (c *Cocktails) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// SetQuery sets the search text.
func (c *Cocktails) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
}

// Query returns the search text.
func (c *Cocktails) Query() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

// ToggleFacet flips one search facet and returns the new set.
func (c *Cocktails) ToggleFacet(f catalog.Facet) catalog.FacetSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.facets = c.facets.Toggle(f)
	return c.facets
}

// Facets returns the enabled search facets.
func (c *Cocktails) Facets() catalog.FacetSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.facets
}

// Results returns the cocktails matching the query, favorites first. It is
// nil until Load succeeds.
func (c *Cocktails) Results() []model.Cocktail {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil
	}
	base := c.cocktails
	if c.source == SourceFavorites {
		base = make([]model.Cocktail, 0, len(c.favorites))
		for _, ct := range c.cocktails {
			if c.favorites.Has(ct.ID) {
				base = append(base, ct)
			}
		}
	}
	return catalog.SearchCocktails(base, c.ingredients, c.glassware, c.favorites, c.query, c.facets)
}

// Suggestions returns close fuzzy matches for the query, for a "did you
// mean" hint when Results is empty.
func (c *Cocktails) Suggestions(limit int) []model.Cocktail {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return catalog.Suggest(c.cocktails, c.query, limit)
}

// All returns every loaded cocktail in list order, ignoring the query.
func (c *Cocktails) All() []model.Cocktail {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return catalog.SortByFavorites(c.cocktails, c.favorites)
}

// IsFavorite reports whether id is a favorite.
func (c *Cocktails) IsFavorite(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.favorites.Has(id)
}

// IngredientName resolves an ingredient ID through the loaded dictionary.
func (c *Cocktails) IngredientName(id string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return catalog.IngredientName(c.ingredients, id)
}

// GlassName resolves a glassware ID through the loaded dictionary.
func (c *Cocktails) GlassName(id string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return catalog.GlassName(c.glassware, id)
}

// ToggleFavorite favorites or unfavorites id on the server, then mirrors the
// change locally. It returns the new favorite state. On failure nothing
// changes locally.
func (c *Cocktails) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	if c.auth == nil || !c.auth.LoggedIn() {
		return false, api.ErrNotLoggedIn
	}
	was := c.IsFavorite(id)
	if err := toggleFavorite(ctx, c.backend, id, was); err != nil {
		return was, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if was {
		c.favorites = c.favorites.Without(id)
	} else {
		c.favorites = c.favorites.With(id)
	}
	return !was, nil
}

func toggleFavorite(ctx context.Context, backend Backend, id string, was bool) error {
	if was {
		return backend.Unfavorite(ctx, id)
	}
	return backend.Favorite(ctx, id)
}
