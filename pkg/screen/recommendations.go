package screen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mixxbar/mixx/pkg/api"
	"github.com/mixxbar/mixx/pkg/catalog"
	"github.com/mixxbar/mixx/pkg/model"
)

// DefaultRecommendationCount is how many picks are shown at once.
const DefaultRecommendationCount = 3

// IngredientPick is a recommended ingredient and the cocktails it unlocks.
type IngredientPick struct {
	ID      string
	Name    string
	Unlocks []model.CocktailSummary
}

// Recommendations suggests ingredients to buy and cocktails to try.
type Recommendations struct {
	backend Backend
	auth    Auth
	count   int
	rng     *rand.Rand

	mu          sync.RWMutex
	ingredients model.IngredientRecommendations
	names       map[string]*model.Ingredient
	cocktails   []model.CocktailSummary
	favorites   model.FavoriteSet
	shownIng    []IngredientPick
	loaded      bool
}

// NewRecommendations creates the screen. A nil rng uses a randomly seeded one.
func NewRecommendations(backend Backend, auth Auth, count int, rng *rand.Rand) *Recommendations {
	if count <= 0 {
		count = DefaultRecommendationCount
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Recommendations{backend: backend, auth: auth, count: count, rng: rng}
}

// Load fetches both recommendation lists, ingredient names and favorites.
func (r *Recommendations) Load(ctx context.Context) error {
	if r.auth == nil || !r.auth.LoggedIn() {
		return api.ErrNotLoggedIn
	}
	var (
		ingRecs     model.IngredientRecommendations
		cocktails   []model.CocktailSummary
		ingredients []model.Ingredient
		favorites   model.FavoriteSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ingRecs, err = r.backend.IngredientRecommendations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cocktails, err = r.backend.CocktailRecommendations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ingredients, err = r.backend.Ingredients(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		favorites, err = r.backend.Favorites(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load recommendations: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingredients = ingRecs
	r.names = catalog.IndexIngredients(ingredients)
	r.cocktails = cocktails
	r.favorites = favorites
	r.shownIng = nil
	r.loaded = true
	return nil
}

// Loaded reports whether Load has succeeded.
func (r *Recommendations) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Ingredients returns the ingredient picks on screen. The first call shows the
// ingredients that unlock the most cocktails; every later call draws a fresh
// random set.
func (r *Recommendations) Ingredients() []IngredientPick {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return nil
	}

	ids := make([]string, 0, len(r.ingredients))
	for id := range r.ingredients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if r.shownIng == nil {
		sort.SliceStable(ids, func(i, j int) bool {
			return len(r.ingredients[ids[i]]) > len(r.ingredients[ids[j]])
		})
	} else {
		r.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	}
	if len(ids) > r.count {
		ids = ids[:r.count]
	}

	picks := make([]IngredientPick, 0, len(ids))
	for _, id := range ids {
		picks = append(picks, IngredientPick{
			ID:      id,
			Name:    catalog.IngredientName(r.names, id),
			Unlocks: catalog.SortByName(r.ingredients[id]),
		})
	}
	r.shownIng = picks
	return picks
}

// Cocktails draws a random set of recommended cocktails.
func (r *Recommendations) Cocktails() []model.CocktailSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return nil
	}
	shuffled := make([]model.CocktailSummary, len(r.cocktails))
	copy(shuffled, r.cocktails)
	r.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	if len(shuffled) > r.count {
		shuffled = shuffled[:r.count]
	}
	return shuffled
}

// IsFavorite reports whether a recommended cocktail is a favorite.
func (r *Recommendations) IsFavorite(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.favorites.Has(id)
}

// ToggleFavorite flips a cocktail's favorite state on the server, then locally.
func (r *Recommendations) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	was := r.IsFavorite(id)
	if err := toggleFavorite(ctx, r.backend, id, was); err != nil {
		return was, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if was {
		r.favorites = r.favorites.Without(id)
	} else {
		r.favorites = r.favorites.With(id)
	}
	return !was, nil
}
