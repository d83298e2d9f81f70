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
	"github.com/mixxbar/mixx/pkg/pantry"
)

// Ingredients is the ingredient browser: the master tree, the user's owned
// tree and the pending ownership edits.
type Ingredients struct {
	backend Backend
	auth    Auth

	mu      sync.RWMutex
	master  *model.CategorizedIngredients
	tracker *pantry.Tracker
	query   string
}

// NewIngredients creates the ingredient screen.
func NewIngredients(backend Backend, auth Auth) *Ingredients {
	return &Ingredients{backend: backend, auth: auth}
}

// Load fetches the category tree and, when logged in, the owned list.
func (s *Ingredients) Load(ctx context.Context) error {
	var (
		master *model.CategorizedIngredients
		owned  []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		master, err = s.backend.CategorizedIngredients(gctx)
		return err
	})
	if s.loggedIn() {
		g.Go(func() error {
			var err error
			owned, err = s.backend.OwnedIngredients(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load ingredients: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.master = master
	if s.tracker == nil {
		s.tracker = pantry.NewTracker(s.backend, owned)
	} else {
		s.tracker.Reset(owned)
	}
	return nil
}

func (s *Ingredients) loggedIn() bool {
	return s.auth != nil && s.auth.LoggedIn()
}

// Loaded reports whether Load has succeeded.
func (s *Ingredients) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.master != nil
}

// SetQuery sets the ingredient search text.
func (s *Ingredients) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// Query returns the ingredient search text.
func (s *Ingredients) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// All returns the filtered master tree with ownership flags. Nil until loaded.
func (s *Ingredients) All() *model.CategorizedIngredients {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.master == nil {
		return nil
	}
	return catalog.SearchIngredients(catalog.MarkOwned(s.master, s.tracker.Owned()), s.query)
}

// Mine returns the filtered tree of owned ingredients. Nil until loaded.
func (s *Ingredients) Mine() *model.CategorizedIngredients {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.master == nil {
		return nil
	}
	return catalog.SearchIngredients(catalog.OwnedTree(s.tracker.Owned(), s.master), s.query)
}

// Flat lists every ingredient in tree order.
func (s *Ingredients) Flat() []model.IngredientRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.master == nil {
		return nil
	}
	var refs []model.IngredientRef
	s.master.Walk(func(_, _ string, ref model.IngredientRef) {
		refs = append(refs, ref)
	})
	return refs
}

// Suggestions fuzzy-matches the query against ingredient names.
func (s *Ingredients) Suggestions(limit int) []model.IngredientRef {
	return catalog.Suggest(s.Flat(), s.Query(), limit)
}

// Lookup resolves an ingredient by ID or case-insensitive name.
func (s *Ingredients) Lookup(key string) (model.IngredientRef, bool) {
	for _, ref := range s.Flat() {
		if ref.ID == key {
			return ref, true
		}
	}
	for _, ref := range s.Flat() {
		if strings.EqualFold(ref.Name, key) {
			return ref, true
		}
	}
	return model.IngredientRef{}, false
}

func (s *Ingredients) trackerFor() (*pantry.Tracker, error) {
	if !s.loggedIn() {
		return nil, api.ErrNotLoggedIn
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tracker == nil {
		return nil, ErrNotLoaded
	}
	return s.tracker, nil
}

// Toggle flips the displayed ownership of id and returns its new state.
func (s *Ingredients) Toggle(id string) (pantry.State, error) {
	tr, err := s.trackerFor()
	if err != nil {
		return pantry.Unowned, err
	}
	return tr.Toggle(id), nil
}

// Add marks id as owned.
func (s *Ingredients) Add(id string) error {
	tr, err := s.trackerFor()
	if err != nil {
		return err
	}
	tr.Add(id)
	return nil
}

// Remove marks id as not owned.
func (s *Ingredients) Remove(id string) error {
	tr, err := s.trackerFor()
	if err != nil {
		return err
	}
	tr.Remove(id)
	return nil
}

// Save submits the pending edits.
func (s *Ingredients) Save(ctx context.Context) error {
	tr, err := s.trackerFor()
	if err != nil {
		return err
	}
	return tr.Save(ctx)
}

// State reports the displayed ownership of id.
func (s *Ingredients) State(id string) pantry.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tracker == nil {
		return pantry.Unowned
	}
	return s.tracker.State(id)
}

// Pending returns the unsaved edits.
func (s *Ingredients) Pending() pantry.PendingEdits {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tracker == nil {
		return pantry.PendingEdits{}
	}
	return s.tracker.Pending()
}

// Saving reports whether a save is in flight.
func (s *Ingredients) Saving() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker != nil && s.tracker.Saving()
}

// Owned returns the displayed owned-ingredient IDs.
func (s *Ingredients) Owned() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tracker == nil {
		return nil
	}
	return s.tracker.Owned()
}

// CocktailsWith lists the cocktails that use ingredient id, by name.
func (s *Ingredients) CocktailsWith(ctx context.Context, id string) ([]model.Cocktail, error) {
	cocktails, err := s.backend.CocktailsContaining(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cocktails containing %s: %w", id, err)
	}
	return catalog.SortByName(cocktails), nil
}
