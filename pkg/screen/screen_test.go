package screen

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixxbar/mixx/pkg/api"
	"github.com/mixxbar/mixx/pkg/catalog"
	"github.com/mixxbar/mixx/pkg/model"
	"github.com/mixxbar/mixx/pkg/pantry"
	"github.com/mixxbar/mixx/pkg/session"
)

type loggedIn bool

func (l loggedIn) LoggedIn() bool { return bool(l) }

func strPtr(s string) *string { return &s }

type fakeBackend struct {
	mu        sync.Mutex
	cocktails []model.Cocktail
	possible  []model.Cocktail
	ings      []model.Ingredient
	glass     []model.Glassware
	favorites []string
	owned     []string
	status    model.LikeStatus
	ingRecs   model.IngredientRecommendations
	cockRecs  []model.CocktailSummary

	failFavorite error
	failRate     map[api.RateAction]error
	rates        []api.RateAction
	updates      []pantry.PendingEdits
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		cocktails: []model.Cocktail{
			{ID: "c1", Name: "Martini", Glass: "g1", Directions: "stir with ice", Garnish: "olive",
				Ingredients: []model.RecipeItem{{IngredientID: "gin", Quantity: "2", Unit: "oz"}, {IngredientID: "vermouth", Quantity: "1", Unit: "oz"}}},
			{ID: "c2", Name: "Daiquiri", Glass: "g2", Subtitle: strPtr("Classic"),
				Ingredients: []model.RecipeItem{{IngredientID: "rum", Quantity: "2", Unit: "oz"}}},
			{ID: "c3", Name: "Gimlet", Glass: "g2",
				Ingredients: []model.RecipeItem{{IngredientID: "gin", Quantity: "2", Unit: "oz"}}},
		},
		ings: []model.Ingredient{
			{ID: "gin", Name: "Gin", Category: "Spirits", Subcategory: "Gin"},
			{ID: "rum", Name: "Rum", Category: "Spirits", Subcategory: "Rum"},
			{ID: "vermouth", Name: "Dry Vermouth", Category: "Wines and Champagnes", Subcategory: "Vermouth"},
		},
		glass:  []model.Glassware{{ID: "g1", Name: "Martini Glass"}, {ID: "g2", Name: "Coupe"}},
		status: model.LikeNone,
	}
}

func (f *fakeBackend) Cocktails(context.Context) ([]model.Cocktail, error) { return f.cocktails, nil }
func (f *fakeBackend) PossibleCocktails(context.Context) ([]model.Cocktail, error) {
	return f.possible, nil
}
func (f *fakeBackend) Cocktail(_ context.Context, id string) (*model.Cocktail, error) {
	for _, c := range f.cocktails {
		if c.ID == id {
			c := c.Clone()
			return &c, nil
		}
	}
	return nil, &api.Error{Op: "get cocktail", Code: 404}
}
func (f *fakeBackend) CocktailsContaining(_ context.Context, id string) ([]model.Cocktail, error) {
	var out []model.Cocktail
	for _, c := range f.cocktails {
		for _, item := range c.Ingredients {
			if item.IngredientID == id {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}
func (f *fakeBackend) Ingredients(context.Context) ([]model.Ingredient, error) { return f.ings, nil }
func (f *fakeBackend) CategorizedIngredients(context.Context) (*model.CategorizedIngredients, error) {
	return model.Categorize(f.ings), nil
}
func (f *fakeBackend) OwnedIngredients(context.Context) ([]string, error) { return f.owned, nil }
func (f *fakeBackend) UpdateIngredients(_ context.Context, added, removed []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, pantry.PendingEdits{Added: added, Removed: removed})
	owned := []string{}
	drop := catalog.OwnedSet(removed)
	for _, id := range f.owned {
		if !drop[id] {
			owned = append(owned, id)
		}
	}
	f.owned = append(owned, added...)
	return f.owned, nil
}
func (f *fakeBackend) Glassware(context.Context) ([]model.Glassware, error) { return f.glass, nil }
func (f *fakeBackend) Favorites(context.Context) (model.FavoriteSet, error) {
	return model.NewFavoriteSet(f.favorites), nil
}
func (f *fakeBackend) Favorite(_ context.Context, id string) error {
	if f.failFavorite != nil {
		return f.failFavorite
	}
	f.favorites = append(f.favorites, id)
	return nil
}
func (f *fakeBackend) Unfavorite(_ context.Context, id string) error {
	if f.failFavorite != nil {
		return f.failFavorite
	}
	return nil
}
func (f *fakeBackend) LikeStatus(context.Context, string) (model.LikeStatus, error) {
	return f.status, nil
}
func (f *fakeBackend) Rate(_ context.Context, action api.RateAction, _ string) error {
	if err := f.failRate[action]; err != nil {
		return err
	}
	f.rates = append(f.rates, action)
	return nil
}
func (f *fakeBackend) IngredientRecommendations(context.Context) (model.IngredientRecommendations, error) {
	return f.ingRecs, nil
}
func (f *fakeBackend) CocktailRecommendations(context.Context) ([]model.CocktailSummary, error) {
	return f.cockRecs, nil
}

func names(cs []model.Cocktail) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestCocktailsSearchAndFavorites(t *testing.T) {
	backend := newFakeBackend()
	backend.favorites = []string{"c3"}
	s := NewCocktails(backend, loggedIn(true), SourceAll, catalog.AllFacets())

	assert.Nil(t, s.Results(), "results before load")
	require.NoError(t, s.Load(context.Background()))

	assert.Equal(t, []string{"Gimlet", "Daiquiri", "Martini"}, names(s.Results()))

	s.SetQuery("gin")
	assert.Equal(t, []string{"Gimlet", "Martini"}, names(s.Results()))

	s.ToggleFacet(catalog.FacetIngredient)
	s.ToggleFacet(catalog.FacetGlassware)
	assert.Empty(t, s.Results(), "name-only search for gin")

	s.SetQuery("coupe")
	s.ToggleFacet(catalog.FacetGlassware)
	assert.Equal(t, []string{"Gimlet", "Daiquiri"}, names(s.Results()))
}

func TestCocktailsToggleFavoriteServerFirst(t *testing.T) {
	backend := newFakeBackend()
	s := NewCocktails(backend, loggedIn(true), SourceAll, catalog.AllFacets())
	require.NoError(t, s.Load(context.Background()))

	backend.failFavorite = errors.New("boom")
	fav, err := s.ToggleFavorite(context.Background(), "c1")
	require.Error(t, err)
	assert.False(t, fav)
	assert.False(t, s.IsFavorite("c1"))

	backend.failFavorite = nil
	fav, err = s.ToggleFavorite(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, fav)
	assert.Equal(t, "Martini", s.Results()[0].Name)
}

func TestCocktailsFavoritesSource(t *testing.T) {
	backend := newFakeBackend()
	backend.favorites = []string{"c2"}
	s := NewCocktails(backend, loggedIn(true), SourceFavorites, catalog.AllFacets())
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, []string{"Daiquiri"}, names(s.Results()))

	_, err := s.ToggleFavorite(context.Background(), "c2")
	require.NoError(t, err)
	assert.Empty(t, s.Results())
}

func TestCocktailsNeedLoginForMine(t *testing.T) {
	s := NewCocktails(newFakeBackend(), loggedIn(false), SourceMine, catalog.AllFacets())
	assert.ErrorIs(t, s.Load(context.Background()), api.ErrNotLoggedIn)
}

func TestCocktailsSuggestions(t *testing.T) {
	s := NewCocktails(newFakeBackend(), loggedIn(false), SourceAll, catalog.AllFacets())
	require.NoError(t, s.Load(context.Background()))
	s.SetQuery("mrtni")
	assert.Empty(t, s.Results())
	sugg := s.Suggestions(3)
	require.NotEmpty(t, sugg)
	assert.Equal(t, "Martini", sugg[0].Name)
}

func TestIngredientsTrackerFlow(t *testing.T) {
	backend := newFakeBackend()
	backend.owned = []string{"gin"}
	s := NewIngredients(backend, loggedIn(true))
	require.NoError(t, s.Load(context.Background()))

	mine := s.Mine()
	require.Equal(t, 1, mine.Len())

	state, err := s.Toggle("rum")
	require.NoError(t, err)
	assert.Equal(t, pantry.PendingAdded, state)
	assert.Equal(t, 2, s.Mine().Len())

	all := s.All()
	var ownedFlags []string
	all.Walk(func(_, _ string, ref model.IngredientRef) {
		if ref.Owned {
			ownedFlags = append(ownedFlags, ref.ID)
		}
	})
	assert.ElementsMatch(t, []string{"gin", "rum"}, ownedFlags)

	require.NoError(t, s.Save(context.Background()))
	require.Len(t, backend.updates, 1)
	assert.Equal(t, []string{"rum"}, backend.updates[0].Added)
	assert.True(t, s.Pending().IsEmpty())
	assert.Equal(t, pantry.Owned, s.State("rum"))
}

func TestIngredientsSearchAndLookup(t *testing.T) {
	s := NewIngredients(newFakeBackend(), loggedIn(false))
	require.NoError(t, s.Load(context.Background()))

	s.SetQuery("verm")
	tree := s.All()
	require.Equal(t, 1, tree.Len())
	assert.Equal(t, "Wines and Champagnes", tree.Categories[0].Name)

	ref, ok := s.Lookup("dry vermouth")
	require.True(t, ok)
	assert.Equal(t, "vermouth", ref.ID)

	_, err := s.Toggle("gin")
	assert.ErrorIs(t, err, api.ErrNotLoggedIn)

	with, err := s.CocktailsWith(context.Background(), "gin")
	require.NoError(t, err)
	assert.Equal(t, []string{"Gimlet", "Martini"}, names(with))
}

func TestDetailLoadAndRender(t *testing.T) {
	backend := newFakeBackend()
	d := NewDetail(backend, loggedIn(false), "c1")
	require.NoError(t, d.Load(context.Background()))

	c := d.Cocktail()
	require.NotNil(t, c)
	assert.Equal(t, "Stir with ice", c.Directions)
	assert.Equal(t, "Olive", c.Garnish)
	assert.Equal(t, "Martini Glass", d.GlassName())

	lines := d.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "2 oz Gin", lines[0].String())
	assert.Equal(t, "1 oz Dry Vermouth", lines[1].String())

	md := d.Markdown()
	assert.True(t, strings.HasPrefix(md, "# Martini"))
	assert.Contains(t, md, "- 2 oz Gin")
	assert.Contains(t, d.PlainText(), "Glass: Martini Glass")
}

func TestDetailMissingCocktail(t *testing.T) {
	d := NewDetail(newFakeBackend(), loggedIn(false), "nope")
	err := d.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, 404, api.Code(err))
	_, err = d.Render(80, "notty")
	assert.ErrorIs(t, err, ErrNothingToRender)
}

func TestDetailLikeStatusSwitch(t *testing.T) {
	backend := newFakeBackend()
	backend.status = model.LikeLiked
	d := NewDetail(backend, loggedIn(true), "c1")
	require.NoError(t, d.Load(context.Background()))

	next, err := d.SetLikeStatus(context.Background(), model.LikeDisliked)
	require.NoError(t, err)
	assert.Equal(t, model.LikeDisliked, next)
	assert.Equal(t, []api.RateAction{api.ActionRemoveLike, api.ActionDislike}, backend.rates)

	backend.rates = nil
	next, err = d.SetLikeStatus(context.Background(), model.LikeDisliked)
	require.NoError(t, err)
	assert.Equal(t, model.LikeNone, next)
	assert.Equal(t, []api.RateAction{api.ActionRemoveDislike}, backend.rates)
}

func TestDetailLikeStatusFailureKeepsState(t *testing.T) {
	backend := newFakeBackend()
	backend.failRate = map[api.RateAction]error{api.ActionLike: errors.New("down")}
	d := NewDetail(backend, loggedIn(true), "c1")
	require.NoError(t, d.Load(context.Background()))

	_, err := d.SetLikeStatus(context.Background(), model.LikeLiked)
	require.Error(t, err)
	assert.Equal(t, model.LikeNone, d.LikeStatus())
}

func TestRecommendationsTopThenShuffle(t *testing.T) {
	backend := newFakeBackend()
	one := []model.CocktailSummary{{ID: "x", Name: "X"}}
	two := append(one, model.CocktailSummary{ID: "y", Name: "Y"})
	three := append(two, model.CocktailSummary{ID: "z", Name: "Z"})
	backend.ingRecs = model.IngredientRecommendations{
		"a": one, "b": three, "c": two, "d": one, "e": one,
	}
	backend.cockRecs = []model.CocktailSummary{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}

	r := NewRecommendations(backend, loggedIn(true), 3, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, r.Load(context.Background()))

	first := r.Ingredients()
	require.Len(t, first, 3)
	assert.Equal(t, "b", first[0].ID)
	assert.Equal(t, "c", first[1].ID)
	assert.Equal(t, "a", first[2].ID)
	assert.Len(t, first[0].Unlocks, 3)

	assert.Len(t, r.Ingredients(), 3)
	assert.Len(t, r.Cocktails(), 3)
}

func TestAccountValidation(t *testing.T) {
	sess, err := session.New(context.Background(), session.NewMemoryPersister())
	require.NoError(t, err)
	a := NewAccount(nil, sess)

	_, err = a.Signup(context.Background(), SignupForm{
		Email: "ann@example.com", Password: "pw", ConfirmPassword: "nope", FirstName: "Ann", LastName: "Lee",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Passwords do not match.", ErrorText(err))

	err = a.UpdatePassword(context.Background(), PasswordChange{Old: "a", New: "b", Confirm: "c"})
	require.ErrorAs(t, err, &verr)

	_, err = a.Login(context.Background(), "not-an-email", "pw")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
}

type fakeAccountBackend struct {
	user      model.User
	loginErr  error
	renamed   [2]string
	loggedOut bool
}

func (f *fakeAccountBackend) Signup(_ context.Context, _, _, first, last string) (model.User, error) {
	return model.User{ID: "new", FirstName: first, LastName: last}, nil
}
func (f *fakeAccountBackend) Login(context.Context, string, string) (model.User, error) {
	return f.user, f.loginErr
}
func (f *fakeAccountBackend) Logout(context.Context) error {
	f.loggedOut = true
	return nil
}
func (f *fakeAccountBackend) DeleteAccount(context.Context, string) error       { return nil }
func (f *fakeAccountBackend) UpdateEmail(context.Context, string, string) error { return nil }
func (f *fakeAccountBackend) UpdatePassword(context.Context, string, string) error {
	return nil
}
func (f *fakeAccountBackend) UpdateName(_ context.Context, first, last, _ string) error {
	f.renamed = [2]string{first, last}
	return nil
}

func TestAccountLoginRenameLogout(t *testing.T) {
	ctx := context.Background()
	sess, err := session.New(ctx, session.NewMemoryPersister())
	require.NoError(t, err)
	backend := &fakeAccountBackend{user: model.User{ID: "u1", FirstName: "Ann", LastName: "Lee"}}
	a := NewAccount(backend, sess)

	_, err = a.Login(ctx, "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID())

	require.NoError(t, a.UpdateName(ctx, " Anna ", "Lee", "pw"))
	assert.Equal(t, [2]string{"Anna", "Lee"}, backend.renamed)
	assert.Equal(t, "Anna Lee", a.State().DisplayName())

	require.NoError(t, a.Logout(ctx))
	assert.True(t, backend.loggedOut)
	assert.False(t, sess.LoggedIn())
}

func TestAccountLoginFailureKeepsLoggedOut(t *testing.T) {
	ctx := context.Background()
	sess, _ := session.New(ctx, session.NewMemoryPersister())
	backend := &fakeAccountBackend{loginErr: &api.Error{Op: "login", Code: api.CodeIncorrectPassword}}
	a := NewAccount(backend, sess)

	_, err := a.Login(ctx, "ann@example.com", "bad")
	require.Error(t, err)
	assert.Equal(t, "Incorrect Password", ErrorText(err))
	assert.False(t, sess.LoggedIn())
}
