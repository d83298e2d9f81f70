// Package screen holds the state controllers behind each view. They fetch
// what a view needs, derive its display data and apply user actions. Both
// the TUI and the command-line interface drive them.
package screen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mixxbar/mixx/pkg/api"
	"github.com/mixxbar/mixx/pkg/model"
)

// Backend is the subset of the REST client the screens call.
type Backend interface {
	Cocktails(ctx context.Context) ([]model.Cocktail, error)
	Cocktail(ctx context.Context, id string) (*model.Cocktail, error)
	PossibleCocktails(ctx context.Context) ([]model.Cocktail, error)
	CocktailsContaining(ctx context.Context, ingredientID string) ([]model.Cocktail, error)
	Ingredients(ctx context.Context) ([]model.Ingredient, error)
	CategorizedIngredients(ctx context.Context) (*model.CategorizedIngredients, error)
	OwnedIngredients(ctx context.Context) ([]string, error)
	UpdateIngredients(ctx context.Context, added, removed []string) ([]string, error)
	Glassware(ctx context.Context) ([]model.Glassware, error)
	Favorites(ctx context.Context) (model.FavoriteSet, error)
	Favorite(ctx context.Context, cocktailID string) error
	Unfavorite(ctx context.Context, cocktailID string) error
	LikeStatus(ctx context.Context, cocktailID string) (model.LikeStatus, error)
	Rate(ctx context.Context, action api.RateAction, cocktailID string) error
	IngredientRecommendations(ctx context.Context) (model.IngredientRecommendations, error)
	CocktailRecommendations(ctx context.Context) ([]model.CocktailSummary, error)
}

// AccountBackend is the subset of the REST client the account screen calls.
type AccountBackend interface {
	Signup(ctx context.Context, email, password, firstName, lastName string) (model.User, error)
	Login(ctx context.Context, email, password string) (model.User, error)
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context, password string) error
	UpdateEmail(ctx context.Context, newEmail, password string) error
	UpdatePassword(ctx context.Context, oldPassword, newPassword string) error
	UpdateName(ctx context.Context, firstName, lastName, password string) error
}

var (
	_ Backend        = (*api.Client)(nil)
	_ AccountBackend = (*api.Client)(nil)
)

// Auth reports whether user-scoped data can be requested.
type Auth interface {
	LoggedIn() bool
}

// ErrNotLoaded is returned by actions that need Load to have succeeded first.
var ErrNotLoaded = errors.New("screen data not loaded")

// ValidationError is a form problem caught before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrorText returns what a view should show for err.
func ErrorText(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return api.Message(err)
}

// capitalize upper-cases the first letter of s.
func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
