package api

import (
	"context"
	"net/url"

	"github.com/mixxbar/mixx/pkg/model"
	"github.com/mixxbar/mixx/pkg/pantry"
)

var _ pantry.Saver = (*Client)(nil)

// Ingredients returns the full ingredient list.
func (c *Client) Ingredients(ctx context.Context) ([]model.Ingredient, error) {
	var out []model.Ingredient
	if err := c.getWrapped(ctx, "get ingredients", "/ingredients", &out, "ingredients"); err != nil {
		return nil, err
	}
	return out, nil
}

// CategorizedIngredients returns the master category tree.
func (c *Client) CategorizedIngredients(ctx context.Context) (*model.CategorizedIngredients, error) {
	var out model.CategorizedIngredients
	if err := c.getWrapped(ctx, "get categorized ingredients", "/ingredients/categorized", &out, "ingredients"); err != nil {
		return nil, err
	}
	return &out, nil
}

// OwnedIngredients returns the IDs of ingredients the current user owns.
func (c *Client) OwnedIngredients(ctx context.Context) ([]string, error) {
	path, err := c.userPath("ingredients")
	if err != nil {
		return nil, err
	}
	out := []string{}
	if err := c.getWrapped(ctx, "get owned ingredients", path, &out, "ingredientIDs", "Ingredients"); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateIngredients submits an ownership diff and returns the server's
// resulting owned list. It satisfies pantry.Saver.
func (c *Client) UpdateIngredients(ctx context.Context, added, removed []string) ([]string, error) {
	path, err := c.userPath("ingredients", "update")
	if err != nil {
		return nil, err
	}
	body := pantry.PendingEdits{Added: nonNil(added), Removed: nonNil(removed)}
	out := []string{}
	if err := c.postWrapped(ctx, "update ingredients", path, body, &out, "ingredientIDs", "Ingredients"); err != nil {
		return nil, err
	}
	return out, nil
}

// CocktailsContaining returns cocktails that use the given ingredient.
func (c *Client) CocktailsContaining(ctx context.Context, ingredientID string) ([]model.Cocktail, error) {
	var out []model.Cocktail
	path := "/cocktails/containing/" + url.PathEscape(ingredientID)
	if err := c.getWrapped(ctx, "get cocktails containing", path, &out, "cocktails"); err != nil {
		return nil, err
	}
	return out, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
