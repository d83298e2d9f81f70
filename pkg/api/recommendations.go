package api

import (
	"context"

	"github.com/mixxbar/mixx/pkg/model"
)

// IngredientRecommendations maps unowned ingredient IDs to the cocktails each
// would unlock for the current user.
func (c *Client) IngredientRecommendations(ctx context.Context) (model.IngredientRecommendations, error) {
	path, err := c.userPath("ingredients", "recommendations")
	if err != nil {
		return nil, err
	}
	out := model.IngredientRecommendations{}
	if err := c.getWrapped(ctx, "get ingredient recommendations", path, &out, "recommendations"); err != nil {
		return nil, err
	}
	return out, nil
}

// CocktailRecommendations returns cocktails suggested for the current user.
func (c *Client) CocktailRecommendations(ctx context.Context) ([]model.CocktailSummary, error) {
	path, err := c.userPath("cocktails", "recommendations")
	if err != nil {
		return nil, err
	}
	var out []model.CocktailSummary
	if err := c.getWrapped(ctx, "get cocktail recommendations", path, &out, "recommendations"); err != nil {
		return nil, err
	}
	return out, nil
}
