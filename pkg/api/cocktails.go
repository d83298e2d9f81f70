package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mixxbar/mixx/pkg/model"
)

// RateAction is a like-status mutation endpoint.
type RateAction string

const (
	ActionLike          RateAction = "like"
	ActionDislike       RateAction = "dislike"
	ActionRemoveLike    RateAction = "remove_like"
	ActionRemoveDislike RateAction = "remove_dislike"
)

// IsValid returns true if the action names a backend endpoint
func (a RateAction) IsValid() bool {
	switch a {
	case ActionLike, ActionDislike, ActionRemoveLike, ActionRemoveDislike:
		return true
	}
	return false
}

// AddAction returns the action that sets status, or "" for LikeNone.
func AddAction(status model.LikeStatus) RateAction {
	switch status {
	case model.LikeLiked:
		return ActionLike
	case model.LikeDisliked:
		return ActionDislike
	}
	return ""
}

// RemoveAction returns the action that clears status, or "" for LikeNone.
func RemoveAction(status model.LikeStatus) RateAction {
	switch status {
	case model.LikeLiked:
		return ActionRemoveLike
	case model.LikeDisliked:
		return ActionRemoveDislike
	}
	return ""
}

type cocktailRef struct {
	CocktailID string `json:"cocktailID"`
}

// Cocktails returns every cocktail in the catalog.
func (c *Client) Cocktails(ctx context.Context) ([]model.Cocktail, error) {
	var out []model.Cocktail
	if err := c.getWrapped(ctx, "get cocktails", "/cocktails", &out, "cocktails"); err != nil {
		return nil, err
	}
	return out, nil
}

// Cocktail returns a single cocktail with its recipe.
func (c *Client) Cocktail(ctx context.Context, id string) (*model.Cocktail, error) {
	var out model.Cocktail
	if err := c.getWrapped(ctx, "get cocktail", "/cocktails/"+url.PathEscape(id), &out, "cocktail"); err != nil {
		return nil, err
	}
	return &out, nil
}

// PossibleCocktails returns the cocktails the current user can make.
func (c *Client) PossibleCocktails(ctx context.Context) ([]model.Cocktail, error) {
	path, err := c.userPath("cocktails")
	if err != nil {
		return nil, err
	}
	var out []model.Cocktail
	if err := c.getWrapped(ctx, "get possible cocktails", path, &out, "cocktails"); err != nil {
		return nil, err
	}
	return out, nil
}

// Rate applies a like-status mutation to a cocktail.
func (c *Client) Rate(ctx context.Context, action RateAction, cocktailID string) error {
	if !action.IsValid() {
		return fmt.Errorf("invalid rate action %q", action)
	}
	path, err := c.userPath("cocktails", string(action))
	if err != nil {
		return err
	}
	return c.post(ctx, string(action), path, cocktailRef{CocktailID: cocktailID}, nil)
}

// LikeStatus returns the current user's rating of a cocktail.
func (c *Client) LikeStatus(ctx context.Context, cocktailID string) (model.LikeStatus, error) {
	path, err := c.userPath("cocktails", url.PathEscape(cocktailID), "status")
	if err != nil {
		return model.LikeNone, err
	}
	var resp struct {
		LikeStatus model.LikeStatus `json:"likeStatus"`
	}
	if err := c.get(ctx, "get like status", path, &resp); err != nil {
		return model.LikeNone, err
	}
	if !resp.LikeStatus.IsValid() {
		return model.LikeNone, nil
	}
	return resp.LikeStatus, nil
}

// Likes returns the IDs of cocktails the current user liked.
func (c *Client) Likes(ctx context.Context) ([]string, error) {
	return c.cocktailIDs(ctx, "get likes", "likes")
}

// Dislikes returns the IDs of cocktails the current user disliked.
func (c *Client) Dislikes(ctx context.Context) ([]string, error) {
	return c.cocktailIDs(ctx, "get dislikes", "dislikes")
}

// Favorites returns the current user's favorite cocktail IDs.
func (c *Client) Favorites(ctx context.Context) (model.FavoriteSet, error) {
	ids, err := c.cocktailIDs(ctx, "get favorites", "favorites")
	if err != nil {
		return nil, err
	}
	return model.NewFavoriteSet(ids), nil
}

// Favorite adds a cocktail to the current user's favorites.
func (c *Client) Favorite(ctx context.Context, cocktailID string) error {
	return c.cocktailAction(ctx, "favorite", cocktailID)
}

// Unfavorite removes a cocktail from the current user's favorites.
func (c *Client) Unfavorite(ctx context.Context, cocktailID string) error {
	return c.cocktailAction(ctx, "unfavorite", cocktailID)
}

func (c *Client) cocktailAction(ctx context.Context, action, cocktailID string) error {
	path, err := c.userPath("cocktails", action)
	if err != nil {
		return err
	}
	return c.post(ctx, action, path, cocktailRef{CocktailID: cocktailID}, nil)
}

func (c *Client) cocktailIDs(ctx context.Context, op, list string) ([]string, error) {
	path, err := c.userPath("cocktails", list)
	if err != nil {
		return nil, err
	}
	out := []string{}
	if err := c.getWrapped(ctx, op, path, &out, "cocktailIDs", list); err != nil {
		return nil, err
	}
	return out, nil
}
