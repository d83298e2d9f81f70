package api

import (
	"context"
	"net/url"

	"github.com/mixxbar/mixx/pkg/model"
)

// Glassware returns every glass type.
func (c *Client) Glassware(ctx context.Context) ([]model.Glassware, error) {
	var out []model.Glassware
	if err := c.getWrapped(ctx, "get glassware", "/glassware", &out, "glassware"); err != nil {
		return nil, err
	}
	return out, nil
}

// Glass returns one glass type by ID.
func (c *Client) Glass(ctx context.Context, id string) (*model.Glassware, error) {
	var out model.Glassware
	if err := c.getWrapped(ctx, "get glass", "/glassware/"+url.PathEscape(id), &out, "glassware"); err != nil {
		return nil, err
	}
	return &out, nil
}
