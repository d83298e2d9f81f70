package api

import (
	"context"

	"github.com/mixxbar/mixx/pkg/model"
)

type credentials struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Signup creates an account. The backend only echoes the new user ID, so the
// returned user carries the names that were submitted.
func (c *Client) Signup(ctx context.Context, email, password, firstName, lastName string) (model.User, error) {
	var resp model.User
	body := credentials{Email: email, Password: password, FirstName: firstName, LastName: lastName}
	if err := c.post(ctx, "signup", "/signup", body, &resp); err != nil {
		return model.User{}, err
	}
	return model.User{ID: resp.ID, FirstName: firstName, LastName: lastName}, nil
}

// Login authenticates and returns the user's identity.
func (c *Client) Login(ctx context.Context, email, password string) (model.User, error) {
	var resp model.User
	if err := c.post(ctx, "login", "/login", credentials{Email: email, Password: password}, &resp); err != nil {
		return model.User{}, err
	}
	return resp, nil
}

// Logout ends the backend session for the current user.
func (c *Client) Logout(ctx context.Context) error {
	if c.identity == nil || c.identity.UserID() == "" {
		return ErrNotLoggedIn
	}
	body := map[string]string{"userID": c.identity.UserID()}
	return c.post(ctx, "logout", "/logout", body, nil)
}

// DeleteAccount permanently removes the current user.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	path, err := c.userPath("delete")
	if err != nil {
		return err
	}
	return c.post(ctx, "delete account", path, map[string]string{"password": password}, nil)
}

// UpdateEmail changes the account email.
func (c *Client) UpdateEmail(ctx context.Context, newEmail, password string) error {
	path, err := c.userPath("updateEmail")
	if err != nil {
		return err
	}
	body := map[string]string{"newEmail": newEmail, "password": password}
	return c.post(ctx, "update email", path, body, nil)
}

// UpdatePassword changes the account password.
func (c *Client) UpdatePassword(ctx context.Context, oldPassword, newPassword string) error {
	path, err := c.userPath("updatePassword")
	if err != nil {
		return err
	}
	body := map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}
	return c.post(ctx, "update password", path, body, nil)
}

// UpdateName changes the account's first and last name.
func (c *Client) UpdateName(ctx context.Context, firstName, lastName, password string) error {
	path, err := c.userPath("updateName")
	if err != nil {
		return err
	}
	body := map[string]string{"firstName": firstName, "lastName": lastName, "password": password}
	return c.post(ctx, "update name", path, body, nil)
}
