package screen

import (
	"context"
	"net/mail"
	"strings"

	"github.com/mixxbar/mixx/pkg/model"
	"github.com/mixxbar/mixx/pkg/session"
)

// SignupForm is the account creation input.
type SignupForm struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
}

// Validate checks the form before it is submitted.
func (f SignupForm) Validate() error {
	if err := validateEmail("email", f.Email); err != nil {
		return err
	}
	if err := required("password", f.Password); err != nil {
		return err
	}
	if f.Password != f.ConfirmPassword {
		return &ValidationError{Field: "confirm password", Message: "Passwords do not match."}
	}
	if err := required("first name", f.FirstName); err != nil {
		return err
	}
	return required("last name", f.LastName)
}

// PasswordChange is the change-password form.
type PasswordChange struct {
	Old     string
	New     string
	Confirm string
}

// Validate checks the form before it is submitted.
func (p PasswordChange) Validate() error {
	if err := required("current password", p.Old); err != nil {
		return err
	}
	if err := required("new password", p.New); err != nil {
		return err
	}
	if p.New != p.Confirm {
		return &ValidationError{Field: "confirm password", Message: "New passwords do not match."}
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "Please enter your " + field + "."}
	}
	return nil
}

func validateEmail(field, value string) error {
	if err := required(field, value); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(value)); err != nil {
		return &ValidationError{Field: field, Message: "Please enter a valid email."}
	}
	return nil
}

// Account performs login, signup and settings changes and keeps the session
// in step with the backend.
type Account struct {
	backend AccountBackend
	session *session.Session
}

// NewAccount creates the account screen.
func NewAccount(backend AccountBackend, sess *session.Session) *Account {
	return &Account{backend: backend, session: sess}
}

// State returns the current auth state.
func (a *Account) State() session.AuthState {
	return a.session.State()
}

// Signup creates an account and logs in.
func (a *Account) Signup(ctx context.Context, form SignupForm) (model.User, error) {
	if err := form.Validate(); err != nil {
		return model.User{}, err
	}
	user, err := a.backend.Signup(ctx, strings.TrimSpace(form.Email), form.Password,
		strings.TrimSpace(form.FirstName), strings.TrimSpace(form.LastName))
	if err != nil {
		return model.User{}, err
	}
	if err := a.session.Update(ctx, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Login authenticates and stores the session.
func (a *Account) Login(ctx context.Context, email, password string) (model.User, error) {
	if err := validateEmail("email", email); err != nil {
		return model.User{}, err
	}
	if err := required("password", password); err != nil {
		return model.User{}, err
	}
	user, err := a.backend.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return model.User{}, err
	}
	if err := a.session.Update(ctx, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Logout ends the session on the backend, then locally.
func (a *Account) Logout(ctx context.Context) error {
	if err := a.backend.Logout(ctx); err != nil {
		return err
	}
	return a.session.Clear(ctx)
}

// Delete removes the account and logs out.
func (a *Account) Delete(ctx context.Context, password string) error {
	if err := required("password", password); err != nil {
		return err
	}
	if err := a.backend.DeleteAccount(ctx, password); err != nil {
		return err
	}
	return a.session.Clear(ctx)
}

// UpdateName changes the user's name on the backend and in the session.
func (a *Account) UpdateName(ctx context.Context, firstName, lastName, password string) error {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if err := required("first name", firstName); err != nil {
		return err
	}
	if err := required("last name", lastName); err != nil {
		return err
	}
	if err := required("password", password); err != nil {
		return err
	}
	if err := a.backend.UpdateName(ctx, firstName, lastName, password); err != nil {
		return err
	}
	return a.session.Rename(ctx, firstName, lastName)
}

// UpdateEmail changes the account email.
func (a *Account) UpdateEmail(ctx context.Context, newEmail, password string) error {
	if err := validateEmail("new email", newEmail); err != nil {
		return err
	}
	if err := required("password", password); err != nil {
		return err
	}
	return a.backend.UpdateEmail(ctx, strings.TrimSpace(newEmail), password)
}

// UpdatePassword changes the account password.
func (a *Account) UpdatePassword(ctx context.Context, change PasswordChange) error {
	if err := change.Validate(); err != nil {
		return err
	}
	return a.backend.UpdatePassword(ctx, change.Old, change.New)
}
