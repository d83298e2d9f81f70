package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/mixxbar/mixx/pkg/screen"
)

// FormKind identifies an account form.
type FormKind int

const (
	FormNone FormKind = iota
	FormLogin
	FormSignup
	FormName
	FormEmail
	FormPassword
	FormDelete
)

// String returns the form's title.
func (k FormKind) String() string {
	switch k {
	case FormLogin:
		return "Log In"
	case FormSignup:
		return "Sign Up"
	case FormName:
		return "Change Name"
	case FormEmail:
		return "Change Email"
	case FormPassword:
		return "Change Password"
	case FormDelete:
		return "Delete Account"
	default:
		return ""
	}
}

// FormValues is the input of every account form. Each form binds only the
// fields it asks for.
type FormValues struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	NewPassword     string
	Confirm         bool
}

// Signup converts the values to a signup request.
func (v *FormValues) Signup() screen.SignupForm {
	return screen.SignupForm{
		Email:           v.Email,
		Password:        v.Password,
		ConfirmPassword: v.ConfirmPassword,
		FirstName:       v.FirstName,
		LastName:        v.LastName,
	}
}

// PasswordChange converts the values to a change-password request.
func (v *FormValues) PasswordChange() screen.PasswordChange {
	return screen.PasswordChange{Old: v.Password, New: v.NewPassword, Confirm: v.ConfirmPassword}
}

func notBlank(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(label + " is required")
		}
		return nil
	}
}

func passwordInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Validate(notBlank(title)).
		Value(value)
}

// NewAccountForm builds the huh form for kind bound to v. It returns nil for
// FormNone.
func NewAccountForm(kind FormKind, v *FormValues) *huh.Form {
	var fields []huh.Field
	switch kind {
	case FormLogin:
		fields = []huh.Field{
			huh.NewInput().Title("Email").Validate(notBlank("Email")).Value(&v.Email),
			passwordInput("Password", &v.Password),
		}
	case FormSignup:
		fields = []huh.Field{
			huh.NewInput().Title("Email").Validate(notBlank("Email")).Value(&v.Email),
			passwordInput("Password", &v.Password),
			passwordInput("Confirm password", &v.ConfirmPassword),
			huh.NewInput().Title("First name").Validate(notBlank("First name")).Value(&v.FirstName),
			huh.NewInput().Title("Last name").Validate(notBlank("Last name")).Value(&v.LastName),
		}
	case FormName:
		fields = []huh.Field{
			huh.NewInput().Title("First name").Validate(notBlank("First name")).Value(&v.FirstName),
			huh.NewInput().Title("Last name").Validate(notBlank("Last name")).Value(&v.LastName),
			passwordInput("Password", &v.Password),
		}
	case FormEmail:
		fields = []huh.Field{
			huh.NewInput().Title("New email").Validate(notBlank("New email")).Value(&v.Email),
			passwordInput("Password", &v.Password),
		}
	case FormPassword:
		fields = []huh.Field{
			passwordInput("Current password", &v.Password),
			passwordInput("New password", &v.NewPassword),
			passwordInput("Confirm new password", &v.ConfirmPassword),
		}
	case FormDelete:
		fields = []huh.Field{
			passwordInput("Password", &v.Password),
			huh.NewConfirm().
				Title("Delete your account? This cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&v.Confirm),
		}
	default:
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...).Title(kind.String())).WithShowHelp(true)
}
