package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain error codes the backend returns for account operations.
const (
	CodeEmailTaken        = 460
	CodeEmailNotFound     = 461
	CodeIncorrectPassword = 462
)

// CodeNetwork marks a request that never produced an HTTP response.
const CodeNetwork = 0

// errorMessages maps backend error codes to user-facing text.
var errorMessages = map[int]string{
	CodeEmailTaken:        "Email Taken",
	CodeEmailNotFound:     "Email Not Found",
	CodeIncorrectPassword: "Incorrect Password",
}

// ErrNotLoggedIn is returned by user-scoped calls when there is no session.
var ErrNotLoggedIn = errors.New("not logged in")

// Error is a failed backend call. Code is the HTTP status, or CodeNetwork when
// the request failed before a response arrived.
type Error struct {
	Op   string
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Code == CodeNetwork {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if msg, ok := errorMessages[e.Code]; ok {
		return fmt.Sprintf("%s: %s (%d)", e.Op, msg, e.Code)
	}
	return fmt.Sprintf("%s: backend returned %d %s", e.Op, e.Code, http.StatusText(e.Code))
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code extracts the backend error code from err, or -1 if err is not an *Error.
func Code(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return -1
}

// IsUnauthorized reports whether err is a stale-session failure.
func IsUnauthorized(err error) bool {
	return Code(err) == http.StatusUnauthorized || errors.Is(err, ErrNotLoggedIn)
}

// Message returns text suitable for showing to the user: the fixed message
// for known domain codes, otherwise a generic retry prompt.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNotLoggedIn) || Code(err) == http.StatusUnauthorized {
		return "Your session has expired. Please log in again."
	}
	if msg, ok := errorMessages[Code(err)]; ok {
		return msg
	}
	return "Something went wrong. Please try again later."
}
