// Package services holds the storefront's business rules. Handlers call a
// service and translate a returned *Error into the response envelope.
package services

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/storefront/app/repositories"
)

// Error is a client-visible failure: Status and Message are sent as-is,
// Err (when set) is exposed under "error", and Extra is merged into the
// envelope.
type Error struct {
	Status  int
	Message string
	Err     error
	Extra   map[string]any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func badRequest(message string) *Error { return newError(http.StatusBadRequest, message, nil) }

func notFound(message string) *Error { return newError(http.StatusNotFound, message, nil) }

func internal(message string, err error) *Error {
	return newError(http.StatusInternalServerError, message, err)
}

// lookupErr maps a repository read error to 404 or 500.
func lookupErr(err error, missing, failed string) *Error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound(missing)
	}
	return internal(failed, err)
}

// Password length bounds for registration, profile and password reset.
// bcrypt rejects inputs longer than MaxPasswordBytes.
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

var (
	errShortPassword = badRequest("Password must be at least 6 characters long")
	errLongPassword  = badRequest("Password must be at most 72 bytes")
)

// checkPassword enforces the password length bounds.
func checkPassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return errShortPassword
	case len(password) > MaxPasswordBytes:
		return errLongPassword
	}
	return nil
}

// field is a named input checked for presence in order.
type field struct {
	label string
	value string
}

func requireFields(fields ...field) *Error {
	for _, f := range fields {
		if f.value == "" {
			return badRequest(f.label + " is required")
		}
	}
	return nil
}
