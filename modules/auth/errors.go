package auth

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials covers both unknown identifier and wrong
	// password so login responses cannot be used to enumerate users. It
	// is also returned for stale or reused refresh tokens.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrUnauthenticated is the single failure the auth gate reports,
	// whatever check actually rejected the request.
	ErrUnauthenticated = errors.New("auth: unauthenticated")

	ErrDuplicateIdentity = errors.New("auth: username or email already registered")
	ErrUserNotFound      = errors.New("auth: user not found")
	ErrTooManyAttempts   = errors.New("auth: too many login attempts")
)

// ValidationError lists the input problems found before any mutation
// was attempted.
type ValidationError struct {
	Fields []string
}

func (e ValidationError) Error() string {
	return "auth: validation failed: " + strings.Join(e.Fields, "; ")
}
