// Package common defines shared constants and sentinel errors used across
// the client and server layers of the phonebook. Callers should use
// errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Credential errors.
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrWrongPassword is reported when the user exists but the password
	// does not match. It matches ErrInvalidCredentials with errors.Is.
	ErrWrongPassword = fmt.Errorf("wrong password: %w", ErrInvalidCredentials)

	// Access token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Refresh token lifecycle errors. Unknown, consumed, revoked and
	// expired tokens all surface as ErrInvalidRefreshToken.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// Avatar upload errors.
	ErrAvatarStorageDisabled = errors.New("avatar storage is not configured")
)

// ValidationError returns an error carrying msg that matches ErrorValidation.
func ValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrorValidation, msg)
}
