package client

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/phonebook/internal/common"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrSessionExpired = errors.New("session expired, please log in again")
)

// APIError is the server's JSON error body.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Kind       string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.StatusCode)
	}
	return e.Message
}

// Unwrap lets callers match server failures with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Kind {
	case "DuplicateEmail":
		return common.ErrDuplicateEmail
	case "InvalidCredentials":
		if e.Message == "wrong password" {
			return common.ErrWrongPassword
		}
		return common.ErrInvalidCredentials
	case "InvalidRefreshToken":
		return common.ErrInvalidRefreshToken
	case "Validation":
		return common.ErrorValidation
	case "AvatarStorageDisabled":
		return common.ErrAvatarStorageDisabled
	}

	switch e.StatusCode {
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusBadRequest:
		return common.ErrorValidation
	}
	if e.StatusCode >= http.StatusInternalServerError {
		return common.ErrorInternal
	}
	return nil
}
