// Package client is the phonebook HTTP API client used by the CLI.
//
// # Session handling
//
// HTTPClient keeps the access/refresh token pair from the last login. A call
// that comes back 401 triggers exactly one refresh followed by one retry; if
// the refresh itself is rejected the session is cleared and the call fails
// with ErrSessionExpired. Concurrent callers that hit 401 with the same
// access token share a single refresh.
//
// Logout is best-effort: transport and server errors are ignored and the
// local session is always cleared.
//
// # Errors
//
// Non-2xx replies are returned as *APIError, which unwraps to the matching
// sentinel from internal/common (ErrDuplicateEmail, ErrWrongPassword,
// ErrorNotFound, ...). Transport failures match ErrUnavailable.
package client
