// Package cli provides the interactive phonebook command-line client.
//
// It wires configuration and the HTTP API client into a small REPL. The
// session lives in memory only: a refresh happens transparently when the
// access token expires, and a failed refresh asks the user to log in again.
//
// Key features:
//   - Register / Login / Logout
//   - Profile view, edit, avatar upload and account deletion
//   - Contacts: add, list with filters, show, edit, favorite, delete,
//     bulk delete, search and stats
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
