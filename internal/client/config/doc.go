// Package config loads runtime configuration for the phonebook CLI.
//
// Sources, lowest precedence first:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given with -c or -config.
//  3. PHONEBOOK_CLI_* environment variables.
//  4. Command-line flags.
//
// Flags:
//
//	-a string     base URL of the phonebook HTTP API
//	-t duration   per-request timeout, e.g. 10s
//
// JSON file:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s"
//	}
package config
