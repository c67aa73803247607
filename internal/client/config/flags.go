package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/phonebook/internal/flagx"
)

// parseFlags reads -a and -t, ignoring every other argument.
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the phonebook API")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")

	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"a", "t"})); err != nil {
		panic(err)
	}
}
