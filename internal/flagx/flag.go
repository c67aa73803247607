// Package flagx lets several independent flag sets share os.Args: each one
// filters out the flags it owns before parsing.
package flagx

import (
	"flag"
	"os"
	"strings"
)

func flagName(arg string) string {
	return strings.TrimLeft(arg, "-")
}

// FilterArgs keeps the flags listed in names together with their values.
// Names may be written with or without dashes; "-c" and "--c" are the same
// flag on the command line. Both "-c value" and "-c=value" are recognised.
// Parsing stops at "--".
func FilterArgs(args []string, names []string) []string {
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[flagName(n)] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if !allowed[flagName(name)] {
			continue
		}
		out = append(out, arg)

		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigFileFlag returns the path given with -c or -config, or "".
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to JSON config file")
	fs.StringVar(&path, "c", "", "Path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"c", "config"}))

	return path
}

// EnvFileFlag returns the path given with -env-file, falling back to def.
func EnvFileFlag(args []string, def string) string {
	path := def

	fs := flag.NewFlagSet("env", flag.ContinueOnError)
	fs.StringVar(&path, "env-file", def, "Path to .env file")
	_ = fs.Parse(FilterArgs(args, []string{"env-file"}))

	return path
}

// ConfigFile is ConfigFileFlag applied to os.Args.
func ConfigFile() string {
	return ConfigFileFlag(os.Args[1:])
}
