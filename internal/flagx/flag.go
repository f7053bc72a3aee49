// Package flagx holds the command-line helpers shared by the server and CLI
// configuration loaders.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the allowed flags (and their values) from args.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      -config=conf.json
//
// A value is taken from the next argument only when it does not start with
// '-'. Unknown flags and positional arguments are dropped.
func FilterArgs(args []string, allowedFlags []string) []string {
	return FilterArgsWithBools(args, allowedFlags, nil)
}

// FilterArgsWithBools behaves like FilterArgs, but flags listed in boolFlags
// never consume the following argument as their value (e.g. -v).
func FilterArgsWithBools(args []string, allowedFlags []string, boolFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags)+len(boolFlags))
	for _, f := range allowedFlags {
		allowed[f] = false
	}
	for _, f := range boolFlags {
		allowed[f] = true
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "-flag=value"
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		isBool, ok := allowed[arg]
		if !ok {
			continue
		}
		filtered = append(filtered, arg)
		if isBool {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath extracts the config file path given via -c or -config.
// Other arguments are ignored; an empty string means no file was requested.
func ConfigPath(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return config
}

// JsonConfigFlags is ConfigPath applied to os.Args.
func JsonConfigFlags() string {
	return ConfigPath(os.Args[1:])
}
