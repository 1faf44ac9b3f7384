// Package flagx helps several configuration layers share one command line.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// ConfigFileFlags are the spellings accepted for the config file path.
var ConfigFileFlags = []string{"-c", "-config", "--config"}

// FilterArgs keeps only the flags listed in allowedFlags together with their
// values, so a flag.FlagSet can parse its own subset of a shared command line
// without failing on flags owned by someone else.
//
// Both "-c conf.json" and "--config=conf.json" forms are recognised. A token
// starting with "-" is never taken as a value.
//
//	FilterArgs([]string{"-c", "conf.yaml", "list", "-x"}, []string{"-c"}) // ["-c", "conf.yaml"]
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	// never nil, callers pass it straight to FlagSet.Parse
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigFile returns the config file path given with -c, -config or --config
// in args, or "" when none is present. When the flag is repeated the last
// value wins.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, ConfigFileFlags))

	return path
}

// ConfigFileFlag is ConfigFile applied to os.Args.
func ConfigFileFlag() string {
	return ConfigFile(os.Args[1:])
}

// IsYAML reports whether path names a YAML document by its extension.
func IsYAML(path string) bool {
	p := strings.ToLower(path)
	return strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml")
}
