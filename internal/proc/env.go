package proc

import (
	"os"
	"strings"
)

// childEnv builds the environment for a spawned command: the parent's
// environment with TERM forced to xterm-256color, plus any group-level
// overrides layered on top.
func childEnv(overrides map[string]string) []string {
	base := filterByPrefixes(os.Environ(), "TERM=")
	base = append(base, "TERM=xterm-256color")
	for k, v := range overrides {
		base = append(base, k+"="+v)
	}
	return base
}

// filterByPrefixes returns a copy of environ with any variable matching one
// of the given "KEY=" prefixes removed.
func filterByPrefixes(environ []string, excludePrefixes ...string) []string {
	result := make([]string, 0, len(environ))
	for _, e := range environ {
		skip := false
		for _, prefix := range excludePrefixes {
			if strings.HasPrefix(e, prefix) {
				skip = true
				break
			}
		}
		if !skip {
			result = append(result, e)
		}
	}
	return result
}
