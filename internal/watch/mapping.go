package watch

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Route is one entry in the watched-path → command mapping: a command that
// asked to be auto-selected when files under Root change, optionally
// filtered by Regex.
type Route struct {
	CommandID string
	Root      string
	Regex     []string
}

// Roots returns the deduplicated set of directories that must be passed to
// New so every route's Root is actually under watch.
func Roots(routes []Route) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range routes {
		abs, err := filepath.Abs(r.Root)
		if err != nil {
			abs = r.Root
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, abs)
		}
	}
	return out
}

// Match returns the set of command ids whose route root is an ancestor of
// changedPath and whose regex list (if any) matches it: an "ancestor of
// the change path AND regex matches" rule.
func Match(routes []Route, changedPath string) ([]string, error) {
	var matched []string
	for _, r := range routes {
		root, err := filepath.Abs(r.Root)
		if err != nil {
			root = r.Root
		}
		rel, err := filepath.Rel(root, changedPath)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if len(r.Regex) > 0 {
			matchedAny := false
			for _, pattern := range r.Regex {
				re, err := regexp.Compile(pattern)
				if err != nil {
					return nil, err
				}
				if re.MatchString(changedPath) {
					matchedAny = true
					break
				}
			}
			if !matchedAny {
				continue
			}
		}
		matched = append(matched, r.CommandID)
	}
	return matched, nil
}
