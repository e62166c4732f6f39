// Package fileutil provides small path-resolution helpers shared across the
// config loader, the git change detector and the CLI layer.
package fileutil

import (
	"os"
	"path/filepath"
)

// DefaultConfigNames are searched, in order, by `fnug run` and `fnug check`
// when no --config flag is given.
var DefaultConfigNames = []string{".fnug.json", ".fnug.yaml", ".fnug.yml"}

// WalkUpUntil walks up the directory tree from dir, calling check on each
// directory. Returns the first directory where check returns true, or ""
// if the root of the filesystem is reached without a match.
func WalkUpUntil(dir string, check func(string) bool) string {
	for {
		if check(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// FindGitRoot walks up from dir looking for a .git entry (directory or,
// for worktrees/submodules, file).
func FindGitRoot(dir string) string {
	return WalkUpUntil(dir, func(d string) bool {
		_, err := os.Stat(filepath.Join(d, ".git"))
		return err == nil
	})
}

// FindConfigFile searches dir for the default config file names, in order.
// Returns "" if none exist.
func FindConfigFile(dir string) string {
	for _, name := range DefaultConfigNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
