package watch

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// ignoreFile is the pattern file consulted before a directory is added to
// the recursive watch, or a change from it is surfaced in a batch.
const ignoreFile = ".gitignore"

// ignoreMatcher checks paths against a root's .gitignore patterns. A nil
// *ignoreMatcher (or one built over a root with no .gitignore) matches
// nothing, so watching never errors just because a root is ignore-free.
type ignoreMatcher struct {
	gi *gitignore.GitIgnore
}

// loadIgnore loads dir/.gitignore. Missing files are not an error: the
// returned matcher simply never matches.
func loadIgnore(dir string) *ignoreMatcher {
	path := filepath.Join(dir, ignoreFile)
	if _, err := os.Stat(path); err != nil {
		return &ignoreMatcher{}
	}
	gi, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return &ignoreMatcher{}
	}
	return &ignoreMatcher{gi: gi}
}

// matches reports whether the absolute path, taken relative to root (the
// directory the matcher was loaded from), is ignored.
func (m *ignoreMatcher) matches(root, path string) bool {
	if m == nil || m.gi == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return m.gi.MatchesPath(rel)
}
