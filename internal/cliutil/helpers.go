// Package cliutil holds the config/repo resolution and signal-handling
// helpers shared by fnug's cobra subcommands.
package cliutil

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fnug/fnug/internal/config"
	"github.com/fnug/fnug/internal/fileutil"
)

// LoadConfig loads and validates a config file, returning a fnug-specific
// error (config.ConfigInvalid or a wrapped read error) on failure.
func LoadConfig(path string) (*config.Root, error) {
	root, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// ResolveConfigPath returns path unchanged if set, otherwise searches dir
// (and its ancestors) for one of fileutil's default config file names.
func ResolveConfigPath(path, dir string) (string, error) {
	if path != "" {
		return path, nil
	}
	found := fileutil.WalkUpUntil(dir, func(d string) bool {
		return fileutil.FindConfigFile(d) != ""
	})
	if found == "" {
		return "", fmt.Errorf("no .fnug.yaml/.fnug.yml/.fnug.json found in %s or any ancestor", dir)
	}
	return fileutil.FindConfigFile(found), nil
}

// LoadConfigAndRepo loads and validates a config file and resolves the
// enclosing git repository root (used to anchor relative auto.path
// entries and watch roots). repoDir is "" with no error when configPath's
// directory is not inside a git worktree; git-triggered auto-selection is
// then a no-op per auto.Engine's documented contract.
func LoadConfigAndRepo(configPath string) (*config.Root, string, error) {
	root, err := LoadConfig(configPath)
	if err != nil {
		return nil, "", err
	}

	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, "", err
	}
	repoDir := fileutil.FindGitRoot(filepath.Dir(abs))
	return root, repoDir, nil
}

// SetupSignalHandler registers SIGINT/SIGTERM on a buffered channel so the
// run loop can turn a signal into context cancellation.
func SetupSignalHandler() chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}
