// Package auto implements the auto-selection engine that combines git
// change detection and filesystem watch events to mark commands
// selected on the tree state.
package auto

import (
	"go.uber.org/zap"

	"github.com/fnug/fnug/internal/config"
	"github.com/fnug/fnug/internal/gitstatus"
	"github.com/fnug/fnug/internal/tree"
	"github.com/fnug/fnug/internal/watch"
)

// Engine runs one-shot git selection passes and matches streaming watch
// batches against the command tree's watch routes.
type Engine struct {
	log    *zap.Logger
	root   *config.Root
	detect *gitstatus.Detector // nil when the working directory is not a git repo
	state  *tree.State
}

// New builds an Engine for root's command tree. detect may be nil when the
// app is not running inside a git worktree; git-triggered selection is
// then a no-op that logs a warning, matching gitstatus's "surface a typed error, callers
// treat it as no changes" contract for the NotARepository case.
func New(log *zap.Logger, root *config.Root, detect *gitstatus.Detector, state *tree.State) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log, root: root, detect: detect, state: state}
}

// SelectAlways marks every command whose effective auto rule has
// always=true as selected, unconditionally. Called once at startup.
func (e *Engine) SelectAlways() {
	for id, cmd := range e.root.CommandsByID {
		if cmd.Auto.IsAlways() {
			e.state.Select(id)
		}
	}
}

// RunGitPass clears the git status cache and selects every command whose
// effective auto rule has git=true and at least one of its path entries
// reports a change. Invoked on startup and on the "g" key.
func (e *Engine) RunGitPass() {
	if e.detect == nil {
		e.log.Warn("auto: git autorun requested but working directory is not a git repository")
		return
	}
	e.detect.Clear()

	for id, cmd := range e.root.CommandsByID {
		if !cmd.Auto.IsGit() {
			continue
		}
		for _, p := range cmd.Auto.Path {
			changed, err := e.detect.Changed(p, cmd.Auto.Regex)
			if err != nil {
				e.log.Warn("auto: git status failed", zap.String("command", id), zap.Error(err))
				continue
			}
			if changed {
				e.state.Select(id)
				break
			}
		}
	}
}

// WatchRoutes builds the watched-path → command mapping for every command
// whose effective auto rule has watch=true, rooted at repoDir for relative
// path entries.
func (e *Engine) WatchRoutes(repoDir string) []watch.Route {
	var routes []watch.Route
	for id, cmd := range e.root.CommandsByID {
		if !cmd.Auto.IsWatch() {
			continue
		}
		for _, p := range cmd.Auto.Path {
			root := p
			if !isAbs(root) {
				root = repoDir + "/" + root
			}
			routes = append(routes, watch.Route{CommandID: id, Root: root, Regex: cmd.Auto.Regex})
		}
	}
	return routes
}

func isAbs(p string) bool {
	return len(p) > 0 && p[0] == '/'
}

// ApplyBatch matches every change in a watch batch against routes and
// selects the commands that matched, driving streaming watch mode.
func (e *Engine) ApplyBatch(routes []watch.Route, batch []watch.Change) {
	for _, ch := range batch {
		ids, err := watch.Match(routes, ch.Path)
		if err != nil {
			e.log.Warn("auto: invalid watch regex", zap.Error(err))
			continue
		}
		for _, id := range ids {
			e.state.Select(id)
		}
	}
}
