// Package app implements the single-threaded application coordinator
// that turns UI intents into process-supervisor and tree-state
// operations.
package app

import (
	"sync"

	"go.uber.org/zap"

	"github.com/fnug/fnug/internal/auto"
	"github.com/fnug/fnug/internal/config"
	"github.com/fnug/fnug/internal/proc"
	"github.com/fnug/fnug/internal/tree"
	"github.com/fnug/fnug/internal/vt"
	"github.com/fnug/fnug/internal/watch"
)

// Dims is the current terminal pane size, applied to every live handle.
type Dims struct {
	Rows, Cols int
}

// App is the application coordinator. All mutation of the process-handle
// map, and of tree state other than group expansion and the group toggle
// (which callers make through State), happens through its exported
// methods, keeping a
// single-threaded scheduling model even though several goroutines (one
// reader/waiter pair per live handle) feed it events.
type App struct {
	log  *zap.Logger
	root *config.Root
	tree *tree.State
	auto *auto.Engine

	mu        sync.Mutex
	handles   map[string]*proc.Handle
	emulators map[string]*vt.Emulator
	ranOnce   map[string]bool
	pending   map[string]map[string]bool // command id -> unmet dependency ids, for the current RunMany plan
	dims      Dims
	focused   string

	watcher *watch.Watcher
	routes  []watch.Route
}

// New builds a coordinator for root, backed by state and the auto engine
// (which must already be constructed over the same state).
func New(log *zap.Logger, root *config.Root, state *tree.State, autoEngine *auto.Engine, dims Dims) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		log:       log,
		root:      root,
		tree:      state,
		auto:      autoEngine,
		handles:   map[string]*proc.Handle{},
		emulators: map[string]*vt.Emulator{},
		ranOnce:   map[string]bool{},
		dims:      dims,
	}
}

// Emulator returns read-only access to a command's terminal emulator for
// rendering. Returns nil if the command has never been run.
func (a *App) Emulator(id string) *vt.Emulator {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.emulators[id]
}

// Root exposes the frozen configuration tree the coordinator was built
// from, for UI read-only traversal (tree layout, display names, cwd).
func (a *App) Root() *config.Root { return a.root }

// State exposes the tree-state overlay for UI queries (status, selection,
// expansion, group sums). The UI also calls Expand, Collapse and
// ToggleGroup on it directly; every other change goes through App's
// methods.
func (a *App) State() *tree.State { return a.tree }

// Dims returns the last dimensions applied via Resize (or the ones New was
// constructed with).
func (a *App) Dims() Dims {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dims
}

// IsInteractive reports whether id may receive forwarded keystrokes, per
// its Command.Interactive field.
func (a *App) IsInteractive(id string) bool {
	cmd, ok := a.root.CommandsByID[id]
	return ok && cmd.Interactive
}

// WriteInput forwards keyboard bytes to id's live PTY, if any. A no-op if
// the command is not currently running.
func (a *App) WriteInput(id string, data []byte) error {
	a.mu.Lock()
	h, ok := a.handles[id]
	a.mu.Unlock()
	if !ok {
		return nil
	}
	return h.Write(data)
}

// ClickAt forwards an SGR mouse press+release to id's live PTY. A no-op if
// the command is not currently running.
func (a *App) ClickAt(id string, x, y int) error {
	a.mu.Lock()
	h, ok := a.handles[id]
	a.mu.Unlock()
	if !ok {
		return nil
	}
	return h.Click(x, y)
}

// FinishExternal records the outcome of a fullscreen/exclusive run
// (RunFullscreen), which bypasses the supervisor and emulator entirely and
// so cannot report its result through the usual handle-events path.
func (a *App) FinishExternal(id string, ok bool) {
	if ok {
		a.tree.SetStatus(id, tree.Success)
	} else {
		a.tree.SetStatus(id, tree.Failure)
	}
}

// Focused returns the currently focused command id ("" if none).
func (a *App) Focused() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.focused
}

// SetFocused updates the focused command id, a pure UI-navigation concern
// that does not affect execution.
func (a *App) SetFocused(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.focused = id
}

func (a *App) emulatorFor(cmd *config.Command) *vt.Emulator {
	if e, ok := a.emulators[cmd.ID]; ok {
		return e
	}
	e := vt.NewWithHistory(a.dims.Rows, a.dims.Cols, cmd.Scrollback)
	a.emulators[cmd.ID] = e
	return e
}

// RunOne cancels any live handle for id, then spawns a fresh one.
func (a *App) RunOne(id string) {
	cmd, ok := a.root.CommandsByID[id]
	if !ok {
		return
	}

	a.mu.Lock()
	if existing, live := a.handles[id]; live {
		a.mu.Unlock()
		existing.Cancel()
		a.mu.Lock()
	}

	emu := a.emulatorFor(cmd)
	dims := a.dims
	a.mu.Unlock()

	a.tree.SetStatus(id, tree.Running)

	env := map[string]string{}
	if cmd.Parent != nil {
		for k, v := range cmd.Parent.Env {
			env[k] = v
		}
	}

	h, err := proc.Spawn(a.log, id, cmd.Cmd, resolveCwd(cmd), dims.Rows, dims.Cols, emu, env)
	if err != nil {
		a.log.Warn("app: spawn failed", zap.String("command", id), zap.Error(err))
		a.tree.SetStatus(id, tree.Failure)
		return
	}

	a.mu.Lock()
	a.handles[id] = h
	a.mu.Unlock()

	go a.watchHandle(id, h)
}

func resolveCwd(cmd *config.Command) string {
	if cmd.Cwd != "" {
		return cmd.Cwd
	}
	if cmd.Parent != nil && cmd.Parent.Cwd != "" {
		return cmd.Parent.Cwd
	}
	return "."
}

// watchHandle drains a handle's lifecycle events and applies the resulting
// tree-state transitions, running on its own goroutine but only ever
// touching shared state through App's synchronized methods.
func (a *App) watchHandle(id string, h *proc.Handle) {
	for ev := range h.Events() {
		switch ev.Kind {
		case proc.Exited:
			if ev.ExitCode == 0 {
				a.tree.SetStatus(id, tree.Success)
			} else {
				a.tree.SetStatus(id, tree.Failure)
			}
			a.mu.Lock()
			a.ranOnce[id] = true
			a.releaseHandle(id, h)
			a.mu.Unlock()
			a.runDependents(id)
		case proc.Cancelled:
			a.mu.Lock()
			a.releaseHandle(id, h)
			a.mu.Unlock()
		case proc.ErrorEvent:
			a.log.Warn("app: process error", zap.String("command", id), zap.Int("kind", int(ev.ErrKind)), zap.Error(ev.Err))
			a.tree.SetStatus(id, tree.Failure)
			a.mu.Lock()
			a.releaseHandle(id, h)
			a.mu.Unlock()
		}
	}
}

// releaseHandle removes h from the handle map only if it is still the
// installed handle for id: RunOne may have cancelled h and installed a
// replacement before h's event drain got here. Caller must hold a.mu.
func (a *App) releaseHandle(id string, h *proc.Handle) {
	if a.handles[id] == h {
		delete(a.handles, id)
	}
}

// RunMany issues RunOne for every id, but honors dependency edges: a
// command with unstarted in-set dependencies waits for them to reach a
// terminal status before starting; dependencies marked `always` run even
// if they were not in the requested set. Ordering is computed via a
// topological sort over the requested set plus its always-dependencies.
func (a *App) RunMany(ids []string) {
	plan := a.buildRunPlan(ids)
	a.executePlan(plan)
}

// runPlan is one topologically-ordered batch: ready now, and the rest
// gated behind dependencies.
type runPlan struct {
	order  []string            // topological order of every id in the plan
	depsOf map[string][]string // id -> ids it must wait for (within the plan)
}

// buildRunPlan collects the requested ids plus any transitively reachable
// `always` dependencies. A dependency only becomes a blocking plan edge
// when it was itself requested or its edge is marked `always`; any other
// dependency is left out of the plan entirely (it is neither started nor
// waited on), so a plain `depends: [x]` with no `always: true` only
// orders execution relative to x when x is also part of the run.
func (a *App) buildRunPlan(requested []string) runPlan {
	requestedSet := map[string]bool{}
	inPlan := map[string]bool{}
	var queue []string
	for _, id := range requested {
		requestedSet[id] = true
		if !inPlan[id] {
			inPlan[id] = true
			queue = append(queue, id)
		}
	}

	depsOf := map[string][]string{}
	for i := 0; i < len(queue); i++ {
		id := queue[i]
		cmd, ok := a.root.CommandsByID[id]
		if !ok {
			continue
		}
		for _, dep := range cmd.Depends {
			if dep.Once && a.hasRunOnce(dep.TargetID) {
				continue
			}
			if !requestedSet[dep.TargetID] && !dep.Always {
				continue
			}
			depsOf[id] = append(depsOf[id], dep.TargetID)
			if !inPlan[dep.TargetID] {
				inPlan[dep.TargetID] = true
				queue = append(queue, dep.TargetID)
			}
		}
	}

	order := topoSort(queue, depsOf)
	return runPlan{order: order, depsOf: depsOf}
}

func (a *App) hasRunOnce(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ranOnce[id]
}

// topoSort returns ids ordered so that every id appears after everything
// it depends on (Kahn's algorithm); cycles are broken by falling back to
// queue order for any id that never becomes ready, rather than deadlocking
// the run.
func topoSort(ids []string, depsOf map[string][]string) []string {
	remaining := map[string]map[string]bool{}
	for _, id := range ids {
		remaining[id] = map[string]bool{}
		for _, d := range depsOf[id] {
			remaining[id][d] = true
		}
	}

	var order []string
	done := map[string]bool{}
	for len(order) < len(ids) {
		progressed := false
		for _, id := range ids {
			if done[id] {
				continue
			}
			ready := true
			for d := range remaining[id] {
				if !done[d] {
					ready = false
					break
				}
			}
			if ready {
				order = append(order, id)
				done[id] = true
				progressed = true
			}
		}
		if !progressed {
			for _, id := range ids {
				if !done[id] {
					order = append(order, id)
					done[id] = true
				}
			}
			break
		}
	}
	return order
}

// executePlan starts every ready id (those whose in-plan deps are already
// terminal) and registers the rest to start as their dependencies finish.
func (a *App) executePlan(plan runPlan) {
	pending := map[string]map[string]bool{}
	for id, deps := range plan.depsOf {
		set := map[string]bool{}
		for _, d := range deps {
			if a.tree.Status(d) != tree.Success && a.tree.Status(d) != tree.Failure {
				set[d] = true
			}
		}
		pending[id] = set
	}

	a.mu.Lock()
	a.pending = mergePending(a.pending, pending)
	a.mu.Unlock()

	for _, id := range plan.order {
		a.tryStart(id)
	}
}

func mergePending(existing, fresh map[string]map[string]bool) map[string]map[string]bool {
	if existing == nil {
		existing = map[string]map[string]bool{}
	}
	for id, deps := range fresh {
		existing[id] = deps
	}
	return existing
}

func (a *App) tryStart(id string) {
	a.mu.Lock()
	deps, waiting := a.pending[id]
	ready := !waiting || len(deps) == 0
	if ready {
		delete(a.pending, id)
	}
	a.mu.Unlock()

	if ready {
		a.RunOne(id)
	}
}

// runDependents clears id out of every other command's pending-dependency
// set and starts anything that is now ready. Called after id reaches a
// terminal status.
func (a *App) runDependents(id string) {
	a.mu.Lock()
	var unblocked []string
	for depID, deps := range a.pending {
		if deps[id] {
			delete(deps, id)
			if len(deps) == 0 {
				unblocked = append(unblocked, depID)
			}
		}
	}
	a.mu.Unlock()

	for _, depID := range unblocked {
		a.tryStart(depID)
	}
}

// Stop cancels id's live handle, echoes a stopped banner, and sets
// status=failure
func (a *App) Stop(id string) {
	if a.tree.Status(id) != tree.Running {
		return
	}
	a.mu.Lock()
	h, ok := a.handles[id]
	a.mu.Unlock()
	if !ok {
		return
	}
	h.Cancel()
	a.tree.SetStatus(id, tree.Failure)
}

// Clear resets id's emulator and sets status=pending, unless it is
// currently running.
func (a *App) Clear(id string) {
	if a.tree.Status(id) == tree.Running {
		return
	}
	a.mu.Lock()
	emu, ok := a.emulators[id]
	a.mu.Unlock()
	if ok {
		emu.Clear()
	}
	a.tree.SetStatus(id, tree.Pending)
}

// ToggleSelect flips a single command's selection bit.
func (a *App) ToggleSelect(id string) { a.tree.Toggle(id) }

// AutoSelectGit runs the auto-selection engine's one-shot git pass.
func (a *App) AutoSelectGit() { a.auto.RunGitPass() }

// Resize updates stored dimensions and resizes every live handle's
// emulator.
func (a *App) Resize(rows, cols int) {
	a.mu.Lock()
	a.dims = Dims{Rows: rows, Cols: cols}
	handles := make([]*proc.Handle, 0, len(a.handles))
	for _, h := range a.handles {
		handles = append(handles, h)
	}
	a.mu.Unlock()

	for _, h := range handles {
		_ = h.Resize(rows, cols)
	}
}

// Quit cancels every live handle and stops the watcher, if any.
func (a *App) Quit() {
	a.mu.Lock()
	handles := make([]*proc.Handle, 0, len(a.handles))
	for _, h := range a.handles {
		handles = append(handles, h)
	}
	w := a.watcher
	a.mu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}
	if w != nil {
		w.Stop()
	}
}

// StartWatching builds watch routes from every watch=true command and
// starts a recursive filesystem watcher over their roots, feeding
// batches into the auto engine as they arrive. repoDir anchors any
// relative auto.path entries. Safe to call once; a second call replaces
// the previous watcher after stopping it.
func (a *App) StartWatching(repoDir string) error {
	routes := a.auto.WatchRoutes(repoDir)

	a.mu.Lock()
	if a.watcher != nil {
		a.mu.Unlock()
		a.watcher.Stop()
		a.mu.Lock()
	}
	a.mu.Unlock()

	if len(routes) == 0 {
		return nil
	}

	w, err := watch.New(a.log, watch.Roots(routes), watch.MinDebounce)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.watcher = w
	a.routes = routes
	a.mu.Unlock()

	batches := w.Start()
	go func() {
		for batch := range batches {
			a.mu.Lock()
			routes := a.routes
			a.mu.Unlock()
			a.auto.ApplyBatch(routes, batch)
		}
	}()
	return nil
}

// Restart is the supplemented intent from the configuration: equivalent to
// RunOne but named distinctly for the UI's context-menu action set.
func (a *App) Restart(id string) { a.RunOne(id) }

// RerunFailures re-runs every command in groupID whose status is Failure.
func (a *App) RerunFailures(groupID string) {
	group, ok := a.root.GroupsByID[groupID]
	if !ok {
		return
	}
	var ids []string
	var collect func(g *config.Group)
	collect = func(g *config.Group) {
		for _, c := range g.Commands {
			if a.tree.Status(c.ID) == tree.Failure {
				ids = append(ids, c.ID)
			}
		}
		for _, child := range g.Children {
			collect(child)
		}
	}
	collect(group)
	a.RunMany(ids)
}

// SelectAll / DeselectAll are the supplemented context-menu bulk-selection
// actions, bypassing ToggleGroup's tri-state policy.
func (a *App) SelectAll(groupID string)   { a.tree.SelectAll(groupID) }
func (a *App) DeselectAll(groupID string) { a.tree.DeselectAll(groupID) }
