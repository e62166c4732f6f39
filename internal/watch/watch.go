// Package watch implements a recursive filesystem watcher that
// coalesces bursts of changes into debounced batches.
package watch

import (
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Kind classifies a single filesystem change.
type Kind int

const (
	Created Kind = iota
	Modified
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change is one record inside a batch.
type Change struct {
	Path string
	Kind Kind
}

// MinDebounce is the floor for the coalescing window; New clamps a smaller
// caller-supplied debounce up to it. MinPoll is a floor for a polling step;
// the watcher is driven by fsnotify events and does not poll, so nothing
// reads it.
const (
	MinDebounce = 5000 * time.Millisecond
	MinPoll     = 500 * time.Millisecond
)

// Watcher recursively watches a set of root paths and emits coalesced
// batches of changes. Zero value is not usable; construct with New.
type Watcher struct {
	log      *zap.Logger
	fsw      *fsnotify.Watcher
	roots    []string
	debounce time.Duration
	ignores  map[string]*ignoreMatcher // root -> its .gitignore matcher

	batches chan []Change
	done    chan struct{}
}

// New creates a watcher rooted at the given paths, recursively adding every
// directory beneath each root. debounce is clamped to MinDebounce.
func New(log *zap.Logger, roots []string, debounce time.Duration) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if debounce < MinDebounce {
		debounce = MinDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		log:      log,
		fsw:      fsw,
		roots:    roots,
		debounce: debounce,
		ignores:  map[string]*ignoreMatcher{},
		batches:  make(chan []Change, 1),
		done:     make(chan struct{}),
	}

	for _, root := range roots {
		w.ignores[root] = loadIgnore(root)
		if err := w.addRecursive(root, root); err != nil {
			log.Warn("watch: failed to attach to root", zap.String("path", root), zap.Error(err))
		}
	}

	return w, nil
}

// addRecursive walks dir, adding every subdirectory to the underlying
// fsnotify watch. fsnotify has no native recursive mode, so every directory
// must be added individually; new directories created later are picked up
// from Create events in the run loop. It never descends into .git or a
// path matched by root's .gitignore.
func (w *Watcher) addRecursive(root, dir string) error {
	ign := w.ignores[root]
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // best-effort: skip unreadable subtrees
		}
		if d.IsDir() {
			if d.Name() == ".git" || ign.matches(root, path) {
				return filepath.SkipDir
			}
			_ = w.fsw.Add(path)
		}
		return nil
	})
}

// rootFor returns the watched root path is nested under, or "" if none
// matches (which should not happen for paths fsnotify reports).
func (w *Watcher) rootFor(path string) string {
	var best string
	for _, root := range w.roots {
		if (path == root || len(path) > len(root) && path[:len(root)+1] == root+string(filepath.Separator)) && len(root) > len(best) {
			best = root
		}
	}
	return best
}

func classify(ev fsnotify.Event) (Kind, bool) {
	switch {
	case ev.Has(fsnotify.Create):
		return Created, true
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Chmod):
		return Modified, true
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return Deleted, true
	default:
		return 0, false
	}
}

// Start launches the coalescing loop and returns the channel batches are
// delivered on. Each debounce tick yields exactly one batch (possibly
// empty-filtered-to-nothing batches are simply not sent). Call Stop to
// cancel; Start must be called at most once per Watcher.
func (w *Watcher) Start() <-chan []Change {
	go w.run()
	return w.batches
}

func (w *Watcher) run() {
	defer close(w.batches)

	pending := map[string]Kind{}
	var timer *time.Timer

	flush := func() {
		if len(pending) == 0 {
			return
		}
		batch := make([]Change, 0, len(pending))
		for path, kind := range pending {
			batch = append(batch, Change{Path: path, Kind: kind})
		}
		pending = map[string]Kind{}
		select {
		case w.batches <- batch:
		case <-w.done:
		}
	}

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				flush()
				return
			}
			kind, ok := classify(ev)
			if !ok {
				continue
			}
			root := w.rootFor(ev.Name)
			if w.ignores[root].matches(root, ev.Name) {
				continue
			}
			if kind == Created {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(root, ev.Name)
				}
			}
			pending[ev.Name] = kind

			jitter := time.Duration(rand.Int63n(int64(w.debounce / 10)))
			if timer == nil {
				timer = time.NewTimer(w.debounce + jitter)
			} else {
				timer.Reset(w.debounce + jitter)
			}
		case <-timerC(timer):
			timer = nil
			flush()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				flush()
				return
			}
		case <-w.done:
			flush()
			return
		}
	}
}

func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// Stop cancels the watcher. Safe to call once. The batches channel closes
// once any in-flight batch has been delivered or dropped.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.fsw.Close()
}
