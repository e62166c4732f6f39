package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fnug/fnug/internal/auto"
	"github.com/fnug/fnug/internal/config"
	"github.com/fnug/fnug/internal/tree"
)

func loadFixture(t *testing.T, yamlBody string) *config.Root {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, ".fnug.yaml")
	if err := os.WriteFile(p, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("writing fixture: %s", err)
	}
	root, err := config.Load(p)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	return root
}

func newTestApp(t *testing.T, yamlBody string) (*App, *config.Root) {
	t.Helper()
	root := loadFixture(t, yamlBody)
	state := tree.New(tree.FromConfig(root))
	autoEngine := auto.New(zap.NewNop(), root, nil, state)
	a := New(zap.NewNop(), root, state, autoEngine, Dims{Rows: 24, Cols: 80})
	return a, root
}

func commandIDByName(root *config.Root, name string) string {
	for id, c := range root.CommandsByID {
		if c.Name == name {
			return id
		}
	}
	return ""
}

func waitForStatus(t *testing.T, a *App, id string, want tree.Status, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		if a.tree.Status(id) == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s to reach status %v, got %v", id, want, a.tree.Status(id))
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRunOneMarksSuccessOnExitZero(t *testing.T) {
	a, root := newTestApp(t, `
fnug_version: "0.1.0"
name: root
commands:
  - name: ok
    cmd: "exit 0"
`)
	id := commandIDByName(root, "ok")

	a.RunOne(id)
	waitForStatus(t, a, id, tree.Success, 5*time.Second)
}

func TestRunOneMarksFailureOnNonzeroExit(t *testing.T) {
	a, root := newTestApp(t, `
fnug_version: "0.1.0"
name: root
commands:
  - name: bad
    cmd: "exit 7"
`)
	id := commandIDByName(root, "bad")

	a.RunOne(id)
	waitForStatus(t, a, id, tree.Failure, 5*time.Second)
}

func TestRunOneCancelsExistingHandleBeforeRespawning(t *testing.T) {
	a, root := newTestApp(t, `
fnug_version: "0.1.0"
name: root
commands:
  - name: slow
    cmd: "sleep 30"
`)
	id := commandIDByName(root, "slow")

	a.RunOne(id)
	waitForStatus(t, a, id, tree.Running, 2*time.Second)

	done := make(chan struct{})
	go func() {
		a.RunOne(id)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("RunOne did not return promptly; Cancel of the prior handle may be stuck")
	}

	a.Stop(id)
}

func TestRunManyRunsAlwaysDependencyBeforeDependent(t *testing.T) {
	a, root := newTestApp(t, `
fnug_version: "0.1.0"
name: root
commands:
  - name: base
    cmd: "exit 0"
  - name: dependent
    cmd: "exit 0"
    depends:
      - path: base
        always: true
`)
	baseID := commandIDByName(root, "base")
	depID := commandIDByName(root, "dependent")

	a.RunMany([]string{depID})

	// An `always` dependency runs even though it was never itself
	// requested.
	waitForStatus(t, a, baseID, tree.Success, 5*time.Second)
	waitForStatus(t, a, depID, tree.Success, 5*time.Second)
}

func TestRunManySkipsNonAlwaysDependencyOutsideRequestedSet(t *testing.T) {
	a, root := newTestApp(t, `
fnug_version: "0.1.0"
name: root
commands:
  - name: base
    cmd: "exit 0"
  - name: dependent
    cmd: "exit 0"
    depends:
      - base
`)
	baseID := commandIDByName(root, "base")
	depID := commandIDByName(root, "dependent")

	a.RunMany([]string{depID})

	// base was neither requested nor marked `always`, so it must never
	// be pulled into the plan: dependent runs (and succeeds) on its own,
	// and base is left untouched at its initial status.
	waitForStatus(t, a, depID, tree.Success, 5*time.Second)
	if got := a.tree.Status(baseID); got != tree.Pending {
		t.Fatalf("expected base to stay pending (never run), got %v", got)
	}
}

func TestStopCancelsRunningCommand(t *testing.T) {
	a, root := newTestApp(t, `
fnug_version: "0.1.0"
name: root
commands:
  - name: slow
    cmd: "sleep 30"
`)
	id := commandIDByName(root, "slow")

	a.RunOne(id)
	waitForStatus(t, a, id, tree.Running, 2*time.Second)

	a.Stop(id)
	waitForStatus(t, a, id, tree.Failure, 5*time.Second)
}

func TestToggleSelectFlipsSelection(t *testing.T) {
	a, root := newTestApp(t, `
fnug_version: "0.1.0"
name: root
commands:
  - name: one
    cmd: "exit 0"
`)
	id := commandIDByName(root, "one")

	if a.tree.Selected(id) {
		t.Fatalf("expected command to start unselected")
	}
	a.ToggleSelect(id)
	if !a.tree.Selected(id) {
		t.Fatalf("expected ToggleSelect to select the command")
	}
}

func TestClearResetsStatusToPending(t *testing.T) {
	a, root := newTestApp(t, `
fnug_version: "0.1.0"
name: root
commands:
  - name: ok
    cmd: "exit 0"
`)
	id := commandIDByName(root, "ok")

	a.RunOne(id)
	waitForStatus(t, a, id, tree.Success, 5*time.Second)

	a.Clear(id)
	if got := a.tree.Status(id); got != tree.Pending {
		t.Fatalf("expected status pending after Clear, got %v", got)
	}
}
