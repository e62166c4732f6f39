package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewClampsDebounceToFloor(t *testing.T) {
	dir := t.TempDir()
	w, err := New(zap.NewNop(), []string{dir}, time.Millisecond)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	defer w.Stop()
	if w.debounce != MinDebounce {
		t.Fatalf("expected debounce clamped to %s, got %s", MinDebounce, w.debounce)
	}
}

func TestWatchEmitsBatchOnWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(target, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(zap.NewNop(), []string{dir}, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	w.debounce = 50 * time.Millisecond // override the minimum debounce for test speed
	defer w.Stop()

	batches := w.Start()

	if err := os.WriteFile(target, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case batch, ok := <-batches:
		if !ok {
			t.Fatalf("channel closed before a batch arrived")
		}
		if len(batch) == 0 {
			t.Fatalf("expected a non-empty batch")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a batch")
	}
}

func TestStopClosesBatchesChannel(t *testing.T) {
	dir := t.TempDir()
	w, err := New(zap.NewNop(), []string{dir}, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	batches := w.Start()
	w.Stop()

	select {
	case _, ok := <-batches:
		if ok {
			t.Fatalf("expected channel to close after Stop")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for channel close")
	}
}

func TestMatchRequiresAncestorAndRegex(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "src")
	routes := []Route{
		{CommandID: "lint", Root: sub, Regex: []string{`\.go$`}},
		{CommandID: "docs", Root: sub, Regex: []string{`\.md$`}},
	}

	matched, err := Match(routes, filepath.Join(sub, "main.go"))
	if err != nil {
		t.Fatalf("Match: %s", err)
	}
	if len(matched) != 1 || matched[0] != "lint" {
		t.Fatalf("expected only lint to match main.go, got %v", matched)
	}

	outside := filepath.Join(dir, "other", "main.go")
	matched, err = Match(routes, outside)
	if err != nil {
		t.Fatalf("Match: %s", err)
	}
	if len(matched) != 0 {
		t.Fatalf("expected no match outside the route root, got %v", matched)
	}
}

func TestRootsDeduplicates(t *testing.T) {
	routes := []Route{
		{CommandID: "a", Root: "/tmp/x"},
		{CommandID: "b", Root: "/tmp/x"},
		{CommandID: "c", Root: "/tmp/y"},
	}
	roots := Roots(routes)
	if len(roots) != 2 {
		t.Fatalf("expected 2 deduplicated roots, got %v", roots)
	}
}
