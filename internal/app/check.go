package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fnug/fnug/internal/tree"
)

// CheckOptions configures RunCheck's headless behavior, mirroring the
// `fnug check` flags.
type CheckOptions struct {
	FailFast    bool
	MuteSuccess bool
}

// CheckExitOK, CheckExitFailure, CheckExitConfigError and
// CheckExitInterrupted are the process exit codes `fnug check` returns.
const (
	CheckExitOK          = 0
	CheckExitFailure     = 1
	CheckExitConfigError = 2
	CheckExitInterrupted = 130
)

// RunCheck runs every selected command to completion with no TUI attached,
// printing a pass/fail line per command (and a summary) to out, and
// returns the process exit code. ctx cancellation (e.g. from an interrupt
// signal) reports CheckExitInterrupted.
func (a *App) RunCheck(ctx context.Context, out io.Writer, opts CheckOptions) int {
	ids := a.tree.SelectedRunnableIDs()
	if len(ids) == 0 {
		fmt.Fprintln(out, "no commands selected to check")
		return CheckExitOK
	}

	done := make(chan struct{})
	var failed []string
	var mu lockedSlice

	watchers := make(chan string, len(ids))
	for _, id := range ids {
		id := id
		go a.watchCheckResult(id, watchers)
	}

	a.RunMany(ids)

	go func() {
		remaining := map[string]bool{}
		for _, id := range ids {
			remaining[id] = true
		}
		for len(remaining) > 0 {
			id, ok := <-watchers
			if !ok {
				break
			}
			delete(remaining, id)
			if a.tree.Status(id) == tree.Failure {
				mu.append(id)
				if opts.FailFast {
					a.cancelAll(ids)
					break
				}
			}
		}
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		a.cancelAll(ids)
		return CheckExitInterrupted
	}

	failed = mu.snapshot()
	for _, id := range ids {
		name := a.displayName(id)
		switch a.tree.Status(id) {
		case tree.Success:
			if !opts.MuteSuccess {
				fmt.Fprintf(out, "PASS %s\n", name)
			}
		case tree.Failure:
			fmt.Fprintf(out, "FAIL %s\n", name)
		default:
			fmt.Fprintf(out, "SKIP %s\n", name)
		}
	}

	if len(failed) > 0 {
		fmt.Fprintf(out, "%d/%d commands failed\n", len(failed), len(ids))
		return CheckExitFailure
	}
	fmt.Fprintf(out, "%d commands passed\n", len(ids))
	return CheckExitOK
}

func (a *App) displayName(id string) string {
	if cmd, ok := a.root.CommandsByID[id]; ok {
		return cmd.Name
	}
	return id
}

// watchCheckResult polls (coarsely) until id reaches a terminal status,
// then reports it on done. Polling, rather than subscribing to the
// handle's event channel directly, keeps RunCheck decoupled from RunMany's
// internal scheduling of not-yet-started dependencies.
func (a *App) watchCheckResult(id string, done chan<- string) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		switch a.tree.Status(id) {
		case tree.Success, tree.Failure:
			done <- id
			return
		}
	}
}

func (a *App) cancelAll(ids []string) {
	for _, id := range ids {
		a.Stop(id)
	}
}

// lockedSlice is a minimal concurrency-safe string accumulator.
type lockedSlice struct {
	mu    sync.Mutex
	items []string
}

func (l *lockedSlice) append(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, s)
}

func (l *lockedSlice) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}
