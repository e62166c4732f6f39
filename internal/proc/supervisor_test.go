package proc

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fnug/fnug/internal/vt"
)

func waitForEvent(t *testing.T, events <-chan Event, kind EventKind, timeout time.Duration) Event {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatalf("events channel closed before %v was observed", kind)
			}
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event kind %v", kind)
		}
	}
}

func TestSpawnSuccessfulCommandExitsZero(t *testing.T) {
	emu := vt.New(10, 80)
	h, err := Spawn(zap.NewNop(), "c1", "exit 0", "", 10, 80, emu, nil)
	if err != nil {
		t.Fatalf("Spawn: %s", err)
	}

	ev := waitForEvent(t, h.Events(), Exited, 5*time.Second)
	if ev.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", ev.ExitCode)
	}
}

func TestSpawnFailingCommandReportsExitCode(t *testing.T) {
	emu := vt.New(10, 80)
	h, err := Spawn(zap.NewNop(), "c2", "exit 7", "", 10, 80, emu, nil)
	if err != nil {
		t.Fatalf("Spawn: %s", err)
	}

	ev := waitForEvent(t, h.Events(), Exited, 5*time.Second)
	if ev.ExitCode != 7 {
		t.Fatalf("expected exit code 7, got %d", ev.ExitCode)
	}
}

func TestCancelStopsALongRunningCommand(t *testing.T) {
	emu := vt.New(10, 80)
	h, err := Spawn(zap.NewNop(), "c3", "sleep 30", "", 10, 80, emu, nil)
	if err != nil {
		t.Fatalf("Spawn: %s", err)
	}

	waitForEvent(t, h.Events(), Running, 2*time.Second)

	done := make(chan struct{})
	go func() {
		h.Cancel()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Cancel did not return in time; possible zombie or leaked fd")
	}
}

func TestWriteForwardsToChildStdin(t *testing.T) {
	emu := vt.New(10, 80)
	h, err := Spawn(zap.NewNop(), "c4", "cat", "", 10, 80, emu, nil)
	if err != nil {
		t.Fatalf("Spawn: %s", err)
	}
	waitForEvent(t, h.Events(), Running, 2*time.Second)

	if err := h.Write([]byte("hi\n")); err != nil {
		t.Fatalf("Write: %s", err)
	}
	time.Sleep(200 * time.Millisecond)
	h.Cancel()
}

func TestChildEnvForcesXtermTerm(t *testing.T) {
	env := childEnv(nil)
	found := false
	for _, e := range env {
		if e == "TERM=xterm-256color" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected TERM=xterm-256color in child env, got %v", env)
	}
}

func TestChildEnvAppliesOverrides(t *testing.T) {
	env := childEnv(map[string]string{"FOO": "bar"})
	found := false
	for _, e := range env {
		if e == "FOO=bar" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected FOO=bar override in child env, got %v", env)
	}
}
