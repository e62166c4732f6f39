// Package proc supervises one PTY-backed process handle per running
// command, publishing lifecycle events for the application coordinator to
// map onto tree status transitions.
package proc

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/fnug/fnug/internal/vt"
)

// EventKind enumerates the lifecycle events a supervised process emits.
type EventKind int

const (
	Started EventKind = iota
	Running
	Exited
	Cancelled
	ErrorEvent
)

// ErrorKind classifies a supervisor ErrorEvent.
type ErrorKind int

const (
	ErrSpawn ErrorKind = iota
	ErrRead
	ErrWrite
)

// Event is one lifecycle notification published on a Handle's Events
// channel.
type Event struct {
	CommandID string
	Kind      EventKind
	ExitCode  int
	Err       error
	ErrKind   ErrorKind
}

// killGrace is how long Cancel waits after SIGTERM before escalating to
// SIGKILL.
const killGrace = 2 * time.Second

// Handle is a single spawned command's PTY, child process and emulator.
type Handle struct {
	CommandID string
	Emulator  *vt.Emulator

	log *zap.Logger

	mu        sync.Mutex
	cmd       *exec.Cmd
	pty       *os.File
	exited    bool
	cancelled bool
	readerWG  sync.WaitGroup

	events chan Event
	// done closes once the waiter has reaped the child, the reader has
	// drained, and the PTY fds are closed. Cancel blocks on it so a new
	// handle for the same command never installs before this one is fully
	// released.
	done chan struct{}
}

// Spawn opens a PTY, echoes the command banner into emu, and starts the
// shell in a new session with the PTY slave wired to stdin/stdout/stderr.
// It returns immediately after the reader and waiter tasks are running;
// lifecycle progress is reported on the returned Handle's Events channel.
func Spawn(log *zap.Logger, id, command, cwd string, rows, cols int, emu *vt.Emulator, env map[string]string) (*Handle, error) {
	if log == nil {
		log = zap.NewNop()
	}

	shell, args := shellCommand(command)
	cmd := exec.Command(shell, args...)
	cmd.Dir = cwd
	cmd.Env = childEnv(env)
	setNewSession(cmd)

	h := &Handle{
		CommandID: id,
		Emulator:  emu,
		log:       log,
		cmd:       cmd,
		events:    make(chan Event, 8),
		done:      make(chan struct{}),
	}

	emu.EchoCommandBanner(command)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		emu.EchoSpawnError(err.Error())
		h.events <- Event{CommandID: id, Kind: ErrorEvent, Err: err, ErrKind: ErrSpawn}
		close(h.events)
		close(h.done)
		return h, fmt.Errorf("spawning %q: %w", command, err)
	}
	h.pty = ptmx

	h.events <- Event{CommandID: id, Kind: Started}

	h.readerWG.Add(1)
	go h.readLoop()

	go h.waitLoop()

	h.events <- Event{CommandID: id, Kind: Running}

	return h, nil
}

func shellCommand(command string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd.exe", []string{"/c", command}
	}
	return "/bin/sh", []string{"-c", command}
}

// readLoop drains the PTY master in ≥64KiB chunks and feeds them to the
// emulator until the master closes or the command exits.
func (h *Handle) readLoop() {
	defer h.readerWG.Done()
	buf := make([]byte, 64*1024)
	for {
		n, err := h.pty.Read(buf)
		if n > 0 {
			h.Emulator.Feed(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func (h *Handle) waitLoop() {
	defer close(h.done)

	err := h.cmd.Wait()

	h.mu.Lock()
	h.exited = true
	cancelled := h.cancelled
	h.mu.Unlock()

	h.readerWG.Wait()
	_ = h.pty.Close()

	if cancelled {
		h.Emulator.EchoCancelledBanner()
		h.events <- Event{CommandID: h.CommandID, Kind: Cancelled}
		close(h.events)
		return
	}

	code := exitCode(err)
	if code == 0 {
		h.Emulator.EchoSuccessBanner()
	} else {
		h.Emulator.EchoFailureBanner(code)
	}
	h.events <- Event{CommandID: h.CommandID, Kind: Exited, ExitCode: code}
	close(h.events)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Events returns the channel lifecycle notifications are published on. It
// closes once the child has exited and all teardown is complete.
func (h *Handle) Events() <-chan Event { return h.events }

// Write forwards bytes to the PTY master, i.e. keyboard input to the child.
func (h *Handle) Write(data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.exited {
		return nil
	}
	_, err := h.pty.Write(data)
	return err
}

// Resize applies TIOCSWINSZ to the PTY master and forwards the new
// dimensions to the emulator.
func (h *Handle) Resize(rows, cols int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.exited {
		return nil
	}
	h.Emulator.Resize(rows, cols)
	return pty.Setsize(h.pty, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Click emits an SGR mouse press+release at (x, y) to the PTY master.
func (h *Handle) Click(x, y int) error {
	press := fmt.Sprintf("\x1b[<0;%d;%dM", x, y)
	release := fmt.Sprintf("\x1b[<0;%d;%dm", x, y)
	if err := h.Write([]byte(press)); err != nil {
		return err
	}
	return h.Write([]byte(release))
}

// Cancel sends SIGTERM to the child's process group, waits up to
// killGrace, then escalates to SIGKILL. It never leaks the PTY fd or
// leaves a zombie: it blocks until the waiter has reaped the child, the
// reader has drained, and both PTY ends are closed, so the caller may
// install a fresh handle for the same command immediately on return.
// Cancelling a child that has already exited naturally is a no-op.
func (h *Handle) Cancel() {
	h.mu.Lock()
	if h.exited {
		h.mu.Unlock()
		<-h.done
		return
	}
	h.cancelled = true
	pid := h.cmd.Process.Pid
	h.mu.Unlock()

	if err := signalGroup(pid, syscall.SIGTERM); err != nil {
		h.log.Debug("proc: SIGTERM failed, process may have already exited", zap.Error(err))
	}

	select {
	case <-h.done:
	case <-time.After(killGrace):
		_ = signalGroup(pid, syscall.SIGKILL)
		// Process-group signalling has no effect on platforms without it
		// (see procattr_windows.go); killing the process handle directly
		// covers those.
		_ = h.cmd.Process.Kill()
		<-h.done
	}
}
