//go:build windows

package proc

import (
	"os/exec"
	"syscall"
)

// setNewSession is a no-op on Windows; console process groups are managed
// through CREATE_NEW_PROCESS_GROUP instead, which pty.Start already sets
// up for ConPTY children.
func setNewSession(_ *exec.Cmd) {}

// signalGroup has no direct Windows equivalent to POSIX process-group
// signals; cancellation on Windows relies solely on killing the process
// handle (see Handle.Cancel).
func signalGroup(pid int, sig syscall.Signal) error { return nil }
