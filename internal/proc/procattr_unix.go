//go:build !windows

package proc

import (
	"os/exec"
	"syscall"
)

// setNewSession configures the command to run in its own session, so
// signals delivered to the parent's controlling TTY do not propagate to
// the child.
func setNewSession(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

// signalGroup sends sig to pid's process group.
func signalGroup(pid int, sig syscall.Signal) error {
	return syscall.Kill(-pid, sig)
}
