//go:build !windows

package executor

import (
	"os/exec"
	"syscall"
)

// setProcessGroup runs the shell in its own group so a timeout kills the
// whole pipeline, not only the shell.
func setProcessGroup(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGKILL)
	}
}
