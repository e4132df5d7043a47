package common

import (
	"os/exec"
	"syscall"
)

// killAfterParent makes the OS kill the browser process when the parent
// process dies, so crashed callers don't leave browsers behind.
func killAfterParent(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Pdeathsig = syscall.SIGKILL
}
