//go:build !linux

package common

import "os/exec"

// killAfterParent is only supported on Linux (via Pdeathsig); elsewhere
// handle teardown is the only termination path.
func killAfterParent(_ *exec.Cmd) {}
