//go:build linux

package process

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr places the child in its own process group so the whole
// tree can be signalled at once. Pdeathsig is a Linux-only safety net: if this
// process dies without tearing down, the kernel kills the direct child.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGKILL,
	}
}
