//go:build windows

package process

import (
	"os/exec"
	"syscall"
)

// createNewProcessGroup keeps console control events aimed at us away from the child.
const createNewProcessGroup = 0x00000200

func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNewProcessGroup}
}
