//go:build !windows

package process

import (
	"errors"
	"syscall"
)

// killTree sends SIGKILL to the process group led by pid and to any descendant
// that moved to a different group.
func killTree(pid int) error {
	if pid <= 0 {
		return nil
	}
	desc := descendants(pid)
	err := syscall.Kill(-pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		// group already gone; fall back to the leader alone
		err = syscall.Kill(pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			err = nil
		}
	}
	for _, d := range desc {
		_ = syscall.Kill(int(d.Pid), syscall.SIGKILL)
	}
	return err
}
