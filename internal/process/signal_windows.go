//go:build windows

package process

import (
	"errors"
	"os"
)

// killTree terminates pid and every descendant. Windows has no process groups
// that can be signalled, so the tree is walked explicitly.
func killTree(pid int) error {
	if pid <= 0 {
		return nil
	}
	desc := descendants(pid)
	var rootErr error
	if p, err := os.FindProcess(pid); err == nil {
		rootErr = p.Kill()
		if errors.Is(rootErr, os.ErrProcessDone) {
			rootErr = nil
		}
	}
	for _, d := range desc {
		_ = d.Kill()
	}
	return rootErr
}
