//go:build windows

package process

import (
	"os"
	"os/exec"
	"testing"
)

func TestConfigureSysProcAttr_NewProcessGroup(t *testing.T) {
	s := Spec{Path: "cmd.exe"}
	cmd := s.BuildCommand()
	configureSysProcAttr(cmd)
	if cmd.SysProcAttr == nil || cmd.SysProcAttr.CreationFlags&createNewProcessGroup == 0 {
		t.Fatalf("CREATE_NEW_PROCESS_GROUP not set")
	}
}

func TestKillTree_ExitedProcessIsNoop(t *testing.T) {
	cmd := exec.Command("cmd.exe", "/c", "exit 0")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if err := killTree(pid); err != nil && !os.IsNotExist(err) {
		t.Fatalf("killTree on exited process: %v", err)
	}
}
