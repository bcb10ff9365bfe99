//go:build unix

package procexec

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup puts the child in its own process group so a
// signal can be forwarded to it and every process it spawned together.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateProcessGroup forwards SIGINT to the child's process group.
func terminateProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		return cmd.Process.Kill()
	}
	return syscall.Kill(-pgid, syscall.SIGINT)
}
