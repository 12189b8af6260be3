//go:build !windows

package client

import (
	"os/exec"
	"syscall"
)

func applyServeSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}
