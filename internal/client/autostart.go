package client

import (
	"io"
	"os"
	"os/exec"

	"instagen/internal/config"
)

// StartBackgroundServer re-execs the current binary as a detached
// operations server, logging to the serve log file.
func StartBackgroundServer() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	cmd := exec.Command(exe, "serve", "--background")
	applyServeSysProcAttr(cmd)

	logWriter := io.Discard
	var logFile *os.File
	if logPath, err := config.ServeLogPath(); err == nil {
		if dataDir, err := config.DataDir(); err == nil && os.MkdirAll(dataDir, 0o700) == nil {
			if file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600); err == nil {
				logWriter = file
				logFile = file
			}
		}
	}
	cmd.Stdout = logWriter
	cmd.Stderr = logWriter

	err = cmd.Start()
	if logFile != nil {
		_ = logFile.Close()
	}
	return err
}
