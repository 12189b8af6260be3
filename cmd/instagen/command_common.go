package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"instagen/internal/config"
	"instagen/internal/logging"
)

const version = "dev"

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		var revision string
		var modified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				modified = setting.Value
			}
		}
		if revision != "" {
			if modified == "true" {
				return revision + "-dirty"
			}
			return revision
		}
	}
	return version
}

// openFileLogger creates the data directory and returns a logger writing
// to the given log file. Falls back to stderr when the file cannot be
// opened.
func openFileLogger(path string, level logging.Level) (logging.Logger, io.Closer) {
	dataDir, err := config.DataDir()
	if err != nil {
		return logging.New(os.Stderr, level), nil
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return logging.New(os.Stderr, level), nil
	}
	logger, closer, err := logging.NewFile(path, level)
	if err != nil {
		return logging.New(os.Stderr, level), nil
	}
	return logger, closer
}
