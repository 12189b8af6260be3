package main

import (
	"io"
	"os"
)

type commandRunner interface {
	Run(args []string) error
}

type commandWiring struct {
	stdout     io.Writer
	stderr     io.Writer
	runServe   func(background bool) error
	killServer func() error
	version    string
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:     stdout,
		stderr:     stderr,
		runServe:   runServeProcess,
		killServer: killServerProcess,
		version:    buildVersion(),
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"ui":      NewUICommand(wiring.stderr),
		"serve":   NewServeCommand(wiring.stderr, wiring.runServe, wiring.killServer),
		"history": NewHistoryCommand(wiring.stdout, wiring.stderr),
		"config":  NewConfigCommand(wiring.stdout, wiring.stderr),
	}
}
