package main

import (
	"fmt"
	"os"
)

const usageText = `instagen generates and publishes Instagram posts from a prompt.

Usage:
  instagen <command> [flags]

Commands:
  ui       run the interactive post wizard
  serve    run the operations server
  history  show published posts
  config   print effective configuration
  help     show help

Flags:
  -h, --help   show help

Serve flags:
  --background    run in background (logs to file)
  --kill          stop a running server and exit

History flags:
  --json    print records as JSON
  --clear   delete all records

Examples:
  instagen ui
  instagen serve --background
  instagen history --json
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
