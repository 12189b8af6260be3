package main

import (
	"context"
	"flag"
	"io"

	"instagen/internal/app"
	"instagen/internal/client"
	"instagen/internal/config"
	"instagen/internal/logging"
	"instagen/internal/store"
)

type UICommand struct {
	stderr io.Writer
}

func NewUICommand(stderr io.Writer) *UICommand {
	return &UICommand{stderr: stderr}
}

func (c *UICommand) Run(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	noServer := fs.Bool("no-server", false, "do not start the operations server automatically")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	uiLogPath, err := config.UILogPath()
	if err != nil {
		return err
	}
	logger, closer := openFileLogger(uiLogPath, logging.ParseLevel(cfg.LogLevel()))
	if closer != nil {
		defer closer.Close()
	}

	cli := client.NewWithBaseURL(cfg.ServerBaseURL())
	if !*noServer {
		if err := cli.EnsureServer(context.Background()); err != nil {
			return err
		}
	}

	dbPath, err := config.DBPath()
	if err != nil {
		return err
	}
	repo, err := store.NewBboltRepository(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	return app.Run(cli, repo, logger)
}
