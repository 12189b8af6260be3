package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"instagen/internal/client"
	"instagen/internal/config"
	"instagen/internal/daemon"
	"instagen/internal/logging"
)

type ServeCommand struct {
	stderr     io.Writer
	runServe   func(background bool) error
	killServer func() error
}

func NewServeCommand(stderr io.Writer, runServe func(background bool) error, killServer func() error) *ServeCommand {
	return &ServeCommand{
		stderr:     stderr,
		runServe:   runServe,
		killServer: killServer,
	}
}

func (c *ServeCommand) Run(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	background := fs.Bool("background", false, "run in background (logs to file)")
	kill := fs.Bool("kill", false, "stop a running server and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *kill {
		return c.killServer()
	}
	return c.runServe(*background)
}

func runServeProcess(background bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := logging.ParseLevel(cfg.LogLevel())
	logger := logging.New(os.Stderr, level)
	if background {
		serveLogPath, err := config.ServeLogPath()
		if err != nil {
			return err
		}
		fileLogger, closer := openFileLogger(serveLogPath, level)
		if closer != nil {
			defer closer.Close()
		}
		logger = fileLogger
	}

	loadEnvFile(logger)
	env := daemon.CredentialsFromEnv()
	backends := daemon.SimulatedBackends(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := daemon.New(cfg.ServerAddress(), buildVersion(), backends, env, logger)
	return srv.Run(ctx)
}

// loadEnvFile merges the optional dotenv file into the process
// environment. Existing variables win.
func loadEnvFile(logger logging.Logger) {
	envPath, err := config.EnvPath()
	if err != nil {
		return
	}
	if _, err := os.Stat(envPath); err != nil {
		return
	}
	if err := godotenv.Load(envPath); err != nil {
		logger.Warn("env file load failed", logging.F("path", envPath), logging.F("error", err.Error()))
	}
}

func killServerProcess() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cli, err := client.New()
	if err != nil {
		return err
	}
	err = cli.Shutdown(ctx)
	if err == nil {
		return nil
	}
	// A transport failure means no server is listening.
	if opErr := client.AsOpError(err); opErr != nil && opErr.StatusCode == 0 {
		return nil
	}
	return err
}
