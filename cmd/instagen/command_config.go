package main

import (
	"flag"
	"fmt"
	"io"

	toml "github.com/pelletier/go-toml/v2"

	"instagen/internal/config"
)

type ConfigCommand struct {
	stdout io.Writer
	stderr io.Writer
}

func NewConfigCommand(stdout, stderr io.Writer) *ConfigCommand {
	return &ConfigCommand{stdout: stdout, stderr: stderr}
}

func (c *ConfigCommand) Run(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	defaults := fs.Bool("defaults", false, "print built-in defaults instead of effective configuration")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if !*defaults {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if _, err := c.stdout.Write(data); err != nil {
		return err
	}

	configPath, err := config.ConfigPath()
	if err == nil {
		fmt.Fprintf(c.stdout, "\n# config file: %s\n", configPath)
	}
	return nil
}
