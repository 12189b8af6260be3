package config

import (
	"errors"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultServerAddress = "127.0.0.1:8787"

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Logging    LoggingConfig    `toml:"logging"`
	Simulation SimulationConfig `toml:"simulation"`
}

type ServerConfig struct {
	Address string `toml:"address"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

// SimulationConfig tunes the latency of the simulated generation and
// publish backends, in milliseconds.
type SimulationConfig struct {
	MediaLatencyMS   int `toml:"media_latency_ms"`
	TextLatencyMS    int `toml:"text_latency_ms"`
	UploadLatencyMS  int `toml:"upload_latency_ms"`
	PublishLatencyMS int `toml:"publish_latency_ms"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Address: defaultServerAddress,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return loadFromPath(path)
}

func (c Config) ServerAddress() string {
	addr := strings.TrimSpace(c.Server.Address)
	if addr == "" {
		return defaultServerAddress
	}
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimRight(addr, "/")
	if addr == "" {
		return defaultServerAddress
	}
	return addr
}

func (c Config) ServerBaseURL() string {
	return "http://" + c.ServerAddress()
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (c Config) MediaLatency() time.Duration {
	return latency(c.Simulation.MediaLatencyMS)
}

func (c Config) TextLatency() time.Duration {
	return latency(c.Simulation.TextLatencyMS)
}

func (c Config) UploadLatency() time.Duration {
	return latency(c.Simulation.UploadLatencyMS)
}

func (c Config) PublishLatency() time.Duration {
	return latency(c.Simulation.PublishLatencyMS)
}

func latency(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

func loadFromPath(path string) (Config, error) {
	cfg := Default()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}
