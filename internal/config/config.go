// Package config loads the settings of the devtrace demo server.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Modes the demo server can wrap its routes in.
const (
	ModeLog     = "log"
	ModeRespond = "respond"
	ModeDebug   = "debug"
)

// Config is the demo server configuration.
type Config struct {
	Addr string `yaml:"addr"`
	Mode string `yaml:"mode"`

	// Colorize is nil when the file leaves the choice to the terminal check.
	Colorize *bool `yaml:"colorize"`

	// Assets is a directory holding a replacement trace.css.
	Assets string `yaml:"assets"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:            ":8080",
		Mode:            ModeDebug,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that the configuration can start a server.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr is required")
	}
	switch c.Mode {
	case ModeLog, ModeRespond, ModeDebug:
	default:
		return fmt.Errorf("config: unknown mode %q (want %s, %s or %s)", c.Mode, ModeLog, ModeRespond, ModeDebug)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("config: negative shutdown_timeout %s", c.ShutdownTimeout)
	}
	return nil
}
