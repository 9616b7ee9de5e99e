// Package config holds the server configuration. Values come from command
// line flags; CHESSD_* environment variables replace the built-in defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chessd/internal/errors"
	"github.com/hailam/chessd/internal/render"
)

// Log formats
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config is the process configuration.
type Config struct {
	Addr            string        // HTTP listen address
	DataDir         string        // database directory; empty means the platform data dir
	InMemory        bool          // keep games in memory only
	LogLevel        string        // zerolog level name
	LogFormat       string        // json or console
	RenderSize      int           // default board image size in pixels
	ShutdownTimeout time.Duration // graceful shutdown limit
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:            ":8080",
		LogLevel:        "info",
		LogFormat:       FormatJSON,
		RenderSize:      render.DefaultSize,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load binds the configuration flags on fs, parses args (without the
// program name) on top of the defaults and the environment, then validates
// the result. Callers register any flags of their own on fs beforehand. A
// nil fs gets a fresh ContinueOnError set.
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	cfg, err := FromEnv(Default())
	if err != nil {
		return cfg, err
	}

	if fs == nil {
		fs = flag.NewFlagSet("chessd", flag.ContinueOnError)
	}
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Bind registers the configuration flags on fs, using the current values
// as defaults.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "HTTP listen address")
	fs.StringVar(&c.DataDir, "data-dir", c.DataDir, "database directory (default: platform data directory)")
	fs.BoolVar(&c.InMemory, "in-memory", c.InMemory, "keep games in memory only")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: trace, debug, info, warn, error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: json or console")
	fs.IntVar(&c.RenderSize, "render-size", c.RenderSize, "default board image size in pixels")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "graceful shutdown timeout")
}

// FromEnv overrides cfg with any CHESSD_* variables that are set.
func FromEnv(cfg Config) (Config, error) {
	cfg.Addr = getenv("CHESSD_ADDR", cfg.Addr)
	cfg.DataDir = getenv("CHESSD_DATA_DIR", cfg.DataDir)
	cfg.InMemory = getenb("CHESSD_IN_MEMORY", cfg.InMemory)
	cfg.LogLevel = getenv("CHESSD_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenv("CHESSD_LOG_FORMAT", cfg.LogFormat)

	if v := os.Getenv("CHESSD_RENDER_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("CHESSD_RENDER_SIZE=%q: %w", v, errors.ErrInvalidConfig)
		}
		cfg.RenderSize = n
	}
	if v := os.Getenv("CHESSD_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("CHESSD_SHUTDOWN_TIMEOUT=%q: %w", v, errors.ErrInvalidConfig)
		}
		cfg.ShutdownTimeout = d
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("empty listen address: %w", errors.ErrInvalidConfig)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level %q: %w", c.LogLevel, errors.ErrInvalidConfig)
	}
	if c.LogFormat != FormatJSON && c.LogFormat != FormatConsole {
		return fmt.Errorf("log format %q: %w", c.LogFormat, errors.ErrInvalidConfig)
	}
	if c.RenderSize < render.MinSize || c.RenderSize > render.MaxSize {
		return fmt.Errorf("render size %d outside [%d, %d]: %w",
			c.RenderSize, render.MinSize, render.MaxSize, errors.ErrInvalidConfig)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout %v: %w", c.ShutdownTimeout, errors.ErrInvalidConfig)
	}
	return nil
}

// Level returns the parsed log level. Call Validate first.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}
