package config

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessd/internal/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load(nil, []string{
		"-addr", "127.0.0.1:9000",
		"-in-memory",
		"-log-level", "debug",
		"-log-format", "console",
		"-render-size", "256",
		"-shutdown-timeout", "3s",
	})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.True(t, cfg.InMemory)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	assert.Equal(t, FormatConsole, cfg.LogFormat)
	assert.Equal(t, 256, cfg.RenderSize)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("CHESSD_ADDR", ":7000")
	t.Setenv("CHESSD_IN_MEMORY", "yes")
	t.Setenv("CHESSD_RENDER_SIZE", "320")
	t.Setenv("CHESSD_DATA_DIR", "/tmp/games")

	cfg, err := Load(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.True(t, cfg.InMemory)
	assert.Equal(t, 320, cfg.RenderSize)
	assert.Equal(t, "/tmp/games", cfg.DataDir)

	// Flags win over the environment.
	cfg, err = Load(nil, []string{"-addr", ":7001"})
	require.NoError(t, err)
	assert.Equal(t, ":7001", cfg.Addr)
}

func TestEnvInvalid(t *testing.T) {
	t.Setenv("CHESSD_RENDER_SIZE", "big")
	_, err := Load(nil, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty addr", func(c *Config) { c.Addr = " " }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"small render", func(c *Config) { c.RenderSize = 8 }},
		{"large render", func(c *Config) { c.RenderSize = 1 << 16 }},
		{"zero timeout", func(c *Config) { c.ShutdownTimeout = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), errors.ErrInvalidConfig)
		})
	}
}

func TestUnknownFlag(t *testing.T) {
	_, err := Load(nil, []string{"-bogus"})
	assert.Error(t, err)
}

func TestLoadCallerFlags(t *testing.T) {
	fs := flag.NewFlagSet("chessd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	perft := fs.Int("perft", 0, "")

	cfg, err := Load(fs, []string{"-perft", "3", "-addr", ":7002"})
	require.NoError(t, err)
	assert.Equal(t, 3, *perft)
	assert.Equal(t, ":7002", cfg.Addr)

	fs = flag.NewFlagSet("chessd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	_, err = Load(fs, []string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestLoadValidates(t *testing.T) {
	_, err := Load(nil, []string{"-log-format", "xml"})
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}
