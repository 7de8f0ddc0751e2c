// Package config loads the gofront command line configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
)

// DefaultFile is read from the working directory when no other file is named.
const DefaultFile = "gofront.toml"

// Environment variables consulted by Resolve and Load.
const (
	EnvConfig    = "GOFRONT_CONFIG"
	EnvLogLevel  = "GOFRONT_LOG_LEVEL"
	EnvLogFormat = "GOFRONT_LOG_FORMAT"
	EnvNoColor   = "GOFRONT_NO_COLOR"
	EnvTrace     = "GOFRONT_TRACE"
)

// Color modes for diagnostics.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the complete CLI configuration.
type Config struct {
	Log         LogConfig         `toml:"log"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Parser      ParserConfig      `toml:"parser"`
	Output      OutputConfig      `toml:"output"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn or error
	Format string `toml:"format"` // text or json
}

// DiagnosticsConfig controls how errors are rendered.
type DiagnosticsConfig struct {
	Color   string `toml:"color"`
	Context int    `toml:"context"` // source lines around the error
}

// ParserConfig holds parser options.
type ParserConfig struct {
	Trace bool `toml:"trace"`
}

// OutputConfig holds the default format of the dump commands.
type OutputConfig struct {
	Format string `toml:"format"` // text or yaml
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads the TOML file at path, fills in defaults and applies
// environment overrides.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Resolve finds the configuration to use. An explicit path wins, then the
// GOFRONT_CONFIG variable, then ./gofront.toml. Without any file the defaults
// are used, still subject to environment overrides.
func Resolve(flagPath string) (*Config, error) {
	if flagPath != "" {
		return Load(flagPath)
	}
	if path := env.Str(EnvConfig); path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return Load(DefaultFile)
	}

	cfg := Default()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Diagnostics.Color == "" {
		c.Diagnostics.Color = ColorAuto
	}
	if c.Diagnostics.Context == 0 {
		c.Diagnostics.Context = 2
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
}

func (c *Config) applyEnv() {
	c.Log.Level = env.Str(EnvLogLevel, c.Log.Level)
	c.Log.Format = env.Str(EnvLogFormat, c.Log.Format)
	if env.Bool(EnvNoColor) {
		c.Diagnostics.Color = ColorNever
	}
	if env.Has(EnvTrace) {
		c.Parser.Trace = env.Bool(EnvTrace)
	}
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	switch c.Diagnostics.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("diagnostics.color must be auto, always or never, got %q", c.Diagnostics.Color)
	}
	if c.Diagnostics.Context < 0 {
		return fmt.Errorf("diagnostics.context must not be negative, got %d", c.Diagnostics.Context)
	}
	switch c.Output.Format {
	case "text", "yaml":
	default:
		return fmt.Errorf("output.format must be text or yaml, got %q", c.Output.Format)
	}
	return nil
}

// Level parses the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Logger builds the slog logger described by the configuration.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	lvl, err := c.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// UseColor reports whether diagnostics should be styled when writing to a
// destination that is or is not a terminal.
func (c *Config) UseColor(terminal bool) bool {
	switch c.Diagnostics.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return terminal
}
