package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/malphas-lang/gofront/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gofront.toml")
	be.Err(t, os.WriteFile(path, []byte(body), 0o644), nil)
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	be.Equal(t, cfg.Log.Level, "warn")
	be.Equal(t, cfg.Log.Format, "text")
	be.Equal(t, cfg.Diagnostics.Color, config.ColorAuto)
	be.Equal(t, cfg.Diagnostics.Context, 2)
	be.Equal(t, cfg.Output.Format, "text")
	be.True(t, !cfg.Parser.Trace)
	be.Err(t, cfg.Validate(), nil)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"
format = "json"

[diagnostics]
color = "never"
context = 4

[parser]
trace = true
`)
	cfg, err := config.Load(path)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Log.Level, "debug")
	be.Equal(t, cfg.Log.Format, "json")
	be.Equal(t, cfg.Diagnostics.Color, config.ColorNever)
	be.Equal(t, cfg.Diagnostics.Context, 4)
	be.True(t, cfg.Parser.Trace)
	// unset sections keep their defaults
	be.Equal(t, cfg.Output.Format, "text")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[log\n", "failed to parse config"},
		{"unknown key", "[log]\nlevle = \"info\"\n", "unknown config keys"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"bad format", "[log]\nformat = \"xml\"\n", "log.format must be text or json"},
		{"bad color", "[diagnostics]\ncolor = \"sometimes\"\n", "diagnostics.color"},
		{"bad output", "[output]\nformat = \"sexpr\"\n", "output.format"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tc.body))
			be.Err(t, err, tc.want)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	be.Err(t, err, "config file not found")
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "[log]\nlevel = \"info\"\n")
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvLogFormat, "json")
	t.Setenv(config.EnvNoColor, "1")
	t.Setenv(config.EnvTrace, "true")

	cfg, err := config.Load(path)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Log.Level, "error")
	be.Equal(t, cfg.Log.Format, "json")
	be.Equal(t, cfg.Diagnostics.Color, config.ColorNever)
	be.True(t, cfg.Parser.Trace)
}

func TestResolveOrder(t *testing.T) {
	explicit := writeConfig(t, "[log]\nlevel = \"debug\"\n")
	fromEnv := writeConfig(t, "[log]\nlevel = \"error\"\n")

	t.Setenv(config.EnvConfig, fromEnv)
	cfg, err := config.Resolve(explicit)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Log.Level, "debug")

	cfg, err = config.Resolve("")
	be.Err(t, err, nil)
	be.Equal(t, cfg.Log.Level, "error")
}

func TestResolveWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	be.Err(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("[output]\nformat = \"yaml\"\n"), 0o644), nil)
	t.Chdir(dir)
	t.Setenv(config.EnvConfig, "")

	cfg, err := config.Resolve("")
	be.Err(t, err, nil)
	be.Equal(t, cfg.Output.Format, "yaml")
}

func TestResolveDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvLogLevel, "bogus")

	_, err := config.Resolve("")
	be.Err(t, err, "invalid environment")
}

func TestLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"

	var buf bytes.Buffer
	logger, err := cfg.Logger(&buf)
	be.Err(t, err, nil)
	logger.Debug("hidden")
	logger.Info("shown", "n", 1)

	out := buf.String()
	be.True(t, !strings.Contains(out, "hidden"))
	be.True(t, strings.Contains(out, `"msg":"shown"`))

	lvl, err := cfg.Level()
	be.Err(t, err, nil)
	be.Equal(t, lvl, slog.LevelInfo)
}

func TestUseColor(t *testing.T) {
	cfg := config.Default()
	be.True(t, cfg.UseColor(true))
	be.True(t, !cfg.UseColor(false))

	cfg.Diagnostics.Color = config.ColorAlways
	be.True(t, cfg.UseColor(false))

	cfg.Diagnostics.Color = config.ColorNever
	be.True(t, !cfg.UseColor(true))
}
