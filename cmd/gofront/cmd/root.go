// Package cmd implements the gofront command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/malphas-lang/gofront/internal/config"
	"github.com/malphas-lang/gofront/internal/diag"
	"github.com/malphas-lang/gofront/internal/parser"
)

var (
	cfgFile  string
	logLevel string
	trace    bool
	noColor  bool

	cfg    *config.Config
	logger *slog.Logger
)

// errReported marks a failure whose diagnostic was already printed.
var errReported = errors.New("errors reported")

var rootCmd = &cobra.Command{
	Use:   "gofront",
	Short: "Type-checking front end for a Go subset",
	Long: `gofront parses Go source files into a fully typed syntax tree in a
single pass and stops at the first syntax, name, type or logical error.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and prints any error it returns.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "gofront: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $GOFRONT_CONFIG or ./gofront.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "log every grammar reduction")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
}

// setup resolves the configuration and applies flag overrides.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Resolve(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if trace {
		c.Parser.Trace = true
		c.Log.Level = "debug"
	}
	if noColor {
		c.Diagnostics.Color = config.ColorNever
	}
	if err := c.Validate(); err != nil {
		return err
	}
	l, err := c.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg, logger = c, l
	logger.Debug("configured", "command", cmd.Name(), "trace", cfg.Parser.Trace)
	return nil
}

// parseFile reads and parses one source file.
func parseFile(path string) (string, *parser.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}
	src := string(data)
	res, err := parser.ParseFile(src,
		parser.WithFilename(path),
		parser.WithLogger(logger),
		parser.WithTrace(cfg.Parser.Trace),
	)
	return src, res, err
}

// report renders a front end error with its source context. Other errors
// are returned unchanged.
func report(w io.Writer, path, src string, err error) error {
	var de *diag.Error
	if !errors.As(err, &de) {
		return err
	}
	f := diag.NewFormatter(w,
		diag.WithColor(cfg.UseColor(isTerminal(w))),
		diag.WithContextLines(cfg.Diagnostics.Context),
	)
	f.AddSource(path, src)
	f.Format(de.ToDiagnostic())
	return errReported
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
