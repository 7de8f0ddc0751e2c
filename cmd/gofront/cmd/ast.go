package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/malphas-lang/gofront/internal/ast"
)

var astFormat string

var astCmd = &cobra.Command{
	Use:   "ast FILE",
	Short: "Print the typed syntax tree of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAST,
}

func init() {
	astCmd.Flags().StringVar(&astFormat, "format", "", "output format: text or yaml (default from config)")
	rootCmd.AddCommand(astCmd)
}

func runAST(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, res, err := parseFile(path)
	if err != nil {
		return report(cmd.ErrOrStderr(), path, src, err)
	}

	format := astFormat
	if format == "" {
		format = cfg.Output.Format
	}
	out := cmd.OutOrStdout()
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(ast.Outlined(res.File)); err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
		return enc.Close()
	case "text":
		return ast.Fprint(out, res.File)
	}
	return fmt.Errorf("unknown format %q", format)
}
