package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/malphas-lang/gofront/internal/parser"
)

var (
	grammarOut    string
	grammarFormat string
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Dump the grammar productions the parser reduces by",
	Args:  cobra.NoArgs,
	RunE:  runGrammar,
}

func init() {
	grammarCmd.Flags().StringVarP(&grammarOut, "out", "o", "", "write to file instead of stdout")
	grammarCmd.Flags().StringVar(&grammarFormat, "format", "", "output format: text or yaml (default from config)")
	rootCmd.AddCommand(grammarCmd)
}

func runGrammar(cmd *cobra.Command, args []string) error {
	var w io.Writer = cmd.OutOrStdout()
	if grammarOut != "" {
		f, err := os.Create(grammarOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", grammarOut, err)
		}
		defer f.Close()
		w = f
	}

	format := grammarFormat
	if format == "" {
		format = cfg.Output.Format
	}
	switch format {
	case "yaml":
		data, err := yaml.Marshal(parser.Productions())
		if err != nil {
			return fmt.Errorf("encode grammar: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "text":
		return parser.WriteGrammar(w)
	}
	return fmt.Errorf("unknown format %q", format)
}
