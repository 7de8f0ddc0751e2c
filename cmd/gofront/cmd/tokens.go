package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/malphas-lang/gofront/internal/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "List the tokens of a file",
	Long:  `Prints one line per token: its kind, its text and the line it starts on.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	lx := lexer.New(string(data))
	lx.SetFilename(args[0])

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for {
		tok := lx.NextToken()
		fmt.Fprintf(tw, "%s\t%q\t%d\n", tok.Type, tok.Literal, tok.Span.Line)
		if tok.Type == lexer.EOF {
			break
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(lx.Errors) > 0 {
		e := lx.Errors[0]
		return fmt.Errorf("%s:%d: %s", args[0], e.Span.Line, e.Message)
	}
	return nil
}
