package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Parse and type-check source files",
	Long: `Parses every file and prints "ok" or the first error found in it.
The command fails when any file has an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	failed := false
	for _, path := range args {
		src, res, err := parseFile(path)
		if err != nil {
			if rerr := report(cmd.ErrOrStderr(), path, src, err); !errors.Is(rerr, errReported) {
				return rerr
			}
			failed = true
			continue
		}
		logger.Debug("checked", "file", path, "reductions", res.Reductions, "session", res.Session.String())
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
	}
	if failed {
		return errReported
	}
	return nil
}
