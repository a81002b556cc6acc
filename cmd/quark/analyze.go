package main

import (
	"errors"
	"fmt"

	"github.com/mgomes/quark/quark"
	"github.com/spf13/cobra"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Report unreachable statements and unused variables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, source, err := readSource(args[0])
			if err != nil {
				return err
			}

			unit, err := a.engine().Compile(source)
			if err != nil {
				writeDiagnostics(cmd.ErrOrStderr(), path, err)
				return errors.New("analysis compile failed")
			}

			warnings := quark.Analyze(unit.Program)
			if len(warnings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No issues found")
				return nil
			}
			writeWarnings(cmd.OutOrStdout(), path, warnings)
			return fmt.Errorf("analysis found %d issue(s)", len(warnings))
		},
	}
}
