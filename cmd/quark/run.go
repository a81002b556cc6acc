package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgomes/quark/quark"
	"github.com/spf13/cobra"
)

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Compile and run a program; the process exits with the program's exit code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, source, err := readSource(args[0])
			if err != nil {
				return err
			}

			result, err := a.engine().Run(cmd.Context(), source)
			if err != nil {
				var rtErr *quark.RuntimeError
				switch {
				case errors.As(err, &rtErr), errors.Is(err, quark.ErrStepQuota):
					return fmt.Errorf("execution failed: %w", err)
				default:
					writeDiagnostics(cmd.ErrOrStderr(), path, err)
					return errors.New("compile failed")
				}
			}

			if !result.Last.IsZero() {
				fmt.Fprintln(cmd.OutOrStdout(), result.Last.String())
			}
			if result.Exited && result.ExitCode != 0 {
				return &exitError{code: result.ExitCode}
			}
			return nil
		},
	}
}

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Type check programs without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]quark.SourceFile, 0, len(args))
			for _, arg := range args {
				path, source, err := readSource(arg)
				if err != nil {
					return err
				}
				files = append(files, quark.SourceFile{Name: path, Contents: source})
			}

			_, errs := a.engine().CompileAll(cmd.Context(), files)
			failed := 0
			for i, err := range errs {
				if err != nil {
					failed++
					writeDiagnostics(cmd.ErrOrStderr(), files[i].Name, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", files[i].Name)
			}
			if failed > 0 {
				return fmt.Errorf("check failed for %d file(s)", failed)
			}
			return nil
		},
	}
}

func newTokensCommand(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, source, err := readSource(args[0])
			if err != nil {
				return err
			}
			tokens, err := quark.Tokenize(source)
			if err != nil {
				writeDiagnostics(cmd.ErrOrStderr(), path, err)
				return errors.New("tokenize failed")
			}
			out := cmd.OutOrStdout()
			for _, tok := range tokens {
				fmt.Fprintf(out, "%s\t%s\t%s\n", tok.Pos, tok.Kind, tok.Text)
			}
			return nil
		},
	}
}

func newASTCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the syntax tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = a.config.Output.ASTFormat
			}
			if !isASTFormat(format) {
				return fmt.Errorf("unknown format %q", format)
			}

			path, source, err := readSource(args[0])
			if err != nil {
				return err
			}
			unit, err := a.engine().Compile(source)
			if err != nil {
				writeDiagnostics(cmd.ErrOrStderr(), path, err)
				return errors.New("compile failed")
			}

			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				return quark.WriteYAML(out, unit.Program)
			case "json":
				return quark.WriteJSON(out, unit.Program)
			case "dot":
				return quark.WriteDOT(out, unit.Program)
			default:
				_, err := fmt.Fprintln(out, quark.Sexp(unit.Program))
				return err
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "sexp", "output format: sexp, yaml, json or dot")
	return cmd
}

func readSource(arg string) (string, string, error) {
	path, err := filepath.Abs(arg)
	if err != nil {
		return "", "", fmt.Errorf("resolve path: %w", err)
	}
	input, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read source: %w", err)
	}
	return path, string(input), nil
}
