package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mgomes/quark/quark"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	root := newRootCommand()
	if len(args) > 1 {
		root.SetArgs(args[1:])
	} else {
		root.SetArgs([]string{})
	}
	return root.Execute()
}

// exitError carries a script's exit code out of `quark run`.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// app holds the state shared by every subcommand once flags and the config
// file have been resolved.
type app struct {
	configPath string
	noColor    bool
	logLevel   string
	logFile    string

	config   fileConfig
	logger   *slog.Logger
	closeLog func() error
}

func newRootCommand() *cobra.Command {
	a := &app{closeLog: func() error { return nil }}

	root := &cobra.Command{
		Use:   "quark",
		Short: "Quark language toolchain",
		Long: `quark compiles and runs programs written in Quark, a small typed
language with number, text and bool variables, if expressions and exit codes.

Source files use the .qrk extension.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.closeLog()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: ./"+defaultConfigName+" when present)")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.logFile, "log-file", "", "also write JSON logs to this file")

	root.AddCommand(
		newRunCommand(a),
		newCheckCommand(a),
		newTokensCommand(a),
		newASTCommand(a),
		newAnalyzeCommand(a),
		newFmtCommand(a),
		newLSPCommand(a),
		newREPLCommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("no-color") && a.noColor {
		cfg.Output.Color = false
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = a.logFile
	}
	a.config = cfg

	if !cfg.Output.Color {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	logger, closeLog, err := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	a.logger = logger
	a.closeLog = closeLog
	a.logger.Debug("configured", "command", cmd.Name(), "config", cfg.source, "step_quota", cfg.Run.StepQuota)
	return nil
}

func (a *app) engine() *quark.Engine {
	return quark.NewEngine(quark.Config{
		Logger:    a.logger,
		StepQuota: a.config.Run.StepQuota,
	})
}
