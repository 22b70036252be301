package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var logLevelFlag string

var rootCmd = &cobra.Command{
	Use:   "cukefmt",
	Short: "Render Cucumber message streams with any formatter.",
	Long: `cukefmt replays a recorded Cucumber message stream (NDJSON) through
built-in or custom formatters. Custom formatters are Go plugins, external
executables, or modules compiled into the binary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if !errors.As(err, &ee) || ee.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", getEnvString("CUKEFMT_LOG_LEVEL", ""), "Log level: debug, info, warn, error (env: CUKEFMT_LOG_LEVEL)")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitError{code: ExitUsageError, err: err}
	})

	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
	registerFlagCompletions()
}

// newLogger returns a slog logger rendering through charmbracelet/log on stderr
func newLogger(level string) (*slog.Logger, error) {
	lvl := log.WarnLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, &exitError{code: ExitUsageError, err: fmt.Errorf("invalid log level %q", level)}
		}
		lvl = parsed
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:  lvl,
		Prefix: "cukefmt",
	})
	return slog.New(handler), nil
}

// exitError carries the process exit code for a failure
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// usageArgs marks positional argument errors as usage errors
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &exitError{code: ExitUsageError, err: err}
		}
		return nil
	}
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitRunFailure
}
