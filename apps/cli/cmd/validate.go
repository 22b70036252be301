package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <messages.ndjson>...",
	Short: "Validate message streams and the config file",
	Long: `Validate message streams without formatting them. Every line must be
valid JSON, and step definitions and parameter types must be consistent.
The config file, if any, is checked as well.

Examples:
  cukefmt validate run.ndjson
  cukefmt validate --config .cukefmt.yml run-*.ndjson`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: validateCommand,
}

func init() {
	validateCmd.Flags().StringVar(&configFlag, "config", getEnvString("CUKEFMT_CONFIG", ""), "Path to config file (env: CUKEFMT_CONFIG)")
}

func validateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}
	if _, err := cfg.ParsedFormatOptions(); err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}
	for _, f := range cfg.Formats {
		if _, err := config.ParseFormat(f); err != nil {
			return &exitError{code: ExitConfigError, err: err}
		}
	}

	hasErrors := false
	for _, file := range args {
		envs, _, err := readMessages(file, cmd.InOrStdin())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d messages)\n", file, len(envs))
	}

	if hasErrors {
		return &exitError{code: ExitParseError, err: fmt.Errorf("validation failed")}
	}
	return nil
}
