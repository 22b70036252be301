package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/config"
	"github.com/spf13/cobra"
)

// InitConfigFilename is the file written by cukefmt init
const InitConfigFilename = ".cukefmt.yml"

var (
	forceInit bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write a starter .cukefmt.yml with the default format and options.

Examples:
  cukefmt init
  cukefmt init --force`,
	Args: usageArgs(cobra.NoArgs),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config file")
	initCmd.Flags().StringVar(&initDir, "dir", "", "Directory to write the config file to (default: current directory)")
}

func initCommand(cmd *cobra.Command, args []string) error {
	dir := initDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = cwd
	}

	path := filepath.Join(dir, InitConfigFilename)
	if !forceInit {
		if _, err := os.Stat(path); err == nil {
			return &exitError{code: ExitConfigError, err: fmt.Errorf("%s already exists (use --force to overwrite)", path)}
		}
	}

	cfg := config.DefaultConfig()
	cfg.FormatOptions = map[string]any{
		"snippetInterface": "synchronous",
		"printAttachments": true,
	}
	if err := cfg.SaveConfig(path); err != nil {
		return &exitError{code: ExitConfigError, err: fmt.Errorf("failed to create config file: %w", err)}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", path)
	return nil
}
