package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/cukefmt/packages/formatter/builder"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in formatter types",
	Long: `List the formatter types available without loading a module.

Any other --format type is loaded as a custom formatter: a relative path
(./formatters/custom.so, ./bin/my-formatter) or the name of a module
compiled into the binary.`,
	Args: usageArgs(cobra.NoArgs),
	Run: func(cmd *cobra.Command, args []string) {
		for _, typ := range builder.NewRegistry().Types() {
			fmt.Fprintln(cmd.OutOrStdout(), typ)
		}
	},
}
