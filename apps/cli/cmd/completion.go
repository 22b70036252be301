package cmd

import (
	"strings"

	"github.com/abdul-hamid-achik/cukefmt/packages/formatter/builder"
	"github.com/abdul-hamid-achik/cukefmt/packages/formatter/snippet"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a completion script for cukefmt. Besides commands and flags it
completes built-in formatter types for --format and interface kinds for
--snippet-interface.

Examples:
  source <(cukefmt completion bash)
  cukefmt completion zsh > "${fpath[1]}/_cukefmt"
  cukefmt completion fish | source`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  usageArgs(cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		root := cmd.Root()
		switch args[0] {
		case "bash":
			return root.GenBashCompletionV2(out, true)
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		default:
			return root.GenPowerShellCompletionWithDesc(out)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// registerFlagCompletions runs after the format flags are defined
func registerFlagCompletions() {
	_ = formatCmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = formatCmd.RegisterFlagCompletionFunc("snippet-interface", completeSnippetInterfaces)
}

// completeFormats offers the built-in types. Once a type and colon are
// typed the target is a file path.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if strings.Contains(toComplete, ":") {
		return nil, cobra.ShellCompDirectiveDefault
	}
	var out []string
	for _, typ := range builder.NewRegistry().Types() {
		if strings.HasPrefix(typ, toComplete) {
			out = append(out, typ)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeSnippetInterfaces(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, iface := range snippet.Interfaces {
		if strings.HasPrefix(string(iface), toComplete) {
			out = append(out, string(iface))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
