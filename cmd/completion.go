package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// completionGenerators writes the completion script of each supported shell.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer, descriptions bool) error{
	"bash": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		return root.GenBashCompletionV2(w, descriptions)
	},
	"zsh": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		if descriptions {
			return root.GenZshCompletion(w)
		}
		return root.GenZshCompletionNoDesc(w)
	},
	"fish": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		return root.GenFishCompletion(w, descriptions)
	},
	"powershell": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		if descriptions {
			return root.GenPowerShellCompletionWithDesc(w)
		}
		return root.GenPowerShellCompletion(w)
	},
}

func completionShells() []string {
	shells := lo.Keys(completionGenerators)
	slices.Sort(shells)
	return shells
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer, descriptions bool) error {
	gen, ok := completionGenerators[shell]
	if !ok {
		return fmt.Errorf("unsupported shell %q: use one of %v", shell, completionShells())
	}
	return gen(root, w, descriptions)
}

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Print a shell completion script",
	Long: `Print a completion script for bash, zsh, fish or powershell.

Project names are not completed; commands, subcommands and flags are.`,
	Example: `  source <(stackswitch completion bash)
  stackswitch completion zsh > "${fpath[1]}/_stackswitch"
  stackswitch completion fish > ~/.config/fish/completions/stackswitch.fish
  stackswitch completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells(),
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		noDesc, _ := cmd.Flags().GetBool("no-descriptions")
		return writeCompletion(cmd.Root(), args[0], cmd.OutOrStdout(), !noDesc)
	},
}

func init() {
	completionCmd.Flags().Bool("no-descriptions", false, "Leave command descriptions out of the completions")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}
