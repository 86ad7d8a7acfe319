package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for net2mat.

To load completions:

Bash:
  $ source <(net2mat completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ net2mat completion bash > /etc/bash_completion.d/net2mat
  # macOS:
  $ net2mat completion bash > $(brew --prefix)/etc/bash_completion.d/net2mat

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ net2mat completion zsh > "${fpath[1]}/_net2mat"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ net2mat completion fish | source

  # To load completions for each session, execute once:
  $ net2mat completion fish > ~/.config/fish/completions/net2mat.fish

PowerShell:
  PS> net2mat completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> net2mat completion powershell > net2mat.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// File extensions offered when completing positional arguments.
var (
	networkExts = []string{"net", "xml"}
	matExts     = []string{"mat"}
	graphExts   = []string{"svg", "png", "dot", "gv"}
)

// completeArgs returns a completion function that offers files with
// exts[i] for the i-th positional argument and nothing past the last one.
// Shells still offer directories alongside the filtered files, which covers
// the directory form of the convert output argument.
func completeArgs(exts ...[]string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) >= len(exts) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return exts[len(args)], cobra.ShellCompDirectiveFilterFileExt
	}
}

// completeFlagExts offers files with the given extensions for a flag value.
func completeFlagExts(exts []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}
