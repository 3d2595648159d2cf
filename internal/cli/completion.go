package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for orgmorph.

To load completions:

Bash:
  $ source <(orgmorph completion bash)

  # To load completions for each session, execute once:
  $ orgmorph completion bash > /etc/bash_completion.d/orgmorph

Zsh:
  # If shell completion is not already enabled in your environment,
  # run once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ orgmorph completion zsh > "${fpath[1]}/_orgmorph"

Fish:
  $ orgmorph completion fish > ~/.config/fish/completions/orgmorph.fish

PowerShell:
  PS> orgmorph completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}

	return cmd
}
