package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for pfsheet.

To load completions:

Bash:
  $ source <(pfsheet completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ pfsheet completion bash > /etc/bash_completion.d/pfsheet
  # macOS:
  $ pfsheet completion bash > $(brew --prefix)/etc/bash_completion.d/pfsheet

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ pfsheet completion zsh > "${fpath[1]}/_pfsheet"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ pfsheet completion fish | source

  # To load completions for each session, execute once:
  $ pfsheet completion fish > ~/.config/fish/completions/pfsheet.fish

PowerShell:
  PS> pfsheet completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
