package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"helm-apps/dialect/pkg/cli"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for happctl.

To load completions:

Bash:
  $ source <(happctl completion bash)
  # To load permanently:
  $ happctl completion bash > /etc/bash_completion.d/happctl

Zsh:
  $ happctl completion zsh > "${fpath[1]}/_happctl"
  $ compinit

Fish:
  $ happctl completion fish | source
  # To load permanently:
  $ happctl completion fish > ~/.config/fish/completions/happctl.fish

PowerShell:
  PS> happctl completion powershell | Out-String | Invoke-Expression
  # To load permanently, add to your PowerShell profile
`,
	ValidArgs:   []string{"bash", "zsh", "fish", "powershell"},
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipSetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return cli.NewConfigError("shell", fmt.Sprintf("unsupported shell: %s", args[0]))
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
