package cli

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/shadowfmt/internal/config"
	"github.com/hupe1980/shadowfmt/internal/rewrite"
)

// flagValues are the accepted values of enumerated flags, offered by shell
// completion.
var flagValues = map[string][]string{
	"log-level":      {config.LogLevelDebug, config.LogLevelInfo, config.LogLevelWarn, config.LogLevelError},
	"exit-log-level": {config.LogLevelDebug, config.LogLevelInfo, config.LogLevelWarn, config.LogLevelError},
	"log-format":     {config.LogFormatText, config.LogFormatJSON},
	"coalesce":       {config.CoalesceToggle, config.CoalesceDebounce},
	"format":         {rewrite.FormatYAML, rewrite.FormatJSON},
}

// registerValueCompletions attaches flagValues to every command in the tree
// that defines one of the flags itself.
func registerValueCompletions(cmd *cobra.Command) {
	for name, values := range flagValues {
		if cmd.LocalFlags().Lookup(name) == nil {
			continue
		}

		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}

	for _, sub := range cmd.Commands() {
		registerValueCompletions(sub)
	}
}

func newCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for shadowfmt. Besides subcommands the
scripts complete the values of enumerated flags such as --coalesce.

To load completions:

Bash:
  $ source <(shadowfmt completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ shadowfmt completion bash > /etc/bash_completion.d/shadowfmt

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ shadowfmt completion zsh > "${fpath[1]}/_shadowfmt"

Fish:
  $ shadowfmt completion fish > ~/.config/fish/completions/shadowfmt.fish

PowerShell:
  PS> shadowfmt completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> shadowfmt completion powershell > shadowfmt.ps1
  # and source this file from your PowerShell profile.
`,
		// Override parent PersistentPreRunE: completion needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
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
