package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/discograph/pkg/client"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for discograph.

Bash:
  $ source <(discograph completion bash)

Zsh:
  $ discograph completion zsh > "${fpath[1]}/_discograph"

Fish:
  $ discograph completion fish | source

PowerShell:
  PS> discograph completion powershell | Out-String | Invoke-Expression

Topic flags complete against the running backend when it is reachable.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

// completeTopics suggests topic names from the configured backend. It never
// retries and gives up quickly so the shell stays responsive.
func (c *CLI) completeTopics(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := c.config()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	base := cfg.Client.BaseURL
	if f := cmd.Flags().Lookup("base-url"); f != nil && f.Changed {
		base = f.Value.String()
	}
	cl, err := client.New(base, client.WithTimeout(2*time.Second), client.WithRetry(1, 0))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	topics, err := cl.Topics(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(topics))
	for _, t := range topics {
		names = append(names, t.Name+"\t"+t.Branch)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
