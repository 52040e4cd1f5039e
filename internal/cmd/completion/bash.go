package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdBash creates the bash completion command.
func NewCmdBash() *cobra.Command {
	return &cobra.Command{
		Use:   "bash",
		Short: "Generate bash completion script",
		Long: `Generate bash completion script for bsp.

To load completions in your current shell session:

  source <(bsp completion bash)

To load completions for every new session:

  # Linux
  bsp completion bash > /etc/bash_completion.d/bsp

  # macOS (requires bash-completion)
  bsp completion bash > $(brew --prefix)/etc/bash_completion.d/bsp`,
		Example: `  # Load in current session
  source <(bsp completion bash)

  # Install permanently (Linux)
  bsp completion bash | sudo tee /etc/bash_completion.d/bsp > /dev/null

  # Install permanently (macOS with Homebrew)
  bsp completion bash > $(brew --prefix)/etc/bash_completion.d/bsp`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		},
	}
}
