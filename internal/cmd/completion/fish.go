package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdFish creates the fish completion command.
func NewCmdFish() *cobra.Command {
	return &cobra.Command{
		Use:   "fish",
		Short: "Generate fish completion script",
		Long: `Generate fish completion script for bsp.

To load completions in your current shell session:

  bsp completion fish | source

To load completions for every new session:

  bsp completion fish > ~/.config/fish/completions/bsp.fish`,
		Example: `  # Load in current session
  bsp completion fish | source

  # Install permanently
  bsp completion fish > ~/.config/fish/completions/bsp.fish`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		},
	}
}
