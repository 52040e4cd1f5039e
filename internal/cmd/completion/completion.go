// Package completion provides shell completion generation commands.
package completion

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bootstraparse/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bootstraparse/internal/config"
)

// NewCmdCompletion creates the completion command.
func NewCmdCompletion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for bsp.

These scripts enable tab-completion for commands, flags, and arguments.
Markup file arguments complete to the configured extensions.
See each sub-command's help for installation instructions.`,
	}

	cmd.AddCommand(NewCmdBash())
	cmd.AddCommand(NewCmdZsh())
	cmd.AddCommand(NewCmdFish())
	cmd.AddCommand(NewCmdPowerShell())

	return cmd
}

// MarkupFiles completes file arguments to the markup extensions of the configuration
// in effect for the working directory.
func MarkupFiles(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	exts := []string{config.DefaultExtension}
	if cfg, err := config.LoadForSite(cmdutil.ConfigPath(cmd), "."); err == nil {
		exts = cfg.Extensions
	}

	out := make([]string, 0, len(exts))
	for _, e := range exts {
		out = append(out, strings.TrimPrefix(e, "."))
	}
	return out, cobra.ShellCompDirectiveFilterFileExt
}

// Directories completes arguments to directories only.
func Directories(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) >= 2 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveFilterDirs
}
