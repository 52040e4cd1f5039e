package configcmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bootstraparse/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bootstraparse/internal/config"
)

// sample exercises every template family the default registry exports.
const sample = `# Heading
!! Display
lead text[lead]
<<div
**bold** *em* __under__ ~~strike~~ (#note)span(#note) [link](https://example.com)
div>>
- item
#. step
| a |2 b |
|---|---|
| c | d |
`

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check the configuration and its templates",
		Long: `Load the configuration the way bsp build would from the current directory,
load the template set and compile a sample page with it.`,
		Example: `  # Test configuration
  bsp config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runTest(cmd.OutOrStdout(), cmdutil.ConfigPath(cmd), ".", noColor)
		},
	}

	return cmd
}

func runTest(w io.Writer, configPath, origin string, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	cfg, err := config.LoadForSite(configPath, origin)
	if err != nil {
		_, _ = red.Fprintln(w, "✗ Configuration invalid:", err)
		fmt.Fprintln(w, "\nCheck your settings with: bsp config show")
		fmt.Fprintln(w, "Reconfigure with: bsp init")
		return err
	}
	_, _ = green.Fprintln(w, "✓ Configuration valid")

	conv, err := cmdutil.NewConverter(cfg, origin)
	if err != nil {
		_, _ = red.Fprintln(w, "✗ Templates failed to load:", err)
		return fmt.Errorf("failed to load templates: %w", err)
	}
	_, _ = green.Fprintf(w, "✓ Templates loaded (theme %s)\n", cfg.Theme)

	if _, err := conv.Convert(sample, "sample"); err != nil {
		_, _ = red.Fprintln(w, "✗ Sample page failed:", err)
		return fmt.Errorf("theme %s cannot export the sample page: %w", cfg.Theme, err)
	}
	_, _ = green.Fprintln(w, "✓ Sample page compiled")

	return nil
}
