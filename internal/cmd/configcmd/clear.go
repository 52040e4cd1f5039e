package configcmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bootstraparse/internal/cmd/cmdutil"
)

// envVars lists every variable config.LoadFromEnv reads, primary names first.
var envVars = []string{
	"BSP_THEME", "BSP_TEMPLATES", "BSP_EXTENSIONS", "BSP_WORKERS",
	"BSP_FORCE_REWRITE", "BSP_COPY_UNPARSABLE", "BSP_STRICT",
	"BOOTSTRAPARSE_THEME", "BOOTSTRAPARSE_TEMPLATES", "BOOTSTRAPARSE_EXTENSIONS", "BOOTSTRAPARSE_WORKERS",
	"BOOTSTRAPARSE_FORCE_REWRITE", "BOOTSTRAPARSE_COPY_UNPARSABLE", "BOOTSTRAPARSE_STRICT",
}

// NewCmdClear creates the config clear command.
func NewCmdClear() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove stored configuration",
		Long:  `Delete the bsp configuration file. Environment variables and site configurations will still be used if set.`,
		Example: `  # Clear config
  bsp config clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runClear(cmd.OutOrStdout(), cmdutil.ConfigPath(cmd), noColor)
		},
	}

	return cmd
}

func runClear(w io.Writer, configPath string, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	err := os.Remove(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove config file: %w", err)
	}

	green := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	if os.IsNotExist(err) {
		_, _ = green.Fprintf(w, "✓ No config file to remove\n")
	} else {
		_, _ = green.Fprintf(w, "✓ Configuration cleared from %s\n", configPath)
	}

	// Check if env vars are set
	var activeVars []string
	for _, v := range envVars {
		if os.Getenv(v) != "" {
			activeVars = append(activeVars, v)
		}
	}

	if len(activeVars) > 0 {
		_, _ = dim.Fprintf(w, "\nNote: Environment variables will still be used: %s\n", strings.Join(activeVars, ", "))
	}

	return nil
}
