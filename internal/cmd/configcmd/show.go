package configcmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bootstraparse/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bootstraparse/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current bsp configuration with source indicators.`,
		Example: `  # Show current config
  bsp config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(cmd.OutOrStdout(), cmdutil.ConfigPath(cmd), noColor)
		},
	}

	return cmd
}

func runShow(w io.Writer, configPath string, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, _ := config.LoadWithEnv(configPath)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue string, envVars ...string) {
		_, _ = bold.Fprintf(w, "%-16s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(w, "-")
			return
		}

		fmt.Fprint(w, value)

		// Determine source
		source := "config"
		if fileErr != nil {
			source = "-"
		}
		for _, envVar := range envVars {
			if os.Getenv(envVar) != "" {
				source = envVar
				break
			}
		}
		if fileValue != value && source == "config" {
			source = "-"
		}

		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	printField("Theme", cfg.Theme, fileCfg.Theme, "BSP_THEME", "BOOTSTRAPARSE_THEME")
	printField("Templates", cfg.Templates, fileCfg.Templates, "BSP_TEMPLATES", "BOOTSTRAPARSE_TEMPLATES")
	printField("Extensions", strings.Join(cfg.Extensions, ", "), strings.Join(fileCfg.Extensions, ", "),
		"BSP_EXTENSIONS", "BOOTSTRAPARSE_EXTENSIONS")
	printField("Workers", intField(cfg.Workers), intField(fileCfg.Workers), "BSP_WORKERS", "BOOTSTRAPARSE_WORKERS")
	printField("Force rewrite", boolField(cfg.ForceRewrite), boolField(fileCfg.ForceRewrite),
		"BSP_FORCE_REWRITE", "BOOTSTRAPARSE_FORCE_REWRITE")
	printField("Copy other", boolField(cfg.CopyUnparsable), boolField(fileCfg.CopyUnparsable),
		"BSP_COPY_UNPARSABLE", "BOOTSTRAPARSE_COPY_UNPARSABLE")
	printField("Strict", boolField(cfg.Strict), boolField(fileCfg.Strict), "BSP_STRICT", "BOOTSTRAPARSE_STRICT")
	printField("Aliases", mapField(cfg.Aliases), mapField(fileCfg.Aliases))
	printField("Images", mapField(cfg.Images), mapField(fileCfg.Images))

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}

func intField(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func boolField(b bool) string {
	if !b {
		return ""
	}
	return "true"
}

func mapField(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return strings.Join(keys, ", ")
}
