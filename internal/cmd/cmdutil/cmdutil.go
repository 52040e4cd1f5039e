// Package cmdutil holds the setup shared by bsp commands.
package cmdutil

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bootstraparse/internal/config"
	"github.com/open-cli-collective/bootstraparse/internal/view"
	"github.com/open-cli-collective/bootstraparse/pkg/export"
)

// ConfigPath returns the --config flag value, or the default config path.
func ConfigPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.DefaultConfigPath()
}

// LoadConfig loads the configuration for a site rooted at origin. Single-file commands
// pass "." so the site configuration of the working directory applies.
func LoadConfig(cmd *cobra.Command, origin string) (*config.Config, error) {
	cfg, err := config.LoadForSite(ConfigPath(cmd), origin)
	if err != nil {
		return nil, fmt.Errorf("%w (run 'bsp config test' to check your configuration)", err)
	}
	return cfg, nil
}

// Templates returns the embedded template set with the configured templates file merged
// over it. A relative templates path is resolved against baseDir.
func Templates(cfg *config.Config, baseDir string) (export.Templates, error) {
	templates, err := export.DefaultTemplates()
	if err != nil {
		return nil, err
	}

	if cfg.Templates != "" {
		path := cfg.Templates
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		custom, err := export.LoadTemplates(path)
		if err != nil {
			return nil, err
		}
		templates.Merge(custom)
	}

	themes := templates.Themes()
	if !slices.Contains(themes, cfg.Theme) {
		return nil, fmt.Errorf("unknown theme %q (available: %s)", cfg.Theme, strings.Join(themes, ", "))
	}
	return templates, nil
}

// NewConverter builds the converter for cfg.
func NewConverter(cfg *config.Config, baseDir string) (*export.Converter, error) {
	templates, err := Templates(cfg, baseDir)
	if err != nil {
		return nil, err
	}
	return export.NewConverter(export.NewManager(templates, cfg.Theme, cfg.Images), nil), nil
}

// NewRenderer creates a renderer from the --output and --no-color flags, writing to the
// command's output.
func NewRenderer(cmd *cobra.Command) (*view.Renderer, error) {
	output, _ := cmd.Flags().GetString("output")
	noColor, _ := cmd.Flags().GetBool("no-color")
	if err := view.ValidateFormat(output); err != nil {
		return nil, err
	}
	r := view.NewRenderer(view.Format(output), noColor)
	r.SetWriter(cmd.OutOrStdout())
	return r, nil
}
