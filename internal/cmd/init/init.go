// Package init provides the init command for bsp.
package init

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bootstraparse/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bootstraparse/internal/config"
	"github.com/open-cli-collective/bootstraparse/pkg/export"
)

type initOptions struct {
	defaults bool
	force    bool
}

// answers holds the form fields as typed by the user.
type answers struct {
	theme          string
	extensions     string
	workers        string
	copyUnparsable bool
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize bsp configuration",
		Long: `Initialize bsp with your preferred theme, markup extensions and build settings.

The configuration will be saved to ~/.config/bsp/config.yml. A site can
override any of it with its own configs/config.yml.`,
		Example: `  # Interactive setup
  bsp init

  # Write the default configuration without prompting
  bsp init --defaults`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.OutOrStdout(), cmdutil.ConfigPath(cmd), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.defaults, "defaults", false, "Write the default configuration without prompting")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration without asking")

	return cmd
}

func runInit(w io.Writer, configPath string, opts *initOptions) error {
	interactive := isTerminal(os.Stdin) && isTerminal(os.Stdout)
	if !opts.defaults && !interactive {
		return errors.New("bsp init needs a terminal; use --defaults or write the config file by hand")
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		if !interactive {
			return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(w, "Initialization cancelled.")
			return nil
		}
	}

	a := answers{
		theme:      config.DefaultTheme,
		extensions: config.DefaultExtension,
	}
	if !opts.defaults {
		if err := prompt(&a); err != nil {
			return err
		}
	}

	cfg, err := a.config()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Save configuration
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(w, "\nYou're all set! Try running:")
	fmt.Fprintln(w, "  bsp check page.bpr")
	fmt.Fprintln(w, "  bsp build site public")

	return nil
}

func prompt(a *answers) error {
	templates, err := export.DefaultTemplates()
	if err != nil {
		return err
	}
	var themes []huh.Option[string]
	for _, t := range templates.Themes() {
		themes = append(themes, huh.NewOption(t, t))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Description("Template set used to export pages").
				Options(themes...).
				Value(&a.theme),

			huh.NewInput().
				Title("Markup extensions").
				Description("Comma-separated extensions compiled by bsp build").
				Placeholder(config.DefaultExtension).
				Value(&a.extensions).
				Validate(func(s string) error {
					_, err := parseExtensions(s)
					return err
				}),

			huh.NewInput().
				Title("Workers (optional)").
				Description("Files built in parallel; empty uses every CPU").
				Placeholder("0").
				Value(&a.workers).
				Validate(func(s string) error {
					_, err := parseWorkers(s)
					return err
				}),

			huh.NewConfirm().
				Title("Copy other files").
				Description("Copy files that are neither markup nor markdown into the output").
				Value(&a.copyUnparsable),
		),
	)

	return form.Run()
}

func (a answers) config() (*config.Config, error) {
	exts, err := parseExtensions(a.extensions)
	if err != nil {
		return nil, err
	}
	workers, err := parseWorkers(a.workers)
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		Theme:          a.theme,
		Extensions:     exts,
		Workers:        workers,
		CopyUnparsable: a.copyUnparsable,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseExtensions(s string) ([]string, error) {
	var exts []string
	for _, e := range strings.Split(s, ",") {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	if len(exts) == 0 {
		return nil, errors.New("at least one extension is required")
	}
	return exts, nil
}

func parseWorkers(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("workers must be a non-negative number")
	}
	return n, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
