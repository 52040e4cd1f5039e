// Package root provides the root command for the bsp CLI.
package root

import (
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bootstraparse/internal/cmd/build"
	"github.com/open-cli-collective/bootstraparse/internal/cmd/check"
	"github.com/open-cli-collective/bootstraparse/internal/cmd/completion"
	"github.com/open-cli-collective/bootstraparse/internal/cmd/configcmd"
	initcmd "github.com/open-cli-collective/bootstraparse/internal/cmd/init"
	"github.com/open-cli-collective/bootstraparse/internal/cmd/render"
	"github.com/open-cli-collective/bootstraparse/internal/version"
)

// NewCmdRoot creates the root command for bsp.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bsp",
		Short: "Compile bootstraparse markup into HTML",
		Long: `bsp compiles bootstraparse markup into HTML pages styled by a template theme.

It builds whole source trees into static sites, renders or previews single
pages, and checks pages for mismatched containers.

Get started by running: bsp init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
				log.SetOutput(io.Discard)
			}
		},
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/bsp/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log warnings and errors as they happen")

	// Set version template
	cmd.SetVersionTemplate("bsp version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(build.NewCmdBuild())
	cmd.AddCommand(check.NewCmdCheck())
	cmd.AddCommand(render.NewCmdRender())
	cmd.AddCommand(render.NewCmdPreview())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
