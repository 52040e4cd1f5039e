// Package render provides the render and preview commands for bsp.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bootstraparse/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bootstraparse/internal/cmd/completion"
	"github.com/open-cli-collective/bootstraparse/internal/view"
	"github.com/open-cli-collective/bootstraparse/pkg/export"
	"github.com/open-cli-collective/bootstraparse/pkg/site"
)

type renderOptions struct {
	dest string
}

// NewCmdRender creates the render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Compile a single markup file to HTML",
		Long: `Compile one markup file, resolving its imports and aliases, and print the
HTML or write it to a file.`,
		Example: `  # Print the HTML of a page
  bsp render site/index.bpr

  # Write it to a file
  bsp render site/index.bpr --dest index.html`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.MarkupFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.dest, "dest", "", "Write the HTML to this file instead of stdout")

	return cmd
}

func runRender(cmd *cobra.Command, file string, opts *renderOptions) error {
	res, err := compile(cmd, file)
	if err != nil {
		return err
	}

	if opts.dest == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), res.HTML)
		return err
	}

	if err := os.WriteFile(opts.dest, []byte(res.HTML), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	r, err := cmdutil.NewRenderer(cmd)
	if err != nil {
		return err
	}
	r.Success(fmt.Sprintf("Rendered %s to %s", file, opts.dest))
	return nil
}

// compile runs file through the preparser and the converter configured for the working
// directory. Warnings go to stderr so stdout carries only the document.
func compile(cmd *cobra.Command, file string) (*export.Result, error) {
	noColor, _ := cmd.Flags().GetBool("no-color")

	cfg, err := cmdutil.LoadConfig(cmd, ".")
	if err != nil {
		return nil, err
	}
	conv, err := cmdutil.NewConverter(cfg, ".")
	if err != nil {
		return nil, err
	}

	content, err := site.NewPreparser(cfg.Aliases).Expand(file)
	if err != nil {
		return nil, err
	}
	res, err := conv.Convert(content, file)
	if err != nil {
		return nil, err
	}

	stderr := view.NewRenderer(view.FormatTable, noColor)
	stderr.SetWriter(cmd.ErrOrStderr())
	for _, w := range res.Warnings {
		stderr.Warning(w)
	}
	return res, nil
}
