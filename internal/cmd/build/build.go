// Package build provides the build command for bsp.
package build

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bootstraparse/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bootstraparse/internal/cmd/completion"
	"github.com/open-cli-collective/bootstraparse/internal/view"
	"github.com/open-cli-collective/bootstraparse/pkg/markup"
	"github.com/open-cli-collective/bootstraparse/pkg/site"
)

type buildOptions struct {
	force          bool
	strict         bool
	copyUnparsable bool
	workers        int
}

// NewCmdBuild creates the build command.
func NewCmdBuild() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build <origin> <destination>",
		Short: "Compile a source tree into a static site",
		Long: `Compile every markup file under origin into HTML under destination.

Markdown pages are converted as well, and other files are copied when
copy_unparsable is set. Directories named configs or templates and files
starting with an underscore are skipped. A site may carry its own
configuration in <origin>/configs/config.yml.`,
		Example: `  # Build a site
  bsp build site public

  # Rebuild, overwriting existing output
  bsp build site public --force

  # Stop at the first broken file
  bsp build site public --strict`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completion.Directories,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite existing output files")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Abort on the first file that fails")
	cmd.Flags().BoolVar(&opts.copyUnparsable, "copy-unparsable", false, "Copy files that are neither markup nor markdown")
	cmd.Flags().IntVarP(&opts.workers, "workers", "j", 0, "Number of files built in parallel (default: number of CPUs)")

	return cmd
}

func runBuild(cmd *cobra.Command, origin, destination string, opts *buildOptions) error {
	r, err := cmdutil.NewRenderer(cmd)
	if err != nil {
		return err
	}

	cfg, err := cmdutil.LoadConfig(cmd, origin)
	if err != nil {
		return err
	}
	if opts.force {
		cfg.ForceRewrite = true
	}
	if opts.strict {
		cfg.Strict = true
	}
	if opts.copyUnparsable {
		cfg.CopyUnparsable = true
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}

	conv, err := cmdutil.NewConverter(cfg, origin)
	if err != nil {
		return err
	}

	builder := site.NewBuilder(conv, site.Options{
		Extensions:     cfg.Extensions,
		CopyUnparsable: cfg.CopyUnparsable,
		ForceRewrite:   cfg.ForceRewrite,
		Strict:         cfg.Strict,
		Workers:        cfg.Workers,
		Aliases:        cfg.Aliases,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, buildErr := builder.Build(ctx, origin, destination)
	if report == nil {
		return buildErr
	}

	if err := renderReport(r, report); err != nil {
		return err
	}
	if buildErr != nil {
		return buildErr
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d files failed", len(report.Failed), report.Total())
	}
	return nil
}

type failureJSON struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type reportJSON struct {
	Compiled  []string      `json:"compiled"`
	Converted []string      `json:"converted"`
	Copied    []string      `json:"copied"`
	Failed    []failureJSON `json:"failed"`
	Warnings  []string      `json:"warnings"`
}

func renderReport(r *view.Renderer, report *site.Report) error {
	if r.Format() == view.FormatJSON {
		out := reportJSON{
			Compiled:  nonNil(report.Compiled),
			Converted: nonNil(report.Converted),
			Copied:    nonNil(report.Copied),
			Failed:    []failureJSON{},
			Warnings:  nonNil(report.Warnings),
		}
		for _, f := range report.Failed {
			out.Failed = append(out.Failed, failureJSON{Path: f.Path, Error: f.Err.Error()})
		}
		return r.RenderJSON(out)
	}

	headers := []string{"FILE", "ACTION", "RESULT"}
	var rows [][]string
	for _, p := range report.Compiled {
		rows = append(rows, []string{p, site.JobCompile.String(), "ok"})
	}
	for _, p := range report.Converted {
		rows = append(rows, []string{p, site.JobMarkdown.String(), "ok"})
	}
	for _, p := range report.Copied {
		rows = append(rows, []string{p, site.JobCopy.String(), "ok"})
	}
	for _, f := range report.Failed {
		rows = append(rows, []string{f.Path, "-", view.Truncate("failed: "+f.Err.Error(), 60)})
	}
	r.RenderTable(headers, rows)

	if r.Format() == view.FormatPlain {
		return nil
	}

	for _, w := range report.Warnings {
		r.Warning(w)
	}
	for _, f := range report.Failed {
		r.Error(fmt.Sprintf("%s: %v", f.Path, f.Err))
		if snippet := markup.Snippet(f.Err); snippet != "" {
			r.Hint(snippet)
		}
	}
	if len(report.Failed) == 0 {
		r.Success(fmt.Sprintf("Built %d files", report.Total()))
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
