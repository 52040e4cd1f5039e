// Package check provides the check command for bsp.
package check

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/open-cli-collective/bootstraparse/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bootstraparse/internal/cmd/completion"
	"github.com/open-cli-collective/bootstraparse/pkg/markup"
	"github.com/open-cli-collective/bootstraparse/pkg/site"
)

type checkOptions struct {
	html bool
	tree bool
}

// NewCmdCheck creates the check command.
func NewCmdCheck() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Check markup files for errors",
		Long: `Compile each file without writing anything and report every problem with
its line, file and the surrounding tokens.`,
		Example: `  # Check a page
  bsp check site/index.bpr

  # Show the container tree the page compiles to
  bsp check site/index.bpr --tree

  # Also verify the generated HTML nests properly
  bsp check site/*.bpr --html`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completion.MarkupFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.html, "html", false, "Verify that the generated HTML is balanced")
	cmd.Flags().BoolVar(&opts.tree, "tree", false, "Print the container tree of each file")

	return cmd
}

func runCheck(cmd *cobra.Command, files []string, opts *checkOptions) error {
	r, err := cmdutil.NewRenderer(cmd)
	if err != nil {
		return err
	}

	cfg, err := cmdutil.LoadConfig(cmd, ".")
	if err != nil {
		return err
	}
	conv, err := cmdutil.NewConverter(cfg, ".")
	if err != nil {
		return err
	}
	pre := site.NewPreparser(cfg.Aliases)

	failed := 0
	for _, file := range files {
		content, err := pre.Expand(file)
		if err != nil {
			r.Error(err.Error())
			failed++
			continue
		}

		res, err := conv.Convert(content, file)
		if err != nil {
			r.Error(err.Error())
			if snippet := markup.Snippet(err); snippet != "" {
				r.Hint(snippet)
			}
			failed++
			continue
		}

		if opts.tree {
			for _, c := range res.Containers {
				r.RenderText(strings.TrimSuffix(c.Tree(), "\n"))
			}
		}
		for _, w := range res.Warnings {
			r.Warning(w)
		}
		if opts.html {
			if err := ProbeHTML(res.HTML); err != nil {
				r.Error(fmt.Sprintf("%s: %v", file, err))
				failed++
				continue
			}
		}
		r.Success(file)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true, "track": true,
	"wbr": true,
}

// ProbeHTML reports the first tag of s that is closed out of order or never closed.
func ProbeHTML(s string) error {
	z := html.NewTokenizer(strings.NewReader(s))
	var open []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			if len(open) > 0 {
				return fmt.Errorf("unclosed <%s>", open[len(open)-1])
			}
			return nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if !voidElements[string(name)] {
				open = append(open, string(name))
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if len(open) == 0 || open[len(open)-1] != string(name) {
				return fmt.Errorf("unexpected </%s>", name)
			}
			open = open[:len(open)-1]
		}
	}
}
