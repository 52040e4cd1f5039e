package render

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bootstraparse/internal/cmd/completion"
	"github.com/open-cli-collective/bootstraparse/pkg/export"
)

// NewCmdPreview creates the preview command.
func NewCmdPreview() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file>",
		Short: "Show a markup file as markdown in the terminal",
		Long: `Compile one markup file and convert the HTML back to markdown, which reads
better in a terminal than raw HTML. Classes and other attributes are dropped.`,
		Example: `  # Preview a page
  bsp preview site/index.bpr

  # Page through a long one
  bsp preview site/index.bpr | less`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.MarkupFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, args[0])
		},
	}
}

func runPreview(cmd *cobra.Command, file string) error {
	res, err := compile(cmd, file)
	if err != nil {
		return err
	}

	md, err := export.HTMLToMarkdown(res.HTML)
	if err != nil {
		return fmt.Errorf("failed to convert %s to markdown: %w", file, err)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), md+"\n")
	return err
}
