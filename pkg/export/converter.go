package export

import (
	"fmt"
	"io"

	"github.com/open-cli-collective/bootstraparse/pkg/markup"
)

// Result is the outcome of compiling one document.
type Result struct {
	HTML       string
	Containers []*markup.Container
	Warnings   []string
}

// Converter compiles markup source into HTML with one exporter.
// A Converter holds no per-document state and may be shared between goroutines
// as long as its exporter may.
type Converter struct {
	exporter markup.Exporter
	registry *markup.Registry
}

// NewConverter creates a converter. A nil registry selects markup.DefaultRegistry.
func NewConverter(exp markup.Exporter, registry *markup.Registry) *Converter {
	if registry == nil {
		registry = markup.DefaultRegistry()
	}
	return &Converter{exporter: exp, registry: registry}
}

// Convert lexes, contextualizes and exports src. file is only used in messages.
func (c *Converter) Convert(src, file string) (*Result, error) {
	tokens, err := markup.Lex(src)
	if err != nil {
		return nil, fmt.Errorf("failed to lex %s: %w", displayName(file), err)
	}

	ctx := markup.NewContext(tokens, markup.WithFile(file), markup.WithRegistry(c.registry))
	containers, err := ctx.Run()
	if err != nil {
		return nil, err
	}

	out, err := markup.Render(containers, c.exporter)
	if err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", displayName(file), err)
	}

	return &Result{HTML: out, Containers: containers, Warnings: ctx.Warnings()}, nil
}

// Write exports containers to w.
func (c *Converter) Write(w io.Writer, containers []*markup.Container) error {
	out, err := markup.Render(containers, c.exporter)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func displayName(file string) string {
	if file == "" {
		return "<input>"
	}
	return file
}
