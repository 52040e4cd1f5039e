package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/open-cli-collective/bootstraparse/pkg/export"
)

// ErrOutputExists is returned for an output file that already exists without ForceRewrite.
var ErrOutputExists = errors.New("output already exists")

// Options configures a build.
type Options struct {
	Extensions     []string
	CopyUnparsable bool
	ForceRewrite   bool
	// Strict aborts the whole build on the first failing file.
	Strict  bool
	Workers int
	Aliases map[string]string
}

// Failure is a file that could not be built.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes a build. Paths are relative to the origin and sorted.
type Report struct {
	Compiled  []string
	Converted []string
	Copied    []string
	Failed    []Failure
	Warnings  []string
}

// Total returns the number of files handled, failed ones included.
func (r *Report) Total() int {
	return len(r.Compiled) + len(r.Converted) + len(r.Copied) + len(r.Failed)
}

// Builder compiles source trees. Each document gets its own engine, so documents
// are built in parallel.
type Builder struct {
	conv *export.Converter
	pre  *Preparser
	opts Options

	mu     sync.Mutex
	report *Report
}

// NewBuilder creates a builder compiling markup files with conv.
func NewBuilder(conv *export.Converter, opts Options) *Builder {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Builder{conv: conv, pre: NewPreparser(opts.Aliases), opts: opts}
}

// Build compiles origin into destination.
func (b *Builder) Build(ctx context.Context, origin, destination string) (*Report, error) {
	info, err := os.Stat(origin)
	if err != nil {
		return nil, fmt.Errorf("failed to open origin: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("origin %s is not a directory", origin)
	}

	jobs, err := Crawl(origin, b.opts.Extensions, b.opts.CopyUnparsable)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(destination, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination: %w", err)
	}

	b.report = &Report{}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)
	for _, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := b.run(job, origin, destination)
			if err == nil {
				return nil
			}
			log.Printf("ERROR: %s: %v", job.Source, err)
			b.record(func(r *Report) {
				r.Failed = append(r.Failed, Failure{Path: job.Source, Err: err})
			})
			if b.opts.Strict {
				return fmt.Errorf("%s: %w", job.Source, err)
			}
			return nil
		})
	}
	err = g.Wait()

	report := b.report
	sortReport(report)
	return report, err
}

func (b *Builder) run(job Job, origin, destination string) error {
	src := filepath.Join(origin, job.Source)
	dst := filepath.Join(destination, job.Output)

	if _, err := os.Stat(dst); err == nil && !b.opts.ForceRewrite {
		return fmt.Errorf("%w: %s", ErrOutputExists, dst)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	switch job.Kind {
	case JobCompile:
		content, err := b.pre.Expand(src)
		if err != nil {
			return err
		}
		res, err := b.conv.Convert(content, job.Source)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, []byte(res.HTML), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		b.record(func(r *Report) {
			r.Compiled = append(r.Compiled, job.Source)
			r.Warnings = append(r.Warnings, res.Warnings...)
		})

	case JobMarkdown:
		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", src, err)
		}
		out, err := export.MarkdownToHTML(data)
		if err != nil {
			return fmt.Errorf("failed to convert markdown: %w", err)
		}
		if err := os.WriteFile(dst, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		b.record(func(r *Report) { r.Converted = append(r.Converted, job.Source) })

	case JobCopy:
		if err := copyFile(src, dst); err != nil {
			return err
		}
		b.record(func(r *Report) { r.Copied = append(r.Copied, job.Source) })
	}
	return nil
}

func (b *Builder) record(f func(r *Report)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f(b.report)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

func sortReport(r *Report) {
	sort.Strings(r.Compiled)
	sort.Strings(r.Converted)
	sort.Strings(r.Copied)
	sort.Strings(r.Warnings)
	sort.Slice(r.Failed, func(i, j int) bool { return r.Failed[i].Path < r.Failed[j].Path })
}
