package site

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/bootstraparse/pkg/export"
	"github.com/open-cli-collective/bootstraparse/pkg/markup"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func newConverter(t *testing.T) *export.Converter {
	t.Helper()
	templates, err := export.DefaultTemplates()
	require.NoError(t, err)
	return export.NewConverter(export.NewManager(templates, export.DefaultTheme, nil), nil)
}

func TestPreparser_Expand(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"index.bpr":         "# @[company]\n::< parts/_nav.bpr >\nend\n",
		"parts/_nav.bpr":    "- home\n::< _links.bpr >\n",
		"parts/_links.bpr":  "- @[unknown]\n",
		"loop/a.bpr":        "::< b.bpr >\n",
		"loop/b.bpr":        "::< a.bpr >\n",
		"missing/index.bpr": "::< nowhere.bpr >\n",
	})

	p := NewPreparser(map[string]string{"company": "ACME"})

	got, err := p.Expand(filepath.Join(root, "index.bpr"))
	require.NoError(t, err)
	assert.Equal(t, "# ACME\n- home\n- @[unknown]\nend\n", got)

	_, err = p.Expand(filepath.Join(root, "loop", "a.bpr"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrImportCycle))
	var cycle *ImportCycleError
	require.True(t, errors.As(err, &cycle))
	assert.Len(t, cycle.Chain, 3)

	_, err = p.Expand(filepath.Join(root, "missing", "index.bpr"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nowhere.bpr")
}

func TestCrawl(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"index.bpr":            "x",
		"_partial.bpr":         "x",
		"docs/guide.md":        "# Guide",
		"docs/page.BPR":        "x",
		"static/logo.png":      "png",
		"configs/config.yml":   "theme: bootstrap",
		"templates/custom.yml": "{}",
		"nested/config/x.bpr":  "x",
	})

	jobs, err := Crawl(root, []string{".bpr"}, false)
	require.NoError(t, err)

	got := map[string]Job{}
	for _, j := range jobs {
		got[filepath.ToSlash(j.Source)] = j
	}
	assert.Len(t, got, 3)
	assert.Equal(t, JobCompile, got["index.bpr"].Kind)
	assert.Equal(t, "index.html", got["index.bpr"].Output)
	assert.Equal(t, JobCompile, got["docs/page.BPR"].Kind)
	assert.Equal(t, JobMarkdown, got["docs/guide.md"].Kind)
	assert.Equal(t, filepath.Join("docs", "guide.html"), got["docs/guide.md"].Output)

	jobs, err = Crawl(root, []string{".bpr"}, true)
	require.NoError(t, err)
	assert.Len(t, jobs, 4)
}

func TestBuilder_Build(t *testing.T) {
	origin := t.TempDir()
	dest := filepath.Join(t.TempDir(), "out")
	writeFiles(t, origin, map[string]string{
		"index.bpr":       "# Hello\n::< _body.bpr >\n",
		"_body.bpr":       "**@[name]**\n",
		"blog/post.bpr":   "<<div\ntext\ndiv>>\n",
		"blog/broken.bpr": "oops\ndiv>>\n",
		"readme.md":       "# Readme",
		"logo.svg":        "<svg/>",
	})

	b := NewBuilder(newConverter(t), Options{
		Extensions:     []string{".bpr"},
		CopyUnparsable: true,
		Workers:        2,
		Aliases:        map[string]string{"name": "World"},
	})
	report, err := b.Build(context.Background(), origin, dest)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join("blog", "post.bpr"), "index.bpr"}, report.Compiled)
	assert.Equal(t, []string{"readme.md"}, report.Converted)
	assert.Equal(t, []string{"logo.svg"}, report.Copied)
	require.Len(t, report.Failed, 1)
	assert.True(t, errors.Is(report.Failed[0].Err, markup.ErrMismatchedContainer))
	assert.Equal(t, 5, report.Total())

	index, err := os.ReadFile(filepath.Join(dest, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1>\n<strong>World</strong>\n", string(index))

	readme, err := os.ReadFile(filepath.Join(dest, "readme.html"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "<h1>Readme</h1>")

	assert.FileExists(t, filepath.Join(dest, "logo.svg"))
	assert.NoFileExists(t, filepath.Join(dest, "_body.html"))

	// A second build refuses to overwrite without ForceRewrite.
	report, err = NewBuilder(newConverter(t), Options{Extensions: []string{".bpr"}}).
		Build(context.Background(), origin, dest)
	require.NoError(t, err)
	assert.Empty(t, report.Compiled)
	for _, f := range report.Failed {
		if f.Path == "index.bpr" {
			assert.True(t, errors.Is(f.Err, ErrOutputExists))
		}
	}

	report, err = NewBuilder(newConverter(t), Options{Extensions: []string{".bpr"}, ForceRewrite: true}).
		Build(context.Background(), origin, dest)
	require.NoError(t, err)
	assert.Len(t, report.Compiled, 2)
}

func TestBuilder_Strict(t *testing.T) {
	origin := t.TempDir()
	writeFiles(t, origin, map[string]string{"bad.bpr": "div>>\n"})

	b := NewBuilder(newConverter(t), Options{Extensions: []string{".bpr"}, Strict: true, Workers: 1})
	report, err := b.Build(context.Background(), origin, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.bpr")
	assert.Len(t, report.Failed, 1)
}

func TestBuilder_MissingOrigin(t *testing.T) {
	b := NewBuilder(newConverter(t), Options{})
	_, err := b.Build(context.Background(), filepath.Join(t.TempDir(), "nope"), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open origin")
}
