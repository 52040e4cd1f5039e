package site

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// skippedDirs hold configuration and templates, never site content.
var skippedDirs = []string{"configs", "config", "templates", "template"}

// JobKind tells how a source file is turned into its output.
type JobKind int

const (
	// JobCompile compiles a markup file to HTML.
	JobCompile JobKind = iota
	// JobMarkdown converts a markdown page to HTML.
	JobMarkdown
	// JobCopy copies the file unchanged.
	JobCopy
)

func (k JobKind) String() string {
	switch k {
	case JobCompile:
		return "compile"
	case JobMarkdown:
		return "markdown"
	case JobCopy:
		return "copy"
	}
	return "unknown"
}

// Job is one source file and where its output goes, relative to origin and destination.
type Job struct {
	Kind   JobKind
	Source string
	Output string
}

// Crawl lists the jobs for the tree under origin. Directories named like configs or
// templates and files starting with an underscore are skipped; underscore files are
// import-only partials. Files that are neither markup nor markdown are listed only
// when copyUnparsable is set.
func Crawl(origin string, extensions []string, copyUnparsable bool) ([]Job, error) {
	var jobs []Job
	err := filepath.WalkDir(origin, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != origin && slices.Contains(skippedDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), "_") {
			return nil
		}

		rel, err := filepath.Rel(origin, path)
		if err != nil {
			return err
		}
		ext := filepath.Ext(rel)
		switch {
		case hasExtension(ext, extensions):
			jobs = append(jobs, Job{Kind: JobCompile, Source: rel, Output: htmlName(rel)})
		case strings.EqualFold(ext, ".md"):
			jobs = append(jobs, Job{Kind: JobMarkdown, Source: rel, Output: htmlName(rel)})
		case copyUnparsable:
			jobs = append(jobs, Job{Kind: JobCopy, Source: rel, Output: rel})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to crawl %s: %w", origin, err)
	}
	return jobs, nil
}

func hasExtension(ext string, extensions []string) bool {
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func htmlName(rel string) string {
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
}
