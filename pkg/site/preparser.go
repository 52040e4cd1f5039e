// Package site compiles a whole source tree into a static site.
package site

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	importRe = regexp.MustCompile(`^\s*::<\s*(.+?)\s*>\s*$`)
	aliasRe  = regexp.MustCompile(`@\[([^\[\]]+)\]`)
)

// ErrImportCycle is matched by every *ImportCycleError.
var ErrImportCycle = errors.New("import cycle")

// ImportCycleError reports a file importing itself, directly or not.
type ImportCycleError struct {
	Chain []string
}

func (e *ImportCycleError) Error() string {
	return "import cycle: " + strings.Join(e.Chain, " -> ")
}

func (e *ImportCycleError) Is(target error) bool {
	return target == ErrImportCycle
}

// Preparser resolves imports and aliases before a file is lexed.
//
// An import is a line of the form `::< relative/path.bpr >`; the path is relative to the
// importing file and the line is replaced by the imported content. `@[name]` is replaced
// by the configured alias text; unknown aliases are left in place.
type Preparser struct {
	aliases map[string]string
}

// NewPreparser creates a preparser with the given aliases.
func NewPreparser(aliases map[string]string) *Preparser {
	return &Preparser{aliases: aliases}
}

// Expand returns the content of path with imports resolved and aliases substituted.
func (p *Preparser) Expand(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	content, err := p.expandImports(abs, nil)
	if err != nil {
		return "", err
	}
	return p.substitute(content, path), nil
}

func (p *Preparser) expandImports(path string, chain []string) (string, error) {
	for _, seen := range chain {
		if seen == path {
			return "", &ImportCycleError{Chain: append(chain, path)}
		}
	}
	chain = append(chain, path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i, line := range lines {
		m := importRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		target := m[1]
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		imported, err := p.expandImports(filepath.Clean(target), chain)
		if err != nil {
			return "", err
		}
		lines[i] = strings.TrimSuffix(imported, "\n")
	}
	return strings.Join(lines, "\n"), nil
}

func (p *Preparser) substitute(content, file string) string {
	return aliasRe.ReplaceAllStringFunc(content, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-1])
		if text, ok := p.aliases[name]; ok {
			return text
		}
		log.Printf("WARN: %s: unknown alias %q left in place", file, name)
		return match
	})
}
