// Package export turns container trees into HTML using themed markup templates.
package export

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTheme is the theme shipped with the binary.
const DefaultTheme = "bootstrap"

//go:embed templates/bootstrap.yml
var defaultTemplates []byte

// ErrTemplateNotFound is matched by every *TemplateError.
var ErrTemplateNotFound = errors.New("template not found")

// Templates maps theme -> type -> subtype -> [start, end].
type Templates map[string]map[string]map[string][]string

// TemplateError reports a lookup miss and how far the lookup went.
type TemplateError struct {
	Theme, Type, Subtype string
	// Found flags theme, type and subtype in that order.
	Found [3]bool
}

func (e *TemplateError) Error() string {
	names := [3]string{e.Theme, e.Type, e.Subtype}
	var lines []string
	for i, name := range names {
		state := "not found"
		if e.Found[i] {
			state = "found"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, state))
	}
	return fmt.Sprintf("template %s/%s/%s could not be found (%s)",
		e.Theme, e.Type, e.Subtype, strings.Join(lines, ", "))
}

func (e *TemplateError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

// DefaultTemplates returns a fresh copy of the embedded template set.
func DefaultTemplates() (Templates, error) {
	return ParseTemplates(defaultTemplates)
}

// ParseTemplates decodes and validates a YAML template set.
func ParseTemplates(data []byte) (Templates, error) {
	var t Templates
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadTemplates reads a template set from path.
func LoadTemplates(path string) (Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}
	return ParseTemplates(data)
}

// Validate checks that every entry holds exactly a start and an end fragment.
func (t Templates) Validate() error {
	for theme, types := range t {
		for typ, subtypes := range types {
			for sub, pair := range subtypes {
				if len(pair) != 2 {
					return fmt.Errorf("template %s/%s/%s must be [start, end], got %d values", theme, typ, sub, len(pair))
				}
			}
		}
	}
	return nil
}

// Merge copies every entry of o into t, replacing existing ones.
func (t Templates) Merge(o Templates) {
	for theme, types := range o {
		if t[theme] == nil {
			t[theme] = make(map[string]map[string][]string)
		}
		for typ, subtypes := range types {
			if t[theme][typ] == nil {
				t[theme][typ] = make(map[string][]string)
			}
			for sub, pair := range subtypes {
				t[theme][typ][sub] = pair
			}
		}
	}
}

// Lookup returns the start and end fragments of theme/typ/subtype.
func (t Templates) Lookup(theme, typ, subtype string) (string, string, error) {
	types, okTheme := t[theme]
	subtypes, okType := types[typ]
	pair, okSub := subtypes[subtype]
	if !okTheme || !okType || !okSub {
		return "", "", &TemplateError{
			Theme:   theme,
			Type:    typ,
			Subtype: subtype,
			Found:   [3]bool{okTheme, okType, okSub},
		}
	}
	return pair[0], pair[1], nil
}

// Themes returns the theme names, sorted.
func (t Templates) Themes() []string {
	return slices.Sorted(maps.Keys(t))
}
