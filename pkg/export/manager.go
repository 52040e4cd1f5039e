package export

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/open-cli-collective/bootstraparse/pkg/markup"
)

// ErrUnknownPlaceholder is returned when a template names a value the request does not carry.
var ErrUnknownPlaceholder = errors.New("unknown placeholder")

var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// customPrefix marks custom span subtypes; a custom span without its own template
// falls back to inline_elements/custom with the span id as {span_id}.
const customPrefix = "custom_"

// Manager resolves export requests against a template set. It implements markup.Exporter.
type Manager struct {
	templates Templates
	theme     string
	images    map[string]string
}

// NewManager creates a manager for theme. Image names found in images are replaced by their URL.
func NewManager(templates Templates, theme string, images map[string]string) *Manager {
	if theme == "" {
		theme = DefaultTheme
	}
	return &Manager{templates: templates, theme: theme, images: images}
}

// Theme returns the theme used for lookups.
func (m *Manager) Theme() string {
	return m.theme
}

// Export returns the start and end fragments for req with every placeholder filled in.
func (m *Manager) Export(req markup.ExportRequest) (string, string, error) {
	values := m.values(req)

	start, end, err := m.templates.Lookup(m.theme, req.Type, req.Subtype)
	if err != nil && strings.HasPrefix(req.Subtype, customPrefix) {
		start, end, err = m.templates.Lookup(m.theme, req.Type, "custom")
		values["span_id"] = html.EscapeString(strings.TrimPrefix(req.Subtype, customPrefix))
	}
	if err != nil {
		return "", "", err
	}

	if start, err = format(start, values); err != nil {
		return "", "", err
	}
	if end, err = format(end, values); err != nil {
		return "", "", err
	}
	return start, end, nil
}

// values gathers placeholder values: optional variables first, then render
// parameters, then the formatted optionals.
func (m *Manager) values(req markup.ExportRequest) map[string]string {
	values := make(map[string]string)
	if req.Optionals != nil {
		for _, v := range req.Optionals.Vars {
			values[v.Name] = html.EscapeString(v.Value)
		}
	}
	for k, v := range req.Others {
		if k == "src" {
			if url, ok := m.images[v]; ok {
				v = url
			}
		}
		values[k] = html.EscapeString(v)
	}
	values["optionals"] = FormatOptionals(req.Optionals)
	return values
}

func format(tmpl string, values map[string]string) (string, error) {
	var missing string
	out := placeholderRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[1 : len(match)-1]
		v, ok := values[name]
		if !ok && missing == "" {
			missing = name
		}
		return v
	})
	if missing != "" {
		return "", fmt.Errorf("%w {%s} in template %q", ErrUnknownPlaceholder, missing, tmpl)
	}
	return out, nil
}

// FormatOptionals renders the raw HTML insert and the class list of a bundle as tag
// attributes, each preceded by a space: ` id="x" class="a b"`.
func FormatOptionals(a *markup.Attrs) string {
	h := a.HTMLInsert()
	c := a.ClassInsert()
	var sb strings.Builder
	if h != "" || c != "" {
		sb.WriteString(" ")
	}
	sb.WriteString(h)
	if h != "" && c != "" {
		sb.WriteString(" ")
	}
	if c != "" {
		sb.WriteString(`class="` + html.EscapeString(c) + `"`)
	}
	return sb.String()
}
