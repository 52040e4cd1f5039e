package markup

import (
	"strings"
)

// Var is a name=value binding from an optional variable list.
type Var struct {
	Name  string
	Value string
}

// Attrs is the attribute bundle carried by an optional token and attached to a container.
//
// Source forms: `{...}` is inserted verbatim into the opening tag, `[...]` is a comma list
// where bare words are classes and key=value pairs are variables.
type Attrs struct {
	Classes []string
	HTML    []string
	Vars    []Var
}

// Empty reports whether the bundle carries nothing.
func (a *Attrs) Empty() bool {
	return a == nil || (len(a.Classes) == 0 && len(a.HTML) == 0 && len(a.Vars) == 0)
}

// Merge appends the content of o to a. A later variable overrides an earlier one of the same name.
func (a *Attrs) Merge(o *Attrs) {
	if o == nil {
		return
	}
	a.Classes = append(a.Classes, o.Classes...)
	a.HTML = append(a.HTML, o.HTML...)
	for _, v := range o.Vars {
		a.setVar(v)
	}
}

func (a *Attrs) setVar(v Var) {
	for i := range a.Vars {
		if a.Vars[i].Name == v.Name {
			a.Vars[i].Value = v.Value
			return
		}
	}
	a.Vars = append(a.Vars, v)
}

// VarMap returns the variables as a map.
func (a *Attrs) VarMap() map[string]string {
	m := make(map[string]string)
	if a == nil {
		return m
	}
	for _, v := range a.Vars {
		m[v.Name] = v.Value
	}
	return m
}

// ClassInsert returns the classes joined by spaces.
func (a *Attrs) ClassInsert() string {
	if a == nil {
		return ""
	}
	return strings.Join(a.Classes, " ")
}

// HTMLInsert returns the raw inserts joined by spaces.
func (a *Attrs) HTMLInsert() string {
	if a == nil {
		return ""
	}
	return strings.Join(a.HTML, " ")
}

// Equal compares two bundles element-wise. Two empty bundles are equal.
func (a *Attrs) Equal(o *Attrs) bool {
	if a.Empty() || o.Empty() {
		return a.Empty() == o.Empty()
	}
	if len(a.Classes) != len(o.Classes) || len(a.HTML) != len(o.HTML) || len(a.Vars) != len(o.Vars) {
		return false
	}
	for i := range a.Classes {
		if a.Classes[i] != o.Classes[i] {
			return false
		}
	}
	for i := range a.HTML {
		if a.HTML[i] != o.HTML[i] {
			return false
		}
	}
	for i := range a.Vars {
		if a.Vars[i] != o.Vars[i] {
			return false
		}
	}
	return true
}

func (a *Attrs) String() string {
	if a.Empty() {
		return ""
	}
	var parts []string
	if len(a.Classes) > 0 || len(a.Vars) > 0 {
		items := append([]string{}, a.Classes...)
		for _, v := range a.Vars {
			items = append(items, v.Name+"="+v.Value)
		}
		parts = append(parts, "["+strings.Join(items, ", ")+"]")
	}
	for _, h := range a.HTML {
		parts = append(parts, "{"+h+"}")
	}
	return strings.Join(parts, "")
}

// ParseVarList parses the inside of a `[...]` group.
func ParseVarList(s string) *Attrs {
	attrs := &Attrs{}
	for _, item := range splitTopLevel(s, ',') {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if name, value, ok := strings.Cut(item, "="); ok {
			attrs.setVar(Var{Name: strings.TrimSpace(name), Value: unquote(strings.TrimSpace(value))})
			continue
		}
		attrs.Classes = append(attrs.Classes, unquote(item))
	}
	return attrs
}

// splitTopLevel splits s on sep, ignoring separators inside quotes.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	var current strings.Builder
	quote := rune(0)
	for _, r := range s {
		switch {
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
			current.WriteRune(r)
		case r == quote:
			quote = 0
			current.WriteRune(r)
		case r == sep && quote == 0:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	parts = append(parts, current.String())
	return parts
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
