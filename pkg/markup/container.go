package markup

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ExportRequest selects the markup fragments for one container.
type ExportRequest struct {
	Type      string
	Subtype   string
	Optionals *Attrs
	Others    map[string]string
}

// Exporter resolves a request into the start and end fragments wrapping a container's content.
type Exporter interface {
	Export(req ExportRequest) (start, end string, err error)
}

// ExporterFunc adapts a function to the Exporter interface.
type ExporterFunc func(req ExportRequest) (string, string, error)

// Export calls f(req).
func (f ExporterFunc) Export(req ExportRequest) (string, string, error) {
	return f(req)
}

// ContainerKind identifies the container variant.
type ContainerKind int

const (
	ContainerText ContainerKind = iota + 1
	ContainerEm
	ContainerStrong
	ContainerUnderline
	ContainerStrikethrough
	ContainerCustomSpan
	ContainerUlist
	ContainerOlist
	ContainerHeader
	ContainerDisplay
	ContainerStructural
	ContainerHyperlink
	ContainerImage
	ContainerLinebreak
	ContainerTable
	ContainerTableCell
)

type containerSpec struct {
	name    string
	typ     string
	subtype string
}

var containerSpecs = map[ContainerKind]containerSpec{
	ContainerText:          {name: "TextContainer"},
	ContainerEm:            {name: "EmContainer", typ: "inline_elements", subtype: "em"},
	ContainerStrong:        {name: "StrongContainer", typ: "inline_elements", subtype: "strong"},
	ContainerUnderline:     {name: "UnderlineContainer", typ: "inline_elements", subtype: "underline"},
	ContainerStrikethrough: {name: "StrikethroughContainer", typ: "inline_elements", subtype: "strikethrough"},
	ContainerCustomSpan:    {name: "CustomSpanContainer", typ: "inline_elements"},
	ContainerUlist:         {name: "UlistContainer", typ: "oneline_elements", subtype: "ulist"},
	ContainerOlist:         {name: "OlistContainer", typ: "oneline_elements", subtype: "olist"},
	ContainerHeader:        {name: "HeaderContainer", typ: "structural_elements", subtype: "header"},
	ContainerDisplay:       {name: "DisplayContainer", typ: "structural_elements", subtype: "display"},
	ContainerStructural:    {name: "StructuralContainer", typ: "structural_elements"},
	ContainerHyperlink:     {name: "HyperlinkContainer", typ: "inline_elements", subtype: "link"},
	ContainerImage:         {name: "ImageContainer", typ: "inline_elements", subtype: "image"},
	ContainerLinebreak:     {name: "LinebreakContainer"},
	ContainerTable:         {name: "TableContainer", typ: "table", subtype: "table"},
	ContainerTableCell:     {name: "TableCellContainer", typ: "table", subtype: "t_cell"},
}

// List item and table part subtypes requested while exporting their parents.
const (
	subtypeListLine  = "list_line"
	subtypeTableHead = "t_head"
	subtypeTableRow  = "t_row"
)

// Styled text is wrapped in an inline span.
const (
	typeInline  = "inline_elements"
	subtypeText = "text"
)

// Container is a finalized tree node. Its children are never reordered once built;
// only Optionals, Subtype and Others change, lazily, at export time.
type Container struct {
	Kind      ContainerKind
	Type      string
	Subtype   string
	Children  []Node
	Optionals *Attrs
	Others    map[string]string
}

func (*Container) isNode() {}

func newContainer(k ContainerKind) *Container {
	spec := containerSpecs[k]
	return &Container{
		Kind:    k,
		Type:    spec.typ,
		Subtype: spec.subtype,
		Others:  make(map[string]string),
	}
}

// NewContainer builds a container of kind k holding children, for callers assembling trees by hand.
func NewContainer(k ContainerKind, children ...Node) *Container {
	c := newContainer(k)
	c.Children = append(c.Children, children...)
	return c
}

func (c *Container) add(n Node) {
	c.Children = append(c.Children, n)
}

// attach merges an optional bundle into the container's optionals.
func (c *Container) attach(a *Attrs) {
	if c.Optionals == nil {
		c.Optionals = &Attrs{}
	}
	c.Optionals.Merge(a)
}

// Name returns the variant name, e.g. "TextContainer".
func (c *Container) Name() string {
	return containerSpecs[c.Kind].name
}

// Len returns the number of children.
func (c *Container) Len() int {
	return len(c.Children)
}

// Containers returns the children that are containers, in order.
func (c *Container) Containers() []*Container {
	var out []*Container
	for _, n := range c.Children {
		if sub, ok := n.(*Container); ok {
			out = append(out, sub)
		}
	}
	return out
}

// lead returns the first child when it is a token of kind k.
func (c *Container) lead(k Kind) (*Token, error) {
	if len(c.Children) > 0 {
		if tok, ok := c.Children[0].(*Token); ok && tok.Kind == k {
			return tok, nil
		}
	}
	return nil, fmt.Errorf("%s does not start with a %s token", c.Name(), kindSpecs[k].label)
}

// Request builds the export request for the container in its current state.
func (c *Container) Request() ExportRequest {
	return ExportRequest{
		Type:      c.Type,
		Subtype:   c.Subtype,
		Optionals: c.Optionals,
		Others:    maps.Clone(c.Others),
	}
}

// Export renders the container and, recursively, its children.
func (c *Container) Export(exp Exporter) (string, error) {
	switch c.Kind {
	case ContainerText:
		return c.exportStyledText(exp)
	case ContainerLinebreak:
		return c.exportLinebreaks(), nil
	}

	if err := c.prepare(); err != nil {
		return "", err
	}
	start, end, err := exp.Export(c.Request())
	if err != nil {
		return "", err
	}
	body, err := c.content(exp)
	if err != nil {
		return "", err
	}
	return start + body + end, nil
}

// prepare derives subtype and render parameters from the children.
func (c *Container) prepare() error {
	switch c.Kind {
	case ContainerCustomSpan:
		tok, err := c.lead(KindCustomSpan)
		if err != nil {
			return err
		}
		c.Subtype = "custom_" + tok.Value
	case ContainerStructural:
		tok, err := c.lead(KindStructuralStart)
		if err != nil {
			return err
		}
		c.Subtype = tok.Value
	case ContainerHeader:
		tok, err := c.lead(KindHeader)
		if err != nil {
			return err
		}
		c.Others["header_level"] = strconv.Itoa(len(tok.Value))
	case ContainerDisplay:
		tok, err := c.lead(KindDisplay)
		if err != nil {
			return err
		}
		c.Others["display_level"] = strconv.Itoa(len(tok.Value))
	case ContainerHyperlink:
		tok, err := c.lead(KindHyperlink)
		if err != nil {
			return err
		}
		c.Others["url"] = tok.URL
	case ContainerImage:
		tok, err := c.lead(KindImage)
		if err != nil {
			return err
		}
		c.Others["src"] = tok.Value
		c.Others["alt"] = tok.Text
	case ContainerTableCell:
		tok, err := c.lead(KindTableCell)
		if err != nil {
			return err
		}
		c.Others["col_span"] = strconv.Itoa(tok.Span)
	}
	return nil
}

func (c *Container) content(exp Exporter) (string, error) {
	switch c.Kind {
	case ContainerHeader, ContainerDisplay, ContainerHyperlink:
		return html.EscapeString(c.Children[0].(*Token).Text), nil
	case ContainerImage:
		return "", nil
	case ContainerUlist, ContainerOlist:
		return c.exportList(exp)
	case ContainerTable:
		return c.exportTable(exp)
	case ContainerTableCell:
		return exportAll(c.Children[0].(*Token).Body, exp)
	}
	return exportAll(c.Containers(), exp)
}

// exportStyledText renders plain text, wrapped in the inline text template when it carries optionals.
func (c *Container) exportStyledText(exp Exporter) (string, error) {
	body, err := c.exportText()
	if err != nil || c.Optionals.Empty() {
		return body, err
	}
	start, end, err := exp.Export(ExportRequest{Type: typeInline, Subtype: subtypeText, Optionals: c.Optionals})
	if err != nil {
		return "", err
	}
	return start + body + end, nil
}

func (c *Container) exportText() (string, error) {
	parts := make([]string, 0, len(c.Children))
	for _, n := range c.Children {
		tok, ok := n.(*Token)
		if !ok || tok.Kind != KindText {
			return "", fmt.Errorf("%s found in TextContainer", n)
		}
		parts = append(parts, tok.Value)
	}
	return html.EscapeString(strings.Join(parts, " ")), nil
}

func (c *Container) exportLinebreaks() string {
	if len(c.Children) <= 1 {
		return "\n"
	}
	return strings.Repeat("<br />\n", len(c.Children)-1)
}

func (c *Container) exportList(exp Exporter) (string, error) {
	start, end, err := exp.Export(ExportRequest{Type: c.Type, Subtype: subtypeListLine})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("\n")
	for _, n := range c.Children {
		switch n := n.(type) {
		case *Token:
			if n.Kind == KindLinebreak {
				sb.WriteString("\n")
				continue
			}
			body, err := exportAll(n.Body, exp)
			if err != nil {
				return "", err
			}
			sb.WriteString(start + body + end)
		case *Container:
			s, err := n.Export(exp)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}

func (c *Container) exportTable(exp Exporter) (string, error) {
	sep := -1
	for i, n := range c.Children {
		if tok, ok := n.(*Token); ok && tok.Kind == KindTableSeparator {
			sep = i
			break
		}
	}

	var sb strings.Builder
	sb.WriteString("\n")
	body := c.Children
	if sep > 0 {
		start, end, err := exp.Export(ExportRequest{Type: c.Type, Subtype: subtypeTableHead})
		if err != nil {
			return "", err
		}
		head, err := exportRows(c.Children[:sep], exp)
		if err != nil {
			return "", err
		}
		sb.WriteString(start + head + end + "\n")
		body = c.Children[sep+1:]
	}
	rows, err := exportRows(body, exp)
	if err != nil {
		return "", err
	}
	sb.WriteString(rows)
	return sb.String(), nil
}

func exportRows(nodes []Node, exp Exporter) (string, error) {
	start, end, err := exp.Export(ExportRequest{Type: "table", Subtype: subtypeTableRow})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, n := range nodes {
		switch n := n.(type) {
		case *Token:
			switch n.Kind {
			case KindTableRow:
				cells, err := exportAll(n.Body, exp)
				if err != nil {
					return "", err
				}
				sb.WriteString(start + cells + end)
			case KindLinebreak:
				sb.WriteString("\n")
			}
		case *Container:
			s, err := n.Export(exp)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}

// exportAll renders containers joined by single spaces; no space is put next to a linebreak run.
func exportAll(containers []*Container, exp Exporter) (string, error) {
	var sb strings.Builder
	for i, sub := range containers {
		s, err := sub.Export(exp)
		if err != nil {
			return "", err
		}
		if i > 0 && sub.Kind != ContainerLinebreak && containers[i-1].Kind != ContainerLinebreak &&
			sub.Kind != ContainerTableCell {
			sb.WriteString(" ")
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// Equal compares kind, children, optionals and render parameters.
func (c *Container) Equal(o *Container) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.Kind != o.Kind || c.Subtype != o.Subtype || len(c.Children) != len(o.Children) {
		return false
	}
	for i := range c.Children {
		if !nodeEqual(c.Children[i], o.Children[i]) {
			return false
		}
	}
	if !c.Optionals.Equal(o.Optionals) {
		return false
	}
	return maps.Equal(c.Others, o.Others)
}

func nodeEqual(a, b Node) bool {
	switch a := a.(type) {
	case *Token:
		b, ok := b.(*Token)
		return ok && a.Equal(b)
	case *Container:
		b, ok := b.(*Container)
		return ok && a.Equal(b)
	}
	return a == nil && b == nil
}

// String summarizes the container, e.g. "EmContainer(Token: 2, Container: 1) Opts[1]".
func (c *Container) String() string {
	var tokens, containers int
	for _, n := range c.Children {
		switch n.(type) {
		case *Token:
			tokens++
		case *Container:
			containers++
		}
	}
	var counts []string
	if tokens > 0 {
		counts = append(counts, fmt.Sprintf("Token: %d", tokens))
	}
	if containers > 0 {
		counts = append(counts, fmt.Sprintf("Container: %d", containers))
	}
	s := c.Name() + "(" + strings.Join(counts, ", ") + ")"
	if !c.Optionals.Empty() {
		s += " Opts[" + c.Optionals.String() + "]"
	}
	if len(c.Others) > 0 {
		s += fmt.Sprintf(" Otrs[%d]", len(c.Others))
	}
	return s
}

// Tree renders the container and its descendants, one node per line.
func (c *Container) Tree() string {
	var sb strings.Builder
	c.writeTree(&sb, "")
	return sb.String()
}

func (c *Container) writeTree(sb *strings.Builder, indent string) {
	sb.WriteString(indent + c.String() + "\n")
	for _, n := range c.Children {
		switch n := n.(type) {
		case *Container:
			n.writeTree(sb, indent+"  ")
		case *Token:
			sb.WriteString(indent + "> " + n.String() + "\n")
			for _, body := range n.Body {
				body.writeTree(sb, indent+"    ")
			}
		}
	}
}

// Render exports top-level containers in order, spaced the way a container spaces its children.
func Render(containers []*Container, exp Exporter) (string, error) {
	return exportAll(containers, exp)
}
