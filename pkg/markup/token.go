// token.go defines the token model consumed by the context engine.
package markup

import (
	"fmt"
	"strconv"
	"strings"
)

// Capability is an orthogonal trait of a token kind. A kind may combine several.
type Capability uint8

const (
	CapFinal     Capability = 1 << iota // self-contained, becomes a container immediately
	CapToMatch                          // waits as a pending marker for a counterpart
	CapClosed                           // must close a pending counterpart
	CapOpened                           // begins a region that only a match may confirm
	CapExplicit                         // degrades to literal text when left unmatched
	CapOptional                         // trailing attribute bundle for the previous container
	CapLinebreak                        // end of a source line
)

// Has reports whether c carries every bit of o.
func (c Capability) Has(o Capability) bool {
	return c&o == o
}

// Kind identifies the concrete token kind.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindEm
	KindStrong
	KindUnderline
	KindStrikethrough
	KindCustomSpan
	KindHyperlink
	KindImage
	KindHeader
	KindDisplay
	KindStructuralStart
	KindStructuralEnd
	KindUlist
	KindOlist
	KindTableRow
	KindTableCell
	KindTableSeparator
	KindLinebreak
	KindOptional
)

// Labels shared between the lexer, the engine and the container registry.
const (
	LabelText            = "text"
	LabelEm              = "text:em"
	LabelStrong          = "text:strong"
	LabelUnderline       = "text:underline"
	LabelStrikethrough   = "text:strikethrough"
	LabelCustomSpan      = "text:custom_span"
	LabelHyperlink       = "hyperlink"
	LabelImage           = "image"
	LabelHeader          = "header"
	LabelDisplay         = "display"
	LabelStructuralStart = "se:start"
	LabelStructuralEnd   = "se:end"
	LabelUlist           = "list:ulist"
	LabelOlist           = "list:olist"
	LabelTableRow        = "table:row"
	LabelTableCell       = "table:cell"
	LabelTableSeparator  = "table:separator"
	LabelLinebreak       = "linebreak"
	LabelOptional        = "optional"
)

type kindSpec struct {
	label string
	caps  Capability
	// parameterized kinds append ":" + Value to label
	parameterized bool
}

var kindSpecs = map[Kind]kindSpec{
	KindText:            {label: LabelText, caps: CapFinal},
	KindEm:              {label: LabelEm, caps: CapToMatch | CapExplicit},
	KindStrong:          {label: LabelStrong, caps: CapToMatch | CapExplicit},
	KindUnderline:       {label: LabelUnderline, caps: CapToMatch | CapExplicit},
	KindStrikethrough:   {label: LabelStrikethrough, caps: CapToMatch | CapExplicit},
	KindCustomSpan:      {label: LabelCustomSpan, caps: CapToMatch | CapExplicit, parameterized: true},
	KindHyperlink:       {label: LabelHyperlink, caps: CapFinal},
	KindImage:           {label: LabelImage, caps: CapFinal},
	KindHeader:          {label: LabelHeader, caps: CapFinal},
	KindDisplay:         {label: LabelDisplay, caps: CapFinal},
	KindStructuralStart: {label: LabelStructuralStart, caps: CapToMatch | CapOpened, parameterized: true},
	KindStructuralEnd:   {label: LabelStructuralEnd, caps: CapClosed, parameterized: true},
	KindUlist:           {label: LabelUlist, caps: CapExplicit},
	KindOlist:           {label: LabelOlist, caps: CapExplicit},
	KindTableRow:        {label: LabelTableRow, caps: CapExplicit},
	KindTableCell:       {label: LabelTableCell, caps: CapFinal},
	KindTableSeparator:  {label: LabelTableSeparator, caps: CapExplicit},
	KindLinebreak:       {label: LabelLinebreak, caps: CapLinebreak | CapFinal | CapExplicit},
	KindOptional:        {label: LabelOptional, caps: CapOptional},
}

// Node is a slot of a container or of the engine pile: a *Token or a *Container.
type Node interface {
	isNode()
	String() string
}

// Token is one lexical unit.
//
// Which fields are meaningful depends on Kind:
//   - Value: text, delimiter, element name, span id, header/display/list marker, image name
//   - Text: header, display and link text, image alt text
//   - URL: hyperlink target
//   - Span: table cell column span
//   - Inline: nested token stream of list items, table rows (cells) and table cells
//   - Body: Inline after recontextualisation
//   - Attrs: optional attribute bundle
type Token struct {
	Kind   Kind
	Value  string
	Text   string
	URL    string
	Span   int
	Inline []*Token
	Body   []*Container
	Attrs  *Attrs

	// Set by the engine during traversal.
	Line int
	File string
}

func (*Token) isNode() {}

// Label returns the namespaced kind identifier, e.g. "text:em" or "se:start:div".
func (t *Token) Label() string {
	spec, ok := kindSpecs[t.Kind]
	if !ok {
		return ""
	}
	if spec.parameterized {
		return spec.label + ":" + t.Value
	}
	return spec.label
}

// Caps returns the capability set of the token kind. Unknown kinds have none.
func (t *Token) Caps() Capability {
	return kindSpecs[t.Kind].caps
}

// Is reports whether the token kind carries capability c.
func (t *Token) Is(c Capability) bool {
	return t.Caps().Has(c)
}

// FinalKey is the registry key used when a range starting with this token is encapsulated.
func (t *Token) FinalKey() string {
	switch t.Kind {
	case KindCustomSpan:
		return LabelCustomSpan
	case KindStructuralStart:
		return LabelStructuralStart
	}
	return t.Label()
}

// Counterpart returns the label that must be pending for this token to resolve,
// or "" when the token never closes anything.
func (t *Token) Counterpart() string {
	switch t.Kind {
	case KindEm, KindStrong, KindUnderline, KindStrikethrough, KindCustomSpan:
		return t.Label()
	case KindStructuralEnd:
		return LabelStructuralStart + ":" + t.Value
	}
	return ""
}

// Literal returns the source form of the token, used when an unmatched marker degrades to text.
func (t *Token) Literal() string {
	switch t.Kind {
	case KindCustomSpan:
		return "(#" + t.Value + ")"
	case KindStructuralStart:
		return "<<" + t.Value
	case KindStructuralEnd:
		return t.Value + ">>"
	case KindUlist, KindOlist:
		var parts []string
		parts = append(parts, t.Value)
		for _, tok := range t.Inline {
			parts = append(parts, tok.Literal())
		}
		return strings.Join(parts, " ")
	case KindTableRow:
		var sb strings.Builder
		for _, cell := range t.Inline {
			sb.WriteString("|")
			if cell.Span > 1 {
				sb.WriteString(strconv.Itoa(cell.Span))
			}
			sb.WriteString(" " + cell.Literal() + " ")
		}
		sb.WriteString("|")
		return sb.String()
	case KindTableCell:
		parts := make([]string, 0, len(t.Inline))
		for _, tok := range t.Inline {
			parts = append(parts, tok.Literal())
		}
		return strings.Join(parts, " ")
	case KindHyperlink:
		return "[" + t.Text + "](" + t.URL + ")"
	case KindImage:
		if t.Text != "" {
			return "@{" + t.Value + "|" + t.Text + "}"
		}
		return "@{" + t.Value + "}"
	}
	return t.Value
}

// Resolution tells ToContainer how the token relates to the range being encapsulated.
type Resolution int

const (
	// Standalone: the token is finalized outside of any match.
	Standalone Resolution = iota
	// Delimiter: the token opens, closes or is a member of the range being encapsulated.
	Delimiter
	// Absorbed: the token sits inside a range it does not delimit.
	Absorbed
)

// ToContainer resolves the token into the node stored in a container.
// Final and linebreak tokens are kept as they are. Explicit tokens are kept when they
// delimit the range and degrade to a literal text container otherwise. Opened and closed
// tokens must delimit the range.
func (t *Token) ToContainer(res Resolution) (Node, error) {
	caps := t.Caps()
	switch {
	case caps.Has(CapFinal), caps.Has(CapLinebreak):
		return t, nil
	case caps.Has(CapExplicit):
		if res == Delimiter {
			return t, nil
		}
		return literalContainer(t), nil
	case caps.Has(CapOpened), caps.Has(CapClosed):
		if res == Delimiter {
			return t, nil
		}
	}
	return nil, newMismatchedContainerError(t, nil, -1)
}

// Equal reports whether two tokens have the same kind and content.
// Engine stamps (line and file) are ignored.
func (t *Token) Equal(o *Token) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind || t.Value != o.Value || t.Text != o.Text || t.URL != o.URL || t.Span != o.Span {
		return false
	}
	if !t.Attrs.Equal(o.Attrs) {
		return false
	}
	if len(t.Inline) != len(o.Inline) || len(t.Body) != len(o.Body) {
		return false
	}
	for i := range t.Inline {
		if !t.Inline[i].Equal(o.Inline[i]) {
			return false
		}
	}
	for i := range t.Body {
		if !t.Body[i].Equal(o.Body[i]) {
			return false
		}
	}
	return true
}

// String renders a readable tag for debugging and error context.
func (t *Token) String() string {
	label := t.Label()
	if label == "" {
		return fmt.Sprintf("<[NOC] %s />", t.Value)
	}
	switch t.Kind {
	case KindText:
		return t.Value
	case KindLinebreak:
		return "<linebreak />"
	case KindEm, KindStrong, KindUnderline, KindStrikethrough:
		return "<" + label + " />"
	case KindHeader, KindDisplay:
		return fmt.Sprintf("<%s = '%s,%s' />", label, t.Value, t.Text)
	case KindOptional:
		return "<optional " + t.Attrs.String() + " />"
	}
	return fmt.Sprintf("<%s = '%s' />", label, t.Literal())
}

func literalContainer(t *Token) *Container {
	c := newContainer(ContainerText)
	c.add(NewText(t.Literal()))
	return c
}

// NewText creates a plain text token.
func NewText(s string) *Token {
	return &Token{Kind: KindText, Value: s}
}

// NewEm creates an emphasis delimiter.
func NewEm() *Token { return &Token{Kind: KindEm, Value: "*"} }

// NewStrong creates a strong delimiter.
func NewStrong() *Token { return &Token{Kind: KindStrong, Value: "**"} }

// NewUnderline creates an underline delimiter.
func NewUnderline() *Token { return &Token{Kind: KindUnderline, Value: "__"} }

// NewStrikethrough creates a strikethrough delimiter.
func NewStrikethrough() *Token { return &Token{Kind: KindStrikethrough, Value: "~~"} }

// NewCustomSpan creates a custom span delimiter; spans pair by id.
func NewCustomSpan(id string) *Token {
	return &Token{Kind: KindCustomSpan, Value: id}
}

// NewHyperlink creates a link token.
func NewHyperlink(text, url string) *Token {
	return &Token{Kind: KindHyperlink, Text: text, URL: url}
}

// NewImage creates an image token referencing a configured image by name.
func NewImage(name, alt string) *Token {
	return &Token{Kind: KindImage, Value: name, Text: alt}
}

// NewHeader creates a header token; the marker length is the header level.
func NewHeader(marker, text string) *Token {
	return &Token{Kind: KindHeader, Value: marker, Text: text}
}

// NewDisplay creates a display heading token; the marker length is the display level.
func NewDisplay(marker, text string) *Token {
	return &Token{Kind: KindDisplay, Value: marker, Text: text}
}

// NewStructuralStart creates the opening marker of a structural element such as div.
func NewStructuralStart(name string) *Token {
	return &Token{Kind: KindStructuralStart, Value: name}
}

// NewStructuralEnd creates the closing marker of a structural element.
func NewStructuralEnd(name string) *Token {
	return &Token{Kind: KindStructuralEnd, Value: name}
}

// NewUlistItem creates an unordered list item carrying its own inline stream.
func NewUlistItem(inline ...*Token) *Token {
	return &Token{Kind: KindUlist, Value: "-", Inline: inline}
}

// NewOlistItem creates an ordered list item carrying its own inline stream.
func NewOlistItem(inline ...*Token) *Token {
	return &Token{Kind: KindOlist, Value: "#.", Inline: inline}
}

// NewTableRow creates a table row whose nested stream is its cells.
func NewTableRow(cells ...*Token) *Token {
	return &Token{Kind: KindTableRow, Value: "|", Inline: cells}
}

// NewTableCell creates a table cell. A span below 1 is treated as 1.
func NewTableCell(span int, inline ...*Token) *Token {
	if span < 1 {
		span = 1
	}
	return &Token{Kind: KindTableCell, Span: span, Inline: inline}
}

// NewTableSeparator creates the row separating table head from body.
func NewTableSeparator(raw string) *Token {
	return &Token{Kind: KindTableSeparator, Value: raw}
}

// NewLinebreak creates an end-of-line token.
func NewLinebreak() *Token {
	return &Token{Kind: KindLinebreak}
}

// NewOptional creates an attribute bundle token.
func NewOptional(attrs *Attrs) *Token {
	return &Token{Kind: KindOptional, Attrs: attrs}
}
