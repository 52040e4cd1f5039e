// context.go rebuilds the nested container tree from a flat token stream.
package markup

import (
	"fmt"
	"log"
	"slices"
	"strings"
)

// defaultLookahead lists, per triggering label, the labels that continue a grouped run.
// A single linebreak following a non-linebreak token also continues any run.
var defaultLookahead = map[string][]string{
	LabelUlist:          {LabelUlist},
	LabelOlist:          {LabelOlist},
	LabelTableRow:       {LabelTableRow, LabelTableSeparator},
	LabelTableSeparator: {LabelTableRow, LabelTableSeparator},
	LabelLinebreak:      {LabelLinebreak},
}

// Context is a single-use engine: it consumes one token stream in one pass and produces
// the ordered list of top-level containers. Run may be called again; it replays the
// cached outcome.
type Context struct {
	tokens    []*Token
	file      string
	indent    int
	firstLine int
	registry  *Registry
	lookahead map[string][]string

	pile    []Node
	matched map[string][]int
	line    int

	done     bool
	result   []*Container
	err      error
	warnings []string
}

// Option configures a Context.
type Option func(*Context)

// WithFile sets the file name stamped on every token for error attribution.
func WithFile(name string) Option {
	return func(c *Context) { c.file = name }
}

// WithIndent sets the nesting level of the engine; nested engines run one level deeper
// and indent their log lines accordingly.
func WithIndent(level int) Option {
	return func(c *Context) { c.indent = level }
}

// WithRegistry replaces the default container registry.
func WithRegistry(r *Registry) Option {
	return func(c *Context) { c.registry = r }
}

// WithLookahead replaces the grouping table (triggering label -> continuation labels).
func WithLookahead(table map[string][]string) Option {
	return func(c *Context) { c.lookahead = table }
}

func withFirstLine(n int) Option {
	return func(c *Context) { c.firstLine = n }
}

// NewContext creates an engine over tokens.
func NewContext(tokens []*Token, opts ...Option) *Context {
	c := &Context{
		tokens:    tokens,
		firstLine: 1,
		registry:  DefaultRegistry(),
		lookahead: defaultLookahead,
		matched:   make(map[string][]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Contextualize is a shorthand for NewContext(tokens, opts...).Run().
func Contextualize(tokens []*Token, opts ...Option) ([]*Container, error) {
	return NewContext(tokens, opts...).Run()
}

// Warnings returns the non-fatal conditions met during the run.
func (c *Context) Warnings() []string {
	return c.warnings
}

// Run executes the engine once. Any error aborts the run; no partial tree is returned.
func (c *Context) Run() ([]*Container, error) {
	if c.done {
		return c.result, c.err
	}
	c.done = true
	c.result, c.err = c.run()
	if c.err != nil {
		c.result = nil
	}
	return c.result, c.err
}

func (c *Context) run() ([]*Container, error) {
	c.line = c.firstLine

	for i := 0; i < len(c.tokens); i++ {
		tok := c.tokens[i]
		c.stamp(tok, c.line)
		c.pile = append(c.pile, tok)

		if tok.Is(CapLinebreak) {
			c.line++
		}

		switch {
		case tok.Is(CapOptional):
			if err := c.attachOptional(i); err != nil {
				return nil, err
			}

		case c.groups(tok):
			consumed, lines, err := c.lookaheadRun(i)
			if err != nil {
				return nil, err
			}
			i += consumed
			c.line += lines

		case tok.Is(CapFinal):
			if err := c.recontext(tok); err != nil {
				return nil, err
			}
			if err := c.encapsulate(i, i); err != nil {
				return nil, err
			}

		case c.pending(tok.Counterpart()):
			if err := c.encapsulate(c.popMatched(tok.Counterpart()), i); err != nil {
				return nil, err
			}

		case tok.Is(CapClosed):
			return nil, newMismatchedContainerError(tok, c.pile, i)

		case tok.Is(CapToMatch), tok.Is(CapOpened):
			c.pushMatched(tok.Label(), i)

		default:
			return nil, newMismatchedContainerError(tok, c.pile, i)
		}
	}

	return c.finalize()
}

func (c *Context) stamp(tok *Token, line int) {
	tok.Line = line
	tok.File = c.file
}

func (c *Context) groups(tok *Token) bool {
	_, ok := c.lookahead[tok.Label()]
	return ok
}

func (c *Context) pending(label string) bool {
	return label != "" && len(c.matched[label]) > 0
}

func (c *Context) pushMatched(label string, index int) {
	c.matched[label] = append(c.matched[label], index)
}

func (c *Context) popMatched(label string) int {
	stack := c.matched[label]
	index := stack[len(stack)-1]
	c.matched[label] = stack[:len(stack)-1]
	return index
}

// dropMatched forgets pending starts swallowed by an encapsulated range.
func (c *Context) dropMatched(start, end int) {
	for label, stack := range c.matched {
		c.matched[label] = slices.DeleteFunc(stack, func(i int) bool {
			return i >= start && i <= end
		})
	}
}

// attachOptional hands the optional at index to the nearest preceding container.
func (c *Context) attachOptional(index int) error {
	opt := c.tokens[index]
	for k := index - 1; k >= 0; k-- {
		switch n := c.pile[k].(type) {
		case nil:
			continue
		case *Container:
			n.attach(opt.Attrs)
			c.pile[index] = nil
			return nil
		case *Token:
			return &LonelyOptionalError{Optional: opt, Found: n}
		}
	}
	return &LonelyOptionalError{Optional: opt}
}

// lookaheadRun groups the run started at index and returns the number of tokens
// consumed beyond the trigger and the number of linebreaks among them.
func (c *Context) lookaheadRun(index int) (consumed, lines int, err error) {
	trigger := c.tokens[index]
	continuation := c.lookahead[trigger.Label()]

	if err := c.recontext(trigger); err != nil {
		return 0, 0, err
	}

	for j := index + 1; j < len(c.tokens); j++ {
		next := c.tokens[j]
		switch {
		case slices.Contains(continuation, next.Label()):
			c.stamp(next, c.line+lines)
			if err := c.recontext(next); err != nil {
				return 0, 0, err
			}
		case next.Is(CapLinebreak) && !c.tokens[j-1].Is(CapLinebreak):
			c.stamp(next, c.line+lines)
		default:
			return consumed, lines, c.encapsulate(index, index+consumed)
		}
		if next.Is(CapLinebreak) {
			lines++
		}
		c.pile = append(c.pile, next)
		consumed++
	}
	return consumed, lines, c.encapsulate(index, index+consumed)
}

// recontext runs a fresh engine over the nested stream of tok and stores the result in tok.Body.
func (c *Context) recontext(tok *Token) error {
	if len(tok.Inline) == 0 {
		return nil
	}
	nested := NewContext(tok.Inline,
		WithFile(c.file),
		WithIndent(c.indent+1),
		WithRegistry(c.registry),
		WithLookahead(c.lookahead),
		withFirstLine(tok.Line),
	)
	body, err := nested.Run()
	if err != nil {
		return err
	}
	c.warnings = append(c.warnings, nested.warnings...)
	tok.Body = body
	return nil
}

// encapsulate collapses pile[start..end] into one container stored at start.
func (c *Context) encapsulate(start, end int) error {
	if start < 0 || end >= len(c.pile) || start > end {
		return &RangeError{Start: start, End: end, Len: len(c.pile), Reason: "inverted or out of bounds"}
	}
	first, ok := c.pile[start].(*Token)
	if !ok || first == nil {
		return &RangeError{Start: start, End: end, Len: len(c.pile), Reason: "expected a token at the start"}
	}

	factory, err := c.registry.Lookup(first.FinalKey())
	if err != nil {
		return err
	}
	container := factory()

	for k := start; k <= end; k++ {
		switch n := c.pile[k].(type) {
		case nil:
			continue
		case *Container:
			container.add(n)
		case *Token:
			res := Absorbed
			if k == start || c.delimits(first, n) {
				res = Delimiter
			}
			node, err := n.ToContainer(res)
			if err != nil {
				if m, ok := err.(*MismatchedContainerError); ok {
					m.Context = pileContext(c.pile, k)
				}
				return err
			}
			if res == Absorbed && n.Is(CapExplicit) && !n.Is(CapLinebreak) {
				c.warn("unmatched %s at line %d kept as text", n.Label(), n.Line)
			}
			container.add(node)
		}
		c.pile[k] = nil
	}

	c.pile[start] = container
	c.dropMatched(start+1, end)
	return nil
}

// delimits reports whether tok belongs to the range opened by first: the same label,
// its closing counterpart, or a member of its grouped run.
func (c *Context) delimits(first, tok *Token) bool {
	label := first.Label()
	if tok.Label() == label || tok.Counterpart() == label {
		return true
	}
	return slices.Contains(c.lookahead[label], tok.Label())
}

// finalize strips consumed slots, degrades leftover explicit markers to literal text
// and fails on anything else left unabsorbed.
func (c *Context) finalize() ([]*Container, error) {
	out := make([]*Container, 0, len(c.pile))
	for k, n := range c.pile {
		switch n := n.(type) {
		case nil:
			continue
		case *Container:
			out = append(out, n)
		case *Token:
			node, err := n.ToContainer(Standalone)
			if err != nil {
				if m, ok := err.(*MismatchedContainerError); ok {
					m.Context = pileContext(c.pile, k)
				}
				return nil, err
			}
			sub, ok := node.(*Container)
			if !ok {
				return nil, &IntegrityError{Token: n, Context: pileContext(c.pile, k)}
			}
			c.warn("unmatched %s at line %d kept as text", n.Label(), n.Line)
			out = append(out, sub)
		}
	}
	c.pile = nil
	return out, nil
}

func (c *Context) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if c.file != "" {
		msg = c.file + ": " + msg
	}
	c.warnings = append(c.warnings, msg)
	log.Printf("WARN: %s%s", strings.Repeat("  ", c.indent), msg)
}
