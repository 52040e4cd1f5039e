// lexer.go turns markup source into the flat token stream consumed by Context.
package markup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	structStartRe = regexp.MustCompile(`^<<([\w-]+)$`)
	structEndRe   = regexp.MustCompile(`^([\w-]+)>>$`)
	headerRe      = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	displayRe     = regexp.MustCompile(`^(!{1,3})\s+(.*)$`)
	ulistRe       = regexp.MustCompile(`^-\s+(.*)$`)
	olistRe       = regexp.MustCompile(`^#\.\s+(.*)$`)
	separatorRe   = regexp.MustCompile(`^\|(\s*:?-+:?\s*\|)+$`)
	spanIDRe      = regexp.MustCompile(`^\(#([\w-]+)\)`)
)

// Lex tokenizes input line by line. Every input line, empty ones included, ends with
// a linebreak token; a trailing newline does not start a new line.
// Recognized line forms (leading and trailing whitespace ignored):
//   - <<name and name>> - structural start and end
//   - # to ###### - header, ! to !!! - display
//   - "- item" and "#. item" - list items
//   - | a |2 b | - table row, |---|:-:| - table separator
//   - anything else - inline text
//
// Trailing [...] and {...} groups glued to the end of a line become one optional token.
// It attaches to the container built right before it, so attributes of a structural
// element go after its end marker (div>>[lead]) and those of a list after its last item.
func Lex(input string) ([]*Token, error) {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.TrimSuffix(input, "\n")
	if input == "" {
		return nil, nil
	}

	var tokens []*Token
	for n, line := range strings.Split(input, "\n") {
		lineTokens, err := lexLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		tokens = append(tokens, lineTokens...)
		tokens = append(tokens, NewLinebreak())
	}
	return tokens, nil
}

func lexLine(line string) ([]*Token, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	line, attrs := splitOptionals(line)
	tokens, err := lexBlock(line)
	if err != nil {
		return nil, err
	}
	if attrs != nil {
		tokens = append(tokens, NewOptional(attrs))
	}
	return tokens, nil
}

func lexBlock(line string) ([]*Token, error) {
	if m := structStartRe.FindStringSubmatch(line); m != nil {
		return []*Token{NewStructuralStart(m[1])}, nil
	}
	if m := structEndRe.FindStringSubmatch(line); m != nil {
		return []*Token{NewStructuralEnd(m[1])}, nil
	}
	if m := olistRe.FindStringSubmatch(line); m != nil {
		return []*Token{NewOlistItem(LexInline(m[1])...)}, nil
	}
	if m := headerRe.FindStringSubmatch(line); m != nil {
		return []*Token{NewHeader(m[1], strings.TrimSpace(m[2]))}, nil
	}
	if m := displayRe.FindStringSubmatch(line); m != nil {
		return []*Token{NewDisplay(m[1], strings.TrimSpace(m[2]))}, nil
	}
	if m := ulistRe.FindStringSubmatch(line); m != nil {
		return []*Token{NewUlistItem(LexInline(m[1])...)}, nil
	}
	if separatorRe.MatchString(line) {
		return []*Token{NewTableSeparator(line)}, nil
	}
	if len(line) > 1 && strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|") {
		row, err := lexRow(line)
		if err != nil {
			return nil, err
		}
		return []*Token{row}, nil
	}
	return LexInline(line), nil
}

// lexRow splits a table row into cells. Digits glued to a cell's opening bar give its column span.
func lexRow(line string) (*Token, error) {
	inner := line[1 : len(line)-1]
	var cells []*Token
	for _, raw := range strings.Split(inner, "|") {
		digits := 0
		for digits < len(raw) && raw[digits] >= '0' && raw[digits] <= '9' {
			digits++
		}
		span := 1
		if digits > 0 {
			n, err := strconv.Atoi(raw[:digits])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid column span %q", raw[:digits])
			}
			span = n
		}
		cells = append(cells, NewTableCell(span, LexInline(strings.TrimSpace(raw[digits:]))...))
	}
	return NewTableRow(cells...), nil
}

// splitOptionals removes the [...] and {...} groups glued to the end of line and
// merges them, in source order, into one bundle.
func splitOptionals(line string) (string, *Attrs) {
	var groups []string
	for line != "" {
		closer := line[len(line)-1]
		var opener byte
		switch closer {
		case ']':
			opener = '['
		case '}':
			opener = '{'
		}
		if opener == 0 {
			break
		}
		open := strings.LastIndexByte(line, opener)
		if open <= 0 || strings.IndexByte(" \t\\@", line[open-1]) >= 0 {
			break
		}
		groups = append([]string{line[open:]}, groups...)
		line = line[:open]
	}
	if len(groups) == 0 {
		return line, nil
	}

	attrs := &Attrs{}
	for _, g := range groups {
		body := g[1 : len(g)-1]
		if g[0] == '{' {
			if s := strings.TrimSpace(body); s != "" {
				attrs.HTML = append(attrs.HTML, s)
			}
			continue
		}
		attrs.Merge(ParseVarList(body))
	}
	return strings.TrimSpace(line), attrs
}

// LexInline tokenizes the inline part of a line: text, emphasis markers, custom spans,
// links and images. A backslash makes the next character literal.
func LexInline(s string) []*Token {
	var tokens []*Token
	var text strings.Builder
	pos := 0

	flush := func() {
		for _, word := range strings.Fields(text.String()) {
			tokens = append(tokens, NewText(word))
		}
		text.Reset()
	}
	emit := func(t *Token, width int) {
		flush()
		tokens = append(tokens, t)
		pos += width
	}

	for pos < len(s) {
		rest := s[pos:]
		switch {
		case rest[0] == '\\' && len(rest) > 1:
			text.WriteByte(rest[1])
			pos += 2
		case strings.HasPrefix(rest, "**"):
			emit(NewStrong(), 2)
		case rest[0] == '*':
			emit(NewEm(), 1)
		case strings.HasPrefix(rest, "__"):
			emit(NewUnderline(), 2)
		case strings.HasPrefix(rest, "~~"):
			emit(NewStrikethrough(), 2)
		case spanIDRe.MatchString(rest):
			m := spanIDRe.FindStringSubmatch(rest)
			emit(NewCustomSpan(m[1]), len(m[0]))
		default:
			if t, width, ok := lexLink(rest); ok {
				emit(t, width)
				continue
			}
			if t, width, ok := lexImage(rest); ok {
				emit(t, width)
				continue
			}
			text.WriteByte(rest[0])
			pos++
		}
	}
	flush()
	return tokens
}

// lexLink parses [text](url) or [text]("url") at the start of s.
func lexLink(s string) (*Token, int, bool) {
	if !strings.HasPrefix(s, "[") {
		return nil, 0, false
	}
	closeText := strings.Index(s, "](")
	if closeText < 0 {
		return nil, 0, false
	}
	closeURL := strings.IndexByte(s[closeText+2:], ')')
	if closeURL < 0 {
		return nil, 0, false
	}
	text := s[1:closeText]
	url := strings.TrimSpace(s[closeText+2 : closeText+2+closeURL])
	url = unquote(url)
	return NewHyperlink(text, url), closeText + 3 + closeURL, true
}

// lexImage parses @{name} or @{name|alt} at the start of s.
func lexImage(s string) (*Token, int, bool) {
	if !strings.HasPrefix(s, "@{") {
		return nil, 0, false
	}
	end := strings.IndexByte(s, '}')
	if end < 0 {
		return nil, 0, false
	}
	name, alt, _ := strings.Cut(s[2:end], "|")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, 0, false
	}
	return NewImage(name, strings.TrimSpace(alt)), end + 1, true
}
