package markup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLex_EmptyInput(t *testing.T) {
	tokens, err := Lex("")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestLex_Lines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []*Token
	}{
		{
			name:  "plain text",
			input: "hello  world",
			want:  []*Token{NewText("hello"), NewText("world"), NewLinebreak()},
		},
		{
			name:  "empty lines keep their linebreak",
			input: "a\n\nb\n",
			want:  []*Token{NewText("a"), NewLinebreak(), NewLinebreak(), NewText("b"), NewLinebreak()},
		},
		{
			name:  "structural markers",
			input: "<<div\n  div>>",
			want:  []*Token{NewStructuralStart("div"), NewLinebreak(), NewStructuralEnd("div"), NewLinebreak()},
		},
		{
			name:  "header",
			input: "### Third level",
			want:  []*Token{NewHeader("###", "Third level"), NewLinebreak()},
		},
		{
			name:  "display",
			input: "!! Big",
			want:  []*Token{NewDisplay("!!", "Big"), NewLinebreak()},
		},
		{
			name:  "unordered item",
			input: "- *one*",
			want:  []*Token{NewUlistItem(NewEm(), NewText("one"), NewEm()), NewLinebreak()},
		},
		{
			name:  "ordered item",
			input: "#. two",
			want:  []*Token{NewOlistItem(NewText("two")), NewLinebreak()},
		},
		{
			name:  "table row with span",
			input: "| a |2 b c |",
			want: []*Token{
				NewTableRow(NewTableCell(1, NewText("a")), NewTableCell(2, NewText("b"), NewText("c"))),
				NewLinebreak(),
			},
		},
		{
			name:  "table separator",
			input: "|---|:-:|",
			want:  []*Token{NewTableSeparator("|---|:-:|"), NewLinebreak()},
		},
		{
			name:  "inline markers",
			input: "**a** __b__ ~~c~~",
			want: []*Token{
				NewStrong(), NewText("a"), NewStrong(),
				NewUnderline(), NewText("b"), NewUnderline(),
				NewStrikethrough(), NewText("c"), NewStrikethrough(),
				NewLinebreak(),
			},
		},
		{
			name:  "custom span",
			input: "(#note)hi(#note)",
			want:  []*Token{NewCustomSpan("note"), NewText("hi"), NewCustomSpan("note"), NewLinebreak()},
		},
		{
			name:  "link and image",
			input: `see [the docs]("https://example.com") @{logo|Our logo}`,
			want: []*Token{
				NewText("see"),
				NewHyperlink("the docs", "https://example.com"),
				NewImage("logo", "Our logo"),
				NewLinebreak(),
			},
		},
		{
			name:  "escaped markers",
			input: `\*not em\*`,
			want:  []*Token{NewText("*not"), NewText("em*"), NewLinebreak()},
		},
		{
			name:  "bracket after a space stays text",
			input: "see [docs]",
			want:  []*Token{NewText("see"), NewText("[docs]"), NewLinebreak()},
		},
		{
			name:  "lone image is not an optional",
			input: "@{logo}",
			want:  []*Token{NewImage("logo", ""), NewLinebreak()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLex_Optionals(t *testing.T) {
	tokens, err := Lex(`# Title[lead, color="dark blue"]{id="top"}`)
	require.NoError(t, err)
	require.Len(t, tokens, 3)

	assert.True(t, NewHeader("#", "Title").Equal(tokens[0]))
	require.Equal(t, KindOptional, tokens[1].Kind)
	want := &Attrs{
		Classes: []string{"lead"},
		HTML:    []string{`id="top"`},
		Vars:    []Var{{Name: "color", Value: "dark blue"}},
	}
	assert.True(t, want.Equal(tokens[1].Attrs), "got %s", tokens[1].Attrs)
	assert.Equal(t, KindLinebreak, tokens[2].Kind)
}

func TestLex_InvalidSpan(t *testing.T) {
	_, err := Lex("ok\n|0 a |")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLex_CRLF(t *testing.T) {
	tokens, err := Lex("a\r\nb\r\n")
	require.NoError(t, err)
	assert.Len(t, tokens, 4)
}

func TestParseVarList(t *testing.T) {
	attrs := ParseVarList(`a, b, x=1, y="p, q", x=2`)
	assert.Equal(t, []string{"a", "b"}, attrs.Classes)
	assert.Equal(t, []Var{{Name: "x", Value: "2"}, {Name: "y", Value: "p, q"}}, attrs.Vars)
	assert.Equal(t, map[string]string{"x": "2", "y": "p, q"}, attrs.VarMap())
}

func TestAttrs(t *testing.T) {
	var nilAttrs *Attrs
	assert.True(t, nilAttrs.Empty())
	assert.True(t, nilAttrs.Equal(&Attrs{}))
	assert.Equal(t, "", nilAttrs.ClassInsert())

	a := &Attrs{Classes: []string{"x"}}
	a.Merge(&Attrs{Classes: []string{"y"}, HTML: []string{"id=1"}})
	assert.Equal(t, "x y", a.ClassInsert())
	assert.Equal(t, "id=1", a.HTMLInsert())
	assert.Equal(t, "[x, y]{id=1}", a.String())
}
