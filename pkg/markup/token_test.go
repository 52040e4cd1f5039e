package markup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_Label(t *testing.T) {
	tests := []struct {
		token *Token
		want  string
	}{
		{NewText("a"), "text"},
		{NewEm(), "text:em"},
		{NewCustomSpan("note"), "text:custom_span:note"},
		{NewStructuralStart("div"), "se:start:div"},
		{NewStructuralEnd("div"), "se:end:div"},
		{NewUlistItem(), "list:ulist"},
		{NewTableRow(), "table:row"},
		{NewLinebreak(), "linebreak"},
		{&Token{Kind: KindUnknown}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.Label())
		})
	}
}

func TestToken_FinalKey(t *testing.T) {
	assert.Equal(t, "text:custom_span", NewCustomSpan("x").FinalKey())
	assert.Equal(t, "se:start", NewStructuralStart("div").FinalKey())
	assert.Equal(t, "text:strong", NewStrong().FinalKey())
}

func TestToken_Counterpart(t *testing.T) {
	tests := []struct {
		name  string
		token *Token
		want  string
	}{
		{"em pairs with itself", NewEm(), "text:em"},
		{"span pairs by id", NewCustomSpan("a"), "text:custom_span:a"},
		{"end pairs with its start", NewStructuralEnd("aside"), "se:start:aside"},
		{"start closes nothing", NewStructuralStart("aside"), ""},
		{"text closes nothing", NewText("x"), ""},
		{"list closes nothing", NewUlistItem(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.Counterpart())
		})
	}
}

func TestToken_ToContainer(t *testing.T) {
	tests := []struct {
		name    string
		token   *Token
		res     Resolution
		keep    bool
		literal string
		wantErr bool
	}{
		{name: "final standalone", token: NewText("x"), res: Standalone, keep: true},
		{name: "final absorbed", token: NewHyperlink("a", "b"), res: Absorbed, keep: true},
		{name: "linebreak absorbed", token: NewLinebreak(), res: Absorbed, keep: true},
		{name: "explicit delimiter", token: NewEm(), res: Delimiter, keep: true},
		{name: "explicit absorbed", token: NewEm(), res: Absorbed, literal: "*"},
		{name: "explicit standalone", token: NewCustomSpan("n"), res: Standalone, literal: "(#n)"},
		{name: "list standalone", token: NewUlistItem(NewText("a"), NewText("b")), res: Standalone, literal: "- a b"},
		{name: "opened delimiter", token: NewStructuralStart("div"), res: Delimiter, keep: true},
		{name: "opened absorbed", token: NewStructuralStart("div"), res: Absorbed, wantErr: true},
		{name: "closed standalone", token: NewStructuralEnd("div"), res: Standalone, wantErr: true},
		{name: "optional", token: NewOptional(&Attrs{}), res: Delimiter, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := tt.token.ToContainer(tt.res)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMismatchedContainer))
				return
			}
			require.NoError(t, err)
			if tt.keep {
				assert.Same(t, tt.token, node)
				return
			}
			c, ok := node.(*Container)
			require.True(t, ok)
			assert.Equal(t, ContainerText, c.Kind)
			out, err := c.Export(tagExporter)
			require.NoError(t, err)
			assert.Equal(t, tt.literal, out)
		})
	}
}

func TestToken_Literal(t *testing.T) {
	tests := []struct {
		token *Token
		want  string
	}{
		{NewStructuralStart("div"), "<<div"},
		{NewStructuralEnd("div"), "div>>"},
		{NewTableRow(NewTableCell(1, NewText("a")), NewTableCell(2, NewText("b"))), "| a |2 b |"},
		{NewHyperlink("docs", "https://example.com"), "[docs](https://example.com)"},
		{NewImage("logo", ""), "@{logo}"},
		{NewImage("logo", "Our logo"), "@{logo|Our logo}"},
		{NewOlistItem(NewStrong(), NewText("x"), NewStrong()), "#. ** x **"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.Literal())
		})
	}
}

func TestToken_Equal(t *testing.T) {
	a := NewText("x")
	b := NewText("x")
	b.Line = 12
	b.File = "other.bpr"
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(NewText("y")))
	assert.False(t, NewEm().Equal(NewStrong()))
	assert.False(t, NewUlistItem(NewText("a")).Equal(NewUlistItem(NewText("b"))))
	assert.True(t, (*Token)(nil).Equal(nil))
}

func TestToken_String(t *testing.T) {
	assert.Equal(t, "<[NOC] ?? />", (&Token{Value: "??"}).String())
	assert.Equal(t, "<se:start:div = '<<div' />", NewStructuralStart("div").String())
	assert.Equal(t, "<header = '##,Title' />", NewHeader("##", "Title").String())
}

func TestCapability_Has(t *testing.T) {
	caps := CapLinebreak | CapFinal | CapExplicit
	assert.True(t, caps.Has(CapFinal))
	assert.True(t, caps.Has(CapFinal|CapExplicit))
	assert.False(t, caps.Has(CapToMatch))
	assert.True(t, NewLinebreak().Is(CapLinebreak))
	assert.False(t, NewText("x").Is(CapExplicit))
}

func TestNewTableCell_ClampsSpan(t *testing.T) {
	assert.Equal(t, 1, NewTableCell(0).Span)
	assert.Equal(t, 1, NewTableCell(-3).Span)
	assert.Equal(t, 4, NewTableCell(4).Span)
}
