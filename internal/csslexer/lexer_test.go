package csslexer

import (
	"testing"

	"github.com/6over3/CSSKit-sub002/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, contents string) []Token {
	t.Helper()
	log := logger.NewLog()
	result := Tokenize(log, logger.Source{Contents: contents, PrettyPath: "<test>"})
	require.False(t, log.HasErrors(), "unexpected lexer errors for %q: %v", contents, log.Done())
	return result.Tokens
}

func kinds(toks []Token) []T {
	out := make([]T, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeBasicDeclaration(t *testing.T) {
	toks := tokenize(t, "a{color:red}")
	assert.Equal(t, []T{TIdent, TOpenBrace, TIdent, TColon, TIdent, TCloseBrace, TEndOfFile}, kinds(toks))
}

func TestTokenizeNumericTypes(t *testing.T) {
	toks := tokenize(t, "10px 50% 3.14 .5e2")
	var numeric []T
	for _, tok := range toks {
		if tok.Kind.IsNumeric() {
			numeric = append(numeric, tok.Kind)
		}
	}
	assert.Equal(t, []T{TDimension, TPercentage, TNumber, TNumber}, numeric)
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks := tokenize(t, `"a\"b"`)
	require.Len(t, toks, 2)
	assert.Equal(t, TString, toks[0].Kind)
	assert.Equal(t, `a"b`, toks[0].DecodedText(`"a\"b"`))
}

func TestTokenizeMatchOperators(t *testing.T) {
	toks := tokenize(t, `[a~=b][c|=d][e^=f][g$=h][i*=j][k||l]`)
	var ops []T
	for _, tok := range toks {
		switch tok.Kind {
		case TIncludeMatch, TDashMatch, TPrefixMatch, TSuffixMatch, TSubstringMatch, TColumn:
			ops = append(ops, tok.Kind)
		}
	}
	assert.Equal(t, []T{TIncludeMatch, TDashMatch, TPrefixMatch, TSuffixMatch, TSubstringMatch, TColumn}, ops)
}

func TestTokenizeCDOCDC(t *testing.T) {
	toks := tokenize(t, "<!-- -->")
	assert.Equal(t, []T{TCDO, TWhitespace, TCDC, TEndOfFile}, kinds(toks))
}

func TestTokenizeBadString(t *testing.T) {
	log := logger.NewLog()
	result := Tokenize(log, logger.Source{Contents: "\"unterminated\n", PrettyPath: "<test>"})
	assert.True(t, log.HasErrors())
	require.NotEmpty(t, result.Tokens)
	assert.Equal(t, TBadString, result.Tokens[0].Kind)
}

func TestTokenizeUnicodeRange(t *testing.T) {
	toks := tokenize(t, "U+0025-00FF")
	require.Len(t, toks, 2)
	assert.Equal(t, TUnicodeRange, toks[0].Kind)
	assert.Equal(t, uint32(0x25), toks[0].RangeStart)
	assert.Equal(t, uint32(0xFF), toks[0].RangeEnd)
}
