package cssprinter_test

import (
	"strings"
	"testing"

	"github.com/6over3/CSSKit-sub002/internal/cssast"
	"github.com/6over3/CSSKit-sub002/internal/cssparser"
	"github.com/6over3/CSSKit-sub002/internal/cssprinter"
	"github.com/6over3/CSSKit-sub002/internal/csslexer"
	"github.com/6over3/CSSKit-sub002/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func printRoundTrip(t *testing.T, contents string, opts cssprinter.Options) string {
	t.Helper()
	log := logger.NewLog()
	ss, _ := cssparser.ParseStylesheet(log, logger.Source{Contents: contents, PrettyPath: "<test>"})
	require.False(t, log.HasErrors(), "unexpected parse errors: %v", log.Done())
	return cssprinter.PrintStylesheet(ss, opts)
}

func TestPrintMinifiedSelectors(t *testing.T) {
	cases := []struct{ in, out string }{
		{"a>b{color:red}", "a > b{color:red;}"},
		{"a+b{color:red}", "a + b{color:red;}"},
		{"a~b{color:red}", "a ~ b{color:red;}"},
		{"a b{color:red}", "a b{color:red;}"},
		{`a[href]{color:red}`, `a[href]{color:red;}`},
		{`a[href="x"]{color:red}`, `a[href="x"]{color:red;}`},
		{"li:nth-child(2n+1){color:red}", "li:nth-child(2n+1){color:red;}"},
		{".a.b{color:red}", ".a.b{color:red;}"},
		{"#id{color:red}", "#id{color:red;}"},
		{"*{color:red}", "*{color:red;}"},
	}
	for _, c := range cases {
		got := printRoundTrip(t, c.in, cssprinter.Options{})
		assert.Equal(t, c.out, got, "input: %s", c.in)
	}
}

func TestPrintIndentedMode(t *testing.T) {
	got := printRoundTrip(t, "a{color:red;b:green}", cssprinter.Options{Indent: "  "})
	assert.Equal(t, "a {\n  color: red;\n  b: green;\n}", got)
}

func TestPrintAtMediaConditionJoins(t *testing.T) {
	got := printRoundTrip(t, "@media (min-width:100px) and (max-width:200px){a{color:red}}", cssprinter.Options{})
	assert.Equal(t, "@media (min-width:100px) and (max-width:200px){a{color:red;}}", got)

	got = printRoundTrip(t, "@media not (min-width:100px){a{color:red}}", cssprinter.Options{})
	assert.Equal(t, "@media not (min-width:100px){a{color:red;}}", got)

	got = printRoundTrip(t, "@media ((min-width:100px) or (max-width:200px)) and (color){a{color:red}}", cssprinter.Options{})
	assert.Equal(t, "@media ((min-width:100px) or (max-width:200px)) and (color){a{color:red;}}", got)
}

func TestPrintUnknownTokensPreserveSpacing(t *testing.T) {
	got := printRoundTrip(t, "@unknown-thing foo bar baz;", cssprinter.Options{})
	assert.Equal(t, "@unknown-thing foo bar baz;", got)
}

// calcLeaf writes a cssast.Token the way a plain source-text round-trip
// would, without going through the printer's own explicit-stack token
// walk -- enough to check the calc tree shape PrintTokenCalc produces.
func calcLeaf(sb *strings.Builder, tok cssast.Token) {
	sb.WriteString(tok.Text)
}

func parseCalcInterior(t *testing.T, contents string) cssast.Calc[cssast.Token] {
	t.Helper()
	log := logger.NewLog()
	ss, _ := cssparser.ParseStylesheet(log, logger.Source{Contents: contents, PrettyPath: "<test>"})
	require.False(t, log.HasErrors())
	rule, ok := ss.Rules[0].(*cssast.RStyle)
	require.True(t, ok)
	decl := rule.Nested.Declarations[0]
	var fnTok cssast.Token
	for _, tok := range decl.Value.Unparsed {
		if tok.Kind == csslexer.TFunction {
			fnTok = tok
			break
		}
	}
	require.Equal(t, csslexer.TFunction, fnTok.Kind)
	var interior cssast.Tokens
	if strings.EqualFold(fnTok.Text, "calc") {
		interior = fnTok.Children
	} else {
		interior = cssast.Tokens{fnTok}
	}
	tree, ok := cssparser.ParseCalcTree(interior)
	require.True(t, ok)
	return cssparser.SimplifyCalc(tree)
}

func TestPrintCalcSum(t *testing.T) {
	tree := parseCalcInterior(t, "a{width:calc(1px + 2px)}")
	var sb strings.Builder
	cssprinter.PrintTokenCalc(&sb, tree, calcLeaf)
	assert.Equal(t, "calc(1px + 2px)", sb.String())
}

func TestPrintCalcNestedProduct(t *testing.T) {
	tree := parseCalcInterior(t, "a{width:calc(1px + 2px * 3)}")
	var sb strings.Builder
	cssprinter.PrintTokenCalc(&sb, tree, calcLeaf)
	assert.Equal(t, "calc(1px + 2px * 3)", sb.String())
}

func TestPrintCalcMinFunc(t *testing.T) {
	tree := parseCalcInterior(t, "a{width:min(1px, 2px)}")
	var sb strings.Builder
	cssprinter.PrintTokenCalc(&sb, tree, calcLeaf)
	assert.Equal(t, "min(1px, 2px)", sb.String())
}

func TestPrintCalcDeeplyNestedSum(t *testing.T) {
	// parseCalcSum/SimplifyCalc/printCalcNode all drive a calc-sum tree off
	// an explicit stack rather than recursing (§4.3 point 4), so a sum chain
	// a thousand-plus terms deep must parse, simplify and print without
	// blowing the Go call stack. "1px" terms never fold away under
	// SimplifyCalc (it only folds bare numbers), so the tree really does
	// stay that deep through every stage.
	const depth = 3000
	terms := make([]string, depth)
	for i := range terms {
		terms[i] = "1px"
	}
	joined := strings.Join(terms, " + ")
	tree := parseCalcInterior(t, "a{width:calc("+joined+")}")
	var sb strings.Builder
	cssprinter.PrintTokenCalc(&sb, tree, calcLeaf)
	assert.Equal(t, "calc("+joined+")", sb.String())
}
