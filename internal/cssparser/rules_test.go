package cssparser

import (
	"strings"
	"testing"

	"github.com/6over3/CSSKit-sub002/internal/cssprinter"
	"github.com/6over3/CSSKit-sub002/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewLog()
		ss, _ := ParseStylesheet(log, logger.Source{Contents: contents, PrettyPath: "<test>"})
		require.False(t, log.HasErrors(), "unexpected parse errors: %v", log.Done())
		got := cssprinter.PrintStylesheet(ss, cssprinter.Options{})
		assert.Equal(t, expected, got)
	})
}

func expectParseError(t *testing.T, contents string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewLog()
		ParseStylesheet(log, logger.Source{Contents: contents, PrettyPath: "<test>"})
		assert.True(t, log.HasErrors(), "expected a parse error for %q", contents)
	})
}

func TestParseStyleRule(t *testing.T) {
	expectPrinted(t, "a{color:red}", "a{color:red;}")
	expectPrinted(t, "a, b{color:red}", "a, b{color:red;}")
	expectPrinted(t, "a{color:red!important}", "a{color:red !important;}")
}

func TestParseNestedStyleRule(t *testing.T) {
	expectPrinted(t, "a{color:red;&:hover{color:blue}}", "a{color:red;&:hover{color:blue;}}")
}

func TestParseAtMedia(t *testing.T) {
	expectPrinted(t, "@media screen and (min-width:100px){a{color:red}}",
		"@media screen and (min-width:100px){a{color:red;}}")
	expectPrinted(t, "@media screen, print{a{color:red}}", "@media screen, print{a{color:red;}}")
}

func TestParseAtSupports(t *testing.T) {
	expectPrinted(t, "@supports (display:grid){a{color:red}}", "@supports (display:grid){a{color:red;}}")
}

func TestParseDeeplyNestedMedia(t *testing.T) {
	contents := "@media screen{@media screen{@media screen{a{color:red}}}}"
	expected := "@media screen{@media screen{@media screen{a{color:red;}}}}"
	expectPrinted(t, contents, expected)
}

func TestParseVeryDeeplyNestedMedia(t *testing.T) {
	// parseRuleList assembles nested at-rule/style-rule bodies off an
	// explicit stack rather than recursing, so this must not blow the Go
	// call stack even at a depth well beyond anything a hand-written
	// stylesheet would use.
	const depth = 5000
	contents := strings.Repeat("@media screen{", depth) + "a{color:red}" + strings.Repeat("}", depth)
	expected := strings.Repeat("@media screen{", depth) + "a{color:red;}" + strings.Repeat("}", depth)

	log := logger.NewLog()
	ss, _ := ParseStylesheet(log, logger.Source{Contents: contents, PrettyPath: "<test>"})
	require.False(t, log.HasErrors(), "unexpected parse errors: %v", log.Done())
	got := cssprinter.PrintStylesheet(ss, cssprinter.Options{})
	assert.Equal(t, expected, got)
}

func TestParseAtImport(t *testing.T) {
	expectPrinted(t, `@import "a.css";`, `@import "a.css";`)
	expectPrinted(t, `@import url(a.css) layer(base) supports(display:grid) screen;`,
		`@import "a.css" layer(base) supports(display:grid) screen;`)
}

func TestParseAtLayer(t *testing.T) {
	expectPrinted(t, "@layer a, b.c;", "@layer a, b.c;")
	expectPrinted(t, "@layer a{b{color:red}}", "@layer a{b{color:red;}}")
}

func TestParseAtFontFace(t *testing.T) {
	expectPrinted(t, `@font-face{font-family:"Foo";src:url(foo.woff)}`,
		`@font-face{font-family:"Foo";src:url("foo.woff");}`)
}

func TestParseAtKeyframes(t *testing.T) {
	expectPrinted(t, "@keyframes spin{from{opacity:0}50%{opacity:.5}to{opacity:1}}",
		"@keyframes spin{from{opacity:0;}50%{opacity:.5;}to{opacity:1;}}")
}

func TestParseAtPage(t *testing.T) {
	expectPrinted(t, `@page :first{margin:1in;@top-center{content:"x"}}`,
		`@page :first{margin:1in;@top-center{content:"x";}}`)
}

func TestParseUnknownAtRuleRoundTrips(t *testing.T) {
	expectPrinted(t, "@unknown-thing foo bar;", "@unknown-thing foo bar;")
}

func TestParseRecoversFromUnterminatedString(t *testing.T) {
	// An unterminated string hits the tokenizer's bad-string recovery; the
	// parser must keep going afterward rather than aborting (C9).
	expectParseError(t, "a{content:\"unterminated\nb{color:red}")
}

func TestParseCDOCDCIgnoredAtTopLevel(t *testing.T) {
	expectPrinted(t, "<!-- a{color:red} -->", "a{color:red;}")
}
