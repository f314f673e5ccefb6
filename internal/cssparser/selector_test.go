package cssparser

import (
	"strings"
	"testing"

	"github.com/6over3/CSSKit-sub002/internal/cssast"
	"github.com/6over3/CSSKit-sub002/internal/cssprinter"
	"github.com/6over3/CSSKit-sub002/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSoleSelector(t *testing.T, selector string) cssast.ComplexSelector {
	t.Helper()
	log := logger.NewLog()
	ss, _ := ParseStylesheet(log, logger.Source{Contents: selector + "{color:red}", PrettyPath: "<test>"})
	require.False(t, log.HasErrors(), "unexpected parse errors: %v", log.Done())
	rule, ok := ss.Rules[0].(*cssast.RStyle)
	require.True(t, ok)
	require.Len(t, rule.Selectors, 1)
	return rule.Selectors[0]
}

func TestSpecificityBasics(t *testing.T) {
	cases := []struct {
		selector string
		want     cssast.Specificity
	}{
		{"a", cssast.Specificity{Elements: 1}},
		{"*", cssast.Specificity{}},
		{".a", cssast.Specificity{Classes: 1}},
		{"#a", cssast.Specificity{IDs: 1}},
		{"a.b", cssast.Specificity{Classes: 1, Elements: 1}},
		{"a#b.c", cssast.Specificity{IDs: 1, Classes: 1, Elements: 1}},
		{"a[href]", cssast.Specificity{Classes: 1, Elements: 1}},
		{"a::before", cssast.Specificity{Elements: 2}},
		{"a:hover", cssast.Specificity{Classes: 1, Elements: 1}},
	}
	for _, c := range cases {
		sel := parseSoleSelector(t, c.selector)
		assert.Equal(t, c.want, Specificity(sel), "selector: %s", c.selector)
	}
}

func TestSpecificityWhereContributesZero(t *testing.T) {
	sel := parseSoleSelector(t, ":where(#a, .b)")
	assert.Equal(t, cssast.Specificity{}, Specificity(sel))
}

func TestSpecificityIsTakesMaxArgument(t *testing.T) {
	sel := parseSoleSelector(t, ":is(.a, #b)")
	assert.Equal(t, cssast.Specificity{IDs: 1}, Specificity(sel))
}

func TestSpecificityNthChildAddsClassPlusOfArgument(t *testing.T) {
	sel := parseSoleSelector(t, ":nth-child(2n+1 of .a)")
	assert.Equal(t, cssast.Specificity{Classes: 2}, Specificity(sel))
}

func TestSpecificityOrdering(t *testing.T) {
	lo := cssast.Specificity{Elements: 5}
	hi := cssast.Specificity{Classes: 1}
	assert.True(t, lo.Less(hi))
	assert.Equal(t, hi, lo.Max(hi))
}

func TestParseDescendantCombinatorSelector(t *testing.T) {
	// A regression test for a bug where the complex-selector loop stopped
	// after the first compound whenever the next combinator was implicit
	// (whitespace-only descendant) rather than an explicit ">"/"+"/"~"/"||"
	// token, silently truncating selectors like "div p".
	expectPrinted(t, "div p{color:red}", "div p{color:red;}")
	expectPrinted(t, "div p span{color:red}", "div p span{color:red;}")
}

func TestParseExplicitCombinatorChain(t *testing.T) {
	expectPrinted(t, "div > p ~ span + a{color:red}", "div > p ~ span + a{color:red;}")
}

func TestParseComplexSelectorFailurePropagates(t *testing.T) {
	// A bad compound anywhere in a complex selector must fail the whole
	// selector list, not silently truncate it into just the compounds seen
	// so far (the old code's non-first compound failures did a bare
	// "break", which looked like a successfully parsed "div").
	log := logger.NewLog()
	p := NewParser(log, logger.Source{Contents: "div > {", PrettyPath: "<test>"})
	_, ok := p.ParseSelectorList()
	assert.False(t, ok)

	expectParseError(t, "div ..bad{color:red}")
}

func TestParseDeeplyNestedNotSelector(t *testing.T) {
	// The compound-selector scanner drives nested pseudo-class arguments
	// (":not(:not(...))", ":is(...)", ":has(...)") off an explicit frame
	// stack (§8), so this must not blow the Go call stack even at a depth
	// well beyond the testable nesting invariant's floor.
	const depth = 3000
	selector := strings.Repeat(":not(", depth) + "a" + strings.Repeat(")", depth)
	contents := selector + "{color:red}"
	expected := selector + "{color:red;}"

	log := logger.NewLog()
	ss, _ := ParseStylesheet(log, logger.Source{Contents: contents, PrettyPath: "<test>"})
	require.False(t, log.HasErrors(), "unexpected parse errors: %v", log.Done())
	got := cssprinter.PrintStylesheet(ss, cssprinter.Options{})
	assert.Equal(t, expected, got)
}

func TestParseDeeplyNestedIsWithinHas(t *testing.T) {
	const depth = 1000
	selector := ":has(" + strings.Repeat(":is(", depth) + "a" + strings.Repeat(")", depth) + ")"
	contents := selector + "{color:red}"
	expected := selector + "{color:red;}"

	log := logger.NewLog()
	ss, _ := ParseStylesheet(log, logger.Source{Contents: contents, PrettyPath: "<test>"})
	require.False(t, log.HasErrors(), "unexpected parse errors: %v", log.Done())
	got := cssprinter.PrintStylesheet(ss, cssprinter.Options{})
	assert.Equal(t, expected, got)
}

func TestParseAnPlusBForms(t *testing.T) {
	cases := []struct {
		selector string
		wantA    int
		wantB    int
	}{
		{"li:nth-child(2n+1)", 2, 1},
		{"li:nth-child(odd)", 2, 1},
		{"li:nth-child(even)", 2, 0},
		{"li:nth-child(3)", 0, 3},
		{"li:nth-child(-n+3)", -1, 3},
	}
	for _, c := range cases {
		sel := parseSoleSelector(t, c.selector)
		require.NotEmpty(t, sel.Compounds[0].Subclasses)
		pc, ok := sel.Compounds[0].Subclasses[0].(*cssast.CPseudoClass)
		require.True(t, ok)
		assert.Equal(t, c.wantA, pc.AnB.A, "selector: %s", c.selector)
		assert.Equal(t, c.wantB, pc.AnB.B, "selector: %s", c.selector)
	}
}
