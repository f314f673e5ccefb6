package cssparser

import (
	"strings"
	"testing"

	"github.com/6over3/CSSKit-sub002/internal/cssprinter"
	"github.com/6over3/CSSKit-sub002/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeeplyNestedSupportsNot(t *testing.T) {
	// parseConditionImpl drives nested "not (...)" groups off an explicit
	// stack (§4.5), so this must not blow the Go call stack even at a depth
	// well beyond any real stylesheet.
	const depth = 5000
	cond := strings.Repeat("not (", depth) + "display:grid" + strings.Repeat(")", depth)
	contents := "@supports " + cond + "{a{color:red}}"
	expectedCond := strings.Repeat("not ", depth) + "(display:grid)"
	expected := "@supports " + expectedCond + "{a{color:red;}}"

	log := logger.NewLog()
	ss, _ := ParseStylesheet(log, logger.Source{Contents: contents, PrettyPath: "<test>"})
	require.False(t, log.HasErrors(), "unexpected parse errors: %v", log.Done())
	got := cssprinter.PrintStylesheet(ss, cssprinter.Options{})
	assert.Equal(t, expected, got)
}

func TestParseDeeplyNestedAtMediaAndChain(t *testing.T) {
	// A long flat "and" chain is a different stress shape than "not (...)"
	// nesting: every operand becomes a sibling in one condFrame's children
	// slice rather than adding stack depth, but it still exercises
	// pushJoinedConditions at width well beyond a hand-written query.
	const width = 2000
	var terms []string
	for i := 0; i < width; i++ {
		terms = append(terms, "(min-width:100px)")
	}
	cond := strings.Join(terms, " and ")
	contents := "@media " + cond + "{a{color:red}}"
	expected := "@media " + cond + "{a{color:red;}}"

	log := logger.NewLog()
	ss, _ := ParseStylesheet(log, logger.Source{Contents: contents, PrettyPath: "<test>"})
	require.False(t, log.HasErrors(), "unexpected parse errors: %v", log.Done())
	got := cssprinter.PrintStylesheet(ss, cssprinter.Options{})
	assert.Equal(t, expected, got)
}
