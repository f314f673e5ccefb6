package cssfacade_test

import (
	"testing"

	"github.com/6over3/CSSKit-sub002/internal/cssast"
	"github.com/6over3/CSSKit-sub002/internal/cssfacade"
	"github.com/6over3/CSSKit-sub002/internal/cssparser"
	"github.com/6over3/CSSKit-sub002/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// declValue parses "a{<prop>:<value>}" and returns the one declaration's
// value, exactly as the facade would see it coming out of Core.
func declValue(t *testing.T, prop, value string) cssast.PropertyValue {
	t.Helper()
	log := logger.NewLog()
	ss, _ := cssparser.ParseStylesheet(log, logger.Source{
		Contents:   "a{" + prop + ":" + value + "}",
		PrettyPath: "<test>",
	})
	require.False(t, log.HasErrors(), "unexpected parse errors: %v", log.Done())
	rule, ok := ss.Rules[0].(*cssast.RStyle)
	require.True(t, ok)
	return rule.Nested.Declarations[0].Value
}

func TestParseColorLeafNamedAndHex(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"red", "#ff0000"},
		{"currentcolor", "currentcolor"},
		{"#fff", "#ffffff"},
		{"#ff0000ff", "#ff0000"},
	}
	for _, c := range cases {
		v := declValue(t, "color", c.value)
		typed, ok := cssfacade.ParseColorLeaf(v.Unparsed)
		require.True(t, ok, "value: %s", c.value)
		col, ok := typed.(cssfacade.Color)
		require.True(t, ok)
		assert.Equal(t, c.want, col.CSSText())
	}
}

func TestParseColorLeafRGBFunctionForms(t *testing.T) {
	v := declValue(t, "color", "rgb(255, 0, 0)")
	typed, ok := cssfacade.ParseColorLeaf(v.Unparsed)
	require.True(t, ok)
	col := typed.(cssfacade.Color)
	assert.Equal(t, "#ff0000", col.CSSText())

	v = declValue(t, "color", "rgba(0 128 0 / 0.5)")
	typed, ok = cssfacade.ParseColorLeaf(v.Unparsed)
	require.True(t, ok)
	col = typed.(cssfacade.Color)
	assert.Equal(t, "#00800080", col.CSSText())
}

func TestParseLengthPercentageLeafSimple(t *testing.T) {
	v := declValue(t, "width", "10px")
	typed, ok := cssfacade.ParseLengthPercentageLeaf(v.Unparsed)
	require.True(t, ok)
	lp := typed.(cssfacade.LengthPercentage)
	assert.Equal(t, cssfacade.LPLength, lp.Kind)
	assert.Equal(t, "10px", lp.CSSText())

	v = declValue(t, "width", "50%")
	typed, ok = cssfacade.ParseLengthPercentageLeaf(v.Unparsed)
	require.True(t, ok)
	lp = typed.(cssfacade.LengthPercentage)
	assert.Equal(t, cssfacade.LPPercentage, lp.Kind)
	assert.Equal(t, "50%", lp.CSSText())

	v = declValue(t, "width", "0")
	typed, ok = cssfacade.ParseLengthPercentageLeaf(v.Unparsed)
	require.True(t, ok)
	lp = typed.(cssfacade.LengthPercentage)
	assert.Equal(t, "0", lp.CSSText())
}

func TestParseLengthPercentageLeafCalc(t *testing.T) {
	v := declValue(t, "width", "calc(100% - 10px)")
	typed, ok := cssfacade.ParseLengthPercentageLeaf(v.Unparsed)
	require.True(t, ok)
	lp := typed.(cssfacade.LengthPercentage)
	assert.Equal(t, cssfacade.LPCalc, lp.Kind)
	assert.Equal(t, "calc(100% - 10px)", lp.CSSText())
}

func TestParseLengthPercentageLeafMinMaxClamp(t *testing.T) {
	v := declValue(t, "width", "min(10px, 20px)")
	typed, ok := cssfacade.ParseLengthPercentageLeaf(v.Unparsed)
	require.True(t, ok)
	lp := typed.(cssfacade.LengthPercentage)
	assert.Equal(t, cssfacade.LPCalc, lp.Kind)
	assert.Equal(t, "min(10px, 20px)", lp.CSSText())
}

func TestRegistryResolveWideKeywordPassesThrough(t *testing.T) {
	reg := cssfacade.NewRegistry()
	v := declValue(t, "color", "inherit")
	// Core's declaration parser already tags "inherit" as ValueWideKeyword
	// before the facade ever sees it; Resolve's early return must leave it
	// untouched rather than trying the color leaf grammar against it.
	require.Equal(t, cssast.ValueWideKeyword, v.Kind)
	resolved := reg.Resolve(v)
	assert.Equal(t, cssast.ValueWideKeyword, resolved.Kind)
}

func TestRegistryResolveUpgradesKnownProperty(t *testing.T) {
	reg := cssfacade.NewRegistry()
	v := declValue(t, "color", "red")
	resolved := reg.Resolve(v)
	require.Equal(t, cssast.ValueTyped, resolved.Kind)
	col, ok := resolved.Typed.(cssfacade.Color)
	require.True(t, ok)
	assert.Equal(t, "#ff0000", col.CSSText())
}

func TestRegistryResolveFallsBackOnVarReference(t *testing.T) {
	reg := cssfacade.NewRegistry()
	v := declValue(t, "color", "var(--accent)")
	resolved := reg.Resolve(v)
	assert.Equal(t, cssast.ValueUnparsed, resolved.Kind)
}

func TestRegistryResolveFallsBackOnVendorPrefix(t *testing.T) {
	reg := cssfacade.NewRegistry()
	v := declValue(t, "-webkit-width", "10px")
	resolved := reg.Resolve(v)
	assert.Equal(t, cssast.ValueUnparsed, resolved.Kind)
	assert.Equal(t, "-webkit-", resolved.PropertyID.Prefix)
}

func TestRegistryResolveUnknownPropertyPassesThrough(t *testing.T) {
	reg := cssfacade.NewRegistry()
	v := declValue(t, "transform", "rotate(10deg)")
	resolved := reg.Resolve(v)
	assert.Equal(t, cssast.ValueUnparsed, resolved.Kind)
}
