package cssfacade

import (
	"strconv"
	"strings"

	"github.com/6over3/CSSKit-sub002/internal/cssast"
	"github.com/6over3/CSSKit-sub002/internal/cssparser"
	"github.com/6over3/CSSKit-sub002/internal/cssprinter"
	"github.com/6over3/CSSKit-sub002/internal/csslexer"
)

// LengthPercentageKind discriminates LengthPercentage's three legal forms.
type LengthPercentageKind uint8

const (
	LPLength LengthPercentageKind = iota
	LPPercentage
	LPCalc
)

// LengthPercentage is the typed value the length/percentage leaf grammar
// produces for properties like width/margin/font-size: a bare dimension, a
// percentage, or an unresolved calc() tree (kept as a tree rather than
// collapsed to a number, since it may mix length and percentage terms that
// can only be resolved against layout).
type LengthPercentage struct {
	Kind  LengthPercentageKind
	Value float64 // LPLength/LPPercentage
	Unit  string  // LPLength only, lower-cased
	Calc  cssast.Calc[cssast.Token]
}

func (lp LengthPercentage) CSSText() string {
	switch lp.Kind {
	case LPLength:
		return formatLPNumber(lp.Value) + lp.Unit
	case LPPercentage:
		return formatLPNumber(lp.Value) + "%"
	case LPCalc:
		var sb strings.Builder
		cssprinter.PrintTokenCalc(&sb, lp.Calc, writeTokenDeep)
		return sb.String()
	}
	return ""
}

// formatLPNumber mirrors the core printer's number formatting closely
// enough for this leaf's own CSSText -- it does not reuse cssprinter's
// formatNumber since that helper is unexported package internal.
func formatLPNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseLengthPercentageLeaf is the representative length/percentage leaf
// grammar: a bare zero, a <dimension>, a <percentage>, or a calc() tree
// built via the core's own ParseCalcTree/SimplifyCalc, reusing the same
// machinery the calc() engine (C3) already provides rather than
// re-implementing numeric simplification here.
func ParseLengthPercentageLeaf(toks cssast.Tokens) (any, bool) {
	if len(toks) != 1 {
		return nil, false
	}
	tok := toks[0]
	switch tok.Kind {
	case csslexer.TDimension:
		return LengthPercentage{Kind: LPLength, Value: tok.NumericValue, Unit: strings.ToLower(tok.DimensionUnit())}, true
	case csslexer.TPercentage:
		return LengthPercentage{Kind: LPPercentage, Value: tok.NumericValue}, true
	case csslexer.TNumber:
		if tok.NumericValue == 0 {
			return LengthPercentage{Kind: LPLength, Value: 0, Unit: ""}, true
		}
		return nil, false
	case csslexer.TFunction:
		name := strings.ToLower(tok.Text)
		// calc()'s own parens hold a sum expression directly; the other
		// math functions (min/max/clamp/...) are themselves a calc leaf
		// value, so ParseCalcTree needs to see the function token, not its
		// interior, to recognize it via LookupCalcFunc.
		var args cssast.Tokens
		switch name {
		case "calc":
			args = tok.Children
		case "min", "max", "clamp", "round", "mod", "rem", "sin", "cos", "tan", "atan2", "pow", "sqrt", "hypot", "log", "exp", "abs", "sign":
			args = cssast.Tokens{tok}
		default:
			return nil, false
		}
		tree, ok := cssparser.ParseCalcTree(args)
		if !ok {
			return nil, false
		}
		tree = cssparser.SimplifyCalc(tree)
		return LengthPercentage{Kind: LPCalc, Calc: tree}, true
	}
	return nil, false
}
