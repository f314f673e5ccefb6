// Package cssast is the typed representation a stylesheet parses into: the
// recursive rule/declaration tree (§3 of the design), selectors with
// specificity, calc() expression trees, and the media/supports/container
// condition trees. It mirrors the shape of esbuild's internal/css_ast
// package (itself a minimal-syntax tree of raw tokens plus structured
// overlays for rules, selectors and media queries) generalized to carry
// every rule and condition kind the design calls for, plus the cascade
// bookkeeping esbuild never needed because it only transforms CSS rather
// than resolving it.
package cssast

import (
	"github.com/6over3/CSSKit-sub002/internal/csslexer"
	"github.com/6over3/CSSKit-sub002/internal/logger"
)

// Token is a component value retained after parsing: either a leaf lexer
// token or, for "(", "[", "{" and function tokens, a simple block whose
// children are stored inline (the closing token is implicit).
type Token struct {
	Text               string
	Children           []Token
	UnitOffset         uint16
	Kind               csslexer.T
	HasWhitespaceAfter bool
	IsID               bool
	HasInt             bool
	IntValue           int32
	NumericValue       float64
	Loc                logger.Loc
}

func (t Token) DimensionValue() string { return t.Text[:t.UnitOffset] }
func (t Token) DimensionUnit() string  { return t.Text[t.UnitOffset:] }
