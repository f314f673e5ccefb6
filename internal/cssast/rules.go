package cssast

import "github.com/6over3/CSSKit-sub002/internal/logger"

// Rule is the sum type described in §3: Style | Media | Supports |
// Container | Scope | LayerStatement | LayerBlock | Import | Namespace |
// Keyframes | FontFace | FontFeatureValues | FontPaletteValues |
// CounterStyle | Page | Property | StartingStyle | MozDocument |
// ViewTransition | Viewport | Nesting | CustomMedia | Unknown | Custom(X).
//
// Rather than threading a generic type parameter through every node (which
// esbuild itself avoids for its AST), the single extension seam is the
// Custom field on RCustom: a host-supplied CustomAtRuleParser (see the
// facade package) decides what goes there.
type Rule interface {
	isRule()
	Location() logger.Loc
}

type base struct{ Loc logger.Loc }

func (b base) Location() logger.Loc { return b.Loc }

type RStyle struct {
	base
	Selectors []ComplexSelector
	Nested    NestedBody
}

type RAtMedia struct {
	base
	Queries []MediaQuery
	Rules   []Rule
}

type RAtSupports struct {
	base
	Condition Condition
	Rules     []Rule
}

type RAtContainer struct {
	base
	Name      string
	Condition Condition
	Rules     []Rule
}

type RAtScope struct {
	base
	Start *[]ComplexSelector
	End   *[]ComplexSelector
	Rules []Rule
}

// RAtLayerStatement is the statement form: `@layer a, b.c;`
type RAtLayerStatement struct {
	base
	Names []string
}

// RAtLayerBlock is the block form: `@layer name? { ... }`
type RAtLayerBlock struct {
	base
	Name  string // may be empty for an anonymous layer
	Rules []Rule
}

type RAtImport struct {
	base
	URL       string
	Layer     *string // nil = no layer(); "" = bare `layer`; else `layer(name)`
	Supports  *Condition
	Media     []MediaQuery
}

type RAtNamespace struct {
	base
	Prefix string // "" when unprefixed
	URL    string
}

type RAtKeyframes struct {
	base
	VendorPrefix string // "", "-webkit-", "-moz-", "-o-"
	Name         string
	Blocks       []KeyframeBlock
}

type KeyframeBlock struct {
	Loc         logger.Loc
	Selectors   []KeyframeSelector
	Declarations []Declaration
}

type KeyframeSelector struct {
	// Percent is 0..100; "from"/"to" are stored as 0/100 with AuthoredKeyword set.
	Percent          float64
	AuthoredKeyword  string // "from", "to", or "" when authored as a percentage
}

type RAtFontFace struct {
	base
	Declarations []Declaration
}

type RAtFontFeatureValues struct {
	base
	Families []string
	Blocks   []FontFeatureValuesBlock
}

type FontFeatureValuesBlock struct {
	Name         string // e.g. "styleset", "swash"
	Declarations []Declaration
}

type RAtFontPaletteValues struct {
	base
	Name         string
	Declarations []Declaration
}

type RAtCounterStyle struct {
	base
	Name         string
	Declarations []Declaration
}

type RAtPage struct {
	base
	Selector     string // e.g. "", ":first", ":left"
	Declarations []Declaration
	Margins      []RAtPageMargin
}

type RAtPageMargin struct {
	Name         string // e.g. "@top-center"
	Declarations []Declaration
}

type RAtProperty struct {
	base
	Name         string
	Declarations []Declaration
}

type RAtStartingStyle struct {
	base
	Rules []Rule
}

type RAtMozDocument struct {
	base
	Prelude Tokens
	Rules   []Rule
}

type RAtViewTransition struct {
	base
	Declarations []Declaration
}

type RAtViewport struct {
	base
	VendorPrefix string // "" or "-ms-"
	Declarations []Declaration
}

// RAtNest is the historical `@nest` wrapper; CSS Nesting made it unnecessary
// but the grammar still accepts it (§4.6 table).
type RAtNest struct {
	base
	Selectors []ComplexSelector
	Nested    NestedBody
}

type RAtCustomMedia struct {
	base
	Name  string // "--ident"
	Media []MediaQuery
}

// RUnknownAt preserves an at-rule the builder didn't recognize, verbatim
// enough to round-trip: name, prelude tokens, and (if block-form) the block
// tokens with no further interpretation. Per the design notes, an unknown
// block-form at-rule never participates in nesting.
type RUnknownAt struct {
	base
	AtKeyword string
	Prelude   Tokens
	Block     *Tokens // nil for statement-form
}

// RCustom is produced only when a host CustomAtRuleParser claims a rule.
type RCustom struct {
	base
	AtKeyword string
	Data      any
}

type Tokens = []Token

func (*RStyle) isRule()               {}
func (*RAtMedia) isRule()             {}
func (*RAtSupports) isRule()          {}
func (*RAtContainer) isRule()         {}
func (*RAtScope) isRule()             {}
func (*RAtLayerStatement) isRule()    {}
func (*RAtLayerBlock) isRule()        {}
func (*RAtImport) isRule()            {}
func (*RAtNamespace) isRule()         {}
func (*RAtKeyframes) isRule()         {}
func (*RAtFontFace) isRule()          {}
func (*RAtFontFeatureValues) isRule() {}
func (*RAtFontPaletteValues) isRule() {}
func (*RAtCounterStyle) isRule()      {}
func (*RAtPage) isRule()              {}
func (*RAtProperty) isRule()          {}
func (*RAtStartingStyle) isRule()     {}
func (*RAtMozDocument) isRule()       {}
func (*RAtViewTransition) isRule()    {}
func (*RAtViewport) isRule()          {}
func (*RAtNest) isRule()              {}
func (*RAtCustomMedia) isRule()       {}
func (*RUnknownAt) isRule()           {}
func (*RCustom) isRule()              {}

// NestedBody is the mixed sequence of declarations and nested rules a style
// (or @nest) block accumulates per the CSS Nesting grammar in §4.6 step 4.
type NestedBody struct {
	Declarations []Declaration
	Rules        []Rule
}

// Stylesheet is the top-level parse result.
type Stylesheet struct {
	Rules            []Rule
	SourceMappingURL string
	SourceURL        string
	ApproximateLines int32
}
