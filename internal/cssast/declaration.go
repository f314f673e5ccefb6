package cssast

import "github.com/6over3/CSSKit-sub002/internal/logger"

// CSSWideKeyword is valid as the entire value of any property.
type CSSWideKeyword uint8

const (
	WideKeywordNone CSSWideKeyword = iota
	WideKeywordInitial
	WideKeywordInherit
	WideKeywordUnset
	WideKeywordRevert
	WideKeywordRevertLayer
)

func (k CSSWideKeyword) String() string {
	switch k {
	case WideKeywordInitial:
		return "initial"
	case WideKeywordInherit:
		return "inherit"
	case WideKeywordUnset:
		return "unset"
	case WideKeywordRevert:
		return "revert"
	case WideKeywordRevertLayer:
		return "revert-layer"
	default:
		return ""
	}
}

func ParseCSSWideKeyword(s string) (CSSWideKeyword, bool) {
	switch s {
	case "initial":
		return WideKeywordInitial, true
	case "inherit":
		return WideKeywordInherit, true
	case "unset":
		return WideKeywordUnset, true
	case "revert":
		return WideKeywordRevert, true
	case "revert-layer":
		return WideKeywordRevertLayer, true
	}
	return WideKeywordNone, false
}

// PropertyID identifies a (possibly vendor-prefixed) CSS property by its
// lower-cased name, used both to key the typed-value facade's per-property
// table and to tag values that fell back to unparsed/wide-keyword form.
type PropertyID struct {
	Name   string // lower-cased, without vendor prefix
	Prefix string // "", "-webkit-", "-moz-", "-ms-", "-o-"
}

// PropertyValueKind discriminates the Declaration.Value sum described in §3:
// a typed value, a raw unparsed token run, a CSS-wide keyword, or a
// `composes` value (CSS Modules extension carried by the teacher).
type PropertyValueKind uint8

const (
	ValueUnparsed PropertyValueKind = iota
	ValueWideKeyword
	ValueTyped
	ValueComposes
)

// PropertyValue is the Declaration value sum. Exactly one of the fields
// matching Kind is meaningful. Typed values are produced by the facade in
// cssfacade; Core does not interpret them beyond storing the opaque Typed
// payload (see §4.7 and the facade package doc for the contract).
type PropertyValue struct {
	Kind       PropertyValueKind
	Unparsed   Tokens
	WideKeyword CSSWideKeyword
	Typed      any
	Composes   *ComposesValue
	PropertyID PropertyID
}

type ComposesValue struct {
	Names []string
	From  ComposesFrom
}

type ComposesFromKind uint8

const (
	ComposesFromLocal ComposesFromKind = iota
	ComposesFromGlobal
	ComposesFromFile
)

type ComposesFrom struct {
	Kind ComposesFromKind
	Path string // only meaningful for ComposesFromFile
}

type Declaration struct {
	KeyText   string // property name exactly as written
	Value     PropertyValue
	Important bool
	KeyRange  logger.Range
	Loc       logger.Loc
}
