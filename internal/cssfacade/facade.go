// Package cssfacade is the typed-value facade (C7): given a declaration's
// property name, optional vendor prefix, and its unparsed token run, it
// either upgrades the value to a typed CSSProperty variant or leaves it as
// Core's Unparsed fallback. Per §4.7 the facade itself is only a contract;
// the per-property leaf grammars (color, length-percentage here) are
// collaborators a host registers, the same relationship esbuild's
// css_decls_*.go files have to its central declaration-mangling pass.
package cssfacade

import (
	"strings"

	"github.com/6over3/CSSKit-sub002/internal/cssast"
	"github.com/6over3/CSSKit-sub002/internal/csslexer"
)

// LeafParser attempts to parse toks (the declaration's value tokens, with
// comments/whitespace already collapsed into HasWhitespaceAfter by
// ConvertTokens) as one property's typed grammar. It must consume every
// token to succeed, mirroring the "parser.isExhausted" clause of the
// contract -- there is no partial match.
type LeafParser func(toks cssast.Tokens) (any, bool)

// Registry is a per-property parser table keyed by lowercased name, plus
// which of those properties' types accept a vendor prefix.
type Registry struct {
	leaves       map[string]LeafParser
	allowsPrefix map[string]bool
}

// NewRegistry returns a registry pre-populated with the representative
// leaf grammars this package ships: color and length-percentage. A host
// embedding this library registers additional property grammars the same
// way.
func NewRegistry() *Registry {
	r := &Registry{
		leaves:       map[string]LeafParser{},
		allowsPrefix: map[string]bool{},
	}
	colorProps := []string{"color", "background-color", "border-color", "outline-color",
		"border-top-color", "border-right-color", "border-bottom-color", "border-left-color",
		"text-decoration-color", "caret-color", "column-rule-color"}
	for _, name := range colorProps {
		r.Register(name, false, ParseColorLeaf)
	}
	lengthProps := []string{"width", "height", "min-width", "min-height", "max-width", "max-height",
		"margin", "margin-top", "margin-right", "margin-bottom", "margin-left",
		"padding", "padding-top", "padding-right", "padding-bottom", "padding-left",
		"top", "right", "bottom", "left", "font-size", "line-height", "gap", "row-gap", "column-gap"}
	for _, name := range lengthProps {
		r.Register(name, false, ParseLengthPercentageLeaf)
	}
	return r
}

// Register adds or replaces the leaf grammar for a lowercased property name.
func (r *Registry) Register(name string, allowsPrefix bool, leaf LeafParser) {
	r.leaves[name] = leaf
	r.allowsPrefix[name] = allowsPrefix
}

// Resolve applies the facade contract to an already-parsed Unparsed value:
// wide keywords and `composes` are Core's job and pass through untouched
// (any value whose Kind is not ValueUnparsed is returned as is); a
// var()/env() reference anywhere in the run forces
// .unparsed; otherwise the registered leaf grammar gets one shot at the
// whole token run.
func (r *Registry) Resolve(value cssast.PropertyValue) cssast.PropertyValue {
	if value.Kind != cssast.ValueUnparsed {
		return value
	}
	if containsVarOrEnv(value.Unparsed) {
		return value
	}
	id := value.PropertyID
	leaf, ok := r.leaves[id.Name]
	if !ok {
		return value
	}
	if id.Prefix != "" && !r.allowsPrefix[id.Name] {
		return value
	}
	typed, ok := leaf(value.Unparsed)
	if !ok {
		return value
	}
	return cssast.PropertyValue{Kind: cssast.ValueTyped, Typed: typed, PropertyID: id}
}

// containsVarOrEnv walks the token tree with an explicit stack (mirroring
// cssparser's ConvertTokens) looking for a var()/env() function anywhere,
// including nested inside other functions, per §4.7.
func containsVarOrEnv(toks cssast.Tokens) bool {
	stack := []cssast.Tokens{toks}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		for _, t := range cur {
			if t.Kind == csslexer.TFunction {
				lower := strings.ToLower(t.Text)
				if lower == "var" || lower == "env" {
					return true
				}
			}
			if len(t.Children) > 0 {
				stack = append(stack, t.Children)
			}
		}
	}
	return false
}

// writeTokenDeep is a small recursive token-to-text helper for the leaf
// grammars' CSSText methods. Unlike cssprinter's explicit-stack printTokens,
// the trees here are calc()/function argument lists an author actually
// wrote, not adversarial million-deep input, so ordinary recursion is fine.
func writeTokenDeep(sb *strings.Builder, t cssast.Token) {
	switch t.Kind {
	case csslexer.TFunction:
		sb.WriteString(t.Text)
		sb.WriteByte('(')
		for i, c := range t.Children {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeTokenDeep(sb, c)
		}
		sb.WriteByte(')')
	default:
		sb.WriteString(t.Text)
	}
}
