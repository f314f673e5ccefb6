// Package cssprinter is the serializer (C8): canonical re-emission of a
// parsed Stylesheet, its selectors, conditions, calc trees and retained
// tokens back into CSS text. It follows the shape of esbuild's
// internal/css_printer package (an append-only byte sink walked rule by
// rule with an explicit indent) but targets the richer AST this design
// produces rather than esbuild's raw-token-plus-overlay tree, and restores
// the structured calc()/selector/condition printing esbuild never needed.
package cssprinter

import (
	"strconv"
	"strings"

	"github.com/6over3/CSSKit-sub002/internal/cssast"
)

type Options struct {
	Indent string // per nesting level; "" prints the minified single-line form
}

type printer struct {
	sb   strings.Builder
	opts Options
}

// PrintStylesheet is the package's entry point.
func PrintStylesheet(ss *cssast.Stylesheet, opts Options) string {
	p := &printer{opts: opts}
	p.printRuleList(ss.Rules, 0)
	return p.sb.String()
}

func (p *printer) newline(indent int) {
	if p.opts.Indent == "" {
		return
	}
	p.sb.WriteByte('\n')
	for i := 0; i < indent; i++ {
		p.sb.WriteString(p.opts.Indent)
	}
}

func (p *printer) space() {
	if p.opts.Indent != "" {
		p.sb.WriteByte(' ')
	}
}

// ruleFrame is one level of a rule-list traversal. Rule lists nest through
// at-rule bodies and through CSS Nesting bodies; printing them with an
// explicit stack instead of recursive printRule calls means a pathological
// stylesheet with a million levels of "@media screen{@media screen{...}}"
// serializes in bounded call-stack depth, mirroring the parser's own
// explicit-stack handling of unbounded block nesting (§9).
type ruleFrame struct {
	rules  []cssast.Rule
	i      int
	indent int
}

func (p *printer) printRuleList(rules []cssast.Rule, indent int) {
	stack := []*ruleFrame{{rules: rules, indent: indent}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.i >= len(top.rules) {
			if len(stack) > 1 {
				p.closeBrace(top.indent - 1)
			}
			stack = stack[:len(stack)-1]
			continue
		}
		rule := top.rules[top.i]
		top.i++
		if children, ok := p.printRuleHead(rule, top.indent); ok {
			stack = append(stack, &ruleFrame{rules: children, indent: top.indent + 1})
		}
	}
}

// printRuleHead prints everything about a rule up to (and including) the
// opening "{" of its body, if any, and returns the child rule list still to
// be printed (so the caller can push it onto the explicit stack) along with
// whether a body was opened at all. Leaf rules (declarations-only, or
// statement-form at-rules) print their whole body here and return ok=false.
func (p *printer) printRuleHead(rule cssast.Rule, indent int) ([]cssast.Rule, bool) {
	switch r := rule.(type) {
	case *cssast.RStyle:
		p.printIndent(indent)
		p.printSelectorList(r.Selectors)
		p.openBrace()
		p.printNestedBody(r.Nested, indent+1)
		p.closeBrace(indent)
		return nil, false

	case *cssast.RAtNest:
		p.printIndent(indent)
		p.sb.WriteString("@nest ")
		p.printSelectorList(r.Selectors)
		p.openBrace()
		p.printNestedBody(r.Nested, indent+1)
		p.closeBrace(indent)
		return nil, false

	case *cssast.RAtMedia:
		p.printIndent(indent)
		p.sb.WriteString("@media ")
		p.printMediaQueryList(r.Queries)
		p.openBrace()
		return r.Rules, len(r.Rules) > 0 || true

	case *cssast.RAtSupports:
		p.printIndent(indent)
		p.sb.WriteString("@supports ")
		p.printCondition(r.Condition)
		p.openBrace()
		return r.Rules, true

	case *cssast.RAtContainer:
		p.printIndent(indent)
		p.sb.WriteString("@container ")
		if r.Name != "" {
			p.sb.WriteString(r.Name)
			p.sb.WriteByte(' ')
		}
		p.printCondition(r.Condition)
		p.openBrace()
		return r.Rules, true

	case *cssast.RAtScope:
		p.printIndent(indent)
		p.sb.WriteString("@scope")
		if r.Start != nil {
			p.sb.WriteString(" (")
			p.printSelectorList(*r.Start)
			p.sb.WriteByte(')')
		}
		if r.End != nil {
			p.sb.WriteString(" to (")
			p.printSelectorList(*r.End)
			p.sb.WriteByte(')')
		}
		p.openBrace()
		return r.Rules, true

	case *cssast.RAtLayerStatement:
		p.printIndent(indent)
		p.sb.WriteString("@layer ")
		p.sb.WriteString(strings.Join(r.Names, ", "))
		p.sb.WriteByte(';')
		return nil, false

	case *cssast.RAtLayerBlock:
		p.printIndent(indent)
		p.sb.WriteString("@layer")
		if r.Name != "" {
			p.sb.WriteByte(' ')
			p.sb.WriteString(r.Name)
		}
		p.openBrace()
		return r.Rules, true

	case *cssast.RAtImport:
		p.printIndent(indent)
		p.sb.WriteString("@import ")
		p.printQuotedString(r.URL)
		if r.Layer != nil {
			if *r.Layer == "" {
				p.sb.WriteString(" layer")
			} else {
				p.sb.WriteString(" layer(")
				p.sb.WriteString(*r.Layer)
				p.sb.WriteByte(')')
			}
		}
		if r.Supports != nil {
			p.sb.WriteString(" supports(")
			// A bare declaration (the common "supports(display: grid)" form)
			// parses without an extra paren layer around it; match that on
			// the way back out instead of going through printCondition's
			// self-parenthesizing CondDeclarationProbe case.
			if r.Supports.Kind == cssast.CondDeclarationProbe {
				p.printDeclaration(*r.Supports.DeclarationProbe)
			} else {
				p.printCondition(*r.Supports)
			}
			p.sb.WriteByte(')')
		}
		if len(r.Media) > 0 {
			p.sb.WriteByte(' ')
			p.printMediaQueryList(r.Media)
		}
		p.sb.WriteByte(';')
		return nil, false

	case *cssast.RAtNamespace:
		p.printIndent(indent)
		p.sb.WriteString("@namespace ")
		if r.Prefix != "" {
			p.sb.WriteString(r.Prefix)
			p.sb.WriteByte(' ')
		}
		p.printQuotedString(r.URL)
		p.sb.WriteByte(';')
		return nil, false

	case *cssast.RAtKeyframes:
		p.printIndent(indent)
		p.sb.WriteByte('@')
		p.sb.WriteString(r.VendorPrefix)
		p.sb.WriteString("keyframes ")
		p.sb.WriteString(r.Name)
		p.openBrace()
		for _, block := range r.Blocks {
			p.printIndent(indent + 1)
			for i, sel := range block.Selectors {
				if i > 0 {
					p.sb.WriteString(", ")
				}
				if sel.AuthoredKeyword != "" {
					p.sb.WriteString(sel.AuthoredKeyword)
				} else {
					p.sb.WriteString(formatNumber(sel.Percent))
					p.sb.WriteByte('%')
				}
			}
			p.openBrace()
			p.printDeclarations(block.Declarations, indent+2)
			p.closeBrace(indent + 1)
		}
		p.closeBrace(indent)
		return nil, false

	case *cssast.RAtFontFace:
		p.printIndent(indent)
		p.sb.WriteString("@font-face")
		p.openBrace()
		p.printDeclarations(r.Declarations, indent+1)
		p.closeBrace(indent)
		return nil, false

	case *cssast.RAtFontFeatureValues:
		p.printIndent(indent)
		p.sb.WriteString("@font-feature-values ")
		p.sb.WriteString(strings.Join(r.Families, ", "))
		p.openBrace()
		for _, block := range r.Blocks {
			p.printIndent(indent + 1)
			p.sb.WriteByte('@')
			p.sb.WriteString(block.Name)
			p.openBrace()
			p.printDeclarations(block.Declarations, indent+2)
			p.closeBrace(indent + 1)
		}
		p.closeBrace(indent)
		return nil, false

	case *cssast.RAtFontPaletteValues:
		p.printIndent(indent)
		p.sb.WriteString("@font-palette-values ")
		p.sb.WriteString(r.Name)
		p.openBrace()
		p.printDeclarations(r.Declarations, indent+1)
		p.closeBrace(indent)
		return nil, false

	case *cssast.RAtCounterStyle:
		p.printIndent(indent)
		p.sb.WriteString("@counter-style ")
		p.sb.WriteString(r.Name)
		p.openBrace()
		p.printDeclarations(r.Declarations, indent+1)
		p.closeBrace(indent)
		return nil, false

	case *cssast.RAtPage:
		p.printIndent(indent)
		p.sb.WriteString("@page")
		if r.Selector != "" {
			p.sb.WriteByte(' ')
			p.sb.WriteString(r.Selector)
		}
		p.openBrace()
		p.printDeclarations(r.Declarations, indent+1)
		for _, m := range r.Margins {
			p.printIndent(indent + 1)
			p.sb.WriteByte('@')
			p.sb.WriteString(m.Name)
			p.openBrace()
			p.printDeclarations(m.Declarations, indent+2)
			p.closeBrace(indent + 1)
		}
		p.closeBrace(indent)
		return nil, false

	case *cssast.RAtProperty:
		p.printIndent(indent)
		p.sb.WriteString("@property ")
		p.sb.WriteString(r.Name)
		p.openBrace()
		p.printDeclarations(r.Declarations, indent+1)
		p.closeBrace(indent)
		return nil, false

	case *cssast.RAtStartingStyle:
		p.printIndent(indent)
		p.sb.WriteString("@starting-style")
		p.openBrace()
		return r.Rules, true

	case *cssast.RAtMozDocument:
		p.printIndent(indent)
		p.sb.WriteString("@-moz-document")
		if len(r.Prelude) > 0 {
			p.sb.WriteByte(' ')
			p.printTokens(r.Prelude)
		}
		p.openBrace()
		return r.Rules, true

	case *cssast.RAtViewTransition:
		p.printIndent(indent)
		p.sb.WriteString("@view-transition")
		p.openBrace()
		p.printDeclarations(r.Declarations, indent+1)
		p.closeBrace(indent)
		return nil, false

	case *cssast.RAtViewport:
		p.printIndent(indent)
		p.sb.WriteByte('@')
		p.sb.WriteString(r.VendorPrefix)
		p.sb.WriteString("viewport")
		p.openBrace()
		p.printDeclarations(r.Declarations, indent+1)
		p.closeBrace(indent)
		return nil, false

	case *cssast.RAtCustomMedia:
		p.printIndent(indent)
		p.sb.WriteString("@custom-media ")
		p.sb.WriteString(r.Name)
		p.sb.WriteByte(' ')
		p.printMediaQueryList(r.Media)
		p.sb.WriteByte(';')
		return nil, false

	case *cssast.RUnknownAt:
		p.printIndent(indent)
		if r.AtKeyword != "" {
			p.sb.WriteByte('@')
			p.sb.WriteString(r.AtKeyword)
			if len(r.Prelude) > 0 {
				p.sb.WriteByte(' ')
				p.printTokens(r.Prelude)
			}
		}
		if r.Block != nil {
			p.openBrace()
			p.printTokens(*r.Block)
			p.closeBrace(indent)
		} else {
			p.sb.WriteByte(';')
		}
		return nil, false

	case *cssast.RCustom:
		p.printIndent(indent)
		p.sb.WriteByte('@')
		p.sb.WriteString(r.AtKeyword)
		p.sb.WriteByte(';')
		return nil, false
	}
	return nil, false
}

func (p *printer) printIndent(indent int) {
	if p.opts.Indent == "" {
		return
	}
	if p.sb.Len() > 0 {
		p.sb.WriteByte('\n')
	}
	for i := 0; i < indent; i++ {
		p.sb.WriteString(p.opts.Indent)
	}
}

func (p *printer) openBrace() {
	p.space()
	p.sb.WriteByte('{')
}

func (p *printer) closeBrace(indent int) {
	if p.opts.Indent != "" {
		p.sb.WriteByte('\n')
		for i := 0; i < indent; i++ {
			p.sb.WriteString(p.opts.Indent)
		}
	}
	p.sb.WriteByte('}')
}

// printNestedBody prints a CSS-Nesting style body's declarations then its
// nested rules, each nested rule's own children handled by pushing onto the
// caller's stack via printRuleList rather than recursing here.
func (p *printer) printNestedBody(body cssast.NestedBody, indent int) {
	p.printDeclarations(body.Declarations, indent)
	if len(body.Rules) > 0 {
		p.printRuleList(body.Rules, indent)
	}
}

func (p *printer) printDeclarations(decls []cssast.Declaration, indent int) {
	for _, d := range decls {
		p.printIndent(indent)
		p.printDeclaration(d)
		p.sb.WriteByte(';')
	}
}

func (p *printer) printDeclaration(d cssast.Declaration) {
	p.sb.WriteString(d.KeyText)
	p.sb.WriteByte(':')
	p.space()
	switch d.Value.Kind {
	case cssast.ValueWideKeyword:
		p.sb.WriteString(d.Value.WideKeyword.String())
	case cssast.ValueComposes:
		c := d.Value.Composes
		p.sb.WriteString(strings.Join(c.Names, " "))
		switch c.From.Kind {
		case cssast.ComposesFromGlobal:
			p.sb.WriteString(" from global")
		case cssast.ComposesFromFile:
			p.sb.WriteString(" from ")
			p.printQuotedString(c.From.Path)
		}
	case cssast.ValueTyped:
		if s, ok := d.Value.Typed.(interface{ CSSText() string }); ok {
			p.sb.WriteString(s.CSSText())
		}
	default:
		p.printTokens(d.Value.Unparsed)
	}
	if d.Important {
		p.sb.WriteString(" !important")
	}
}

func (p *printer) printQuotedString(s string) {
	p.sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			p.sb.WriteByte('\\')
			p.sb.WriteRune(r)
		case '\n':
			p.sb.WriteString("\\a ")
		default:
			p.sb.WriteRune(r)
		}
	}
	p.sb.WriteByte('"')
}

func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s
}
