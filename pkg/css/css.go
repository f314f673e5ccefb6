// Package css is the library's public entry point: parse a stylesheet,
// optionally upgrade its declaration values to typed form via the facade,
// and print it back out. Everything underneath internal/ is wired together
// here the way esbuild's own top-level css_parser.Parse/css_printer.Print
// pair is the thing bundler.go actually calls, rather than callers reaching
// into the subpackages directly.
package css

import (
	"github.com/6over3/CSSKit-sub002/internal/cssast"
	"github.com/6over3/CSSKit-sub002/internal/cssfacade"
	"github.com/6over3/CSSKit-sub002/internal/cssparser"
	"github.com/6over3/CSSKit-sub002/internal/cssprinter"
	"github.com/6over3/CSSKit-sub002/internal/logger"
)

type (
	Stylesheet  = cssast.Stylesheet
	Log         = logger.Log
	Source      = logger.Source
	Msg         = logger.Msg
	PrintOptions = cssprinter.Options
	Registry    = cssfacade.Registry
)

func NewLog() Log { return logger.NewLog() }

// Parse tokenizes and parses source into a Stylesheet, collecting
// recoverable diagnostics on log rather than aborting (C9).
func Parse(log Log, source Source) *Stylesheet {
	ss, _ := cssparser.ParseStylesheet(log, source)
	return ss
}

// NewRegistry returns a typed-value facade registry pre-populated with the
// representative leaf grammars cssfacade ships (color, length-percentage).
func NewRegistry() *Registry { return cssfacade.NewRegistry() }

// ResolveTypedValues walks every declaration reachable from ss and, for
// each one still in unparsed form, gives reg's facade one shot at upgrading
// it to a typed value (§4.7). Declarations the registry has no grammar for,
// or that contain a var()/env() reference, are left unparsed.
func ResolveTypedValues(ss *Stylesheet, reg *Registry) {
	walkRules(ss.Rules, func(d *cssast.Declaration) {
		d.Value = reg.Resolve(d.Value)
	})
}

// Print serializes ss back into CSS text.
func Print(ss *Stylesheet, opts PrintOptions) string {
	return cssprinter.PrintStylesheet(ss, opts)
}

// walkRules visits every declaration in the rule tree, recursing into
// at-rule and nesting bodies. A stylesheet's rule nesting is already
// bounded by cssparser's explicit-stack block parser (§9); this walk only
// ever runs over that already-finite tree, so ordinary recursion here adds
// no new unbounded-depth risk.
func walkRules(rules []cssast.Rule, visit func(*cssast.Declaration)) {
	for _, rule := range rules {
		switch r := rule.(type) {
		case *cssast.RStyle:
			walkDecls(r.Nested.Declarations, visit)
			walkRules(r.Nested.Rules, visit)
		case *cssast.RAtNest:
			walkDecls(r.Nested.Declarations, visit)
			walkRules(r.Nested.Rules, visit)
		case *cssast.RAtMedia:
			walkRules(r.Rules, visit)
		case *cssast.RAtSupports:
			walkRules(r.Rules, visit)
		case *cssast.RAtContainer:
			walkRules(r.Rules, visit)
		case *cssast.RAtScope:
			walkRules(r.Rules, visit)
		case *cssast.RAtLayerBlock:
			walkRules(r.Rules, visit)
		case *cssast.RAtStartingStyle:
			walkRules(r.Rules, visit)
		case *cssast.RAtMozDocument:
			walkRules(r.Rules, visit)
		case *cssast.RAtKeyframes:
			for i := range r.Blocks {
				walkDecls(r.Blocks[i].Declarations, visit)
			}
		case *cssast.RAtFontFace:
			walkDecls(r.Declarations, visit)
		case *cssast.RAtFontFeatureValues:
			for i := range r.Blocks {
				walkDecls(r.Blocks[i].Declarations, visit)
			}
		case *cssast.RAtFontPaletteValues:
			walkDecls(r.Declarations, visit)
		case *cssast.RAtCounterStyle:
			walkDecls(r.Declarations, visit)
		case *cssast.RAtPage:
			walkDecls(r.Declarations, visit)
			for i := range r.Margins {
				walkDecls(r.Margins[i].Declarations, visit)
			}
		case *cssast.RAtProperty:
			walkDecls(r.Declarations, visit)
		case *cssast.RAtViewTransition:
			walkDecls(r.Declarations, visit)
		case *cssast.RAtViewport:
			walkDecls(r.Declarations, visit)
		}
	}
}

func walkDecls(decls []cssast.Declaration, visit func(*cssast.Declaration)) {
	for i := range decls {
		visit(&decls[i])
	}
}
