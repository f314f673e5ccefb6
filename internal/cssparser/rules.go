package cssparser

import (
	"strings"

	"github.com/6over3/CSSKit-sub002/internal/cssast"
	"github.com/6over3/CSSKit-sub002/internal/csslexer"
	"github.com/6over3/CSSKit-sub002/internal/logger"
)

// ParseStylesheet drives the top-level rule list (§4.6), the entry point
// for the whole package, generalizing esbuild's Parse/parseListOfRules to
// the full at-rule classification table this design calls for instead of
// esbuild's bundler-focused subset.
func ParseStylesheet(log logger.Log, source logger.Source) (*cssast.Stylesheet, *Parser) {
	p := NewParser(log, source)
	rules := p.parseRuleList()
	return &cssast.Stylesheet{Rules: rules}, p
}

// ruleFrame is one entry in the explicit work-stack parseRuleList drives in
// place of recursive descent: one frame per open rule-list or nested style
// body, so a stylesheet with @media/@supports/@container/@layer or style
// rules nested arbitrarily deep inside each other advances the cursor in
// constant Go call-stack depth (§9), the same scheme ConvertTokens (in
// tokentree.go) and cssprinter's printRuleList use for the same reason.
//
// A frame with isNested == false accumulates a plain rule list (top level,
// or the body of a block-form at-rule). A frame with isNested == true
// accumulates the mixed declarations-and-rules body CSS Nesting allows
// inside a style rule or "@nest". assemble is nil for the root (top-level)
// frame and for frames whose rule has already been delivered to its parent
// before the block was even entered; otherwise it is called once, when the
// frame's closing "}" (or EOF) is reached, to build the finished Rule from
// whatever children were accumulated while the frame was open.
type ruleFrame struct {
	savedEnd int // enclosing-scope end to restore on close; -1 for the root
	isNested bool
	rules    []cssast.Rule
	body     cssast.NestedBody
	assemble func(rules []cssast.Rule, body cssast.NestedBody) cssast.Rule
}

// appendRule delivers a finished Rule into whichever accumulator the
// current top-of-stack frame uses.
func appendRule(stack *[]*ruleFrame, rule cssast.Rule) {
	s := *stack
	top := s[len(s)-1]
	if top.isNested {
		top.body.Rules = append(top.body.Rules, rule)
	} else {
		top.rules = append(top.rules, rule)
	}
}

// closeRuleFrame pops the top frame, restores the parser's scope, and (if
// the frame has anything to assemble) delivers the finished rule to what is
// now the new top of stack.
func (p *Parser) closeRuleFrame(stack *[]*ruleFrame) {
	s := *stack
	n := len(s) - 1
	top := s[n]
	s = s[:n]
	*stack = s
	if top.savedEnd >= 0 {
		p.FinishNestedBlock(top.savedEnd)
	}
	if top.assemble == nil || len(s) == 0 {
		return
	}
	if rule := top.assemble(top.rules, top.body); rule != nil {
		appendRule(stack, rule)
	}
}

// parseRuleList drives the top-level stylesheet grammar (§4.6) with an
// explicit stack instead of mutual recursion through at-rule and nested
// style-rule bodies.
func (p *Parser) parseRuleList() []cssast.Rule {
	root := &ruleFrame{savedEnd: -1}
	stack := []*ruleFrame{root}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		switch p.at(p.index).Kind {
		case csslexer.TEndOfFile:
			p.closeRuleFrame(&stack)
			continue

		case csslexer.TWhitespace, csslexer.TComment:
			p.index++
			continue

		case csslexer.TCloseBrace:
			if top.savedEnd >= 0 {
				p.closeRuleFrame(&stack)
				continue
			}
			// A stray "}" at the true top level falls through and is
			// handled as the start of a malformed qualified rule, matching
			// the original top-level tolerance.

		case csslexer.TCDO, csslexer.TCDC:
			if top.savedEnd < 0 {
				p.index++
				continue
			}
			// Inside any nested scope "<!--"/"-->" have no special meaning
			// and fall through to be parsed as a rule/declaration start.

		case csslexer.TSemicolon:
			if top.isNested {
				p.index++
				continue
			}
			// A plain rule-list frame has no semicolon case (matching the
			// original parseRuleList): a stray ";" falls through to the
			// qualified-rule dispatch below and is swallowed by its
			// recovery path.

		case csslexer.TAtKeyword:
			p.dispatchAtRuleInto(&stack)
			continue
		}

		if top.isNested && p.looksLikeDeclarationStart() {
			if d, ok := p.ParseDeclaration(); ok {
				top.body.Declarations = append(top.body.Declarations, d)
			}
			p.Eat(csslexer.TWhitespace)
			p.Eat(csslexer.TSemicolon)
			continue
		}

		p.dispatchQualifiedOrStyleRuleInto(&stack)
	}

	return root.rules
}

// looksLikeDeclarationStart reports whether the upcoming tokens are
// "<ident> <whitespace>? ':'", the shape that disambiguates a declaration
// from a nested style rule's selector under CSS Nesting.
func (p *Parser) looksLikeDeclarationStart() bool {
	save := p.State()
	defer p.Reset(save)
	if p.Peek().Kind != csslexer.TIdent {
		return false
	}
	p.Next()
	p.Eat(csslexer.TWhitespace)
	return p.Is(csslexer.TColon)
}

// dispatchQualifiedOrStyleRuleInto parses one qualified (style) rule
// starting at the cursor. On success it pushes a nested-body frame for the
// rule's "{...}" contents instead of recursing into them directly; on
// selector-parse failure it recovers by discarding up to and including the
// malformed block (also via a pushed, discard-only frame) rather than by
// recursing into a throwaway rule list, and leaves an empty RUnknownAt
// placeholder (no at-keyword, no block) in the rule's place.
func (p *Parser) dispatchQualifiedOrStyleRuleInto(stack *[]*ruleFrame) {
	loc := p.at(p.index).Range.Loc
	list, ok := p.ParseSelectorList()
	if !ok {
		for !p.IsExhausted() && p.Peek().Kind != csslexer.TOpenBrace {
			p.ParseComponentValue()
		}
		if p.Peek().Kind == csslexer.TOpenBrace {
			if savedEnd, ok := p.EnterNestedBlock(); ok {
				*stack = append(*stack, &ruleFrame{
					savedEnd: savedEnd,
					assemble: func(_ []cssast.Rule, _ cssast.NestedBody) cssast.Rule {
						return &cssast.RUnknownAt{base: base{loc}, AtKeyword: ""}
					},
				})
				return
			}
		}
		appendRule(stack, &cssast.RUnknownAt{base: base{loc}, AtKeyword: ""})
		return
	}

	savedEnd, ok := p.EnterNestedBlock()
	if !ok {
		p.Expect(csslexer.TOpenBrace)
		appendRule(stack, &cssast.RStyle{base: base{loc}, Selectors: list})
		return
	}
	*stack = append(*stack, &ruleFrame{
		savedEnd: savedEnd,
		isNested: true,
		assemble: func(_ []cssast.Rule, body cssast.NestedBody) cssast.Rule {
			return &cssast.RStyle{base: base{loc}, Selectors: list, Nested: body}
		},
	})
}

// dispatchAtRuleInto classifies one at-rule starting at the cursor. Leaf
// (non-block, or declarations-only/keyframe-only) at-rules are fully parsed
// and delivered immediately, since their own body grammars are self
// contained and do not recurse back through the rule-list/style-body cycle.
// At-rules whose body is itself a rule list or a nested style body (media,
// supports, container, scope, layer blocks, starting-style, -moz-document,
// nest) instead push a frame recording everything needed to assemble the
// final Rule once that body's children have been collected, so arbitrarily
// deep nesting of these never grows the Go call stack.
func (p *Parser) dispatchAtRuleInto(stack *[]*ruleFrame) {
	atTok := p.at(p.index)
	loc := atTok.Range.Loc
	name := strings.ToLower(p.DecodedText(atTok))
	p.index++
	p.Eat(csslexer.TWhitespace)

	pushRuleList := func(savedEnd int, assemble func(rules []cssast.Rule) cssast.Rule) {
		*stack = append(*stack, &ruleFrame{
			savedEnd: savedEnd,
			assemble: func(rules []cssast.Rule, _ cssast.NestedBody) cssast.Rule { return assemble(rules) },
		})
	}
	pushNested := func(savedEnd int, assemble func(body cssast.NestedBody) cssast.Rule) {
		*stack = append(*stack, &ruleFrame{
			savedEnd: savedEnd,
			isNested: true,
			assemble: func(_ []cssast.Rule, body cssast.NestedBody) cssast.Rule { return assemble(body) },
		})
	}

	switch name {
	case "media":
		queries := p.ParseMediaQueryList(func(k csslexer.T) bool { return k == csslexer.TOpenBrace })
		savedEnd, ok := p.EnterNestedBlock()
		if !ok {
			p.Expect(csslexer.TOpenBrace)
			appendRule(stack, &cssast.RAtMedia{base: base{loc}, Queries: queries})
			return
		}
		pushRuleList(savedEnd, func(rules []cssast.Rule) cssast.Rule {
			return &cssast.RAtMedia{base: base{loc}, Queries: queries, Rules: rules}
		})
		return

	case "supports":
		cond, ok := p.ParseCondition(ModeSupports)
		if !ok {
			appendRule(stack, p.unknownAtRule(loc, name))
			return
		}
		savedEnd, ok := p.EnterNestedBlock()
		if !ok {
			p.Expect(csslexer.TOpenBrace)
			appendRule(stack, &cssast.RAtSupports{base: base{loc}, Condition: cond})
			return
		}
		pushRuleList(savedEnd, func(rules []cssast.Rule) cssast.Rule {
			return &cssast.RAtSupports{base: base{loc}, Condition: cond, Rules: rules}
		})
		return

	case "container":
		containerName := ""
		if p.Peek().Kind == csslexer.TIdent {
			tok := p.Peek()
			if strings.ToLower(p.DecodedText(tok)) != "not" {
				containerName = p.DecodedText(tok)
				p.Next()
				p.Eat(csslexer.TWhitespace)
			}
		}
		cond, ok := p.ParseCondition(ModeContainer)
		if !ok {
			appendRule(stack, p.unknownAtRule(loc, name))
			return
		}
		savedEnd, ok := p.EnterNestedBlock()
		if !ok {
			p.Expect(csslexer.TOpenBrace)
			appendRule(stack, &cssast.RAtContainer{base: base{loc}, Name: containerName, Condition: cond})
			return
		}
		pushRuleList(savedEnd, func(rules []cssast.Rule) cssast.Rule {
			return &cssast.RAtContainer{base: base{loc}, Name: containerName, Condition: cond, Rules: rules}
		})
		return

	case "scope":
		var start, end *[]cssast.ComplexSelector
		if p.Peek().Kind == csslexer.TOpenParen {
			savedEnd, ok := p.EnterNestedBlock()
			if ok {
				list, _ := p.ParseSelectorList()
				start = &list
				p.FinishNestedBlock(savedEnd)
				p.Eat(csslexer.TWhitespace)
			}
		}
		if p.Peek().Kind == csslexer.TIdent && strings.EqualFold(p.DecodedText(p.Peek()), "to") {
			p.Next()
			p.Eat(csslexer.TWhitespace)
			if p.Peek().Kind == csslexer.TOpenParen {
				savedEnd, ok := p.EnterNestedBlock()
				if ok {
					list, _ := p.ParseSelectorList()
					end = &list
					p.FinishNestedBlock(savedEnd)
					p.Eat(csslexer.TWhitespace)
				}
			}
		}
		savedEnd, ok := p.EnterNestedBlock()
		if !ok {
			p.Expect(csslexer.TOpenBrace)
			appendRule(stack, &cssast.RAtScope{base: base{loc}, Start: start, End: end})
			return
		}
		pushRuleList(savedEnd, func(rules []cssast.Rule) cssast.Rule {
			return &cssast.RAtScope{base: base{loc}, Start: start, End: end, Rules: rules}
		})
		return

	case "layer":
		save := p.State()
		isStatement := false
		for !p.IsExhausted() {
			switch p.Peek().Kind {
			case csslexer.TSemicolon:
				isStatement = true
			case csslexer.TOpenBrace:
			default:
				p.ParseComponentValue()
				continue
			}
			break
		}
		if isStatement {
			names := splitLayerNames(p, save)
			p.Eat(csslexer.TSemicolon)
			appendRule(stack, &cssast.RAtLayerStatement{base: base{loc}, Names: names})
			return
		}
		p.Reset(save)
		var layerName string
		if p.Peek().Kind == csslexer.TIdent {
			tok := p.Peek()
			layerName = p.DecodedText(tok)
			p.Next()
			p.Eat(csslexer.TWhitespace)
		}
		savedEnd, ok := p.EnterNestedBlock()
		if !ok {
			p.Expect(csslexer.TOpenBrace)
			appendRule(stack, &cssast.RAtLayerBlock{base: base{loc}, Name: layerName})
			return
		}
		pushRuleList(savedEnd, func(rules []cssast.Rule) cssast.Rule {
			return &cssast.RAtLayerBlock{base: base{loc}, Name: layerName, Rules: rules}
		})
		return

	case "import":
		url, ok := p.expectURLOrString()
		if !ok {
			appendRule(stack, p.unknownAtRule(loc, name))
			return
		}
		var layer *string
		var supports *cssast.Condition
		p.Eat(csslexer.TWhitespace)
		if p.Peek().Kind == csslexer.TIdent && strings.EqualFold(p.DecodedText(p.Peek()), "layer") {
			p.Next()
			empty := ""
			layer = &empty
			p.Eat(csslexer.TWhitespace)
		} else if p.Peek().Kind == csslexer.TFunction && strings.EqualFold(p.DecodedText(p.Peek()), "layer") {
			fnTok := p.Peek()
			p.Next()
			savedEnd, _ := p.enterAlreadyOpenedBlock(fnTok)
			n, _ := p.expectIdentText()
			layer = &n
			p.FinishNestedBlock(savedEnd)
			p.Eat(csslexer.TWhitespace)
		}
		if p.Peek().Kind == csslexer.TFunction && strings.EqualFold(p.DecodedText(p.Peek()), "supports") {
			fnTok := p.Peek()
			p.Next()
			savedEnd, _ := p.enterAlreadyOpenedBlock(fnTok)
			p.Eat(csslexer.TWhitespace)
			// @import's supports() argument is either a bare <declaration>
			// (no extra parens, the common case: supports(display: grid))
			// or a full <supports-condition>, which supplies its own parens
			// around every leaf -- unlike the @supports at-rule's prelude,
			// which IS a <supports-condition> from the start.
			var cond cssast.Condition
			var ok bool
			if p.looksLikeDeclarationStart() {
				var decl cssast.Declaration
				decl, ok = p.ParseDeclaration()
				if ok {
					cond = cssast.Condition{Kind: cssast.CondDeclarationProbe, Loc: decl.Loc, DeclarationProbe: &decl}
				}
			} else {
				cond, ok = p.ParseCondition(ModeSupports)
			}
			p.FinishNestedBlock(savedEnd)
			if ok {
				supports = &cond
			}
			p.Eat(csslexer.TWhitespace)
		}
		media := p.ParseMediaQueryList(func(k csslexer.T) bool { return k == csslexer.TSemicolon })
		p.Eat(csslexer.TSemicolon)
		appendRule(stack, &cssast.RAtImport{base: base{loc}, URL: url, Layer: layer, Supports: supports, Media: media})
		return

	case "namespace":
		prefix := ""
		if p.Peek().Kind == csslexer.TIdent {
			tok := p.Peek()
			prefix = p.DecodedText(tok)
			p.Next()
			p.Eat(csslexer.TWhitespace)
		}
		url, _ := p.expectURLOrString()
		p.Eat(csslexer.TSemicolon)
		appendRule(stack, &cssast.RAtNamespace{base: base{loc}, Prefix: prefix, URL: url})
		return

	case "keyframes", "-webkit-keyframes", "-moz-keyframes", "-ms-keyframes", "-o-keyframes":
		prefix := ""
		if name != "keyframes" {
			prefix = name[:len(name)-len("keyframes")]
		}
		kfName := ""
		if p.Peek().Kind == csslexer.TIdent {
			tok := p.Peek()
			kfName = p.DecodedText(tok)
			p.Next()
		}
		p.Eat(csslexer.TWhitespace)
		blocks := p.parseKeyframeBlocks()
		appendRule(stack, &cssast.RAtKeyframes{base: base{loc}, VendorPrefix: prefix, Name: kfName, Blocks: blocks})
		return

	case "font-face":
		decls := p.parseBracedDeclarationsOnly()
		appendRule(stack, &cssast.RAtFontFace{base: base{loc}, Declarations: decls})
		return

	case "font-feature-values":
		var families []string
		for p.Peek().Kind == csslexer.TIdent {
			tok := p.Peek()
			families = append(families, p.DecodedText(tok))
			p.Next()
			p.Eat(csslexer.TWhitespace)
			if !p.Eat(csslexer.TComma) {
				break
			}
			p.Eat(csslexer.TWhitespace)
		}
		var blocks []cssast.FontFeatureValuesBlock
		savedEnd, ok := p.EnterNestedBlock()
		if ok {
			for !p.IsExhausted() {
				p.Eat(csslexer.TWhitespace)
				if p.IsExhausted() {
					break
				}
				if p.Peek().Kind == csslexer.TAtKeyword {
					tok := p.Peek()
					blockName := strings.ToLower(p.DecodedText(tok))
					p.Next()
					p.Eat(csslexer.TWhitespace)
					decls := p.parseBracedDeclarationsOnly()
					blocks = append(blocks, cssast.FontFeatureValuesBlock{Name: blockName, Declarations: decls})
				} else {
					p.ParseComponentValue()
				}
			}
			p.FinishNestedBlock(savedEnd)
		}
		appendRule(stack, &cssast.RAtFontFeatureValues{base: base{loc}, Families: families, Blocks: blocks})
		return

	case "font-palette-values":
		fpName := ""
		if p.Peek().Kind == csslexer.THashID || p.Peek().Kind == csslexer.TIdent {
			tok := p.Peek()
			fpName = p.DecodedText(tok)
			p.Next()
		}
		p.Eat(csslexer.TWhitespace)
		decls := p.parseBracedDeclarationsOnly()
		appendRule(stack, &cssast.RAtFontPaletteValues{base: base{loc}, Name: fpName, Declarations: decls})
		return

	case "counter-style":
		csName := ""
		if p.Peek().Kind == csslexer.TIdent {
			tok := p.Peek()
			csName = p.DecodedText(tok)
			p.Next()
		}
		p.Eat(csslexer.TWhitespace)
		decls := p.parseBracedDeclarationsOnly()
		appendRule(stack, &cssast.RAtCounterStyle{base: base{loc}, Name: csName, Declarations: decls})
		return

	case "page":
		start := p.index
		for !p.IsExhausted() && p.Peek().Kind != csslexer.TOpenBrace {
			p.ParseComponentValue()
		}
		selText := strings.TrimSpace(tokensToRawText(p, start, p.index))
		var decls []cssast.Declaration
		var margins []cssast.RAtPageMargin
		savedEnd, ok := p.EnterNestedBlock()
		if ok {
			for !p.IsExhausted() {
				p.Eat(csslexer.TWhitespace)
				if p.IsExhausted() {
					break
				}
				if p.Peek().Kind == csslexer.TAtKeyword {
					tok := p.Peek()
					marginName := p.DecodedText(tok)
					p.Next()
					p.Eat(csslexer.TWhitespace)
					d := p.parseBracedDeclarationsOnly()
					margins = append(margins, cssast.RAtPageMargin{Name: marginName, Declarations: d})
					continue
				}
				if d, ok := p.ParseDeclaration(); ok {
					decls = append(decls, d)
				}
				p.Eat(csslexer.TWhitespace)
				p.Eat(csslexer.TSemicolon)
			}
			p.FinishNestedBlock(savedEnd)
		}
		appendRule(stack, &cssast.RAtPage{base: base{loc}, Selector: selText, Declarations: decls, Margins: margins})
		return

	case "property":
		propName := ""
		if p.Peek().Kind == csslexer.TIdent {
			tok := p.Peek()
			propName = p.DecodedText(tok)
			p.Next()
		}
		p.Eat(csslexer.TWhitespace)
		decls := p.parseBracedDeclarationsOnly()
		appendRule(stack, &cssast.RAtProperty{base: base{loc}, Name: propName, Declarations: decls})
		return

	case "starting-style":
		savedEnd, ok := p.EnterNestedBlock()
		if !ok {
			p.Expect(csslexer.TOpenBrace)
			appendRule(stack, &cssast.RAtStartingStyle{base: base{loc}})
			return
		}
		pushRuleList(savedEnd, func(rules []cssast.Rule) cssast.Rule {
			return &cssast.RAtStartingStyle{base: base{loc}, Rules: rules}
		})
		return

	case "-moz-document":
		start := p.index
		for !p.IsExhausted() && p.Peek().Kind != csslexer.TOpenBrace {
			p.ParseComponentValue()
		}
		prelude := p.convertTokenRange(start, p.index, false)
		savedEnd, ok := p.EnterNestedBlock()
		if !ok {
			p.Expect(csslexer.TOpenBrace)
			appendRule(stack, &cssast.RAtMozDocument{base: base{loc}, Prelude: prelude})
			return
		}
		pushRuleList(savedEnd, func(rules []cssast.Rule) cssast.Rule {
			return &cssast.RAtMozDocument{base: base{loc}, Prelude: prelude, Rules: rules}
		})
		return

	case "view-transition":
		decls := p.parseBracedDeclarationsOnly()
		appendRule(stack, &cssast.RAtViewTransition{base: base{loc}, Declarations: decls})
		return

	case "viewport", "-ms-viewport":
		prefix := ""
		if name == "-ms-viewport" {
			prefix = "-ms-"
		}
		decls := p.parseBracedDeclarationsOnly()
		appendRule(stack, &cssast.RAtViewport{base: base{loc}, VendorPrefix: prefix, Declarations: decls})
		return

	case "nest":
		list, ok := p.ParseSelectorList()
		if !ok {
			appendRule(stack, p.unknownAtRule(loc, name))
			return
		}
		savedEnd, ok := p.EnterNestedBlock()
		if !ok {
			p.Expect(csslexer.TOpenBrace)
			appendRule(stack, &cssast.RAtNest{base: base{loc}, Selectors: list})
			return
		}
		pushNested(savedEnd, func(body cssast.NestedBody) cssast.Rule {
			return &cssast.RAtNest{base: base{loc}, Selectors: list, Nested: body}
		})
		return

	case "custom-media":
		mediaName := ""
		if p.Peek().Kind == csslexer.TIdent {
			tok := p.Peek()
			mediaName = p.DecodedText(tok)
			p.Next()
		}
		p.Eat(csslexer.TWhitespace)
		queries := p.ParseMediaQueryList(func(k csslexer.T) bool { return k == csslexer.TSemicolon })
		p.Eat(csslexer.TSemicolon)
		appendRule(stack, &cssast.RAtCustomMedia{base: base{loc}, Name: mediaName, Media: queries})
		return

	case "charset":
		for !p.IsExhausted() && p.Peek().Kind != csslexer.TSemicolon {
			p.ParseComponentValue()
		}
		p.Eat(csslexer.TSemicolon)
		appendRule(stack, &cssast.RUnknownAt{base: base{loc}, AtKeyword: name})
		return
	}

	appendRule(stack, p.unknownAtRule(loc, name))
}

// unknownAtRule preserves an unrecognized at-rule verbatim: prelude tokens,
// and (if block-form) the block's tokens with no further interpretation, per
// the design notes' treatment of unknown at-rules. It never recurses back
// into the rule-list grammar -- ParseComponentValue already walks nested
// brackets with its own explicit stack -- so it needs none of its own.
func (p *Parser) unknownAtRule(loc logger.Loc, name string) cssast.Rule {
	start := p.index
	for !p.IsExhausted() {
		switch p.Peek().Kind {
		case csslexer.TSemicolon:
			prelude := p.convertTokenRange(start, p.index, false)
			p.Next()
			return &cssast.RUnknownAt{base: base{loc}, AtKeyword: name, Prelude: prelude}
		case csslexer.TOpenBrace:
			prelude := p.convertTokenRange(start, p.index, false)
			blockTokStart := p.index
			savedEnd, ok := p.EnterNestedBlock()
			if !ok {
				p.Next()
				continue
			}
			for !p.IsExhausted() {
				p.ParseComponentValue()
			}
			p.FinishNestedBlock(savedEnd)
			block := p.convertTokenRange(blockTokStart, p.index, false)
			return &cssast.RUnknownAt{base: base{loc}, AtKeyword: name, Prelude: prelude, Block: &block}
		}
		p.ParseComponentValue()
	}
	prelude := p.convertTokenRange(start, p.index, false)
	return &cssast.RUnknownAt{base: base{loc}, AtKeyword: name, Prelude: prelude}
}

// skipAtRuleVerbatim consumes an at-rule's prelude and, if present, its
// braced block without interpreting either. It is used only where a nested
// at-rule's contents are discarded regardless of what they mean (inside a
// declarations-only block, where an at-rule is not meaningful CSS to begin
// with), so there is no reason to classify it through dispatchAtRuleInto at
// all; ParseComponentValue's own explicit stack keeps this stack-safe no
// matter how deeply the discarded block nests.
func (p *Parser) skipAtRuleVerbatim() {
	p.Next()
	for !p.IsExhausted() {
		switch p.Peek().Kind {
		case csslexer.TSemicolon:
			p.Next()
			return
		case csslexer.TOpenBrace:
			savedEnd, ok := p.EnterNestedBlock()
			if !ok {
				p.Next()
				continue
			}
			for !p.IsExhausted() {
				p.ParseComponentValue()
			}
			p.FinishNestedBlock(savedEnd)
			return
		}
		p.ParseComponentValue()
	}
}

func (p *Parser) parseBracedDeclarationsOnly() []cssast.Declaration {
	savedEnd, ok := p.EnterNestedBlock()
	if !ok {
		p.Expect(csslexer.TOpenBrace)
		return nil
	}
	var decls []cssast.Declaration
	for !p.IsExhausted() {
		p.Eat(csslexer.TWhitespace)
		if p.IsExhausted() {
			break
		}
		if p.Peek().Kind == csslexer.TAtKeyword {
			p.skipAtRuleVerbatim()
			continue
		}
		if d, ok := p.ParseDeclaration(); ok {
			decls = append(decls, d)
		}
		p.Eat(csslexer.TWhitespace)
		p.Eat(csslexer.TSemicolon)
	}
	p.FinishNestedBlock(savedEnd)
	return decls
}

func (p *Parser) parseKeyframeBlocks() []cssast.KeyframeBlock {
	savedEnd, ok := p.EnterNestedBlock()
	if !ok {
		p.Expect(csslexer.TOpenBrace)
		return nil
	}
	var blocks []cssast.KeyframeBlock
	for !p.IsExhausted() {
		p.Eat(csslexer.TWhitespace)
		if p.IsExhausted() {
			break
		}
		var selectors []cssast.KeyframeSelector
		for {
			tok := p.Peek()
			switch tok.Kind {
			case csslexer.TPercentage:
				selectors = append(selectors, cssast.KeyframeSelector{Percent: tok.Value})
				p.Next()
			case csslexer.TIdent:
				word := strings.ToLower(p.DecodedText(tok))
				switch word {
				case "from":
					selectors = append(selectors, cssast.KeyframeSelector{Percent: 0, AuthoredKeyword: "from"})
				case "to":
					selectors = append(selectors, cssast.KeyframeSelector{Percent: 100, AuthoredKeyword: "to"})
				}
				p.Next()
			default:
				for !p.IsExhausted() && p.Peek().Kind != csslexer.TOpenBrace && p.Peek().Kind != csslexer.TComma {
					p.ParseComponentValue()
				}
			}
			p.Eat(csslexer.TWhitespace)
			if !p.Eat(csslexer.TComma) {
				break
			}
			p.Eat(csslexer.TWhitespace)
		}
		decls := p.parseBracedDeclarationsOnly()
		blocks = append(blocks, cssast.KeyframeBlock{Selectors: selectors, Declarations: decls})
		p.Eat(csslexer.TWhitespace)
	}
	p.FinishNestedBlock(savedEnd)
	return blocks
}

func (p *Parser) expectURLOrString() (string, bool) {
	p.Eat(csslexer.TWhitespace)
	tok := p.Peek()
	switch tok.Kind {
	case csslexer.TString, csslexer.TURL:
		p.Next()
		return p.DecodedText(tok), true
	}
	p.ReportError(tok.Range, ErrUnexpectedToken, "expected a URL or string")
	return "", false
}

func tokensToRawText(p *Parser, start, end int) string {
	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteString(p.Source.TextForRange(p.tokens[i].Range))
	}
	return sb.String()
}

func splitLayerNames(p *Parser, from State) []string {
	p.Reset(from)
	var names []string
	for {
		p.Eat(csslexer.TWhitespace)
		tok := p.Peek()
		if tok.Kind != csslexer.TIdent {
			break
		}
		var parts []string
		for {
			t := p.Peek()
			if t.Kind != csslexer.TIdent {
				break
			}
			parts = append(parts, p.DecodedText(t))
			p.Next()
			if !p.isDotDelim() {
				break
			}
			p.Next()
		}
		names = append(names, strings.Join(parts, "."))
		p.Eat(csslexer.TWhitespace)
		if !p.Eat(csslexer.TComma) {
			break
		}
	}
	return names
}

func (p *Parser) isDotDelim() bool {
	tok := p.Peek()
	return tok.Kind == csslexer.TDelim && p.Source.TextForRange(tok.Range) == "."
}
