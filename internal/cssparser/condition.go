package cssparser

import (
	"strings"

	"github.com/6over3/CSSKit-sub002/internal/cssast"
	"github.com/6over3/CSSKit-sub002/internal/csslexer"
	"github.com/6over3/CSSKit-sub002/internal/logger"
)

// ConditionMode selects which of the three condition mini-grammars (§4.5) a
// call to ParseCondition is operating under; the structural not/and/or
// grammar is shared, but each mode recognizes a different set of leaf
// productions (a supports declaration-probe and selector() probe, a
// container style() probe, or a plain/range media feature).
type ConditionMode uint8

const (
	ModeMedia ConditionMode = iota
	ModeSupports
	ModeContainer
	ModeContainerStyle // inside @container's style() function: declaration-probe grammar
)

// ParseMediaQueryList parses the comma-separated <media-query-list> that is
// an @media/@import prelude, following esbuild's parseMediaQueryListUntil:
// any entry that fails to parse as a structured query is kept verbatim as
// ArbitraryTokens so the stylesheet still round-trips.
func (p *Parser) ParseMediaQueryList(stop func(csslexer.T) bool) []cssast.MediaQuery {
	var queries []cssast.MediaQuery
	p.Eat(csslexer.TWhitespace)
	for !p.Is(csslexer.TEndOfFile) && !stop(p.Peek().Kind) {
		start := p.index
		query, ok := p.parseMediaQuery()
		if !ok {
			p.index = start
			loc := p.Peek().Range.Loc
			for !p.Is(csslexer.TEndOfFile) && !stop(p.Peek().Kind) && !p.Is(csslexer.TComma) {
				p.ParseComponentValue()
			}
			toks := p.convertTokenRange(start, p.index, false)
			query = cssast.MediaQuery{Loc: loc, IsArbitrary: true, ArbitraryTokens: toks}
		}
		queries = append(queries, query)
		p.Eat(csslexer.TWhitespace)
		if !p.Eat(csslexer.TComma) {
			break
		}
		p.Eat(csslexer.TWhitespace)
	}
	return queries
}

func (p *Parser) parseMediaQuery() (cssast.MediaQuery, bool) {
	loc := p.Peek().Range.Loc

	if p.looksLikeCondition() {
		cond, ok := p.ParseCondition(ModeMedia)
		if !ok {
			return cssast.MediaQuery{}, false
		}
		return cssast.MediaQuery{Loc: loc, IsConditionOnly: true, Condition: cond}, true
	}

	typeOp := cssast.MQTypeOpNone
	tok := p.Peek()
	if tok.Kind != csslexer.TIdent {
		p.Expect(csslexer.TIdent)
		return cssast.MediaQuery{}, false
	}
	mediaType := p.DecodedText(tok)
	if strings.EqualFold(mediaType, "not") {
		typeOp = cssast.MQTypeOpNot
	} else if strings.EqualFold(mediaType, "only") {
		typeOp = cssast.MQTypeOpOnly
	}
	if typeOp != cssast.MQTypeOpNone {
		p.Next()
		p.Eat(csslexer.TWhitespace)
		tok = p.Peek()
		if tok.Kind != csslexer.TIdent {
			p.Expect(csslexer.TIdent)
			return cssast.MediaQuery{}, false
		}
		mediaType = p.DecodedText(tok)
	}
	switch strings.ToLower(mediaType) {
	case "only", "not", "and", "or", "layer":
		p.ReportError(tok.Range, ErrUnexpectedToken, "unexpected "+mediaType)
		return cssast.MediaQuery{}, false
	}
	p.Next()
	p.Eat(csslexer.TWhitespace)

	mq := cssast.MediaQuery{Loc: loc, TypeOp: typeOp, MediaType: mediaType}
	if p.Peek().Kind == csslexer.TIdent && strings.EqualFold(p.DecodedText(p.Peek()), "and") {
		p.Next()
		p.Eat(csslexer.TWhitespace)
		cond, ok := p.parseConditionWithoutOr(ModeMedia)
		if !ok {
			return cssast.MediaQuery{}, false
		}
		mq.HasAnd = true
		mq.Condition = cond
	}
	return mq, true
}

// looksLikeCondition peeks whether the upcoming tokens start a parenthesized
// or "not (" condition rather than a bare media type / other leaf.
func (p *Parser) looksLikeCondition() bool {
	switch p.Peek().Kind {
	case csslexer.TOpenParen, csslexer.TFunction:
		return true
	case csslexer.TIdent:
		if !strings.EqualFold(p.DecodedText(p.Peek()), "not") {
			return false
		}
		save := p.State()
		p.Next()
		p.Eat(csslexer.TWhitespace)
		isParen := p.Peek().Kind == csslexer.TOpenParen || p.Peek().Kind == csslexer.TFunction
		p.Reset(save)
		return isParen
	}
	return false
}

// ParseCondition parses "<not> | <and-list> | <or-list> | <in-parens>" (the
// not/and/or skeleton shared by all three §4.5 grammars, with "or" allowed).
func (p *Parser) ParseCondition(mode ConditionMode) (cssast.Condition, bool) {
	return p.parseConditionImpl(mode, true)
}

func (p *Parser) parseConditionWithoutOr(mode ConditionMode) (cssast.Condition, bool) {
	return p.parseConditionImpl(mode, false)
}

// frameWrap says how a condFrame's finished value must be transformed
// before it is handed to the frame that caused it to be pushed.
type frameWrap byte

const (
	wrapNone frameWrap = iota
	wrapStyleQuery
)

// condFrame is one entry in the explicit work-stack parseConditionImpl
// drives in place of recursive descent over "<not> | <and-list> |
// <or-list> | <in-parens>": one frame per nested parenthesized group or
// style() probe, so a condition nesting "(((...)))" or style() probes a
// million levels deep advances the cursor in constant Go call-stack depth
// (§4.5), the same scheme rules.go's parseRuleList and tokentree.go's
// ConvertTokens use for the same reason.
type condFrame struct {
	mode    ConditionMode
	allowOr bool
	loc     logger.Loc

	checkNot bool // true until the leading "not" check has been made (once)
	wrapNot  bool // true once "not" was consumed: the next operand finishes this frame as CondNot

	kind     cssast.ConditionKind // zero until an "and"/"or" keyword is seen
	joinWord string
	children []cssast.Condition

	savedEnd int // block/function scope to restore when this frame finishes; -1 if none was entered for it
	wrap     frameWrap
	wrapLoc  logger.Loc
}

func (p *Parser) parseConditionImpl(mode ConditionMode, allowOr bool) (cssast.Condition, bool) {
	root := &condFrame{mode: mode, allowOr: allowOr, loc: p.Peek().Range.Loc, checkNot: true, savedEnd: -1}
	stack := []*condFrame{root}
	var result cssast.Condition
	resolved := false

	// finish pops the current top frame, folding its completed value into
	// whatever frame (if any) caused it to be pushed. A frame whose parent
	// is itself waiting on a "not" target cascades immediately into
	// finishing the parent too ("not (not (...))"), which is why this is a
	// loop rather than a single fold.
	finish := func(value cssast.Condition) {
		for {
			n := len(stack) - 1
			top := stack[n]
			if top.wrapNot {
				inner := value
				value = cssast.Condition{Kind: cssast.CondNot, Loc: top.loc, Not: &inner}
			}
			stack = stack[:n]
			if top.savedEnd >= 0 {
				p.FinishNestedBlock(top.savedEnd)
			}
			if top.wrap == wrapStyleQuery {
				value = cssast.Condition{Kind: cssast.CondStyleQuery, Loc: top.wrapLoc, StyleQuery: &value}
			}
			if len(stack) == 0 {
				result, resolved = value, true
				return
			}
			parent := stack[len(stack)-1]
			if parent.wrapNot {
				continue
			}
			parent.children = append(parent.children, value)
			return
		}
	}

	for !resolved {
		top := stack[len(stack)-1]

		if top.checkNot {
			top.checkNot = false
			if p.Peek().Kind == csslexer.TIdent && strings.EqualFold(p.DecodedText(p.Peek()), "not") {
				p.Next()
				p.Eat(csslexer.TWhitespace)
				top.wrapNot = true
			}
		}

		if !top.wrapNot && len(top.children) > 0 {
			p.Eat(csslexer.TWhitespace)
			word := ""
			if p.Peek().Kind == csslexer.TIdent {
				word = p.DecodedText(p.Peek())
			}
			isAnd := strings.EqualFold(word, "and")
			isOr := top.allowOr && strings.EqualFold(word, "or")
			continues := false
			if top.kind == 0 {
				if isAnd || isOr {
					top.kind = cssast.CondAnd
					if isOr {
						top.kind = cssast.CondOr
					}
					top.joinWord = word
					continues = true
				}
			} else if strings.EqualFold(word, top.joinWord) {
				continues = true
			}
			if continues {
				p.Next()
				p.Eat(csslexer.TWhitespace)
			} else {
				var value cssast.Condition
				if top.kind == 0 {
					value = top.children[0]
				} else {
					value = cssast.Condition{Kind: top.kind, Loc: top.loc, Children: top.children}
				}
				finish(value)
				continue
			}
		}

		leaf, child, ok := p.beginInParens(top.mode)
		if !ok {
			for len(stack) > 0 {
				n := len(stack) - 1
				dead := stack[n]
				stack = stack[:n]
				if dead.savedEnd >= 0 {
					p.FinishNestedBlock(dead.savedEnd)
				}
			}
			return cssast.Condition{}, false
		}
		if child != nil {
			stack = append(stack, child)
			continue
		}
		if top.wrapNot {
			finish(leaf)
		} else {
			top.children = append(top.children, leaf)
		}
	}

	return result, true
}

// beginInParens starts parsing one <in-parens> leaf at the cursor. Most
// shapes (a feature, a declaration/selector probe, an unrecognized
// function's raw tokens) resolve synchronously and are returned as leaf. A
// parenthesized nested condition or a style() probe instead need their own
// full <condition> parse, so a new condFrame is returned for the driver
// loop to push instead of recursing into it directly.
func (p *Parser) beginInParens(mode ConditionMode) (leaf cssast.Condition, child *condFrame, ok bool) {
	p.Eat(csslexer.TWhitespace)
	loc := p.Peek().Range.Loc

	if p.Peek().Kind == csslexer.TFunction {
		fnTok := p.Peek()
		name := strings.ToLower(p.DecodedText(fnTok))
		p.Next()
		savedEnd, enterOk := p.enterAlreadyOpenedBlock(fnTok)
		if !enterOk {
			return cssast.Condition{}, nil, false
		}
		p.Eat(csslexer.TWhitespace)

		switch {
		case mode == ModeSupports && name == "selector":
			list, selOk := p.ParseSelectorList()
			p.FinishNestedBlock(savedEnd)
			if !selOk || len(list) == 0 {
				return cssast.Condition{}, nil, false
			}
			sel := list[0]
			return cssast.Condition{Kind: cssast.CondSelectorProbe, Loc: loc, SelectorProbe: &sel}, nil, true
		case mode == ModeContainer && name == "style":
			return cssast.Condition{}, &condFrame{
				mode: ModeContainerStyle, allowOr: true, loc: loc,
				checkNot: true, savedEnd: savedEnd, wrap: wrapStyleQuery, wrapLoc: loc,
			}, true
		default:
			toks := p.ConvertTokens()
			p.FinishNestedBlock(savedEnd)
			return cssast.Condition{Kind: cssast.CondUnknown, Loc: loc, Unknown: toks}, nil, true
		}
	}

	if p.Peek().Kind != csslexer.TOpenParen {
		p.Expect(csslexer.TOpenParen)
		return cssast.Condition{}, nil, false
	}
	savedEnd, enterOk := p.EnterNestedBlock()
	if !enterOk {
		return cssast.Condition{}, nil, false
	}
	p.Eat(csslexer.TWhitespace)

	if mode != ModeContainerStyle && p.looksLikeCondition() {
		return cssast.Condition{}, &condFrame{
			mode: mode, allowOr: true, loc: loc,
			checkNot: true, savedEnd: savedEnd,
		}, true
	}

	if mode == ModeContainerStyle || mode == ModeSupports {
		decl, declOk := p.ParseDeclaration()
		p.FinishNestedBlock(savedEnd)
		if !declOk {
			return cssast.Condition{}, nil, false
		}
		return cssast.Condition{Kind: cssast.CondDeclarationProbe, Loc: loc, DeclarationProbe: &decl}, nil, true
	}

	feature, featOk := p.parseMediaOrContainerFeature()
	p.FinishNestedBlock(savedEnd)
	if !featOk {
		return cssast.Condition{}, nil, false
	}
	return cssast.Condition{Kind: cssast.CondFeature, Loc: loc, Feature: &feature}, nil, true
}

// parseMediaOrContainerFeature reads the remainder of the current
// parenthesized scope as a plain/boolean or range feature, following
// esbuild's token-pattern approach: the scope's tokens are converted once,
// then matched against the fixed set of feature shapes.
func (p *Parser) parseMediaOrContainerFeature() (cssast.Feature, bool) {
	toks := p.ConvertTokens()
	if len(toks) == 0 {
		tok := p.Peek()
		p.ReportError(tok.Range, ErrUnexpectedToken, "expected a feature")
		return cssast.Feature{}, false
	}

	if len(toks) == 1 && toks[0].Kind == csslexer.TIdent {
		return cssast.Feature{Name: toks[0].Text}, true
	}
	if len(toks) >= 2 && toks[0].Kind == csslexer.TIdent && toks[1].Kind == csslexer.TColon {
		return cssast.Feature{Name: toks[0].Text, Op: cssast.FeatureOpEq, Colon: true, Value: toks[2:]}, true
	}

	if first, rest := scanFeatureValue(toks); len(first) > 0 {
		if cmp, rest := scanFeatureComparison(rest); cmp != cssast.FeatureOpNone {
			if second, rest := scanFeatureValue(rest); len(second) > 0 {
				if len(rest) == 0 {
					if name, ok := soleIdent(first); ok {
						return cssast.Feature{Name: name, Op: cmp, Value: second}, true
					}
					if name, ok := soleIdent(second); ok {
						return cssast.Feature{Name: name, IsInterval: true, LowOp: cmp, Low: first}, true
					}
				} else if name, ok := soleIdent(second); ok {
					if cmp2, rest := scanFeatureComparison(rest); cmp2 != cssast.FeatureOpNone {
						if third, rest := scanFeatureValue(rest); len(third) > 0 && len(rest) == 0 {
							return cssast.Feature{Name: name, IsInterval: true, LowOp: cmp, Low: first, HighOp: cmp2, High: third}, true
						}
					}
				}
			}
		}
	}

	p.ReportError(logger.Range{Loc: toks[0].Loc}, ErrUnexpectedToken, "could not parse feature")
	return cssast.Feature{}, false
}

func soleIdent(toks cssast.Tokens) (string, bool) {
	if len(toks) == 1 && toks[0].Kind == csslexer.TIdent {
		return toks[0].Text, true
	}
	return "", false
}

// scanFeatureValue recognizes a single dimension/ident/number, or a ratio
// "<number> / <number>", at the front of toks.
func scanFeatureValue(toks cssast.Tokens) (cssast.Tokens, cssast.Tokens) {
	if len(toks) == 0 {
		return nil, toks
	}
	switch toks[0].Kind {
	case csslexer.TDimension, csslexer.TIdent, csslexer.TNumber, csslexer.TPercentage:
		if toks[0].Kind == csslexer.TNumber && len(toks) >= 3 && toks[1].Kind == csslexer.TDelim && toks[1].Text == "/" && toks[2].Kind == csslexer.TNumber {
			return toks[:3], toks[3:]
		}
		return toks[:1], toks[1:]
	}
	return nil, toks
}

// scanFeatureComparison recognizes "=", "<", "<=", ">", ">=" at the front of
// toks, where "<=" / ">=" are two adjacent delimiter tokens (the lexer does
// not merge them, unlike the attribute-matcher operators).
func scanFeatureComparison(toks cssast.Tokens) (cssast.FeatureOp, cssast.Tokens) {
	if len(toks) == 0 || toks[0].Kind != csslexer.TDelim {
		return cssast.FeatureOpNone, toks
	}
	switch toks[0].Text {
	case "=":
		return cssast.FeatureOpEq, toks[1:]
	case "<":
		if len(toks) >= 2 && toks[1].Kind == csslexer.TDelim && toks[1].Text == "=" && !toks[0].HasWhitespaceAfter {
			return cssast.FeatureOpLe, toks[2:]
		}
		return cssast.FeatureOpLt, toks[1:]
	case ">":
		if len(toks) >= 2 && toks[1].Kind == csslexer.TDelim && toks[1].Text == "=" && !toks[0].HasWhitespaceAfter {
			return cssast.FeatureOpGe, toks[2:]
		}
		return cssast.FeatureOpGt, toks[1:]
	}
	return cssast.FeatureOpNone, toks
}
