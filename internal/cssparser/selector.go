package cssparser

import (
	"strconv"
	"strings"

	"github.com/6over3/CSSKit-sub002/internal/cssast"
	"github.com/6over3/CSSKit-sub002/internal/csslexer"
)

// selFrameKind distinguishes the two roles that share the explicit
// work-stack below: a <complex-selector-list> under construction (a
// sequence of combinator-joined compounds, restarting on every comma) and
// a single compound selector's subclass scan.
type selFrameKind byte

const (
	frameList selFrameKind = iota
	frameCompound
)

// selFrame is one entry in the explicit stack ParseSelectorList drives in
// place of recursive descent. A compound selector's functional
// pseudo-classes (:is/:where/:not/:has, nth's "of", :host/:host-context)
// each need a nested selector-list or compound parsed to completion before
// the compound scan that discovered them can resume, and that nesting can
// go arbitrarily deep (":not(:not(:not(...)))" and so on per §8), so the
// suspended state lives here instead of in Go call frames.
type selFrame struct {
	kind selFrameKind

	// kindList state: the list accumulated so far, the complex selector
	// currently being extended, and the combinator that will join the next
	// compound onto it.
	result      []cssast.ComplexSelector
	cur         cssast.ComplexSelector
	combinator  cssast.Combinator
	deliverList func(list []cssast.ComplexSelector, ok bool)

	// kindCompound state.
	c               cssast.CompoundSelector
	any             bool
	deliverCompound func(c cssast.CompoundSelector, ok bool)

	// resume, when set, is run on the next tick instead of re-entering the
	// frame's normal step function, so a frame can pick up exactly where a
	// just-finished child left off.
	resume func()
}

// ParseSelectorList parses a comma-separated <complex-selector-list> per
// the Selectors Level 4 grammar (§4.4), generalizing esbuild's
// parseSelectorList (which only ever emits bundler-internal symbol
// references for CSS Modules local()/global()) to the specificity- and
// nesting-aware tree this design calls for.
func (p *Parser) ParseSelectorList() ([]cssast.ComplexSelector, bool) {
	root := &selFrame{kind: frameList}
	stack := []*selFrame{root}

	var result []cssast.ComplexSelector
	resolved, failed := false, false
	root.deliverList = func(list []cssast.ComplexSelector, ok bool) {
		if !ok {
			failed = true
			return
		}
		result = list
		resolved = true
	}

	for !resolved && !failed && len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.resume != nil {
			r := top.resume
			top.resume = nil
			r()
			continue
		}
		switch top.kind {
		case frameList:
			p.stepList(top, &stack)
		case frameCompound:
			p.compoundScan(top, &stack)
		}
	}

	if failed || !resolved {
		return nil, false
	}
	return result, true
}

// stepList is the entry step for a freshly pushed kindList frame: it always
// wants a first compound, joined to f.cur by an implicit descendant
// combinator (there is nothing before it to join).
func (p *Parser) stepList(f *selFrame, stack *[]*selFrame) {
	f.combinator = cssast.CombinatorDescendant
	p.listRequestCompound(f, stack)
}

// listRequestCompound pushes a compound frame and arranges for its result
// to extend f.cur (or fail the whole list) once delivered.
func (p *Parser) listRequestCompound(f *selFrame, stack *[]*selFrame) {
	first := len(f.cur.Compounds) == 0
	child := p.newCompoundFrame(func(c cssast.CompoundSelector, ok bool) {
		if !ok {
			if first {
				tok := p.Peek()
				p.ReportError(tok.Range, ErrQualifiedRuleInvalid, "expected a selector")
			}
			f.deliverList(nil, false)
			return
		}
		c.Combinator = f.combinator
		f.cur.Compounds = append(f.cur.Compounds, c)
		f.resume = func() { p.listContinue(f, stack) }
	})
	*stack = append(*stack, child)
}

// listContinue runs after a compound has just been appended to f.cur. It
// either extends the current complex selector with the next
// combinator/compound pair, closes it out and starts the next one on a
// comma, or finishes the whole list.
func (p *Parser) listContinue(f *selFrame, stack *[]*selFrame) {
	save := p.State()
	if !p.tryWhitespaceBeforeCombinatorOrCompound() {
		p.Reset(save)

		f.result = append(f.result, f.cur)
		f.cur = cssast.ComplexSelector{}

		save2 := p.State()
		p.Eat(csslexer.TWhitespace)
		if p.Eat(csslexer.TComma) {
			p.Eat(csslexer.TWhitespace)
			f.combinator = cssast.CombinatorDescendant
			p.listRequestCompound(f, stack)
			return
		}
		p.Reset(save2)

		*stack = (*stack)[:len(*stack)-1]
		f.deliverList(f.result, true)
		return
	}

	// A combinator here is optional: an explicit token ">"/"+"/"~"/"|" binds
	// the next compound with that combinator, but its absence just means an
	// implicit descendant combinator, not the end of the selector.
	combinator, _ := p.parseCombinator()
	f.combinator = combinator
	p.listRequestCompound(f, stack)
}

// tryWhitespaceBeforeCombinatorOrCompound consumes whitespace only when it
// actually precedes another compound selector or an explicit combinator,
// so trailing whitespace before "," or "{" does not get misread as a
// descendant combinator.
func (p *Parser) tryWhitespaceBeforeCombinatorOrCompound() bool {
	ateWhitespace := p.Eat(csslexer.TWhitespace)
	switch p.Peek().Kind {
	case csslexer.TComma, csslexer.TEndOfFile, csslexer.TOpenBrace, csslexer.TCloseParen:
		return false
	case csslexer.TDelim:
		text := p.Source.TextForRange(p.Peek().Range)
		if text == ">" || text == "+" || text == "~" {
			return true
		}
		return ateWhitespace
	case csslexer.TColumn:
		return true
	}
	return ateWhitespace
}

func (p *Parser) parseCombinator() (cssast.Combinator, bool) {
	switch p.Peek().Kind {
	case csslexer.TDelim:
		switch p.Source.TextForRange(p.Peek().Range) {
		case ">":
			p.Next()
			p.Eat(csslexer.TWhitespace)
			return cssast.CombinatorChild, true
		case "+":
			p.Next()
			p.Eat(csslexer.TWhitespace)
			return cssast.CombinatorNextSibling, true
		case "~":
			p.Next()
			p.Eat(csslexer.TWhitespace)
			return cssast.CombinatorSubsequentSibling, true
		}
	case csslexer.TColumn:
		p.Next()
		p.Eat(csslexer.TWhitespace)
		return cssast.CombinatorColumn, true
	}
	return cssast.CombinatorDescendant, false
}

// newCompoundFrame performs the one-time, non-recursive type-selector or
// nesting-selector check and returns a frame ready for compoundScan; deliver
// is invoked exactly once, when the compound is complete or has failed.
func (p *Parser) newCompoundFrame(deliver func(c cssast.CompoundSelector, ok bool)) *selFrame {
	f := &selFrame{kind: frameCompound, deliverCompound: deliver}
	if ns, ok := p.tryNamespacedTypeOrUniversal(); ok {
		f.c.TypeSelector = &ns
		f.any = true
	} else if p.isNestingSelector() {
		p.Next()
		f.c.HasNestingSelector = true
		f.any = true
	}
	return f
}

func (p *Parser) compoundFinish(f *selFrame, stack *[]*selFrame, ok bool) {
	*stack = (*stack)[:len(*stack)-1]
	if !ok {
		f.deliverCompound(cssast.CompoundSelector{}, false)
		return
	}
	f.deliverCompound(f.c, true)
}

// pseudoOutcome reports what beginPseudo did with the current compound
// frame so compoundScan knows whether to keep scanning, stop because a
// child frame now owns control, or stop because the frame already finished.
type pseudoOutcome byte

const (
	pseudoContinue pseudoOutcome = iota
	pseudoPaused
	pseudoDone
)

// compoundScan drives one compound selector's subclass-selector loop; a
// functional pseudo-class argument can suspend it (pseudoPaused) any number
// of times before it finally resolves (matching the original recursive
// parseCompoundSelector, minus the recursion).
func (p *Parser) compoundScan(f *selFrame, stack *[]*selFrame) {
	for {
		switch p.PeekIncludingWhitespace().Kind {
		case csslexer.THashID:
			tok := p.Next()
			f.c.Subclasses = append(f.c.Subclasses, &cssast.CID{Name: p.DecodedText(tok)})
			f.any = true

		case csslexer.TDelim:
			if p.Source.TextForRange(p.PeekIncludingWhitespace().Range) == "." {
				p.Next()
				name, ok := p.expectIdentText()
				if !ok {
					p.compoundFinish(f, stack, false)
					return
				}
				f.c.Subclasses = append(f.c.Subclasses, &cssast.CClass{Name: name})
				f.any = true
				continue
			}
			if p.isNestingSelector() {
				p.Next()
				f.c.Subclasses = append(f.c.Subclasses, &cssast.CNesting{})
				f.any = true
				continue
			}
			p.compoundFinish(f, stack, f.any)
			return

		case csslexer.TOpenBracket:
			attr, ok := p.parseAttributeSelector()
			if !ok {
				p.compoundFinish(f, stack, false)
				return
			}
			f.c.Subclasses = append(f.c.Subclasses, &attr)
			f.any = true

		case csslexer.TColon:
			switch p.beginPseudo(f, stack) {
			case pseudoPaused, pseudoDone:
				return
			}
			// pseudoContinue: loop again.

		default:
			p.compoundFinish(f, stack, f.any)
			return
		}
	}
}

func (p *Parser) applyPseudoResult(f *selFrame, pc cssast.CPseudoClass, isElement bool) {
	if isElement {
		pe := cssast.PseudoElement{Name: pc.Name, Kind: pc.Kind, Args: pc.RawArgs}
		f.c.PseudoElement = &pe
		f.any = true
		return
	}
	if f.c.PseudoElement != nil {
		f.c.TrailingPseudoClasses = append(f.c.TrailingPseudoClasses, pc)
	} else {
		f.c.Subclasses = append(f.c.Subclasses, &pc)
	}
	f.any = true
}

// selectorListPseudoKinds are the functional pseudo-classes whose argument
// is itself a <complex-selector-list>.
var selectorListPseudoKinds = map[string]cssast.PseudoClassKind{
	"is": cssast.PseudoIs, "where": cssast.PseudoWhere,
	"not": cssast.PseudoNot, "has": cssast.PseudoHas,
}

var nthPseudoKinds = map[string]cssast.PseudoClassKind{
	"nth-child": cssast.PseudoNthChild, "nth-last-child": cssast.PseudoNthLastChild,
	"nth-of-type": cssast.PseudoNthOfType, "nth-last-of-type": cssast.PseudoNthLastOfType,
}

// beginPseudo parses ":name", ":name(args)", "::name" or "::name(args)"
// starting at the current compound frame. Most functional arguments push a
// nested frame and return pseudoPaused; plain forms resolve synchronously
// and return pseudoContinue so compoundScan keeps scanning.
func (p *Parser) beginPseudo(f *selFrame, stack *[]*selFrame) pseudoOutcome {
	p.Next() // first ":"
	isElement := p.Eat(csslexer.TColon)

	tok := p.Peek()
	switch tok.Kind {
	case csslexer.TIdent:
		p.Next()
		name := strings.ToLower(p.DecodedText(tok))
		p.applyPseudoResult(f, cssast.CPseudoClass{Name: name, Kind: cssast.PseudoPlain}, isElement)
		return pseudoContinue

	case csslexer.TFunction:
		p.Next()
		name := strings.ToLower(p.DecodedText(tok))
		savedEnd, ok := p.enterAlreadyOpenedBlock(tok)
		if !ok {
			p.compoundFinish(f, stack, false)
			return pseudoDone
		}
		p.Eat(csslexer.TWhitespace)

		if kind, ok := selectorListPseudoKinds[name]; ok && !isElement {
			p.pushPseudoList(f, stack, name, kind, savedEnd, nil)
			return pseudoPaused
		}

		if kind, ok := nthPseudoKinds[name]; ok && !isElement {
			anb, ok := p.parseAnPlusB()
			if !ok {
				errTok := p.Peek()
				p.ReportError(errTok.Range, ErrUnexpectedToken, "expected An+B")
				p.FinishNestedBlock(savedEnd)
				p.compoundFinish(f, stack, false)
				return pseudoDone
			}
			pc := cssast.CPseudoClass{Name: name, Kind: kind, AnB: anb}
			p.Eat(csslexer.TWhitespace)
			if p.Peek().Kind == csslexer.TIdent && strings.EqualFold(p.DecodedText(p.Peek()), "of") {
				p.Next()
				p.Eat(csslexer.TWhitespace)
				p.pushPseudoList(f, stack, name, kind, savedEnd, &pc)
				return pseudoPaused
			}
			p.FinishNestedBlock(savedEnd)
			p.applyPseudoResult(f, pc, false)
			return pseudoContinue
		}

		if name == "lang" && !isElement {
			var idents []string
			for {
				t := p.Peek()
				if t.Kind != csslexer.TIdent && t.Kind != csslexer.TString {
					break
				}
				p.Next()
				idents = append(idents, p.DecodedText(t))
				p.Eat(csslexer.TWhitespace)
				if !p.Eat(csslexer.TComma) {
					break
				}
				p.Eat(csslexer.TWhitespace)
			}
			p.FinishNestedBlock(savedEnd)
			p.applyPseudoResult(f, cssast.CPseudoClass{Name: name, Kind: cssast.PseudoLang, Idents: idents}, false)
			return pseudoContinue
		}

		if name == "dir" && !isElement {
			ident, _ := p.expectIdentText()
			p.FinishNestedBlock(savedEnd)
			p.applyPseudoResult(f, cssast.CPseudoClass{Name: name, Kind: cssast.PseudoDir, Idents: []string{ident}}, false)
			return pseudoContinue
		}

		if (name == "host" || name == "host-context") && !isElement {
			kind := cssast.PseudoHost
			if name == "host-context" {
				kind = cssast.PseudoHostContext
			}
			child := p.newCompoundFrame(func(c cssast.CompoundSelector, ok bool) {
				p.FinishNestedBlock(savedEnd)
				if !ok {
					p.applyPseudoResult(f, cssast.CPseudoClass{Name: name, Kind: kind}, false)
				} else {
					p.applyPseudoResult(f, cssast.CPseudoClass{
						Name: name, Kind: kind,
						SelectorList: []cssast.ComplexSelector{{Compounds: []cssast.CompoundSelector{c}}},
					}, false)
				}
				f.resume = func() { p.compoundScan(f, stack) }
			})
			*stack = append(*stack, child)
			return pseudoPaused
		}

		// Unknown functional pseudo (::part(...), ::view-transition-group(...),
		// vendor-specific forms, ...): preserve the argument tokens verbatim.
		raw := p.ConvertTokens()
		p.FinishNestedBlock(savedEnd)
		kind := cssast.PseudoPlain
		if isElement {
			kind = cssast.PseudoElementFunctional
		}
		p.applyPseudoResult(f, cssast.CPseudoClass{Name: name, Kind: kind, RawArgs: raw}, isElement)
		return pseudoContinue
	}

	p.ReportError(tok.Range, ErrUnexpectedToken, "expected a pseudo-class or pseudo-element name")
	p.compoundFinish(f, stack, false)
	return pseudoDone
}

// pushPseudoList pushes the nested <complex-selector-list> frame backing
// :is()/:where()/:not()/:has() or nth's "of S" clause (nthPC set). Its
// failure is a hard failure of the whole compound (and everything above
// it), matching the original's unconditional "return false" on these
// arguments.
func (p *Parser) pushPseudoList(f *selFrame, stack *[]*selFrame, name string, kind cssast.PseudoClassKind, savedEnd int, nthPC *cssast.CPseudoClass) {
	child := &selFrame{kind: frameList}
	child.deliverList = func(list []cssast.ComplexSelector, ok bool) {
		p.FinishNestedBlock(savedEnd)
		if !ok {
			p.compoundFinish(f, stack, false)
			return
		}
		var pc cssast.CPseudoClass
		if nthPC != nil {
			pc = *nthPC
			pc.OfSel = list
		} else {
			pc = cssast.CPseudoClass{Name: name, Kind: kind, SelectorList: list}
		}
		p.applyPseudoResult(f, pc, false)
		f.resume = func() { p.compoundScan(f, stack) }
	}
	*stack = append(*stack, child)
}

func (p *Parser) isNestingSelector() bool {
	tok := p.PeekIncludingWhitespace()
	return tok.Kind == csslexer.TDelim && p.Source.TextForRange(tok.Range) == "&"
}

func (p *Parser) tryNamespacedTypeOrUniversal() (cssast.NamespacedName, bool) {
	save := p.State()
	ns, name, ok := p.tryParseNamespacedName(true)
	if !ok {
		p.Reset(save)
		return cssast.NamespacedName{}, false
	}
	return cssast.NamespacedName{HasNamespace: ns.hasNS, Namespace: ns.ns, Name: name}, true
}

type nsPrefix struct {
	hasNS bool
	ns    string
}

// tryParseNamespacedName handles "ns|name", "*|name", "|name" and bare
// "name"/"*"; allowUniversal permits "*" as the local part (type selectors)
// and is false for attribute names, where a bare "*" is not meaningful.
func (p *Parser) tryParseNamespacedName(allowUniversal bool) (nsPrefix, string, bool) {
	first, firstIsStar, firstOK := p.identOrStar()
	if !firstOK && p.Peek().Kind != csslexer.TColumn {
		return nsPrefix{}, "", false
	}

	if p.Is(csslexer.TColumn) {
		p.Next()
		local, localIsStar, ok := p.identOrStar()
		if !ok || (localIsStar && !allowUniversal) {
			return nsPrefix{}, "", false
		}
		ns := first
		if firstIsStar {
			ns = "*"
		}
		return nsPrefix{hasNS: true, ns: ns}, local, true
	}

	if !firstOK {
		return nsPrefix{}, "", false
	}
	if firstIsStar && !allowUniversal {
		return nsPrefix{}, "", false
	}
	return nsPrefix{}, first, true
}

func (p *Parser) identOrStar() (string, bool, bool) {
	tok := p.Peek()
	switch tok.Kind {
	case csslexer.TIdent:
		p.Next()
		return p.DecodedText(tok), false, true
	case csslexer.TDelim:
		if p.Source.TextForRange(tok.Range) == "*" {
			p.Next()
			return "*", true, true
		}
	}
	return "", false, false
}

func (p *Parser) expectIdentText() (string, bool) {
	tok := p.Peek()
	if tok.Kind != csslexer.TIdent {
		p.ReportError(tok.Range, ErrUnexpectedToken, "expected an identifier")
		return "", false
	}
	p.Next()
	return p.DecodedText(tok), true
}

func (p *Parser) parseAttributeSelector() (cssast.CAttribute, bool) {
	savedEnd, ok := p.EnterNestedBlock()
	if !ok {
		return cssast.CAttribute{}, false
	}
	defer p.FinishNestedBlock(savedEnd)

	p.Eat(csslexer.TWhitespace)
	nsp, name, ok := p.tryParseNamespacedName(false)
	if !ok {
		tok := p.Peek()
		p.ReportError(tok.Range, ErrUnexpectedToken, "expected an attribute name")
		return cssast.CAttribute{}, false
	}
	attr := cssast.CAttribute{Name: cssast.NamespacedName{HasNamespace: nsp.hasNS, Namespace: nsp.ns, Name: name}}
	p.Eat(csslexer.TWhitespace)

	if p.IsExhausted() {
		return attr, true
	}

	switch p.Peek().Kind {
	case csslexer.TDelim:
		if p.Source.TextForRange(p.Peek().Range) == "=" {
			p.Next()
			attr.Match = cssast.AttrMatchEqual
		}
	case csslexer.TIncludeMatch:
		p.Next()
		attr.Match = cssast.AttrMatchInclude
	case csslexer.TDashMatch:
		p.Next()
		attr.Match = cssast.AttrMatchDash
	case csslexer.TPrefixMatch:
		p.Next()
		attr.Match = cssast.AttrMatchPrefix
	case csslexer.TSuffixMatch:
		p.Next()
		attr.Match = cssast.AttrMatchSuffix
	case csslexer.TSubstringMatch:
		p.Next()
		attr.Match = cssast.AttrMatchSubstring
	}

	if attr.Match != cssast.AttrMatchNone {
		p.Eat(csslexer.TWhitespace)
		tok := p.Peek()
		switch tok.Kind {
		case csslexer.TIdent, csslexer.TString:
			p.Next()
			attr.Value = p.DecodedText(tok)
		default:
			p.ReportError(tok.Range, ErrUnexpectedToken, "expected an attribute value")
			return cssast.CAttribute{}, false
		}
		p.Eat(csslexer.TWhitespace)
		if p.Peek().Kind == csslexer.TIdent {
			switch strings.ToLower(p.DecodedText(p.Peek())) {
			case "i":
				attr.Case = cssast.AttrCaseInsensitive
				p.Next()
			case "s":
				attr.Case = cssast.AttrCaseSensitiveFlag
				p.Next()
			}
		}
	}

	p.Eat(csslexer.TWhitespace)
	return attr, true
}

// enterAlreadyOpenedBlock is EnterNestedBlock for the case where the opening
// function token has already been consumed by the caller (beginPseudo eats
// the TFunction token itself to read its name first).
func (p *Parser) enterAlreadyOpenedBlock(opener csslexer.Token) (int, bool) {
	openerIndex := p.index - 1
	stop := int(p.matchClose[openerIndex])
	if stop > p.end {
		stop = p.end
	}
	p.blockStack = append(p.blockStack, opener.Kind)
	saved := p.end
	p.end = stop
	return saved, true
}

// parseAnPlusB parses the An+B microsyntax: "odd", "even", "<integer>", or
// "<n-dimension>? ['+'|'-'] <integer>?" in any of its surface spellings.
func (p *Parser) parseAnPlusB() (cssast.AnPlusB, bool) {
	p.Eat(csslexer.TWhitespace)
	tok := p.Peek()

	if tok.Kind == csslexer.TIdent {
		switch strings.ToLower(p.DecodedText(tok)) {
		case "odd":
			p.Next()
			return cssast.AnPlusB{A: 2, B: 1}, true
		case "even":
			p.Next()
			return cssast.AnPlusB{A: 2, B: 0}, true
		}
	}

	if tok.Kind == csslexer.TNumber && tok.HasInt {
		p.Next()
		return cssast.AnPlusB{A: 0, B: int(tok.IntValue)}, true
	}

	if tok.Kind == csslexer.TDimension {
		text := strings.ToLower(p.DecodedText(tok))
		unit := text[countDigitsAndSign(text):]
		a := int(tok.Value)
		switch {
		case unit == "n":
			p.Next()
			return p.finishAnPlusBAfterA(a)
		case strings.HasPrefix(unit, "n-") && isAllDigits(unit[2:]):
			// "3n-1" tokenizes as one dimension with unit "n-1".
			b, err := strconv.Atoi(unit[1:])
			if err != nil {
				return cssast.AnPlusB{}, false
			}
			p.Next()
			return cssast.AnPlusB{A: a, B: b}, true
		}
		return cssast.AnPlusB{}, false
	}

	if tok.Kind == csslexer.TIdent {
		text := strings.ToLower(p.DecodedText(tok))
		switch {
		case text == "n" || text == "-n":
			a := 1
			if text == "-n" {
				a = -1
			}
			p.Next()
			return p.finishAnPlusBAfterA(a)
		case strings.HasPrefix(text, "n-") && isAllDigits(text[2:]):
			b, err := strconv.Atoi(text[1:])
			if err == nil {
				p.Next()
				return cssast.AnPlusB{A: 1, B: b}, true
			}
		case strings.HasPrefix(text, "-n-") && isAllDigits(text[3:]):
			b, err := strconv.Atoi(text[2:])
			if err == nil {
				p.Next()
				return cssast.AnPlusB{A: -1, B: b}, true
			}
		}
	}

	return cssast.AnPlusB{}, false
}

func countDigitsAndSign(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// finishAnPlusBAfterA reads the optional " [+|-] <integer>" tail following an
// An term.
func (p *Parser) finishAnPlusBAfterA(a int) (cssast.AnPlusB, bool) {
	save := p.State()
	p.Eat(csslexer.TWhitespace)
	tok := p.Peek()
	if tok.Kind == csslexer.TDelim {
		sign := p.Source.TextForRange(tok.Range)
		if sign == "+" || sign == "-" {
			p.Next()
			p.Eat(csslexer.TWhitespace)
			n := p.Peek()
			if n.Kind != csslexer.TNumber || !n.HasInt {
				p.Reset(save)
				return cssast.AnPlusB{A: a, B: 0}, true
			}
			p.Next()
			b := int(n.IntValue)
			if sign == "-" {
				b = -b
			}
			return cssast.AnPlusB{A: a, B: b}, true
		}
	}
	if tok.Kind == csslexer.TNumber && tok.HasInt {
		// "2n+1" / "-n-3": the sign is part of the number token.
		if sign := p.Source.TextForRange(tok.Range)[0]; sign == '+' || sign == '-' {
			p.Next()
			return cssast.AnPlusB{A: a, B: int(tok.IntValue)}, true
		}
	}
	p.Reset(save)
	return cssast.AnPlusB{A: a, B: 0}, true
}

// Specificity computes the (ids, classes, elements) triple for a complex
// selector per §4.4: logical pseudo-classes (:is/:where/:not/:has) take the
// specificity of their most specific argument (:where contributes zero),
// :nth-* contribute one "class" plus the "of S" argument's specificity.
func Specificity(sel cssast.ComplexSelector) cssast.Specificity {
	var total cssast.Specificity
	for _, compound := range sel.Compounds {
		if compound.TypeSelector != nil && compound.TypeSelector.Name != "*" {
			total.Elements++
		}
		for _, sub := range compound.Subclasses {
			total = total.Add(componentSpecificity(sub))
		}
		if compound.PseudoElement != nil {
			total.Elements++
		}
		for i := range compound.TrailingPseudoClasses {
			total = total.Add(componentSpecificity(&compound.TrailingPseudoClasses[i]))
		}
	}
	return total
}

func componentSpecificity(c cssast.Component) cssast.Specificity {
	switch v := c.(type) {
	case *cssast.CID:
		return cssast.Specificity{IDs: 1}
	case *cssast.CClass:
		return cssast.Specificity{Classes: 1}
	case *cssast.CAttribute:
		return cssast.Specificity{Classes: 1}
	case *cssast.CNesting:
		return cssast.Specificity{}
	case *cssast.CPseudoClass:
		switch v.Kind {
		case cssast.PseudoWhere:
			return cssast.Specificity{}
		case cssast.PseudoIs, cssast.PseudoNot:
			return maxSpecificityOf(v.SelectorList)
		case cssast.PseudoHas:
			return maxSpecificityOf(v.SelectorList)
		case cssast.PseudoNthChild, cssast.PseudoNthLastChild, cssast.PseudoNthOfType, cssast.PseudoNthLastOfType:
			s := cssast.Specificity{Classes: 1}
			return s.Add(maxSpecificityOf(v.OfSel))
		default:
			return cssast.Specificity{Classes: 1}
		}
	}
	return cssast.Specificity{}
}

func maxSpecificityOf(list []cssast.ComplexSelector) cssast.Specificity {
	var best cssast.Specificity
	for _, s := range list {
		best = best.Max(Specificity(s))
	}
	return best
}
