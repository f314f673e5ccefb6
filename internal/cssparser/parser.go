// Package cssparser is the cursor, rule builder, selector parser, condition
// mini-grammars and calc engine described in §4.2-§4.6. It follows the
// shape of esbuild's internal/css_parser package (an index-based cursor over
// a pre-tokenized slice, with "p.peek/p.eat/p.expect" combinators) but
// generalizes the top-level driver to the full CSS Syntax Level 3 at-rule
// table and adds the structured selector/condition/calc trees esbuild's
// bundler-focused parser never needed.
package cssparser

import (
	"github.com/6over3/CSSKit-sub002/internal/csslexer"
	"github.com/6over3/CSSKit-sub002/internal/logger"
)

// Since the whole token stream is produced up front (like esbuild does),
// a cursor snapshot is just a token index: re-deriving line/column from a
// byte range is an O(log n) tracker lookup done lazily only when a
// diagnostic is actually emitted, so there is nothing else worth caching on
// State.
type State struct {
	index int
}

// Parser wraps a pre-tokenized source with a bounded-depth block stack. It
// is the "ParserState cursor + nested-block bookkeeping" component (C2).
type Parser struct {
	Log     logger.Log
	Source  logger.Source
	Tracker logger.LineColumnTracker

	tokens []csslexer.Token
	index  int
	end    int // exclusive upper bound of the current nested-block scope

	// blockStack records the opening-token kind of every nested block the
	// parser has descended into via EnterNestedBlock, so FinishNestedBlock
	// can validate pairing discipline even though a single Parser value is
	// reused (cloned, really) across many recursive-descent call sites.
	blockStack []csslexer.T

	// matchClose[i] is the index of the token that closes the block opened
	// by tokens[i] (or len(tokens) if it never closes). Computing this once
	// with an explicit stack means EnterNestedBlock is O(1) instead of
	// rescanning forward on every descent, which matters once nesting is a
	// million levels deep (§9): with rescanning, total work would be
	// quadratic in the input size even though the call stack stayed flat.
	matchClose []int32

	diagnostics *[]Diagnostic
}

func NewParser(log logger.Log, source logger.Source) *Parser {
	result := csslexer.Tokenize(log, source)
	diags := make([]Diagnostic, 0, 8)
	p := &Parser{
		Log:         log,
		Source:      source,
		Tracker:     logger.MakeLineColumnTracker(&source),
		tokens:      result.Tokens,
		end:         len(result.Tokens),
		diagnostics: &diags,
	}
	p.computeMatchingClosers()
	return p
}

// computeMatchingClosers walks the whole token array once with an explicit
// stack (never recursion) so that an input with a million nested blocks
// still runs in linear time and constant call-stack depth.
func (p *Parser) computeMatchingClosers() {
	p.matchClose = make([]int32, len(p.tokens))
	for i := range p.matchClose {
		p.matchClose[i] = int32(len(p.tokens))
	}
	var openers []int
	for i, tok := range p.tokens {
		switch tok.Kind {
		case csslexer.TOpenParen, csslexer.TOpenBracket, csslexer.TOpenBrace, csslexer.TFunction:
			openers = append(openers, i)
		case csslexer.TCloseParen, csslexer.TCloseBracket, csslexer.TCloseBrace:
			if len(openers) > 0 && openerCloser(p.tokens[openers[len(openers)-1]].Kind) == tok.Kind {
				top := openers[len(openers)-1]
				openers = openers[:len(openers)-1]
				p.matchClose[top] = int32(i)
			}
			// A mismatched closer (e.g. "]" inside "(") does not end any
			// open block per the CSS Syntax consume-a-simple-block
			// algorithm; it is left as a stray-close token the rule
			// builder reports when it is actually reached in scope.
		}
	}
}

func (p *Parser) Diagnostics() []Diagnostic { return *p.diagnostics }

func (p *Parser) ReportError(r logger.Range, tag BasicParseErrorTag, message string) {
	*p.diagnostics = append(*p.diagnostics, Diagnostic{
		Location: p.Tracker.MsgLocation(r),
		Kind:     tag,
		Message:  message,
		Slice:    p.Source.TextForRange(r),
	})
	p.Log.AddError(&p.Tracker, r, message)
}

// --- token access -----------------------------------------------------

func (p *Parser) at(i int) csslexer.Token {
	if i >= p.end {
		return csslexer.Token{Kind: csslexer.TEndOfFile}
	}
	return p.tokens[i]
}

// Current returns the token at the cursor without filtering.
func (p *Parser) Current() csslexer.Token { return p.at(p.index) }

func (p *Parser) IsExhausted() bool {
	i := p.skippingIndex(p.index, true)
	return i >= p.end || p.tokens[i].Kind == csslexer.TEndOfFile
}

// skippingIndex returns the first index at or after i that is not
// whitespace/comment (or i itself if includingWhitespace is false and no
// skip is requested).
func (p *Parser) skippingIndex(i int, skip bool) int {
	if !skip {
		return i
	}
	for i < p.end {
		k := p.tokens[i].Kind
		if k != csslexer.TWhitespace && k != csslexer.TComment {
			break
		}
		i++
	}
	return i
}

// Peek returns the next significant token without consuming it.
func (p *Parser) Peek() csslexer.Token {
	return p.at(p.skippingIndex(p.index, true))
}

// PeekIncludingWhitespace returns the raw next token, comments included.
func (p *Parser) PeekIncludingWhitespace() csslexer.Token {
	return p.at(p.index)
}

// Next consumes and returns the next significant token.
func (p *Parser) Next() csslexer.Token {
	p.index = p.skippingIndex(p.index, true)
	tok := p.at(p.index)
	if tok.Kind != csslexer.TEndOfFile {
		p.index++
	}
	return tok
}

func (p *Parser) NextIncludingWhitespace() csslexer.Token {
	tok := p.at(p.index)
	if tok.Kind != csslexer.TEndOfFile {
		p.index++
	}
	return tok
}

func (p *Parser) Is(kind csslexer.T) bool { return p.Peek().Kind == kind }

func (p *Parser) Eat(kind csslexer.T) bool {
	if kind == csslexer.TWhitespace {
		ate := false
		for p.index < p.end {
			switch p.tokens[p.index].Kind {
			case csslexer.TWhitespace:
				ate = true
			case csslexer.TComment:
			default:
				return ate
			}
			p.index++
		}
		return ate
	}
	if p.Is(kind) {
		p.Next()
		return true
	}
	return false
}

func (p *Parser) Expect(kind csslexer.T) bool {
	if p.Eat(kind) {
		return true
	}
	tok := p.Peek()
	if tok.Kind == csslexer.TEndOfFile {
		p.ReportError(tok.Range, ErrEndOfInput, "unexpected end of input")
	} else {
		p.ReportError(tok.Range, ErrUnexpectedToken, "unexpected "+tok.Kind.String())
	}
	return false
}

func (p *Parser) DecodedText(tok csslexer.Token) string {
	return tok.DecodedText(p.Source.Contents)
}

// --- save/restore -------------------------------------------------------

func (p *Parser) State() State { return State{index: p.index} }

func (p *Parser) Reset(s State) { p.index = s.index }

// TryParse runs f; on failure it rewinds the cursor so f has no observable
// side effect on the token stream, matching the contract in §4.2.
func TryParse[R any](p *Parser, f func() (R, bool)) (R, bool) {
	save := p.State()
	result, ok := f()
	if !ok {
		p.Reset(save)
	}
	return result, ok
}

// ParseEntirely runs f and then requires the cursor to be at the end of its
// current scope, reporting ErrExtraInput otherwise.
func ParseEntirely[R any](p *Parser, f func() (R, bool)) (R, bool) {
	result, ok := f()
	if !ok {
		var zero R
		return zero, false
	}
	if !p.IsExhausted() {
		tok := p.Peek()
		p.ReportError(tok.Range, ErrExtraInput, "unexpected trailing input")
		var zero R
		return zero, false
	}
	return result, true
}

// --- delimited sub-parses -------------------------------------------------

// Delimiters is a bit-mask drawn from the set { ; , ! { } ) ] } per §4.2.
type Delimiters uint8

const (
	DelimSemicolon Delimiters = 1 << iota
	DelimComma
	DelimBang
	DelimCloseBrace
	DelimCloseParen
	DelimCloseBracket
)

func (p *Parser) matchesDelimiter(tok csslexer.Token, delims Delimiters) bool {
	switch tok.Kind {
	case csslexer.TSemicolon:
		return delims&DelimSemicolon != 0
	case csslexer.TComma:
		return delims&DelimComma != 0
	case csslexer.TDelim:
		return delims&DelimBang != 0 && p.Source.TextForRange(tok.Range) == "!"
	case csslexer.TCloseBrace:
		return delims&DelimCloseBrace != 0
	case csslexer.TCloseParen:
		return delims&DelimCloseParen != 0
	case csslexer.TCloseBracket:
		return delims&DelimCloseBracket != 0
	}
	return false
}

// ParseUntilBefore scopes f to the tokens before the next top-level
// occurrence of a delimiter in delims; nested blocks are transparent. The
// cursor sits just before the delimiter (or at EOF) when this returns. A
// non-exhaustive f is not itself an error here -- remaining tokens are
// simply discarded, matching the "discards the remainder" behavior in §4.2.
func (p *Parser) ParseUntilBefore(delims Delimiters, f func()) {
	stop := p.findTopLevelDelimiter(delims)
	savedEnd := p.end
	p.end = stop
	f()
	p.index = stop
	p.end = savedEnd
}

// ParseUntilAfter is ParseUntilBefore but additionally consumes the
// delimiter itself (or advances past EOF, which behaves like the
// delimiter).
func (p *Parser) ParseUntilAfter(delims Delimiters, f func()) {
	p.ParseUntilBefore(delims, f)
	if p.index < len(p.tokens) && p.matchesDelimiter(p.tokens[p.index], delims) {
		p.index++
	}
}

// findTopLevelDelimiter scans forward from the cursor for the first
// delimiter not nested inside a "( [ {" block, returning its index (or the
// current scope's end).
func (p *Parser) findTopLevelDelimiter(delims Delimiters) int {
	depth := 0
	i := p.index
	for i < p.end {
		tok := p.tokens[i]
		switch tok.Kind {
		case csslexer.TOpenParen, csslexer.TOpenBracket, csslexer.TOpenBrace, csslexer.TFunction:
			depth++
		case csslexer.TCloseParen, csslexer.TCloseBracket, csslexer.TCloseBrace:
			if depth > 0 {
				depth--
			} else if p.matchesDelimiter(tok, delims) {
				return i
			}
		default:
			if depth == 0 && p.matchesDelimiter(tok, delims) {
				return i
			}
		}
		i++
	}
	return p.end
}

// openerCloser maps an opening token to its matching closer.
func openerCloser(opener csslexer.T) csslexer.T {
	switch opener {
	case csslexer.TOpenParen, csslexer.TFunction:
		return csslexer.TCloseParen
	case csslexer.TOpenBracket:
		return csslexer.TCloseBracket
	case csslexer.TOpenBrace:
		return csslexer.TCloseBrace
	}
	return csslexer.TEndOfFile
}

// EnterNestedBlock requires the current token to be "( [ {" or a function,
// pushes it onto the block stack, and narrows the parser's scope to end at
// the matching closer (exclusive). It returns false (and reports nothing
// itself) if the current token does not open anything.
func (p *Parser) EnterNestedBlock() (savedEnd int, ok bool) {
	tok := p.Peek()
	switch tok.Kind {
	case csslexer.TOpenParen, csslexer.TOpenBracket, csslexer.TOpenBrace, csslexer.TFunction:
	default:
		return p.end, false
	}
	start := p.skippingIndex(p.index, true)
	p.index = start + 1

	// matchClose was computed once over the whole token array, so this is
	// an O(1) lookup no matter how deep start is nested. Clamp to the
	// current scope's end in case a caller has already narrowed it (via
	// ParseUntilBefore) to something tighter than the structural match.
	stop := int(p.matchClose[start])
	if stop > p.end {
		stop = p.end
	}

	p.blockStack = append(p.blockStack, tok.Kind)
	saved := p.end
	p.end = stop
	return saved, true
}

// FinishNestedBlock restores the parser's scope and advances past the
// closing token (or EOF, which closes implicitly per §4.11).
func (p *Parser) FinishNestedBlock(savedEnd int) {
	if n := len(p.blockStack); n > 0 {
		p.blockStack = p.blockStack[:n-1]
	}
	p.index = p.end
	p.end = savedEnd
	if p.index < p.end && isCloserToken(p.tokens[p.index].Kind) {
		p.index++
	}
}

func isCloserToken(k csslexer.T) bool {
	return k == csslexer.TCloseParen || k == csslexer.TCloseBracket || k == csslexer.TCloseBrace
}

// ParseComponentValue consumes one component value: either a single leaf
// token, or a simple block (and everything inside it) when the current
// token opens one. It is the unit of work parseUntilBefore scans over when
// it does not interpret the tokens itself.
//
// Blocks nest via an explicit stack of saved scope-ends rather than Go call
// recursion, so a pathological input with hundreds of thousands of nested
// brackets does not exhaust the goroutine stack (§9).
func (p *Parser) ParseComponentValue() {
	type frame struct{ savedEnd int }

	switch p.Peek().Kind {
	case csslexer.TOpenParen, csslexer.TOpenBracket, csslexer.TOpenBrace, csslexer.TFunction:
		savedEnd, ok := p.EnterNestedBlock()
		if !ok {
			p.Next()
			return
		}
		stack := []frame{{savedEnd}}
		for len(stack) > 0 {
			if p.IsExhausted() {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				p.FinishNestedBlock(top.savedEnd)
				continue
			}
			switch p.Peek().Kind {
			case csslexer.TOpenParen, csslexer.TOpenBracket, csslexer.TOpenBrace, csslexer.TFunction:
				inner, ok := p.EnterNestedBlock()
				if !ok {
					p.Next()
					continue
				}
				stack = append(stack, frame{inner})
			default:
				p.Next()
			}
		}
	default:
		p.Next()
	}
}
