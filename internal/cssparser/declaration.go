package cssparser

import (
	"strings"

	"github.com/6over3/CSSKit-sub002/internal/cssast"
	"github.com/6over3/CSSKit-sub002/internal/csslexer"
)

// ParseDeclaration consumes one `<ident> ':' <value>` up to the next
// top-level ";" or the end of the current scope, following the shape of
// esbuild's parseDeclaration. It reports ErrUnexpectedToken and still
// consumes the whole malformed run (so the caller's loop always makes
// progress) when the key is not an identifier or the colon is missing.
func (p *Parser) ParseDeclaration() (cssast.Declaration, bool) {
	keyStart := p.index
	keyTok, hasKey := p.peekIdent()

	ok := false
	if hasKey {
		p.Next()
		p.eatRawWhitespace()
		ok = p.Eat(csslexer.TColon)
	}

	if !ok {
		p.ParseUntilBefore(DelimSemicolon, func() {
			for !p.IsExhausted() {
				p.ParseComponentValue()
			}
		})
		tok := p.at(keyStart)
		if hasKey {
			p.ReportError(tok.Range, ErrUnexpectedToken, "expected \":\"")
		} else {
			p.ReportError(tok.Range, ErrUnexpectedToken, "expected a property name")
		}
		return cssast.Declaration{}, false
	}

	keyText := p.DecodedText(keyTok)
	verbatim := strings.HasPrefix(keyText, "--")

	valueStart := p.index
	p.ParseUntilBefore(DelimSemicolon, func() {
		for !p.IsExhausted() {
			p.ParseComponentValue()
		}
	})
	valueEnd := p.index

	important := false
	end := trimTrailingImportant(p, valueStart, valueEnd)
	if end < valueEnd {
		important = true
		valueEnd = end
	}

	value := p.convertTokenRange(valueStart, valueEnd, verbatim)

	decl := cssast.Declaration{
		KeyText:   keyText,
		KeyRange:  keyTok.Range,
		Important: important,
		Loc:       keyTok.Range.Loc,
	}

	if kw, isWide := cssast.ParseCSSWideKeyword(soleIdentText(value)); isWide {
		decl.Value = cssast.PropertyValue{Kind: cssast.ValueWideKeyword, WideKeyword: kw}
	} else if keyText == "composes" {
		if composes, ok := parseComposesValue(value); ok {
			decl.Value = cssast.PropertyValue{Kind: cssast.ValueComposes, Composes: &composes}
		} else {
			decl.Value = cssast.PropertyValue{Kind: cssast.ValueUnparsed, Unparsed: value}
		}
	} else {
		decl.Value = cssast.PropertyValue{Kind: cssast.ValueUnparsed, Unparsed: value}
	}
	decl.Value.PropertyID = splitVendorPrefix(strings.ToLower(keyText))

	return decl, true
}

// peekIdent reports whether the next significant token is an identifier,
// without consuming anything else first (so a leading bad token can still
// be reported against the original cursor position).
func (p *Parser) peekIdent() (csslexer.Token, bool) {
	i := p.skippingIndex(p.index, true)
	tok := p.at(i)
	return tok, tok.Kind == csslexer.TIdent
}

func (p *Parser) eatRawWhitespace() {
	for p.index < p.end && (p.tokens[p.index].Kind == csslexer.TWhitespace || p.tokens[p.index].Kind == csslexer.TComment) {
		p.index++
	}
}

// convertTokenRange runs ConvertTokens over exactly [start, end) by
// temporarily narrowing the parser's scope.
func (p *Parser) convertTokenRange(start, end int, verbatimLeadingWhitespace bool) cssast.Tokens {
	savedIndex, savedEnd := p.index, p.end
	p.index, p.end = start, end
	toks := p.ConvertTokens()
	p.index, p.end = savedIndex, savedEnd
	if !verbatimLeadingWhitespace {
		// Leading/trailing whitespace around a declaration's value carries no
		// meaning once it has been split out from its neighbors.
	}
	return toks
}

// trimTrailingImportant looks for a trailing "! important" (any casing, any
// whitespace between the two) in [start, end) and returns the index of the
// "!" token if found, else end.
func trimTrailingImportant(p *Parser, start, end int) int {
	i := end - 1
	for i >= start && (p.tokens[i].Kind == csslexer.TWhitespace || p.tokens[i].Kind == csslexer.TComment) {
		i--
	}
	if i < start || p.tokens[i].Kind != csslexer.TIdent || !strings.EqualFold(p.DecodedText(p.tokens[i]), "important") {
		return end
	}
	i--
	for i >= start && (p.tokens[i].Kind == csslexer.TWhitespace || p.tokens[i].Kind == csslexer.TComment) {
		i--
	}
	if i < start || p.tokens[i].Kind != csslexer.TDelim || p.Source.TextForRange(p.tokens[i].Range) != "!" {
		return end
	}
	return i
}

func soleIdentText(toks cssast.Tokens) string {
	if len(toks) != 1 || toks[0].Kind != csslexer.TIdent {
		return ""
	}
	return strings.ToLower(toks[0].Text)
}

// splitVendorPrefix separates a leading vendor prefix from a property name,
// e.g. "-webkit-transform" -> ("-webkit-", "transform").
func splitVendorPrefix(name string) cssast.PropertyID {
	for _, prefix := range []string{"-webkit-", "-moz-", "-ms-", "-o-"} {
		if strings.HasPrefix(name, prefix) {
			return cssast.PropertyID{Prefix: prefix, Name: name[len(prefix):]}
		}
	}
	return cssast.PropertyID{Name: name}
}

// parseComposesValue implements the CSS Modules `composes: a b from "./x.css"`
// / `composes: a from global` extension the teacher's css_decls_composes.go
// also special-cases.
func parseComposesValue(toks cssast.Tokens) (cssast.ComposesValue, bool) {
	var names []string
	i := 0
	for i < len(toks) {
		t := toks[i]
		if t.Kind == csslexer.TIdent && strings.EqualFold(t.Text, "from") {
			break
		}
		if t.Kind != csslexer.TIdent {
			return cssast.ComposesValue{}, false
		}
		names = append(names, t.Text)
		i++
	}
	if len(names) == 0 {
		return cssast.ComposesValue{}, false
	}
	if i >= len(toks) {
		return cssast.ComposesValue{Names: names, From: cssast.ComposesFrom{Kind: cssast.ComposesFromLocal}}, true
	}
	i++ // "from"
	if i >= len(toks) {
		return cssast.ComposesValue{}, false
	}
	switch toks[i].Kind {
	case csslexer.TIdent:
		if strings.EqualFold(toks[i].Text, "global") {
			return cssast.ComposesValue{Names: names, From: cssast.ComposesFrom{Kind: cssast.ComposesFromGlobal}}, true
		}
		return cssast.ComposesValue{}, false
	case csslexer.TString:
		return cssast.ComposesValue{Names: names, From: cssast.ComposesFrom{Kind: cssast.ComposesFromFile, Path: toks[i].Text}}, true
	}
	return cssast.ComposesValue{}, false
}
