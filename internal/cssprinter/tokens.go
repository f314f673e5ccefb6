package cssprinter

import (
	"github.com/6over3/CSSKit-sub002/internal/cssast"
	"github.com/6over3/CSSKit-sub002/internal/csslexer"
)

// tokenSerialKind buckets a token's printed form into the handful of
// classes whose adjacency can re-tokenize as something else once two
// token's text is concatenated with nothing between (§4.8). tkNone means
// "no token printed yet in this position" -- never compared against.
type tokenSerialKind uint8

const (
	tkNone tokenSerialKind = iota
	tkIdentLike               // ident, function name, at-keyword, hash, url, dimension unit
	tkNumberLike              // number, percentage, dimension value
	tkOther
)

func classifyToken(tok cssast.Token) tokenSerialKind {
	switch tok.Kind {
	case csslexer.TIdent, csslexer.TFunction, csslexer.TAtKeyword, csslexer.THash, csslexer.THashID,
		csslexer.TURL, csslexer.TDimension, csslexer.TUnicodeRange:
		return tkIdentLike
	case csslexer.TNumber, csslexer.TPercentage:
		return tkNumberLike
	case csslexer.TDelim:
		switch tok.Text {
		case "-":
			return tkIdentLike
		case ".", "+":
			return tkNumberLike
		}
		return tkOther
	default:
		return tkOther
	}
}

// needsSeparator reports whether a "/**/" comment must be inserted between
// two adjacent tokens so they do not re-tokenize into a single token, per
// the serialization rule in §4.8 ("each emitted token carries a
// serialization-type tag; when two adjacent tokens could re-tokenize as a
// different single token, insert /**/ between them").
func needsSeparator(prev, cur tokenSerialKind) bool {
	if prev == tkNone || cur == tkOther {
		return false
	}
	return true
}

func isBlockOpener(k csslexer.T) bool {
	switch k {
	case csslexer.TOpenParen, csslexer.TOpenBracket, csslexer.TOpenBrace, csslexer.TFunction:
		return true
	}
	return false
}

func closerFor(k csslexer.T) byte {
	switch k {
	case csslexer.TOpenParen, csslexer.TFunction:
		return ')'
	case csslexer.TOpenBracket:
		return ']'
	case csslexer.TOpenBrace:
		return '}'
	}
	return 0
}

// printTokens writes a retained Token tree. Children nest exactly as deep as
// the input allowed ConvertTokens to build them, so printing walks an
// explicit stack of sibling-list cursors rather than recursing into
// Token.Children, keeping call-stack depth bounded for a pathological
// million-deep nested-block input (§9).
func (p *printer) printTokens(toks cssast.Tokens) {
	type frame struct {
		toks    cssast.Tokens
		i       int
		closeCh byte
	}
	stack := []*frame{{toks: toks}}
	prevKind := tkNone

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.i >= len(top.toks) {
			if top.closeCh != 0 {
				p.sb.WriteByte(top.closeCh)
				prevKind = tkOther
			}
			stack = stack[:len(stack)-1]
			continue
		}

		tok := top.toks[top.i]
		top.i++

		kind := classifyToken(tok)
		if needsSeparator(prevKind, kind) {
			p.sb.WriteString("/**/")
		}
		p.writeTokenText(tok)
		prevKind = kind

		if isBlockOpener(tok.Kind) {
			stack = append(stack, &frame{toks: tok.Children, closeCh: closerFor(tok.Kind)})
			prevKind = tkNone
		}

		if tok.HasWhitespaceAfter {
			p.sb.WriteByte(' ')
			prevKind = tkNone
		}
	}
}

func (p *printer) writeTokenText(tok cssast.Token) {
	switch tok.Kind {
	case csslexer.TFunction:
		p.sb.WriteString(tok.Text)
		p.sb.WriteByte('(')
	case csslexer.TAtKeyword:
		p.sb.WriteByte('@')
		p.sb.WriteString(tok.Text)
	case csslexer.THash, csslexer.THashID:
		p.sb.WriteByte('#')
		p.sb.WriteString(tok.Text)
	case csslexer.TString:
		p.printQuotedString(tok.Text)
	case csslexer.TURL:
		p.sb.WriteString("url(")
		p.printQuotedString(tok.Text)
		p.sb.WriteByte(')')
	case csslexer.TOpenParen:
		p.sb.WriteByte('(')
	case csslexer.TOpenBracket:
		p.sb.WriteByte('[')
	case csslexer.TOpenBrace:
		p.sb.WriteByte('{')
	case csslexer.TCDO:
		p.sb.WriteString("<!--")
	case csslexer.TCDC:
		p.sb.WriteString("-->")
	case csslexer.TColon:
		p.sb.WriteByte(':')
	case csslexer.TSemicolon:
		p.sb.WriteByte(';')
	case csslexer.TComma:
		p.sb.WriteByte(',')
	default:
		p.sb.WriteString(tok.Text)
	}
}
