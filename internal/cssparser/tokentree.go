package cssparser

import (
	"github.com/6over3/CSSKit-sub002/internal/cssast"
	"github.com/6over3/CSSKit-sub002/internal/csslexer"
)

// ConvertTokens turns the current scope's remaining significant tokens into
// the retained cssast.Token tree: simple blocks ("(", "[", "{", a function)
// become a Token whose Children holds everything up to the matching closer,
// mirroring esbuild's convertTokensHelper. Unlike esbuild this builds the
// tree with an explicit stack rather than recursing block-by-block, since a
// component value can itself be nested arbitrarily deep (§9).
func (p *Parser) ConvertTokens() cssast.Tokens {
	type frame struct {
		closeEnd int
		out      *cssast.Tokens
	}

	root := cssast.Tokens{}
	stack := []frame{{closeEnd: p.end, out: &root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if p.index >= top.closeEnd {
			if len(stack) == 1 {
				break
			}
			stack = stack[:len(stack)-1]
			continue
		}

		tok := p.tokens[p.index]
		if tok.Kind == csslexer.TWhitespace || tok.Kind == csslexer.TComment {
			if n := len(*top.out); n > 0 {
				(*top.out)[n-1].HasWhitespaceAfter = true
			}
			p.index++
			continue
		}

		switch tok.Kind {
		case csslexer.TOpenParen, csslexer.TOpenBracket, csslexer.TOpenBrace, csslexer.TFunction:
			stop := int(p.matchClose[p.index])
			if stop > top.closeEnd {
				stop = top.closeEnd
			}
			node := cssast.Token{
				Loc:  tok.Range.Loc,
				Kind: tok.Kind,
				Text: p.DecodedText(tok),
			}
			p.index++
			*top.out = append(*top.out, node)
			child := &(*top.out)[len(*top.out)-1].Children
			stack = append(stack, frame{closeEnd: stop, out: child})

		case csslexer.TCloseParen, csslexer.TCloseBracket, csslexer.TCloseBrace:
			// Only reachable when it is the matching closer for the scope
			// we are in (computeMatchingClosers guarantees stray closers
			// never fall inside top.closeEnd), so just step past it.
			p.index++

		default:
			node := cssast.Token{
				Loc:          tok.Range.Loc,
				Kind:         tok.Kind,
				Text:         p.DecodedText(tok),
				IsID:         tok.IsID,
				HasInt:       tok.HasInt,
				IntValue:     tok.IntValue,
				NumericValue: tok.Value,
				UnitOffset:   tok.UnitOffset,
			}
			p.index++
			*top.out = append(*top.out, node)
		}
	}

	return root
}
