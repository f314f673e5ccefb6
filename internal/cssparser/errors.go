package cssparser

import (
	"fmt"

	"github.com/6over3/CSSKit-sub002/internal/csslexer"
	"github.com/6over3/CSSKit-sub002/internal/logger"
)

// BasicParseErrorKind is the first of the two error layers from §4.2.
type BasicParseErrorKind struct {
	Tag      BasicParseErrorTag
	Token    csslexer.T // meaningful for UnexpectedToken
	AtName   string     // meaningful for AtRuleInvalid and AtRuleBodyInvalid
}

type BasicParseErrorTag uint8

const (
	ErrUnexpectedToken BasicParseErrorTag = iota
	ErrEndOfInput
	ErrAtRuleInvalid
	ErrAtRuleBodyInvalid
	ErrQualifiedRuleInvalid
	ErrExtraInput
)

func (k BasicParseErrorKind) String() string {
	switch k.Tag {
	case ErrUnexpectedToken:
		return fmt.Sprintf("unexpected %s", k.Token)
	case ErrEndOfInput:
		return "unexpected end of input"
	case ErrAtRuleInvalid:
		return fmt.Sprintf("invalid at-rule prelude for @%s", k.AtName)
	case ErrAtRuleBodyInvalid:
		return fmt.Sprintf("invalid at-rule body for @%s", k.AtName)
	case ErrQualifiedRuleInvalid:
		return "invalid selector list"
	case ErrExtraInput:
		return "unexpected trailing input"
	default:
		return "parse error"
	}
}

// ParseError wraps a BasicParseErrorKind or a host-supplied custom error,
// always with a source location. E is the host's custom error payload type;
// Core itself never constructs the Custom variant.
type ParseError[E any] struct {
	IsCustom bool
	Basic    BasicParseErrorKind
	Custom   E
	Range    logger.Range
}

func (e ParseError[E]) Error() string {
	if e.IsCustom {
		return fmt.Sprintf("%v", e.Custom)
	}
	return e.Basic.String()
}

// RuleParseError additionally records the input slice covering the
// offending construct, for diagnostics that want to show the user what was
// dropped.
type RuleParseError[E any] struct {
	ParseError[E]
	Slice string
}

// Diagnostic is what actually lands in the error channel (C9): a fully
// resolved source location plus the message text, independent of whether
// the failure came from BasicParseErrorKind or a custom extension error.
type Diagnostic struct {
	Location logger.MsgLocation
	Kind     BasicParseErrorTag
	Message  string
	Slice    string
}
