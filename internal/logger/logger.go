// Package logger carries source locations and collects diagnostics produced
// while tokenizing and parsing a stylesheet. It mirrors the small slice of a
// bundler-style logger that a standalone syntax library actually needs: byte
// ranges into the original source, UTF-16 column numbers for source-map
// consumers, and an append-only list of messages that never aborts a parse.
package logger

import (
	"fmt"
	"sort"
)

// Loc is a zero-based byte offset into a Source's Contents.
type Loc struct {
	Start int32
}

// Range is a half-open byte range: [Loc.Start, Loc.Start+Len).
type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 { return r.Loc.Start + r.Len }

// Source is the input given to the tokenizer. PrettyPath is only used for
// diagnostics; it is never interpreted as a filesystem path.
type Source struct {
	Contents   string
	PrettyPath string
}

func (s *Source) TextForRange(r Range) string {
	return s.Contents[r.Loc.Start:r.End()]
}

// LineColumnTracker maps byte offsets to 1-based line and column numbers.
// Columns are counted in UTF-16 code units per the tokenizer contract so
// that source-map consumers agree with the positions a browser would report;
// codepoints outside the BMP contribute 2 columns. The search over line
// starts is cached so repeated lookups on the same source are O(log n).
type LineColumnTracker struct {
	source     *Source
	lineStarts []int32
}

func MakeLineColumnTracker(source *Source) LineColumnTracker {
	starts := []int32{0}
	for i := 0; i < len(source.Contents); i++ {
		switch source.Contents[i] {
		case '\n':
			starts = append(starts, int32(i+1))
		case '\r':
			if i+1 >= len(source.Contents) || source.Contents[i+1] != '\n' {
				starts = append(starts, int32(i+1))
			}
		case '\f':
			starts = append(starts, int32(i+1))
		}
	}
	return LineColumnTracker{source: source, lineStarts: starts}
}

// LineAndColumn returns 1-based line and column for a byte offset.
func (t *LineColumnTracker) LineAndColumn(offset int32) (line int, column int) {
	i := sort.Search(len(t.lineStarts), func(i int) bool { return t.lineStarts[i] > offset })
	lineIndex := i - 1
	if lineIndex < 0 {
		lineIndex = 0
	}
	lineStart := t.lineStarts[lineIndex]
	col := 0
	contents := t.source.Contents
	for p := int(lineStart); p < int(offset) && p < len(contents); {
		r, width := decodeRuneAt(contents, p)
		if r > 0xFFFF {
			col += 2
		} else {
			col++
		}
		p += width
	}
	return lineIndex + 1, col + 1
}

func decodeRuneAt(s string, i int) (rune, int) {
	b := s[i]
	if b < 0x80 {
		return rune(b), 1
	}
	// Minimal UTF-8 decode; malformed sequences are treated as single bytes
	// per the tokenizer's tolerant-of-invalid-UTF-8 contract.
	switch {
	case b&0xE0 == 0xC0 && i+1 < len(s):
		return rune(b&0x1F)<<6 | rune(s[i+1]&0x3F), 2
	case b&0xF0 == 0xE0 && i+2 < len(s):
		return rune(b&0x0F)<<12 | rune(s[i+1]&0x3F)<<6 | rune(s[i+2]&0x3F), 3
	case b&0xF8 == 0xF0 && i+3 < len(s):
		return rune(b&0x07)<<18 | rune(s[i+1]&0x3F)<<12 | rune(s[i+2]&0x3F)<<6 | rune(s[i+3]&0x3F), 4
	default:
		return rune(b), 1
	}
}

// MsgLocation is the resolved, human-facing position of a diagnostic.
type MsgLocation struct {
	File       string
	Line       int
	Column     int
	LineText   string
	Length     int
}

func (t *LineColumnTracker) MsgLocation(r Range) MsgLocation {
	line, col := t.LineAndColumn(r.Loc.Start)
	contents := t.source.Contents
	lineStart := int(r.Loc.Start) - (col - 1)
	if lineStart < 0 {
		lineStart = 0
	}
	lineEnd := lineStart
	for lineEnd < len(contents) && contents[lineEnd] != '\n' && contents[lineEnd] != '\r' {
		lineEnd++
	}
	return MsgLocation{
		File:     t.source.PrettyPath,
		Line:     line,
		Column:   col,
		LineText: contents[lineStart:lineEnd],
		Length:   int(r.Len),
	}
}

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Note
)

func (k MsgKind) String() string {
	switch k {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "note"
	}
}

type MsgData struct {
	Location MsgLocation
	Text     string
}

type Msg struct {
	Kind  MsgKind
	Data  MsgData
	Notes []MsgData
}

func (m Msg) String() string {
	loc := m.Data.Location
	if loc.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s: %s", loc.File, loc.Line, loc.Column, m.Kind, m.Data.Text)
	}
	return fmt.Sprintf("%d:%d: %s: %s", loc.Line, loc.Column, m.Kind, m.Data.Text)
}

// Log is an append-only diagnostic sink. It never panics and never aborts
// a caller's parse; it exists purely so every recoverable parse error can be
// reported in source order once parsing finishes (see C9 in the design: the
// error channel is a side output, not a control-flow mechanism).
type Log struct {
	msgs *[]Msg
}

func NewLog() Log {
	msgs := make([]Msg, 0, 16)
	return Log{msgs: &msgs}
}

func (l Log) AddError(tracker *LineColumnTracker, r Range, text string) {
	l.addMsg(Error, tracker, r, text, nil)
}

func (l Log) AddWarning(tracker *LineColumnTracker, r Range, text string) {
	l.addMsg(Warning, tracker, r, text, nil)
}

func (l Log) AddErrorWithNotes(tracker *LineColumnTracker, r Range, text string, notes []MsgData) {
	l.addMsg(Error, tracker, r, text, notes)
}

func (l Log) addMsg(kind MsgKind, tracker *LineColumnTracker, r Range, text string, notes []MsgData) {
	data := MsgData{Text: text}
	if tracker != nil {
		data.Location = tracker.MsgLocation(r)
	}
	*l.msgs = append(*l.msgs, Msg{Kind: kind, Data: data, Notes: notes})
}

func (l Log) Done() []Msg {
	return *l.msgs
}

func (l Log) HasErrors() bool {
	for _, m := range *l.msgs {
		if m.Kind == Error {
			return true
		}
	}
	return false
}
