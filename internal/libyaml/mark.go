// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Mark tracking: the (line, column, index) position the lexer advances as
// it consumes characters, and the line-break classification shared by the
// lexer and the line-folding rules for quoted and block scalars.

package libyaml

import (
	"fmt"
	"strings"
)

// Mark holds a position in the input stream.
type Mark struct {
	Index  int // byte offset from the start of the stream.
	Line   int // 1-indexed line number.
	Column int // 1-indexed column number.
}

func (m Mark) String() string {
	var b strings.Builder
	if m.Line == 0 {
		return "<unknown position>"
	}
	fmt.Fprintf(&b, "line %d", m.Line)
	if m.Column != 0 {
		fmt.Fprintf(&b, ", column %d", m.Column)
	}
	return b.String()
}

// Less reports whether m sorts strictly before o by byte offset.
func (m Mark) Less(o Mark) bool { return m.Index < o.Index }

// LessEq reports m.Index <= o.Index.
func (m Mark) LessEq(o Mark) bool { return m.Index <= o.Index }

// markTracker advances a Mark one rune at a time, recognizing every
// line-break form YAML names: LF, CR, CR+LF, NEL (U+0085), LS (U+2028)
// and PS (U+2029). A non-break rune just advances column; a BOM at stream
// start only advances the index.
type markTracker struct {
	mark Mark
}

func newMarkTracker() markTracker {
	return markTracker{mark: Mark{Index: 0, Line: 1, Column: 1}}
}

// isBreak reports whether r is one of the recognized line-break characters.
func isBreak(r rune) bool {
	switch r {
	case '\n', '\r', '', ' ', ' ':
		return true
	}
	return false
}

// advance folds r into the tracked position. For a CR that is immediately
// followed by LF, the caller is expected to have already combined the pair
// into a single logical break before calling advance (see lexer.go's
// skipBreak), so CR+LF only ever advances the line once.
func (t *markTracker) advance(r rune, width int) {
	t.mark.Index += width
	if isBreak(r) {
		t.mark.Line++
		t.mark.Column = 1
		return
	}
	t.mark.Column++
}

// advanceBOM accounts for a consumed byte-order-mark: it moves the index
// forward but does not advance line/column, since a BOM is not a visible
// character.
func (t *markTracker) advanceBOM(width int) {
	t.mark.Index += width
}
