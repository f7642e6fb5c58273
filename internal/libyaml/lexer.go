// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// The context-sensitive lexer: tokenizes the byte stream delivered by a
// Source, lazily UTF-8 decoding over a rolling buffer with at least four
// bytes of lookahead, switching scanning regimes from its own flow-depth
// and line-start tracking (the parser's Expect hint is accepted but not
// consulted).
//
// Grounded on the fetchNextToken/scanPlainScalar/scanBlockScalar/
// scanFlowScalar/rollIndent family in the tilt-dev-tilt vendored copy of
// go.yaml.in/yaml/v4's internal/libyaml/scanner.go — the one copy in the
// pack that still carries the full tokenizer the teacher's own
// distillation had stripped out.

package libyaml

import (
	"unicode/utf8"
)

// Expect is the regime hint the parser passes to Next: which family of
// tokens is expected next. Next does not consult it: every scanning
// decision comes from the lexer's own state (the flow depth it tracks
// from '{'/'[' nesting, and whether the cursor is at a line start).
type Expect int

const (
	ExpectAny       Expect = iota // a structural token, node property, or scalar.
	ExpectFlowEntry               // immediately after ',' '[' '{' in flow: entries may be empty.
)

// maxLookahead is the minimum lookahead width the buffer guarantees:
// the maximum UTF-8 sequence length.
const maxLookahead = 4

const fillChunk = 4096

// Lexer turns a byte stream into a token stream.
type Lexer struct {
	src Source
	in  *Interner

	buf    []byte
	pos    int // read cursor into buf
	srcEOF bool

	mark markTracker

	streamStartSent bool
	streamEnded     bool
	pending         []Token // tokens already decided but not yet returned (tag handle+suffix, BOM, etc).

	flowLevel int

	atLineStart bool // true until a non-blank char is consumed on the current line.
	lineIndent  int  // column of the first token consumed on the current line.

	annotationParenPending bool
	annotationParenDepth   int

	tagDirectives []TagDirective // directives active for the current document.

	lastLineComment []byte
	lastLineMark    Mark
	haveLineComment bool
}

// NewLexer creates a Lexer reading from src and interning scalar/anchor/tag
// payloads through in.
func NewLexer(src Source, in *Interner) *Lexer {
	return &Lexer{
		src:         src,
		in:          in,
		mark:        newMarkTracker(),
		atLineStart: true,
	}
}

// Close drops the lexer's read buffer. The Source itself has no close
// operation; a file opened for it is closed through Parser.Close.
func (lx *Lexer) Close() {
	lx.buf = nil
}

func (lx *Lexer) currentMark() Mark { return lx.mark.mark }

// ensure guarantees at least n unread bytes are available in buf (or EOF).
func (lx *Lexer) ensure(n int) error {
	for !lx.srcEOF && len(lx.buf)-lx.pos < n {
		if lx.pos > fillChunk {
			copy(lx.buf, lx.buf[lx.pos:])
			lx.buf = lx.buf[:len(lx.buf)-lx.pos]
			lx.pos = 0
		}
		grow := len(lx.buf)
		lx.buf = append(lx.buf, make([]byte, fillChunk)...)
		read, eof, err := lx.src.Fill(lx.buf[grow:])
		lx.buf = lx.buf[:grow+read]
		if err != nil {
			return &ReaderError{Offset: lx.mark.mark.Index, Err: err}
		}
		if eof {
			lx.srcEOF = true
		}
	}
	return nil
}

// peekByteAt returns the raw byte at offset i past the cursor, or 0 with
// ok=false at EOF.
func (lx *Lexer) peekByteAt(i int) (byte, bool) {
	if err := lx.ensure(i + 1); err != nil {
		return 0, false
	}
	if lx.pos+i >= len(lx.buf) {
		return 0, false
	}
	return lx.buf[lx.pos+i], true
}

// peekRune decodes the rune starting i logical runes ahead of the cursor.
// The scanning rules below use i from 0 to 3 (tryDocumentMarker peeks
// the furthest).
func (lx *Lexer) peekRune(i int) (r rune, width int, ok bool) {
	off := 0
	for ; i > 0; i-- {
		_, w, ok2 := lx.peekRuneAt(off)
		if !ok2 {
			return 0, 0, false
		}
		off += w
	}
	return lx.peekRuneAt(off)
}

func (lx *Lexer) peekRuneAt(byteOffset int) (rune, int, bool) {
	if err := lx.ensure(byteOffset + maxLookahead); err != nil {
		return 0, 0, false
	}
	avail := len(lx.buf) - lx.pos - byteOffset
	if avail <= 0 {
		return 0, 0, false
	}
	b := lx.buf[lx.pos+byteOffset:]
	if avail > utf8.UTFMax {
		b = b[:utf8.UTFMax]
	}
	r, w := utf8.DecodeRune(b)
	if r == utf8.RuneError && w <= 1 {
		if avail < utf8.UTFMax && !lx.srcEOF {
			// Not a lookahead shortage: ensure already filled
			// maxLookahead bytes wherever the source had them.
		}
		// An undecodable byte is returned as utf8.RuneError with width 1;
		// no lexer error is raised for it.
		return utf8.RuneError, 1, true
	}
	return r, w, true
}

// at reports the rune at the cursor, or (0, false) at end of input.
func (lx *Lexer) at() (rune, bool) {
	r, _, ok := lx.peekRune(0)
	return r, ok
}

// skipOne consumes the rune at the cursor (must not be a line break; use
// skipBreak for those).
func (lx *Lexer) skipOne() {
	r, w, ok := lx.peekRune(0)
	if !ok {
		return
	}
	lx.pos += w
	lx.mark.advance(r, w)
	if !isWhite(r) {
		lx.atLineStart = false
	}
}

// skipBreak consumes one logical line break at the cursor, folding CR+LF
// into a single advance.
func (lx *Lexer) skipBreak() {
	r, w, ok := lx.peekRune(0)
	if !ok || !isBreak(r) {
		return
	}
	if r == '\r' {
		if r2, w2, ok2 := lx.peekRune(1); ok2 && r2 == '\n' {
			lx.pos += w + w2
			lx.mark.advance('\n', w+w2)
			lx.atLineStart = true
			return
		}
	}
	lx.pos += w
	lx.mark.advance(r, w)
	lx.atLineStart = true
}

// column returns the 1-indexed column of the cursor.
func (lx *Lexer) column() int { return lx.mark.mark.Column }

func tokenAt(typ TokenType, m Mark) Token { return Token{Type: typ, Start: m, End: m} }

// Next returns the next token. The regime hint expect is not consulted
// (see Expect).
func (lx *Lexer) Next(expect Expect) (Token, error) {
	if len(lx.pending) > 0 {
		t := lx.pending[0]
		lx.pending = lx.pending[1:]
		return t, nil
	}
	if !lx.streamStartSent {
		lx.streamStartSent = true
		start := lx.currentMark()
		if err := lx.maybeConsumeBOM(); err != nil {
			return Token{}, err
		}
		return tokenAt(STREAM_START_TOKEN, start), nil
	}
	if lx.streamEnded {
		return tokenAt(STREAM_END_TOKEN, lx.currentMark()), nil
	}

	if err := lx.scanToNextToken(); err != nil {
		return Token{}, err
	}

	r, ok := lx.at()
	if !ok {
		lx.streamEnded = true
		return tokenAt(STREAM_END_TOKEN, lx.currentMark()), nil
	}

	start := lx.currentMark()
	if lx.atLineStart {
		lx.lineIndent = start.Column
	}

	if lx.column() == 1 && r == '%' {
		return lx.scanDirective()
	}
	if lx.column() == 1 {
		if tok, matched, err := lx.tryDocumentMarker(); err != nil {
			return Token{}, err
		} else if matched {
			return tok, nil
		}
	}

	switch {
	case r == '{':
		lx.skipOne()
		lx.flowLevel++
		return tokenAt(FLOW_MAPPING_START_TOKEN, start), nil
	case r == '}':
		lx.skipOne()
		if lx.flowLevel > 0 {
			lx.flowLevel--
		}
		return tokenAt(FLOW_MAPPING_END_TOKEN, start), nil
	case r == '[':
		lx.skipOne()
		lx.flowLevel++
		return tokenAt(FLOW_SEQUENCE_START_TOKEN, start), nil
	case r == ']':
		lx.skipOne()
		if lx.flowLevel > 0 {
			lx.flowLevel--
		}
		return tokenAt(FLOW_SEQUENCE_END_TOKEN, start), nil
	case r == ',' && lx.flowLevel > 0:
		lx.skipOne()
		return tokenAt(FLOW_ENTRY_TOKEN, start), nil
	case r == '(' && lx.annotationParenPending:
		lx.annotationParenPending = false
		lx.annotationParenDepth++
		lx.skipOne()
		return tokenAt(ANNOTATION_PARAMS_START_TOKEN, start), nil
	case r == ')' && lx.annotationParenDepth > 0:
		lx.annotationParenDepth--
		lx.skipOne()
		return tokenAt(ANNOTATION_PARAMS_END_TOKEN, start), nil
	case r == '-' && lx.nextIsBlankOrEOF(1):
		lx.skipOne()
		return tokenAt(BLOCK_SEQUENCE_ENTRY_TOKEN, start), nil
	case r == '?' && lx.nextIsBlankOrEOF(1):
		lx.skipOne()
		return tokenAt(BLOCK_MAPPING_KEY_TOKEN, start), nil
	case r == ':' && lx.valueIndicatorHere():
		lx.skipOne()
		return tokenAt(BLOCK_MAPPING_VALUE_TOKEN, start), nil
	case r == '&':
		return lx.scanAnchorOrAlias(ANCHOR_TOKEN, start)
	case r == '*':
		return lx.scanAnchorOrAlias(ALIAS_TOKEN, start)
	case r == '!':
		return lx.scanTag(start)
	case r == '\'':
		return lx.scanQuotedScalar(start, true)
	case r == '"':
		return lx.scanQuotedScalar(start, false)
	case r == '|':
		return lx.scanBlockScalar(start, true)
	case r == '>':
		return lx.scanBlockScalar(start, false)
	case r == '@':
		return lx.scanAnnotationStart(start)
	default:
		nr, _, hasNext := lx.peekRune(1)
		if !isPlainFirst(r, nr, hasNext, lx.flowLevel > 0) {
			return Token{}, newLexerError("found character that cannot start a plain scalar", start)
		}
		return lx.scanPlainScalar(start)
	}
}

func (lx *Lexer) nextIsBlankOrEOF(ahead int) bool {
	r, _, ok := lx.peekRune(ahead)
	if !ok {
		return true
	}
	return isBlankOrBreak(r)
}

// valueIndicatorHere decides whether a ':' at the cursor is a mapping
// value indicator: in block context it must be followed by
// whitespace/break/EOF; in flow context a following flow indicator also
// counts.
func (lx *Lexer) valueIndicatorHere() bool {
	r, _, ok := lx.peekRune(1)
	if !ok {
		return true
	}
	if isBlankOrBreak(r) {
		return true
	}
	if lx.flowLevel > 0 && isFlowIndicator(r) {
		return true
	}
	return false
}

// maybeConsumeBOM consumes a leading UTF-8 BOM, queuing a BOM token after
// the stream-start token this call returns.
func (lx *Lexer) maybeConsumeBOM() error {
	b0, ok0 := lx.peekByteAt(0)
	b1, ok1 := lx.peekByteAt(1)
	b2, ok2 := lx.peekByteAt(2)
	if ok0 && ok1 && ok2 && b0 == 0xEF && b1 == 0xBB && b2 == 0xBF {
		start := lx.currentMark()
		lx.pos += 3
		lx.mark.advanceBOM(3)
		lx.pending = append(lx.pending, tokenAt(BOM_TOKEN, start))
	}
	return nil
}

// tryDocumentMarker recognizes '---' or '...' at column 1 followed by
// whitespace, a break, or EOF. A bare '---' at end of stream still
// counts.
func (lx *Lexer) tryDocumentMarker() (Token, bool, error) {
	r0, ok0 := lx.at()
	if !ok0 || !isDocumentMarkerChar(r0) {
		return Token{}, false, nil
	}
	r1, _, ok1 := lx.peekRune(1)
	r2, _, ok2 := lx.peekRune(2)
	if !ok1 || !ok2 || r1 != r0 || r2 != r0 {
		return Token{}, false, nil
	}
	r3, _, ok3 := lx.peekRune(3)
	if ok3 && !isBlankOrBreak(r3) {
		return Token{}, false, nil
	}
	start := lx.currentMark()
	lx.skipOne()
	lx.skipOne()
	lx.skipOne()
	if r0 == '-' {
		return tokenAt(DIRECTIVES_END_TOKEN, start), true, nil
	}
	return tokenAt(DOCUMENT_END_TOKEN, start), true, nil
}

// scanToNextToken skips whitespace, comments, and blank lines, leaving
// the cursor at the first character of the next token. Indentation is
// read off the resulting cursor's column by the caller/parser directly
// from the returned token's Start mark rather than as a separate
// synthetic token: Token already carries a Mark, so a distinct
// indentation(N) token would duplicate information already on every
// token header (see DESIGN.md).
func (lx *Lexer) scanToNextToken() error {
	sawSeparator := lx.atLineStart
	for {
		r, ok := lx.at()
		if !ok {
			return nil
		}
		switch {
		case r == '\t' && lx.atLineStart && lx.flowLevel == 0:
			return newLexerError("tab character in indentation", lx.currentMark())
		case isWhite(r):
			lx.skipOne()
			sawSeparator = true
		case r == '#':
			if !sawSeparator {
				return newLexerError("comment must be separated from preceding token by whitespace", lx.currentMark())
			}
			lx.scanLineComment()
			sawSeparator = false
		case isBreak(r):
			lx.skipBreak()
			sawSeparator = true
		default:
			return nil
		}
	}
}

func (lx *Lexer) scanLineComment() {
	start := lx.currentMark()
	var text []byte
	for {
		r, ok := lx.at()
		if !ok || isBreak(r) {
			break
		}
		buf := make([]byte, utf8.UTFMax)
		n := utf8.EncodeRune(buf, r)
		text = append(text, buf[:n]...)
		lx.skipOne()
	}
	lx.lastLineComment = text
	lx.lastLineMark = start
	lx.haveLineComment = true
}

// PendingComment returns and clears the most recently scanned comment
// text, if any.
func (lx *Lexer) PendingComment() ([]byte, Mark, bool) {
	if !lx.haveLineComment {
		return nil, Mark{}, false
	}
	lx.haveLineComment = false
	return lx.lastLineComment, lx.lastLineMark, true
}

// appendRune appends r's UTF-8 encoding to dst.
func appendRune(dst []byte, r rune) []byte {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return append(dst, buf[:n]...)
}
