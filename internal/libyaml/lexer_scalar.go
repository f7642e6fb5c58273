// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Scalar scanning: quoted scalars with their escape grammar, block
// scalars with chomping, and context-sensitive plain scalars. Line
// folding is shared between quoted continuation lines and plain scalars
// via foldBreaks; block scalar lines are joined by assembleBlockScalar.

package libyaml

import "unicode/utf8"

// foldBreaks appends the YAML line-folding result of having crossed
// `breaks` consecutive line breaks to value: a single break between two
// non-empty lines becomes a space; more than one is preserved as
// (breaks-1) explicit LFs.
func foldBreaks(value []byte, breaks int) []byte {
	switch {
	case breaks == 1:
		return append(value, ' ')
	case breaks > 1:
		for i := 0; i < breaks-1; i++ {
			value = append(value, '\n')
		}
	}
	return value
}

// scanLineBreaksFold consumes one or more consecutive line breaks
// (possibly separated by blank, whitespace-only lines), skipping the
// leading spaces of each resulting line, and reports how many breaks
// were seen.
func (lx *Lexer) scanLineBreaksFold() int {
	breaks := 0
	for {
		r, ok := lx.at()
		if !ok || !isBreak(r) {
			return breaks
		}
		lx.skipBreak()
		breaks++
		for {
			r2, ok2 := lx.at()
			if !ok2 || r2 != ' ' {
				break
			}
			lx.skipOne()
		}
	}
}

func (lx *Lexer) scanQuotedScalar(start Mark, single bool) (Token, error) {
	lx.skipOne() // opening quote
	var value []byte
	for {
		r, ok := lx.at()
		if !ok {
			return Token{}, newLexerContextError("while scanning a quoted scalar", start, "found unexpected end of stream", lx.currentMark())
		}
		switch {
		case single && r == '\'':
			lx.skipOne()
			if r2, ok2 := lx.at(); ok2 && r2 == '\'' {
				value = append(value, '\'')
				lx.skipOne()
				continue
			}
			tok := tokenAt(SINGLE_QUOTED_SCALAR_TOKEN, start)
			tok.End = lx.currentMark()
			tok.Style = SINGLE_QUOTED_SCALAR_STYLE
			tok.Text = lx.in.FromBytes(value)
			return tok, nil
		case !single && r == '"':
			lx.skipOne()
			tok := tokenAt(DOUBLE_QUOTED_SCALAR_TOKEN, start)
			tok.End = lx.currentMark()
			tok.Style = DOUBLE_QUOTED_SCALAR_STYLE
			tok.Text = lx.in.FromBytes(value)
			return tok, nil
		case !single && r == '\\':
			var err error
			value, err = lx.scanDoubleEscape(value)
			if err != nil {
				return Token{}, err
			}
		case single && r == '\\':
			value = append(value, '\\')
			lx.skipOne()
		case isBreak(r):
			breaks := lx.scanLineBreaksFold()
			value = foldBreaks(value, breaks)
		case isWhite(r):
			// A run of whitespace directly before a line break is dropped
			// (the break itself folds); interior whitespace is kept as-is.
			var ws []byte
			for {
				r2, ok2 := lx.at()
				if !ok2 || !isWhite(r2) {
					break
				}
				ws = appendRune(ws, r2)
				lx.skipOne()
			}
			if r2, ok2 := lx.at(); !ok2 || !isBreak(r2) {
				value = append(value, ws...)
			}
		default:
			value = appendRune(value, r)
			lx.skipOne()
		}
	}
}

func (lx *Lexer) scanDoubleEscape(value []byte) ([]byte, error) {
	lx.skipOne() // backslash
	r, ok := lx.at()
	if !ok {
		return nil, newLexerError("found unexpected end of stream while escaping a double-quoted scalar", lx.currentMark())
	}
	if isBreak(r) {
		lx.scanLineBreaksFold()
		return value, nil
	}
	switch r {
	case '0':
		lx.skipOne()
		return append(value, 0), nil
	case 'a':
		lx.skipOne()
		return append(value, '\a'), nil
	case 'b':
		lx.skipOne()
		return append(value, '\b'), nil
	case 't', '\t':
		lx.skipOne()
		return append(value, '\t'), nil
	case 'n':
		lx.skipOne()
		return append(value, '\n'), nil
	case 'v':
		lx.skipOne()
		return append(value, '\v'), nil
	case 'f':
		lx.skipOne()
		return append(value, '\f'), nil
	case 'r':
		lx.skipOne()
		return append(value, '\r'), nil
	case 'e':
		lx.skipOne()
		return append(value, 0x1B), nil
	case '"':
		lx.skipOne()
		return append(value, '"'), nil
	case '/':
		lx.skipOne()
		return append(value, '/'), nil
	case '\\':
		lx.skipOne()
		return append(value, '\\'), nil
	case 'N':
		lx.skipOne()
		return appendRune(value, ''), nil
	case '_':
		lx.skipOne()
		return appendRune(value, ' '), nil
	case 'L':
		lx.skipOne()
		return appendRune(value, ' '), nil
	case 'P':
		lx.skipOne()
		return appendRune(value, ' '), nil
	case 'x':
		lx.skipOne()
		return lx.scanHexEscape(value, 2)
	case 'u':
		lx.skipOne()
		return lx.scanHexEscape(value, 4)
	case 'U':
		lx.skipOne()
		return lx.scanHexEscape(value, 8)
	default:
		return nil, newLexerError("found unknown escape character", lx.currentMark())
	}
}

func (lx *Lexer) scanHexEscape(value []byte, digits int) ([]byte, error) {
	code := 0
	for i := 0; i < digits; i++ {
		r, ok := lx.at()
		if !ok || !isHexDigit(r) {
			return nil, newLexerError("did not find expected hexadecimal number", lx.currentMark())
		}
		code = code<<4 | hexVal(r)
		lx.skipOne()
	}
	if !utf8.ValidRune(rune(code)) {
		return nil, newLexerError("found invalid Unicode character escape code", lx.currentMark())
	}
	return appendRune(value, rune(code)), nil
}

// scanBlockScalar reads a '|' (literal) or '>' (folded) block scalar
// header and its content.
func (lx *Lexer) scanBlockScalar(start Mark, literal bool) (Token, error) {
	lx.skipOne() // '|' or '>'

	chomping := CLIP_CHOMPING
	explicitIndent := 0
	haveExplicitIndent := false

	for i := 0; i < 2; i++ {
		r, ok := lx.at()
		if !ok {
			break
		}
		switch {
		case r == '+' && chomping == CLIP_CHOMPING:
			chomping = KEEP_CHOMPING
			lx.skipOne()
		case r == '-' && chomping == CLIP_CHOMPING:
			chomping = STRIP_CHOMPING
			lx.skipOne()
		case r >= '1' && r <= '9' && !haveExplicitIndent:
			explicitIndent = int(r - '0')
			haveExplicitIndent = true
			lx.skipOne()
		default:
			i = 2
		}
	}

	lx.skipSpaces()
	if r, ok := lx.at(); ok && r == '#' {
		lx.scanLineComment()
	}
	if r, ok := lx.at(); ok && !isBreak(r) {
		return Token{}, newLexerContextError("while scanning a block scalar", start, "did not find expected comment or line break", lx.currentMark())
	}
	if _, ok := lx.at(); ok {
		lx.skipBreak()
	}

	baseIndent := lx.headerIndent()

	var lines [][]byte
	var trailingBreaks int
	detectedIndent := -1
	if haveExplicitIndent {
		detectedIndent = baseIndent + explicitIndent
	}
	end := lx.currentMark()

	for {
		// Skip/measure blank lines; blank lines never set the detected
		// indentation.
		blankBreaks := 0
		for {
			r, ok := lx.at()
			if !ok {
				break
			}
			col := lx.column()
			if r != ' ' && r != '\t' && !isBreak(r) {
				if detectedIndent < 0 {
					if col <= baseIndent {
						break
					}
					detectedIndent = col
				}
				break
			}
			if isBreak(r) {
				lx.skipBreak()
				blankBreaks++
				continue
			}
			if detectedIndent >= 0 && col >= detectedIndent {
				lx.skipOne()
				continue
			}
			if detectedIndent < 0 || r == ' ' {
				lx.skipOne()
				continue
			}
			break
		}
		trailingBreaks += blankBreaks

		if detectedIndent < 0 {
			break // no content line ever found.
		}
		r, ok := lx.at()
		if !ok || lx.column() < detectedIndent {
			break
		}
		var line []byte
		for {
			r, ok := lx.at()
			if !ok || isBreak(r) {
				break
			}
			line = appendRune(line, r)
			lx.skipOne()
		}
		if trailingBreaks > 0 {
			if literal {
				for i := 0; i < trailingBreaks; i++ {
					lines = append(lines, nil)
				}
			} else {
				for i := 0; i < trailingBreaks-1; i++ {
					lines = append(lines, nil)
				}
				lines = append(lines, []byte{0}) // marker: fold boundary before this line.
			}
			trailingBreaks = 0
		}
		lines = append(lines, line)
		end = lx.currentMark()
		if r, ok = lx.at(); !ok {
			break
		}
		_ = r
	}

	value := assembleBlockScalar(lines, literal, trailingBreaks)
	value = applyChomping(value, chomping, trailingBreaks)

	tok := Token{Start: start, End: end}
	tok.Chomping = chomping
	tok.Indent = detectedIndentOrZero(detectedIndent)
	if literal {
		tok.Type = LITERAL_SCALAR_TOKEN
		tok.Style = LITERAL_SCALAR_STYLE
	} else {
		tok.Type = FOLDED_SCALAR_TOKEN
		tok.Style = FOLDED_SCALAR_STYLE
	}
	tok.Text = lx.in.FromBytes(value)
	return tok, nil
}

func detectedIndentOrZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// headerIndent returns the indentation a block scalar's auto-detected
// content must exceed: the column of the first token on the header's own
// line (the enclosing mapping key or sequence dash), not the column of
// the '|'/'>' character itself, which usually sits further right on the
// same line and would reject ordinary "key: |\n  content\n" input.
func (lx *Lexer) headerIndent() int {
	return lx.lineIndent
}

// assembleBlockScalar joins scanned content lines into the final value.
// Content lines are copied as-is and a `nil` entry is one line break kept
// as an explicit '\n'. A single-byte {0} marker (folded scalars only)
// stands just before a content line that follows a break: it becomes a
// space when it directly follows another content line, a '\n' before the
// first content line, and nothing after a run of blank lines.
func assembleBlockScalar(lines [][]byte, literal bool, _ int) []byte {
	var out []byte
	seenContent := false
	for i, line := range lines {
		switch {
		case len(line) == 0:
			out = append(out, '\n')
		case len(line) == 1 && line[0] == 0:
			if !seenContent {
				out = append(out, '\n')
			} else if len(lines[i-1]) > 0 {
				out = append(out, ' ')
			}
		default:
			out = append(out, line...)
			seenContent = true
		}
	}
	return out
}

// applyChomping applies the trailing-break policy: strip removes all
// trailing breaks, clip keeps exactly one (if the scalar is non-empty),
// keep preserves every trailing break that was seen after the last
// content line (trailingBreaks counts them, including the break that
// ends that line), and always at least one.
func applyChomping(value []byte, chomping Chomping, trailingBreaks int) []byte {
	switch chomping {
	case STRIP_CHOMPING:
		return value
	case KEEP_CHOMPING:
		if len(value) == 0 {
			return value
		}
		value = append(value, '\n')
		for i := 1; i < trailingBreaks; i++ {
			value = append(value, '\n')
		}
		return value
	default: // CLIP_CHOMPING
		if len(value) == 0 {
			return value
		}
		return append(value, '\n')
	}
}

// scanPlainScalar reads a context-sensitive plain scalar: it ends on
// " #", on a flow indicator while in flow context, on ": " or ":" at end
// of line, or on a line break followed by a line whose content starts
// left of the scalar's starting column.
func (lx *Lexer) scanPlainScalar(start Mark) (Token, error) {
	startColumn := lx.column()
	var value []byte
	inFlow := lx.flowLevel > 0

	for {
		r, ok := lx.at()
		if !ok {
			break
		}
		if isBreak(r) {
			breaks := lx.scanLineBreaksFold()
			r2, ok2 := lx.at()
			if !ok2 || lx.column() < startColumn || (lx.column() == 1 && ok2 && isDocumentMarkerChar(r2)) {
				break
			}
			value = foldBreaks(value, breaks)
			continue
		}
		if isWhite(r) {
			nr, _, nok := lx.peekRune(1)
			if r == ' ' && nok && nr == '#' {
				break
			}
			value = appendRune(value, r)
			lx.skipOne()
			continue
		}
		if r == ':' {
			nr, _, nok := lx.peekRune(1)
			if !nok || isBlankOrBreak(nr) || (inFlow && isFlowIndicator(nr)) {
				break
			}
		}
		if !isPlainSafe(r, inFlow) {
			break
		}
		value = appendRune(value, r)
		lx.skipOne()
	}

	value = trimTrailingSpaces(value)

	tok := tokenAt(PLAIN_SCALAR_TOKEN, start)
	tok.End = lx.currentMark()
	tok.Style = PLAIN_SCALAR_STYLE
	tok.Text = lx.in.FromBytes(value)
	return tok, nil
}

func trimTrailingSpaces(b []byte) []byte {
	i := len(b)
	for i > 0 && b[i-1] == ' ' {
		i--
	}
	return b[:i]
}
