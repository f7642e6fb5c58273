// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Node property scanning: anchors, aliases, tags, and the YAML 1.3
// annotation extension.

package libyaml

// scanAnchorOrAlias reads '&name' or '*name'.
func (lx *Lexer) scanAnchorOrAlias(typ TokenType, start Mark) (Token, error) {
	lx.skipOne() // '&' or '*'
	var name []byte
	for {
		r, ok := lx.at()
		if !ok || !isNameChar(r) {
			break
		}
		name = appendRune(name, r)
		lx.skipOne()
	}
	if len(name) == 0 {
		return Token{}, newLexerError("did not find expected anchor name", lx.currentMark())
	}
	if r, ok := lx.at(); ok && !isBlankOrBreak(r) && !isFlowIndicatorOrColon(r) {
		return Token{}, newLexerError("unexpected character after anchor name", lx.currentMark())
	}
	tok := tokenAt(typ, start)
	tok.End = lx.currentMark()
	tok.Text = lx.in.FromBytes(name)
	return tok, nil
}

func isFlowIndicatorOrColon(r rune) bool {
	return isFlowIndicator(r) || r == ':'
}

// scanTag reads '!', '!!name', '!name!suffix', or '!<verbatim-uri>'.
// Handle and suffix are returned as two tokens: the handle immediately,
// the suffix queued in lx.pending.
func (lx *Lexer) scanTag(start Mark) (Token, error) {
	r1, _, ok1 := lx.peekRune(1)
	if ok1 && r1 == '<' {
		lx.skipOne() // '!'
		uri, err := lx.scanVerbatimURI()
		if err != nil {
			return Token{}, err
		}
		tok := tokenAt(VERBATIM_TAG_TOKEN, start)
		tok.End = lx.currentMark()
		tok.Text = lx.in.FromBytes(uri)
		return tok, nil
	}

	handle, err := lx.scanTagHandleBytes(false)
	if err != nil {
		return Token{}, err
	}
	var suffix []byte
	if r, ok := lx.at(); ok && !isBlankOrBreak(r) {
		suffix, err = lx.scanTagURIBytes(false)
		if err != nil {
			return Token{}, err
		}
	}
	handleTok := tokenAt(TAG_HANDLE_TOKEN, start)
	handleTok.End = lx.currentMark()
	handleTok.Text = lx.in.FromBytes(handle)
	if len(suffix) > 0 {
		suffixTok := tokenAt(TAG_SUFFIX_TOKEN, start)
		suffixTok.End = lx.currentMark()
		suffixTok.Text = lx.in.FromBytes(suffix)
		lx.pending = append(lx.pending, suffixTok)
	}
	return handleTok, nil
}

// scanAnnotationStart reads '@name'; an immediately following '(' is
// recognized as ANNOTATION_PARAMS_START_TOKEN on the next call.
func (lx *Lexer) scanAnnotationStart(start Mark) (Token, error) {
	lx.skipOne() // '@'
	var name []byte
	for {
		r, ok := lx.at()
		if !ok || !isNameChar(r) {
			break
		}
		name = appendRune(name, r)
		lx.skipOne()
	}
	if len(name) == 0 {
		return Token{}, newLexerError("did not find expected annotation name", lx.currentMark())
	}
	tok := tokenAt(ANNOTATION_START_TOKEN, start)
	tok.End = lx.currentMark()
	tok.Name = lx.in.FromBytes(name)
	if r, ok := lx.at(); ok && r == '(' {
		lx.annotationParenPending = true
	}
	return tok, nil
}
