// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Directive scanning: %YAML, %TAG, and reserved directives.

package libyaml

// scanDirective reads a '%'-prefixed directive at column 1.
func (lx *Lexer) scanDirective() (Token, error) {
	start := lx.currentMark()
	lx.skipOne() // '%'

	var name []byte
	for {
		r, ok := lx.at()
		if !ok || isBlankOrBreak(r) {
			break
		}
		name = appendRune(name, r)
		lx.skipOne()
	}

	switch string(name) {
	case "YAML":
		return lx.scanYAMLDirectiveValue(start)
	case "TAG":
		return lx.scanTagDirectiveValue(start)
	default:
		lx.skipDirectiveRestOfLine()
		tok := tokenAt(RESERVED_DIRECTIVE_TOKEN, start)
		tok.End = lx.currentMark()
		tok.Name = lx.in.FromBytes(name)
		return tok, nil
	}
}

func (lx *Lexer) skipSpaces() {
	for {
		r, ok := lx.at()
		if !ok || !isWhite(r) {
			return
		}
		lx.skipOne()
	}
}

func (lx *Lexer) skipDirectiveRestOfLine() {
	for {
		r, ok := lx.at()
		if !ok || isBreak(r) {
			return
		}
		lx.skipOne()
	}
}

func (lx *Lexer) scanYAMLDirectiveValue(start Mark) (Token, error) {
	lx.skipSpaces()
	major, err := lx.scanVersionNumber()
	if err != nil {
		return Token{}, err
	}
	r, ok := lx.at()
	if !ok || r != '.' {
		return Token{}, newLexerError("expected a digit or '.' character in the %YAML directive", lx.currentMark())
	}
	lx.skipOne()
	minor, err := lx.scanVersionNumber()
	if err != nil {
		return Token{}, err
	}
	if major != 1 {
		return Token{}, newLexerError("found incompatible YAML document (version 1.x required)", start)
	}
	lx.skipDirectiveRestOfLine()
	tok := tokenAt(YAML_DIRECTIVE_TOKEN, start)
	tok.End = lx.currentMark()
	tok.Major = major
	tok.Minor = minor
	return tok, nil
}

func (lx *Lexer) scanVersionNumber() (int, error) {
	n := 0
	digits := 0
	for {
		r, ok := lx.at()
		if !ok || r < '0' || r > '9' {
			break
		}
		if digits == 9 {
			return 0, newLexerError("found extremely long version number", lx.currentMark())
		}
		n = n*10 + int(r-'0')
		digits++
		lx.skipOne()
	}
	if digits == 0 {
		return 0, newLexerError("expected a digit in the %YAML directive", lx.currentMark())
	}
	return n, nil
}

func (lx *Lexer) scanTagDirectiveValue(start Mark) (Token, error) {
	lx.skipSpaces()
	handle, err := lx.scanTagHandleBytes(true)
	if err != nil {
		return Token{}, err
	}
	lx.skipSpaces()
	var prefix []byte
	r, ok := lx.at()
	if ok && r == '<' {
		prefix, err = lx.scanVerbatimURI()
	} else {
		prefix, err = lx.scanTagURIBytes(true)
	}
	if err != nil {
		return Token{}, err
	}
	lx.skipDirectiveRestOfLine()
	tok := tokenAt(TAG_DIRECTIVE_TOKEN, start)
	tok.End = lx.currentMark()
	tok.Name = lx.in.FromBytes(handle)
	tok.Text = lx.in.FromBytes(prefix)
	lx.tagDirectives = append(lx.tagDirectives, TagDirective{
		Handle: lx.in.FromBytes(handle),
		Prefix: lx.in.FromBytes(prefix),
	})
	return tok, nil
}

// scanTagHandleBytes reads '!', '!!', or '!name!'.
func (lx *Lexer) scanTagHandleBytes(directive bool) ([]byte, error) {
	r, ok := lx.at()
	if !ok || r != '!' {
		return nil, newLexerError("expected '!' while scanning a tag handle", lx.currentMark())
	}
	handle := appendRune(nil, '!')
	lx.skipOne()
	for {
		r, ok := lx.at()
		if !ok || !isTagHandleChar(r) {
			break
		}
		handle = appendRune(handle, r)
		lx.skipOne()
	}
	if r, ok := lx.at(); ok && r == '!' {
		handle = appendRune(handle, '!')
		lx.skipOne()
	} else if directive && len(handle) > 1 {
		return nil, newLexerError("expected '!' to terminate tag handle", lx.currentMark())
	}
	return handle, nil
}

func (lx *Lexer) scanVerbatimURI() ([]byte, error) {
	lx.skipOne() // '<'
	var uri []byte
	for {
		r, ok := lx.at()
		if !ok {
			return nil, newLexerError("unexpected end of stream while scanning a tag", lx.currentMark())
		}
		if r == '>' {
			lx.skipOne()
			return uri, nil
		}
		if !isURIChar(r) && r != ':' {
			return nil, newLexerError("found invalid character while scanning a tag", lx.currentMark())
		}
		if r == '%' {
			esc, err := lx.scanURIEscape()
			if err != nil {
				return nil, err
			}
			uri = append(uri, esc...)
			continue
		}
		uri = appendRune(uri, r)
		lx.skipOne()
	}
}

func (lx *Lexer) scanTagURIBytes(directive bool) ([]byte, error) {
	var uri []byte
	for {
		r, ok := lx.at()
		if !ok || isBlankOrBreak(r) {
			break
		}
		if r == '!' && !directive {
			return nil, newLexerError("found unexpected '!' while scanning a tag", lx.currentMark())
		}
		if r == '%' {
			esc, err := lx.scanURIEscape()
			if err != nil {
				return nil, err
			}
			uri = append(uri, esc...)
			continue
		}
		if !isURIChar(r) {
			break
		}
		uri = appendRune(uri, r)
		lx.skipOne()
	}
	if len(uri) == 0 {
		return nil, newLexerError("expected a tag suffix or URI", lx.currentMark())
	}
	return uri, nil
}

func (lx *Lexer) scanURIEscape() ([]byte, error) {
	var out []byte
	for {
		r, ok := lx.at()
		if !ok || r != '%' {
			break
		}
		lx.skipOne()
		hi, ok1 := lx.at()
		if !ok1 || !isHexDigit(hi) {
			return nil, newLexerError("expected a hex digit while scanning a %-escape", lx.currentMark())
		}
		lx.skipOne()
		lo, ok2 := lx.at()
		if !ok2 || !isHexDigit(lo) {
			return nil, newLexerError("expected a hex digit while scanning a %-escape", lx.currentMark())
		}
		lx.skipOne()
		out = append(out, byte(hexVal(hi)<<4|hexVal(lo)))
	}
	return out, nil
}

func hexVal(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	}
	return 0
}
