// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Error types, adapted from the teacher's MarkedYAMLError shape
// (ScannerError/ParserError in go.yaml.in/yaml's internal/libyaml) into
// two kinds, LexerError and ParserError, both carrying the offending
// mark and, optionally, a "while parsing X" context mark/message pair.

package libyaml

import (
	"errors"
	"fmt"
	"strings"
)

// markedError is the shared shape behind LexerError and ParserError.
type markedError struct {
	Message string
	Mark    Mark

	ContextMessage string
	ContextMark    Mark
	HasContext     bool

	TokenStart Mark
	TokenEnd   Mark
}

func (e markedError) Error() string {
	var b strings.Builder
	b.WriteString("yaml: ")
	if e.HasContext {
		fmt.Fprintf(&b, "%s at %s: ", e.ContextMessage, e.ContextMark)
	}
	fmt.Fprintf(&b, "%s: %s", e.Mark, e.Message)
	return b.String()
}

// LexerError reports a malformed input stream: bad UTF-8, an unterminated
// scalar, an unknown escape, a tab in indentation, an unsupported %YAML
// version, an unknown tag handle, an invalid tag URI, an invalid
// directive, or a read error from the Source.
type LexerError struct {
	markedError
}

func (e LexerError) Error() string { return e.markedError.Error() }

func newLexerError(problem string, at Mark) error {
	return LexerError{markedError{Message: problem, Mark: at}}
}

func newLexerContextError(context string, contextMark Mark, problem string, at Mark) error {
	return LexerError{markedError{
		Message: problem, Mark: at,
		ContextMessage: context, ContextMark: contextMark, HasContext: true,
	}}
}

// ParserError reports a token the state machine did not expect, an
// indentation violation, a stack-depth overflow, or another parser-level
// failure.
type ParserError struct {
	markedError
}

func (e ParserError) Error() string { return e.markedError.Error() }

func newParserError(problem string, at Mark, recentStart, recentEnd Mark) error {
	return ParserError{markedError{
		Message: problem, Mark: at,
		TokenStart: recentStart, TokenEnd: recentEnd,
	}}
}

func newParserContextError(context string, contextMark Mark, problem string, at Mark) error {
	return ParserError{markedError{
		Message: problem, Mark: at,
		ContextMessage: context, ContextMark: contextMark, HasContext: true,
	}}
}

// ReaderError reports an I/O failure surfaced through the Source adapter.
type ReaderError struct {
	Offset int
	Err    error
}

func (e *ReaderError) Error() string {
	return fmt.Sprintf("yaml: offset %d: %s", e.Offset, e.Err)
}

func (e *ReaderError) Unwrap() error { return e.Err }

var errTruncatedCodeUnit = errors.New("truncated multi-byte code unit at end of input")
