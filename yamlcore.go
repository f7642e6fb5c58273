// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package yamlcore implements a streaming, pull-based YAML 1.3-draft
// event parser: a Source adapter feeds a Lexer, which feeds a Parser,
// which a caller drives one event at a time via Next.
//
// This file contains:
// - Type and constant re-exports from internal/libyaml
// - Options API (WithMaxDepth, WithImplicitKeyLimit)
// - Parser construction (New, NewString, NewFile) and the Next/Close API
package yamlcore

import (
	"io"

	"go.yamlcore.dev/yamlcore/internal/libyaml"
)

//-----------------------------------------------------------------------------
// Type and constant re-exports
//-----------------------------------------------------------------------------

type (
	// Event is one record of the structural event stream.
	Event = libyaml.Event
	// EventKind is the closed tag on Event.
	EventKind = libyaml.EventKind
	// Mark is a (line, column, byte-index) source position.
	Mark = libyaml.Mark
	// ScalarStyle records how a scalar was presented in the source.
	ScalarStyle = libyaml.ScalarStyle
	// CollectionStyle distinguishes block from flow collections.
	CollectionStyle = libyaml.CollectionStyle
	// NodeProperties holds a node's anchor and tag, if any.
	NodeProperties = libyaml.NodeProperties
	// TagDirective is a %TAG handle-to-prefix binding.
	TagDirective = libyaml.TagDirective
	// StringRef is an interned string handle; resolve it through the
	// Parser's Interner (Parser.Strings) to get a Go string or []byte.
	StringRef = libyaml.StringRef
	// Option configures a Parser at construction time.
	Option = libyaml.Option
)

const (
	StreamStartEvent     = libyaml.STREAM_START_EVENT
	StreamEndEvent       = libyaml.STREAM_END_EVENT
	DocumentStartEvent   = libyaml.DOCUMENT_START_EVENT
	DocumentEndEvent     = libyaml.DOCUMENT_END_EVENT
	AliasEvent           = libyaml.ALIAS_EVENT
	ScalarEvent          = libyaml.SCALAR_EVENT
	MappingStartEvent    = libyaml.MAPPING_START_EVENT
	MappingEndEvent      = libyaml.MAPPING_END_EVENT
	SequenceStartEvent   = libyaml.SEQUENCE_START_EVENT
	SequenceEndEvent     = libyaml.SEQUENCE_END_EVENT
	AnnotationStartEvent = libyaml.ANNOTATION_START_EVENT
	AnnotationEndEvent   = libyaml.ANNOTATION_END_EVENT
)

const (
	PlainScalarStyle        = libyaml.PLAIN_SCALAR_STYLE
	SingleQuotedScalarStyle = libyaml.SINGLE_QUOTED_SCALAR_STYLE
	DoubleQuotedScalarStyle = libyaml.DOUBLE_QUOTED_SCALAR_STYLE
	LiteralScalarStyle      = libyaml.LITERAL_SCALAR_STYLE
	FoldedScalarStyle       = libyaml.FOLDED_SCALAR_STYLE
)

const (
	BlockCollectionStyle = libyaml.BLOCK_COLLECTION_STYLE
	FlowCollectionStyle  = libyaml.FLOW_COLLECTION_STYLE
)

//-----------------------------------------------------------------------------
// Options API
//-----------------------------------------------------------------------------

// WithMaxDepth overrides the default nesting-depth limit (1024 levels).
func WithMaxDepth(n int) Option { return libyaml.WithMaxDepth(n) }

// WithImplicitKeyLimit overrides the stored implicit-key lookahead budget
// (default 1024). The parser does not consult this value: a scalar
// followed by ':' on the same line is an implicit key whatever its length.
func WithImplicitKeyLimit(n int) Option { return libyaml.WithImplicitKeyLimit(n) }

//-----------------------------------------------------------------------------
// Parser construction and the Next API
//-----------------------------------------------------------------------------

// Parser pulls one Event at a time from a YAML byte stream. The zero
// value is not usable; construct one with New, NewString, or NewFile.
type Parser struct {
	p  *libyaml.Parser
	in *libyaml.Interner
}

// Strings returns the interner backing this Parser's events. Event string
// fields (Value, Name, Props.Anchor, Props.Tag, Target) are StringRef
// handles into it; resolve them with Strings().String(ref) or
// Strings().Text(ref).
func (p *Parser) Strings() *libyaml.Interner { return p.in }

// New creates a Parser reading from r.
func New(r io.Reader, opts ...Option) *Parser {
	in := libyaml.NewInterner()
	lp := libyaml.NewParser(in, opts...)
	lp.SetInput(libyaml.NewReaderSource(r))
	return &Parser{p: lp, in: in}
}

// NewString creates a Parser reading from an in-memory YAML document.
func NewString(data []byte, opts ...Option) *Parser {
	in := libyaml.NewInterner()
	lp := libyaml.NewParser(in, opts...)
	lp.SetInputString(data)
	return &Parser{p: lp, in: in}
}

// NewFile opens path and returns a Parser that streams it. Call Close
// when done to release the underlying file handle.
func NewFile(path string, opts ...Option) (*Parser, error) {
	src, closer, err := libyaml.NewFileSource(path)
	if err != nil {
		return nil, err
	}
	in := libyaml.NewInterner()
	lp := libyaml.NewParser(in, opts...)
	lp.SetInput(src)
	lp.SetCloser(closer)
	return &Parser{p: lp, in: in}, nil
}

// Next returns the next event in the stream. Once a STREAM_END_EVENT has
// been returned, further calls return it again idempotently.
func (p *Parser) Next() (Event, error) { return p.p.Next() }

// Close releases any resource opened by NewFile.
func (p *Parser) Close() error { return p.p.Close() }

// PendingComment returns and clears the most recently scanned comment, if
// any; comments are surfaced as side data rather than as an Event.
func (p *Parser) PendingComment() (text string, at Mark, ok bool) {
	return p.p.PendingComment()
}

// ReservedDirectives returns the reserved (non-%YAML, non-%TAG) directive
// names seen so far in the current document.
func (p *Parser) ReservedDirectives() []string { return p.p.ReservedDirectives() }
