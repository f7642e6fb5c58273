// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Core data model shared by the lexer and the parser: Token and Event,
// node properties, and the encoding/style enumerations.

package libyaml

import "fmt"

// Encoding identifies the stream's byte encoding.
type Encoding int

const (
	ANY_ENCODING Encoding = iota
	UTF8_ENCODING
	UTF16LE_ENCODING
	UTF16BE_ENCODING
	UTF32LE_ENCODING
	UTF32BE_ENCODING
)

// ScalarStyle is the presentation style a scalar token/event was read
// with: plain, single-quoted, double-quoted, literal, or folded.
type ScalarStyle int8

const (
	ANY_SCALAR_STYLE ScalarStyle = iota
	PLAIN_SCALAR_STYLE
	SINGLE_QUOTED_SCALAR_STYLE
	DOUBLE_QUOTED_SCALAR_STYLE
	LITERAL_SCALAR_STYLE
	FOLDED_SCALAR_STYLE
)

func (s ScalarStyle) String() string {
	switch s {
	case PLAIN_SCALAR_STYLE:
		return "plain"
	case SINGLE_QUOTED_SCALAR_STYLE:
		return "single"
	case DOUBLE_QUOTED_SCALAR_STYLE:
		return "double"
	case LITERAL_SCALAR_STYLE:
		return "literal"
	case FOLDED_SCALAR_STYLE:
		return "folded"
	default:
		return "any"
	}
}

// CollectionStyle distinguishes block from flow for mappings and
// sequences.
type CollectionStyle int8

const (
	ANY_COLLECTION_STYLE CollectionStyle = iota
	BLOCK_COLLECTION_STYLE
	FLOW_COLLECTION_STYLE
)

func (s CollectionStyle) String() string {
	if s == FLOW_COLLECTION_STYLE {
		return "flow"
	}
	return "block"
}

// Chomping is the block scalar trailing-line-break policy.
type Chomping int8

const (
	CLIP_CHOMPING Chomping = iota // default: single trailing break kept.
	STRIP_CHOMPING                // '-': no trailing break.
	KEEP_CHOMPING                 // '+': all trailing breaks kept.
)

// TokenType is the closed token kind set the lexer emits.
type TokenType int

const (
	NO_TOKEN TokenType = iota
	STREAM_START_TOKEN
	STREAM_END_TOKEN
	BOM_TOKEN
	INDENTATION_TOKEN
	DIRECTIVES_END_TOKEN
	DOCUMENT_END_TOKEN
	BLOCK_SEQUENCE_ENTRY_TOKEN
	BLOCK_MAPPING_KEY_TOKEN
	BLOCK_MAPPING_VALUE_TOKEN
	FLOW_MAPPING_START_TOKEN
	FLOW_MAPPING_END_TOKEN
	FLOW_SEQUENCE_START_TOKEN
	FLOW_SEQUENCE_END_TOKEN
	FLOW_ENTRY_TOKEN
	ANCHOR_TOKEN
	ALIAS_TOKEN
	TAG_HANDLE_TOKEN
	TAG_SUFFIX_TOKEN
	VERBATIM_TAG_TOKEN
	PLAIN_SCALAR_TOKEN
	SINGLE_QUOTED_SCALAR_TOKEN
	DOUBLE_QUOTED_SCALAR_TOKEN
	LITERAL_SCALAR_TOKEN
	FOLDED_SCALAR_TOKEN
	ANNOTATION_START_TOKEN
	ANNOTATION_PARAMS_START_TOKEN
	ANNOTATION_PARAMS_END_TOKEN
	YAML_DIRECTIVE_TOKEN
	TAG_DIRECTIVE_TOKEN
	RESERVED_DIRECTIVE_TOKEN
)

func (t TokenType) String() string {
	switch t {
	case NO_TOKEN:
		return "no-token"
	case STREAM_START_TOKEN:
		return "stream-start"
	case STREAM_END_TOKEN:
		return "stream-end"
	case BOM_TOKEN:
		return "byte-order-mark"
	case INDENTATION_TOKEN:
		return "indentation"
	case DIRECTIVES_END_TOKEN:
		return "directives-end"
	case DOCUMENT_END_TOKEN:
		return "document-end"
	case BLOCK_SEQUENCE_ENTRY_TOKEN:
		return "block-sequence-indicator"
	case BLOCK_MAPPING_KEY_TOKEN:
		return "block-map-key-indicator"
	case BLOCK_MAPPING_VALUE_TOKEN:
		return "block-map-value-indicator"
	case FLOW_MAPPING_START_TOKEN:
		return "flow-map-start"
	case FLOW_MAPPING_END_TOKEN:
		return "flow-map-end"
	case FLOW_SEQUENCE_START_TOKEN:
		return "flow-seq-start"
	case FLOW_SEQUENCE_END_TOKEN:
		return "flow-seq-end"
	case FLOW_ENTRY_TOKEN:
		return "flow-separator"
	case ANCHOR_TOKEN:
		return "anchor"
	case ALIAS_TOKEN:
		return "alias"
	case TAG_HANDLE_TOKEN:
		return "tag-handle"
	case TAG_SUFFIX_TOKEN:
		return "tag-suffix"
	case VERBATIM_TAG_TOKEN:
		return "verbatim-tag"
	case PLAIN_SCALAR_TOKEN:
		return "plain-scalar"
	case SINGLE_QUOTED_SCALAR_TOKEN:
		return "single-quoted-scalar"
	case DOUBLE_QUOTED_SCALAR_TOKEN:
		return "double-quoted-scalar"
	case LITERAL_SCALAR_TOKEN:
		return "literal-scalar"
	case FOLDED_SCALAR_TOKEN:
		return "folded-scalar"
	case ANNOTATION_START_TOKEN:
		return "annotation-start"
	case ANNOTATION_PARAMS_START_TOKEN:
		return "annotation-params-start"
	case ANNOTATION_PARAMS_END_TOKEN:
		return "annotation-params-end"
	case YAML_DIRECTIVE_TOKEN:
		return "yaml-directive"
	case TAG_DIRECTIVE_TOKEN:
		return "tag-directive"
	case RESERVED_DIRECTIVE_TOKEN:
		return "reserved-directive"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token is a tagged record produced by the lexer.
type Token struct {
	Type     TokenType
	Start    Mark
	End      Mark
	Text     StringRef // payload for scalar/anchor/alias/tag-handle/tag-suffix tokens.
	Style    ScalarStyle
	Chomping Chomping
	Indent   int // block scalars: detected content indentation column (0 if no content line).
	Major    int // %YAML major.
	Minor    int // %YAML minor.
	Name     StringRef // directive name, for reserved-directive and tag-directive handle.
}

// NodeProperties is the (anchor, tag) pair attached to node-starting
// events.
type NodeProperties struct {
	Anchor StringRef
	Tag    StringRef
}

func (p NodeProperties) IsZero() bool { return !p.Anchor.ok && !p.Tag.ok }

// EventKind is the closed Event.kind set the parser emits.
type EventKind int

const (
	NO_EVENT EventKind = iota
	STREAM_START_EVENT
	STREAM_END_EVENT
	DOCUMENT_START_EVENT
	DOCUMENT_END_EVENT
	ALIAS_EVENT
	SCALAR_EVENT
	MAPPING_START_EVENT
	MAPPING_END_EVENT
	SEQUENCE_START_EVENT
	SEQUENCE_END_EVENT
	ANNOTATION_START_EVENT
	ANNOTATION_END_EVENT
)

func (k EventKind) String() string {
	switch k {
	case STREAM_START_EVENT:
		return "stream-start"
	case STREAM_END_EVENT:
		return "stream-end"
	case DOCUMENT_START_EVENT:
		return "document-start"
	case DOCUMENT_END_EVENT:
		return "document-end"
	case ALIAS_EVENT:
		return "alias"
	case SCALAR_EVENT:
		return "scalar"
	case MAPPING_START_EVENT:
		return "mapping-start"
	case MAPPING_END_EVENT:
		return "mapping-end"
	case SEQUENCE_START_EVENT:
		return "sequence-start"
	case SEQUENCE_END_EVENT:
		return "sequence-end"
	case ANNOTATION_START_EVENT:
		return "annotation-start"
	case ANNOTATION_END_EVENT:
		return "annotation-end"
	default:
		return "none"
	}
}

// TagDirective is a %TAG directive binding a handle to a prefix.
type TagDirective struct {
	Handle StringRef
	Prefix StringRef
}

// Event is the tagged record the parser emits. It is immutable once
// returned from Parser.Next; node-property and scalar content strings
// are retained by the interner until the consumer releases the event.
type Event struct {
	Kind  EventKind
	Start Mark
	End   Mark

	Props NodeProperties // populated only for node-starting kinds.

	// DOCUMENT_START_EVENT
	VersionMajor  int
	VersionMinor  int
	HasVersion    bool
	TagDirectives []TagDirective
	Implicit      bool // also used by DOCUMENT_END_EVENT, SCALAR/SEQUENCE/MAPPING start implicit-tag.

	// ALIAS_EVENT
	Target StringRef

	// SCALAR_EVENT
	Style ScalarStyle
	Value StringRef

	// SEQUENCE_START_EVENT / MAPPING_START_EVENT
	Collection CollectionStyle

	// ANNOTATION_START_EVENT
	Name StringRef
}

// Release returns every interned string an Event holds back to in. A
// consumer that retained strings via Interner.Retain should call this
// once it is done with the event.
func (e *Event) Release(in *Interner) {
	in.Release(e.Props.Anchor)
	in.Release(e.Props.Tag)
	in.Release(e.Target)
	in.Release(e.Value)
	in.Release(e.Name)
	for _, td := range e.TagDirectives {
		in.Release(td.Handle)
		in.Release(td.Prefix)
	}
}
