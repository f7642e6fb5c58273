// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Parser stage: transforms the token stream into the event stream.
// Unlike the teacher's scanner, this lexer does not synthesize
// BLOCK-SEQUENCE-START/BLOCK-END tokens carrying indentation pre-baked
// in; the parser owns indentation itself via a stack of levels,
// comparing each incoming token's start column against the innermost
// open block level to decide when a sequence or mapping closes. This is
// the chief structural departure from go.yaml.in/yaml's parser.go,
// which this file otherwise follows in spirit: a state enum, a
// continuation stack, and one event per state invocation.

package libyaml

import "io"

// levelKind distinguishes the collections a level can represent. A flow
// level always carries indent -1, since flow context has no column-based
// closing rule.
type levelKind int8

const (
	levelRoot levelKind = iota
	levelBlockSeq
	levelBlockMap
	levelFlowSeq
	levelFlowMap
)

type level struct {
	kind       levelKind
	indent     int
	annotated  bool // an annotation wraps this collection; pop emits annotation-end too.
	afterValue bool // block/flow map: true once a key's value has been consumed.
}

// parserState is the state-function tag driving dispatch. Each variant
// consumes zero or more tokens and produces exactly one event, or
// consumes zero tokens and asks to be re-entered.
type parserState int8

const (
	stateStreamStart parserState = iota
	stateImplicitDocumentStart
	stateDocumentStart
	stateDocumentContent
	stateDocumentEnd
	stateBlockNode
	stateBlockNodeIndentless
	stateBlockSequenceEntry
	stateBlockSequenceFirstEntry
	stateBlockMappingKey
	stateBlockMappingFirstKey
	stateBlockMappingImplicitValue
	stateBlockMappingValue
	stateFlowNode
	stateFlowSequenceEntry
	stateFlowSequenceFirstEntry
	stateFlowSequenceEntryMappingKey
	stateFlowSequenceEntryMappingValue
	stateFlowSequenceEntryMappingEnd
	stateFlowMappingKey
	stateFlowMappingFirstKey
	stateFlowMappingValue
	stateFlowMappingEmptyValue
	stateAnnotationParamsFirst
	stateAnnotationParams
	stateEnd
)

const (
	defaultMaxDepth         = 1024
	defaultImplicitKeyLimit = 1024
)

// Parser turns a token stream into a structural event stream.
type Parser struct {
	lx *Lexer
	in *Interner

	maxDepth         int
	implicitKeyLimit int

	lookahead []Token // 2-token lookahead buffer over the lexer.

	pendingEvents []Event // events already decided but not yet returned (annotation-end follow-ups).

	state  parserState
	states []parserState // continuation stack.
	levels []level        // indentation/kind stack.

	tagDirectives      []TagDirective
	reservedDirectives []string

	streamEnded bool
	err         error

	annotationPending bool

	closer io.Closer
}

// NewParser creates a Parser that interns strings through in. Call
// SetInput or SetInputString before the first Next.
func NewParser(in *Interner, opts ...Option) *Parser {
	p := &Parser{
		in:               in,
		maxDepth:         defaultMaxDepth,
		implicitKeyLimit: defaultImplicitKeyLimit,
		state:            stateStreamStart,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetInput resets the parser to read from src.
func (p *Parser) SetInput(src Source) {
	p.lx = NewLexer(src, p.in)
}

// SetInputString resets the parser to read from an in-memory buffer.
func (p *Parser) SetInputString(data []byte) {
	p.lx = NewLexer(NewMemorySource(data), p.in)
}

// SetCloser registers a resource (e.g. an open file) released on Close.
func (p *Parser) SetCloser(c io.Closer) { p.closer = c }

// PendingComment returns and clears the most recently scanned comment, if
// any. Comments are surfaced as side data rather than as an event, since
// the Event kind set is closed.
func (p *Parser) PendingComment() (text string, at Mark, ok bool) {
	if p.lx == nil {
		return "", Mark{}, false
	}
	b, mark, have := p.lx.PendingComment()
	if !have {
		return "", Mark{}, false
	}
	return string(b), mark, true
}

// ReservedDirectives returns the reserved (non-%YAML, non-%TAG) directive
// names seen so far in the current document.
func (p *Parser) ReservedDirectives() []string {
	return append([]string(nil), p.reservedDirectives...)
}

// Close releases the lexer and any registered input resource.
func (p *Parser) Close() error {
	if p.lx != nil {
		p.lx.Close()
	}
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

// Next pulls the next event. After stream-end, further calls return
// stream-end idempotently.
func (p *Parser) Next() (Event, error) {
	if p.err != nil {
		return Event{}, p.err
	}
	if len(p.pendingEvents) > 0 {
		ev := p.pendingEvents[0]
		p.pendingEvents = p.pendingEvents[1:]
		return ev, nil
	}
	if p.streamEnded {
		return Event{Kind: STREAM_END_EVENT}, nil
	}
	ev, err := p.dispatch()
	if err != nil {
		p.err = err
		return Event{}, err
	}
	return ev, nil
}

func (p *Parser) dispatch() (Event, error) {
	for {
		switch p.state {
		case stateStreamStart:
			return p.parseStreamStart()
		case stateImplicitDocumentStart:
			return p.parseDocumentStart(true)
		case stateDocumentStart:
			return p.parseDocumentStart(false)
		case stateDocumentContent:
			return p.parseDocumentContent()
		case stateDocumentEnd:
			return p.parseDocumentEnd()
		case stateBlockNode:
			return p.parseNode(false, true)
		case stateBlockNodeIndentless:
			return p.parseNode(true, true)
		case stateFlowNode:
			return p.parseNode(false, false)
		case stateBlockSequenceFirstEntry:
			return p.parseBlockSequenceEntry(true)
		case stateBlockSequenceEntry:
			return p.parseBlockSequenceEntry(false)
		case stateBlockMappingFirstKey:
			return p.parseBlockMappingKey(true)
		case stateBlockMappingKey:
			return p.parseBlockMappingKey(false)
		case stateBlockMappingImplicitValue:
			return p.parseBlockMappingImplicitValue()
		case stateBlockMappingValue:
			return p.parseBlockMappingValue()
		case stateFlowSequenceFirstEntry:
			return p.parseFlowSequenceEntry(true)
		case stateFlowSequenceEntry:
			return p.parseFlowSequenceEntry(false)
		case stateFlowSequenceEntryMappingKey:
			return p.parseFlowSequenceEntryMappingKey()
		case stateFlowSequenceEntryMappingValue:
			return p.parseFlowSequenceEntryMappingValue()
		case stateFlowSequenceEntryMappingEnd:
			return p.parseFlowSequenceEntryMappingEnd()
		case stateFlowMappingFirstKey:
			return p.parseFlowMappingKey(true)
		case stateFlowMappingKey:
			return p.parseFlowMappingKey(false)
		case stateFlowMappingValue:
			return p.parseFlowMappingValue(false)
		case stateFlowMappingEmptyValue:
			return p.parseFlowMappingValue(true)
		case stateAnnotationParamsFirst:
			return p.parseAnnotationParams(true)
		case stateAnnotationParams:
			return p.parseAnnotationParams(false)
		default:
			return Event{Kind: STREAM_END_EVENT}, nil
		}
	}
}

// --- token lookahead -------------------------------------------------

func (p *Parser) peek(n int) (Token, error) {
	for len(p.lookahead) <= n {
		tok, err := p.lx.Next(p.expectForState())
		if err != nil {
			return Token{}, err
		}
		p.lookahead = append(p.lookahead, tok)
	}
	return p.lookahead[n], nil
}

func (p *Parser) skip() {
	if len(p.lookahead) == 0 {
		return
	}
	if p.lookahead[0].Type == STREAM_END_TOKEN {
		p.streamEnded = true
	}
	p.lookahead = p.lookahead[1:]
}

// expectForState computes the regime hint passed to the lexer. Lexer.Next
// accepts the hint but does not consult it; its own flow-depth tracking
// decides every case.
func (p *Parser) expectForState() Expect {
	if len(p.levels) == 0 {
		return ExpectAny
	}
	switch p.state {
	case stateFlowSequenceFirstEntry, stateFlowMappingFirstKey:
		return ExpectFlowEntry
	}
	return ExpectAny
}

// --- levels ------------------------------------------------------------

func (p *Parser) pushLevel(kind levelKind, indent int) error {
	if len(p.levels) >= p.maxDepth {
		t, _ := p.peek(0)
		return newParserError("exceeded the maximum nesting depth", t.Start, Mark{}, Mark{})
	}
	lvl := level{kind: kind, indent: indent, annotated: p.takeAnnotationPending()}
	p.levels = append(p.levels, lvl)
	return nil
}

// takeAnnotationPending reports whether an annotation is waiting to wrap
// the node about to open or close, clearing the flag in the same step so
// it cannot reattach to a later, unrelated node.
func (p *Parser) takeAnnotationPending() bool {
	v := p.annotationPending
	p.annotationPending = false
	return v
}

func (p *Parser) topLevel() *level { return &p.levels[len(p.levels)-1] }

func (p *Parser) popLevel() level {
	lvl := p.levels[len(p.levels)-1]
	p.levels = p.levels[:len(p.levels)-1]
	return lvl
}

func (p *Parser) pushState(s parserState) { p.states = append(p.states, s) }

func (p *Parser) popState() parserState {
	s := p.states[len(p.states)-1]
	p.states = p.states[:len(p.states)-1]
	return s
}

// queueAnnotationEnd arranges for annotation-end to follow the event the
// caller is about to return, when annotated reports that the node just
// finished (a popped level, or a bare scalar/alias) was wrapped by an
// annotation.
func (p *Parser) queueAnnotationEnd(annotated bool, mark Mark) {
	if !annotated {
		return
	}
	p.pendingEvents = append(p.pendingEvents, Event{Kind: ANNOTATION_END_EVENT, Start: mark, End: mark})
}

// --- stream & document framing -----------------------------------------

func (p *Parser) parseStreamStart() (Event, error) {
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	if t.Type != STREAM_START_TOKEN {
		return Event{}, newParserError("did not find expected <stream-start>", t.Start, t.Start, t.End)
	}
	p.skip()
	p.state = stateImplicitDocumentStart
	return Event{Kind: STREAM_START_EVENT, Start: t.Start, End: t.End}, nil
}

func (p *Parser) parseDocumentStart(implicit bool) (Event, error) {
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	for t.Type == DOCUMENT_END_TOKEN {
		p.skip()
		if t, err = p.peek(0); err != nil {
			return Event{}, err
		}
	}

	if implicit && t.Type != YAML_DIRECTIVE_TOKEN && t.Type != TAG_DIRECTIVE_TOKEN &&
		t.Type != RESERVED_DIRECTIVE_TOKEN && t.Type != DIRECTIVES_END_TOKEN && t.Type != STREAM_END_TOKEN {
		p.tagDirectives = nil
		p.pushState(stateDocumentEnd)
		p.state = stateBlockNode
		return Event{Kind: DOCUMENT_START_EVENT, Start: t.Start, End: t.Start, Implicit: true}, nil
	}

	if t.Type != STREAM_END_TOKEN {
		startMark := t.Start
		major, minor, hasVersion, err := p.processDirectives()
		if err != nil {
			return Event{}, err
		}
		t, err = p.peek(0)
		if err != nil {
			return Event{}, err
		}
		if t.Type != DIRECTIVES_END_TOKEN {
			return Event{}, newParserError("did not find expected <document start>", t.Start, t.Start, t.End)
		}
		endMark := t.End
		p.skip()
		p.pushState(stateDocumentEnd)
		p.state = stateDocumentContent
		return Event{
			Kind: DOCUMENT_START_EVENT, Start: startMark, End: endMark,
			VersionMajor: major, VersionMinor: minor, HasVersion: hasVersion,
			TagDirectives: append([]TagDirective(nil), p.tagDirectives...),
		}, nil
	}

	p.state = stateEnd
	return Event{Kind: STREAM_END_EVENT, Start: t.Start, End: t.End}, nil
}

func (p *Parser) parseDocumentContent() (Event, error) {
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	switch t.Type {
	case YAML_DIRECTIVE_TOKEN, TAG_DIRECTIVE_TOKEN, RESERVED_DIRECTIVE_TOKEN, DIRECTIVES_END_TOKEN, DOCUMENT_END_TOKEN, STREAM_END_TOKEN:
		p.state = p.popState()
		return p.emptyScalar(t.Start), nil
	}
	return p.parseNode(false, true)
}

func (p *Parser) parseDocumentEnd() (Event, error) {
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	start := t.Start
	end := t.Start
	implicit := true
	if t.Type == DOCUMENT_END_TOKEN {
		end = t.End
		implicit = false
		p.skip()
	}
	p.tagDirectives = nil
	p.reservedDirectives = nil
	p.state = stateDocumentStart
	return Event{Kind: DOCUMENT_END_EVENT, Start: start, End: end, Implicit: implicit}, nil
}

func (p *Parser) processDirectives() (major, minor int, hasVersion bool, err error) {
	t, err := p.peek(0)
	if err != nil {
		return 0, 0, false, err
	}
	seenVersion := false
	for t.Type == YAML_DIRECTIVE_TOKEN || t.Type == TAG_DIRECTIVE_TOKEN || t.Type == RESERVED_DIRECTIVE_TOKEN {
		switch t.Type {
		case YAML_DIRECTIVE_TOKEN:
			if seenVersion {
				return 0, 0, false, newParserError("found duplicate %YAML directive", t.Start, Mark{}, Mark{})
			}
			seenVersion = true
			major, minor, hasVersion = t.Major, t.Minor, true
		case TAG_DIRECTIVE_TOKEN:
			if err := p.appendTagDirective(TagDirective{Handle: t.Name, Prefix: t.Text}, t.Start); err != nil {
				return 0, 0, false, err
			}
		case RESERVED_DIRECTIVE_TOKEN:
			p.reservedDirectives = append(p.reservedDirectives, string(p.in.Text(t.Name)))
		}
		p.skip()
		if t, err = p.peek(0); err != nil {
			return 0, 0, false, err
		}
	}
	return major, minor, hasVersion, nil
}

func (p *Parser) appendTagDirective(td TagDirective, mark Mark) error {
	for _, existing := range p.tagDirectives {
		if p.in.Equals(existing.Handle, td.Handle) {
			return newParserError("found duplicate %TAG directive", mark, Mark{}, Mark{})
		}
	}
	p.tagDirectives = append(p.tagDirectives, td)
	return nil
}

// resolveTag expands a tag-handle token plus suffix into a full tag
// string, applying the primary ("!") and secondary ("!!") defaults when
// no %TAG directive rebinds the handle.
func (p *Parser) resolveTag(handle []byte, suffix StringRef, mark Mark) (StringRef, error) {
	if len(handle) == 0 {
		return suffix, nil
	}
	for _, td := range p.tagDirectives {
		if string(p.in.Text(td.Handle)) == string(handle) {
			prefix := p.in.Text(td.Prefix)
			suffixBytes := p.in.Text(suffix)
			full := append(append([]byte(nil), prefix...), suffixBytes...)
			return p.in.FromBytes(full), nil
		}
	}
	switch string(handle) {
	case "!":
		return p.in.FromBytes(append([]byte("!"), p.in.Text(suffix)...)), nil
	case "!!":
		return p.in.FromBytes(append([]byte("tag:yaml.org,2002:"), p.in.Text(suffix)...)), nil
	}
	return StringRef{}, newParserError("found undefined tag handle", mark, Mark{}, Mark{})
}

func (p *Parser) emptyScalar(mark Mark) Event {
	return Event{Kind: SCALAR_EVENT, Start: mark, End: mark, Style: PLAIN_SCALAR_STYLE, Value: p.in.Empty(), Implicit: true}
}

// --- node dispatch -------------------------------------------------------

// parseNode implements the shared block_node/flow_node production:
// anchor/tag properties, an optional wrapping annotation, then the
// scalar or collection the node actually is. indentlessOK lets a '-' open
// a block sequence in a mapping-value position; the sequence's indent is
// the column of that '-', which may equal the enclosing mapping's own.
func (p *Parser) parseNode(indentlessOK, block bool) (Event, error) {
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}

	if t.Type == ALIAS_TOKEN {
		p.state = p.popState()
		p.skip()
		ev := Event{Kind: ALIAS_EVENT, Start: t.Start, End: t.End, Target: t.Text}
		p.queueAnnotationEnd(p.takeAnnotationPending(), t.End)
		return ev, nil
	}

	if t.Type == ANNOTATION_START_TOKEN {
		return p.startAnnotation(block, indentlessOK)
	}

	startMark := t.Start
	endMark := t.Start

	var anchor, tagSuffix StringRef
	var tagHandle []byte
	haveTag := false
	for {
		t, err = p.peek(0)
		if err != nil {
			return Event{}, err
		}
		switch t.Type {
		case ANCHOR_TOKEN:
			if anchor.Valid() {
				return Event{}, newParserContextError("while parsing a node", startMark, "found duplicate anchor property", t.Start)
			}
			anchor = t.Text
			endMark = t.End
			p.skip()
			continue
		case TAG_HANDLE_TOKEN:
			if haveTag {
				return Event{}, newParserContextError("while parsing a node", startMark, "found duplicate tag property", t.Start)
			}
			haveTag = true
			tagHandle = p.in.Text(t.Text)
			endMark = t.End
			p.skip()
			if nt, err := p.peek(0); err == nil && nt.Type == TAG_SUFFIX_TOKEN {
				tagSuffix = nt.Text
				endMark = nt.End
				p.skip()
			} else if err != nil {
				return Event{}, err
			}
			continue
		case VERBATIM_TAG_TOKEN:
			if haveTag {
				return Event{}, newParserContextError("while parsing a node", startMark, "found duplicate tag property", t.Start)
			}
			haveTag = true
			tagSuffix = t.Text
			endMark = t.End
			p.skip()
			continue
		}
		break
	}

	var tag StringRef
	if haveTag {
		tag, err = p.resolveTag(tagHandle, tagSuffix, startMark)
		if err != nil {
			return Event{}, err
		}
	}
	implicit := !tag.Valid()
	props := NodeProperties{Anchor: anchor, Tag: tag}

	if indentlessOK && t.Type == BLOCK_SEQUENCE_ENTRY_TOKEN {
		if err := p.pushLevel(levelBlockSeq, t.Start.Column); err != nil {
			return Event{}, err
		}
		p.state = stateBlockSequenceFirstEntry
		return Event{Kind: SEQUENCE_START_EVENT, Start: startMark, End: t.Start, Props: props, Implicit: implicit, Collection: BLOCK_COLLECTION_STYLE}, nil
	}

	// Implicit block mapping key: a scalar immediately followed by ':' on
	// the same line opens a mapping without a '?' indicator. Must be
	// checked before the plain scalar-emitting case below, since otherwise
	// the scalar would be emitted as a bare value and the following ':'
	// would mis-parse as a sibling token.
	if block && isScalarToken(t.Type) {
		nt, err := p.peek(1)
		if err != nil {
			return Event{}, err
		}
		if nt.Type == BLOCK_MAPPING_VALUE_TOKEN && nt.Start.Line == t.Start.Line {
			if err := p.pushLevel(levelBlockMap, t.Start.Column); err != nil {
				return Event{}, err
			}
			p.state = stateBlockMappingImplicitValue
			return Event{Kind: MAPPING_START_EVENT, Start: startMark, End: t.Start, Props: props, Implicit: implicit, Collection: BLOCK_COLLECTION_STYLE}, nil
		}
	}

	switch t.Type {
	case PLAIN_SCALAR_TOKEN, SINGLE_QUOTED_SCALAR_TOKEN, DOUBLE_QUOTED_SCALAR_TOKEN, LITERAL_SCALAR_TOKEN, FOLDED_SCALAR_TOKEN:
		style := scalarStyleOf(t.Type, t.Style)
		endMark = t.End
		p.skip()
		p.state = p.popState()
		ev := Event{Kind: SCALAR_EVENT, Start: startMark, End: endMark, Props: props, Style: style, Value: t.Text, Implicit: implicit}
		p.queueAnnotationEnd(p.takeAnnotationPending(), endMark)
		return ev, nil
	case FLOW_SEQUENCE_START_TOKEN:
		if err := p.pushLevel(levelFlowSeq, -1); err != nil {
			return Event{}, err
		}
		p.state = stateFlowSequenceFirstEntry
		return Event{Kind: SEQUENCE_START_EVENT, Start: startMark, End: t.End, Props: props, Implicit: implicit, Collection: FLOW_COLLECTION_STYLE}, nil
	case FLOW_MAPPING_START_TOKEN:
		if err := p.pushLevel(levelFlowMap, -1); err != nil {
			return Event{}, err
		}
		p.state = stateFlowMappingFirstKey
		return Event{Kind: MAPPING_START_EVENT, Start: startMark, End: t.End, Props: props, Implicit: implicit, Collection: FLOW_COLLECTION_STYLE}, nil
	case BLOCK_SEQUENCE_ENTRY_TOKEN:
		if block {
			if err := p.pushLevel(levelBlockSeq, t.Start.Column); err != nil {
				return Event{}, err
			}
			p.state = stateBlockSequenceFirstEntry
			return Event{Kind: SEQUENCE_START_EVENT, Start: startMark, End: t.Start, Props: props, Implicit: implicit, Collection: BLOCK_COLLECTION_STYLE}, nil
		}
	case BLOCK_MAPPING_KEY_TOKEN:
		if block {
			if err := p.pushLevel(levelBlockMap, t.Start.Column); err != nil {
				return Event{}, err
			}
			p.state = stateBlockMappingFirstKey
			return Event{Kind: MAPPING_START_EVENT, Start: startMark, End: t.Start, Props: props, Implicit: implicit, Collection: BLOCK_COLLECTION_STYLE}, nil
		}
	}

	if anchor.Valid() || tag.Valid() {
		p.state = p.popState()
		ev := Event{Kind: SCALAR_EVENT, Start: startMark, End: endMark, Props: props, Style: PLAIN_SCALAR_STYLE, Value: p.in.Empty(), Implicit: implicit}
		p.queueAnnotationEnd(p.takeAnnotationPending(), endMark)
		return ev, nil
	}

	return Event{}, newParserContextError("while parsing a node", startMark, "did not find expected node content", t.Start)
}

func isScalarToken(t TokenType) bool {
	switch t {
	case PLAIN_SCALAR_TOKEN, SINGLE_QUOTED_SCALAR_TOKEN, DOUBLE_QUOTED_SCALAR_TOKEN:
		return true
	}
	return false
}

func scalarStyleOf(tt TokenType, explicit ScalarStyle) ScalarStyle {
	switch tt {
	case PLAIN_SCALAR_TOKEN:
		return PLAIN_SCALAR_STYLE
	case SINGLE_QUOTED_SCALAR_TOKEN:
		return SINGLE_QUOTED_SCALAR_STYLE
	case DOUBLE_QUOTED_SCALAR_TOKEN:
		return DOUBLE_QUOTED_SCALAR_STYLE
	case LITERAL_SCALAR_TOKEN:
		return LITERAL_SCALAR_STYLE
	case FOLDED_SCALAR_TOKEN:
		return FOLDED_SCALAR_STYLE
	}
	return explicit
}

func (p *Parser) currentIndent() int {
	if len(p.levels) == 0 {
		return 0
	}
	return p.topLevel().indent
}

// --- annotations ---------------------------------------------------------

func (p *Parser) startAnnotation(block, indentlessOK bool) (Event, error) {
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	p.skip()
	nt, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	p.annotationPending = true
	if nt.Type == ANNOTATION_PARAMS_START_TOKEN {
		p.skip()
		p.pushState(currentNodeState(block, indentlessOK))
		p.state = stateAnnotationParamsFirst
	} else {
		p.state = currentNodeState(block, indentlessOK)
	}
	return Event{Kind: ANNOTATION_START_EVENT, Start: t.Start, End: t.End, Name: t.Name}, nil
}

func currentNodeState(block, indentlessOK bool) parserState {
	switch {
	case block && indentlessOK:
		return stateBlockNodeIndentless
	case block:
		return stateBlockNode
	default:
		return stateFlowNode
	}
}

func (p *Parser) parseAnnotationParams(first bool) (Event, error) {
	if first {
		t, err := p.peek(0)
		if err != nil {
			return Event{}, err
		}
		if t.Type == ANNOTATION_PARAMS_END_TOKEN {
			p.skip()
			p.state = p.popState()
			return p.emptyScalar(t.Start), nil
		}
		p.pushState(stateAnnotationParams)
		return p.parseNode(false, false)
	}
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	if t.Type == FLOW_ENTRY_TOKEN {
		p.skip()
		t, err = p.peek(0)
		if err != nil {
			return Event{}, err
		}
	}
	if t.Type == ANNOTATION_PARAMS_END_TOKEN {
		p.skip()
		p.state = p.popState()
		return p.dispatch()
	}
	p.pushState(stateAnnotationParams)
	return p.parseNode(false, false)
}

// --- block sequence ------------------------------------------------------

func (p *Parser) parseBlockSequenceEntry(first bool) (Event, error) {
	lvl := p.topLevel()
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	if !first && t.Start.Column < lvl.indent {
		return p.endBlockCollection(SEQUENCE_END_EVENT, t.Start)
	}
	if t.Type == BLOCK_SEQUENCE_ENTRY_TOKEN && (first || t.Start.Column == lvl.indent) {
		entryEnd := t.End
		p.skip()
		nt, err := p.peek(0)
		if err != nil {
			return Event{}, err
		}
		if nt.Type == BLOCK_SEQUENCE_ENTRY_TOKEN || p.endsBlockContent(nt) {
			p.state = stateBlockSequenceEntry
			return p.emptyScalar(entryEnd), nil
		}
		p.pushState(stateBlockSequenceEntry)
		return p.parseNode(true, true)
	}
	return p.endBlockCollection(SEQUENCE_END_EVENT, t.Start)
}

// endsBlockContent reports whether t cannot start a node and instead
// closes whatever block construct is open (used to decide whether a
// bare '-' or key indicator introduces an empty scalar).
func (p *Parser) endsBlockContent(t Token) bool {
	switch t.Type {
	case BLOCK_SEQUENCE_ENTRY_TOKEN, BLOCK_MAPPING_KEY_TOKEN, BLOCK_MAPPING_VALUE_TOKEN,
		DIRECTIVES_END_TOKEN, DOCUMENT_END_TOKEN, STREAM_END_TOKEN:
		return true
	}
	return false
}

func (p *Parser) endBlockCollection(kind EventKind, mark Mark) (Event, error) {
	lvl := p.popLevel()
	p.state = p.popState()
	p.queueAnnotationEnd(lvl.annotated, mark)
	return Event{Kind: kind, Start: mark, End: mark}, nil
}

// --- block mapping ---------------------------------------------------------

func (p *Parser) parseBlockMappingKey(first bool) (Event, error) {
	lvl := p.topLevel()
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	// Stream/document terminators close every open block construct
	// regardless of column; only a genuine sibling/child token is subject
	// to the indentation check below.
	terminal := t.Type == DIRECTIVES_END_TOKEN || t.Type == DOCUMENT_END_TOKEN || t.Type == STREAM_END_TOKEN
	if !first && !terminal {
		if t.Start.Column < lvl.indent {
			return p.endBlockCollection(MAPPING_END_EVENT, t.Start)
		}
		if t.Start.Column > lvl.indent {
			return Event{}, newParserError("indentation does not match any open block mapping", t.Start, Mark{}, Mark{})
		}
	}

	switch t.Type {
	case BLOCK_MAPPING_KEY_TOKEN:
		mark := t.End
		p.skip()
		nt, err := p.peek(0)
		if err != nil {
			return Event{}, err
		}
		if p.endsBlockContent(nt) {
			p.state = stateBlockMappingValue
			return p.emptyScalar(mark), nil
		}
		p.pushState(stateBlockMappingValue)
		return p.parseNode(true, true)
	case DIRECTIVES_END_TOKEN, DOCUMENT_END_TOKEN, STREAM_END_TOKEN:
		return p.endBlockCollection(MAPPING_END_EVENT, t.Start)
	}

	if isScalarToken(t.Type) {
		// Implicit key: handled by falling into parseNode, which itself
		// only opens a *nested* mapping for an implicit key; here the
		// level is already open, so read the key node directly and let
		// parseBlockMappingImplicitValue-equivalent logic apply via the
		// ':' check below.
		nt, err := p.peek(1)
		if err != nil {
			return Event{}, err
		}
		if nt.Type == BLOCK_MAPPING_VALUE_TOKEN && nt.Start.Line == t.Start.Line {
			p.pushState(stateBlockMappingValue)
			return p.parseNode(false, false)
		}
	}

	return p.endBlockCollection(MAPPING_END_EVENT, t.Start)
}

// parseBlockMappingImplicitValue emits the scalar event for an implicit
// key (the level was already opened by parseNode's implicit-key
// detection, against the same still-unconsumed token) and arms
// stateBlockMappingValue to consume ':' next. It deliberately does not
// re-enter parseNode: parseNode would repeat the same implicit-key
// lookahead against the identical token and recurse forever.
func (p *Parser) parseBlockMappingImplicitValue() (Event, error) {
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	style := scalarStyleOf(t.Type, t.Style)
	p.skip()
	p.state = stateBlockMappingValue
	return Event{Kind: SCALAR_EVENT, Start: t.Start, End: t.End, Style: style, Value: t.Text, Implicit: true}, nil
}

func (p *Parser) parseBlockMappingValue() (Event, error) {
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	if t.Type == BLOCK_MAPPING_VALUE_TOKEN {
		mark := t.End
		p.skip()
		nt, err := p.peek(0)
		if err != nil {
			return Event{}, err
		}
		if p.endsBlockContent(nt) && nt.Type != BLOCK_SEQUENCE_ENTRY_TOKEN {
			p.state = stateBlockMappingKey
			return p.emptyScalar(mark), nil
		}
		p.pushState(stateBlockMappingKey)
		return p.parseNode(true, true)
	}
	p.state = stateBlockMappingKey
	return p.emptyScalar(t.Start), nil
}

// --- flow sequence -----------------------------------------------------

func (p *Parser) parseFlowSequenceEntry(first bool) (Event, error) {
	if first {
		p.skip() // '['
	}
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	if t.Type != FLOW_SEQUENCE_END_TOKEN {
		if !first {
			if t.Type != FLOW_ENTRY_TOKEN {
				return Event{}, newParserError("did not find expected ',' or ']'", t.Start, Mark{}, Mark{})
			}
			p.skip()
			if t, err = p.peek(0); err != nil {
				return Event{}, err
			}
		}
		if t.Type == FLOW_SEQUENCE_END_TOKEN {
			// trailing comma; fall through to close.
		} else if t.Type == BLOCK_MAPPING_KEY_TOKEN {
			p.skip()
			p.state = stateFlowSequenceEntryMappingKey
			return Event{Kind: MAPPING_START_EVENT, Start: t.Start, End: t.End, Implicit: true, Collection: FLOW_COLLECTION_STYLE}, nil
		} else if isScalarToken(t.Type) {
			// "k: v" inside a flow sequence, without a leading '?', still
			// opens a transient single-pair mapping. Only a plain/quoted
			// scalar is recognized as such a key; flow collections as bare
			// keys are not.
			nt, err := p.peek(1)
			if err != nil {
				return Event{}, err
			}
			if nt.Type == BLOCK_MAPPING_VALUE_TOKEN {
				p.state = stateFlowSequenceEntryMappingKey
				return Event{Kind: MAPPING_START_EVENT, Start: t.Start, End: t.Start, Implicit: true, Collection: FLOW_COLLECTION_STYLE}, nil
			}
			p.pushState(stateFlowSequenceEntry)
			return p.parseNode(false, false)
		} else {
			p.pushState(stateFlowSequenceEntry)
			return p.parseNode(false, false)
		}
	}
	p.skip()
	return p.endBlockCollection(SEQUENCE_END_EVENT, t.Start)
}

func (p *Parser) parseFlowSequenceEntryMappingKey() (Event, error) {
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	if t.Type != BLOCK_MAPPING_VALUE_TOKEN && t.Type != FLOW_ENTRY_TOKEN && t.Type != FLOW_SEQUENCE_END_TOKEN {
		p.pushState(stateFlowSequenceEntryMappingValue)
		return p.parseNode(false, false)
	}
	mark := t.Start
	p.state = stateFlowSequenceEntryMappingValue
	return p.emptyScalar(mark), nil
}

func (p *Parser) parseFlowSequenceEntryMappingValue() (Event, error) {
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	if t.Type == BLOCK_MAPPING_VALUE_TOKEN {
		p.skip()
		nt, err := p.peek(0)
		if err != nil {
			return Event{}, err
		}
		if nt.Type != FLOW_ENTRY_TOKEN && nt.Type != FLOW_SEQUENCE_END_TOKEN {
			p.pushState(stateFlowSequenceEntryMappingEnd)
			return p.parseNode(false, false)
		}
	}
	p.state = stateFlowSequenceEntryMappingEnd
	return p.emptyScalar(t.Start), nil
}

func (p *Parser) parseFlowSequenceEntryMappingEnd() (Event, error) {
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	p.state = stateFlowSequenceEntry
	return Event{Kind: MAPPING_END_EVENT, Start: t.Start, End: t.Start}, nil
}

// --- flow mapping --------------------------------------------------------

func (p *Parser) parseFlowMappingKey(first bool) (Event, error) {
	if first {
		p.skip() // '{'
	}
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	if t.Type != FLOW_MAPPING_END_TOKEN {
		if !first {
			if t.Type != FLOW_ENTRY_TOKEN {
				return Event{}, newParserError("did not find expected ',' or '}'", t.Start, Mark{}, Mark{})
			}
			p.skip()
			if t, err = p.peek(0); err != nil {
				return Event{}, err
			}
		}
		if t.Type == BLOCK_MAPPING_KEY_TOKEN {
			p.skip()
			nt, err := p.peek(0)
			if err != nil {
				return Event{}, err
			}
			if nt.Type != BLOCK_MAPPING_VALUE_TOKEN && nt.Type != FLOW_ENTRY_TOKEN && nt.Type != FLOW_MAPPING_END_TOKEN {
				p.pushState(stateFlowMappingValue)
				return p.parseNode(false, false)
			}
			p.state = stateFlowMappingValue
			return p.emptyScalar(nt.Start), nil
		} else if isScalarToken(t.Type) {
			// "k: v" without a leading '?' (the common flow mapping form);
			// only recognized when the key itself is a plain or quoted
			// scalar.
			nt2, err := p.peek(1)
			if err != nil {
				return Event{}, err
			}
			if nt2.Type == BLOCK_MAPPING_VALUE_TOKEN {
				p.pushState(stateFlowMappingValue)
				return p.parseNode(false, false)
			}
			p.pushState(stateFlowMappingEmptyValue)
			return p.parseNode(false, false)
		} else if t.Type != FLOW_MAPPING_END_TOKEN {
			p.pushState(stateFlowMappingEmptyValue)
			return p.parseNode(false, false)
		}
	}
	p.skip()
	return p.endBlockCollection(MAPPING_END_EVENT, t.Start)
}

func (p *Parser) parseFlowMappingValue(empty bool) (Event, error) {
	t, err := p.peek(0)
	if err != nil {
		return Event{}, err
	}
	if empty {
		p.state = stateFlowMappingKey
		return p.emptyScalar(t.Start), nil
	}
	if t.Type == BLOCK_MAPPING_VALUE_TOKEN {
		p.skip()
		nt, err := p.peek(0)
		if err != nil {
			return Event{}, err
		}
		if nt.Type != FLOW_ENTRY_TOKEN && nt.Type != FLOW_MAPPING_END_TOKEN {
			p.pushState(stateFlowMappingKey)
			return p.parseNode(false, false)
		}
	}
	p.state = stateFlowMappingKey
	return p.emptyScalar(t.Start), nil
}
