// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libyaml

import (
	"testing"

	"go.yamlcore.dev/yamlcore/internal/testutil/assert"
)

func events(t *testing.T, doc string) (*Interner, []Event) {
	t.Helper()
	in := NewInterner()
	p := NewParser(in)
	p.SetInputString([]byte(doc))
	var got []Event
	for {
		ev, err := p.Next()
		assert.Equalf(t, nil, err, "doc %q", doc)
		got = append(got, ev)
		if ev.Kind == STREAM_END_EVENT {
			break
		}
	}
	return in, got
}

func kinds(evs []Event) []EventKind {
	out := make([]EventKind, len(evs))
	for i, e := range evs {
		out[i] = e.Kind
	}
	return out
}

func assertKinds(t *testing.T, doc string, want ...EventKind) (*Interner, []Event) {
	t.Helper()
	in, evs := events(t, doc)
	got := kinds(evs)
	assert.Equalf(t, len(want), len(got), "doc %q kinds %v", doc, got)
	for i := range want {
		if i >= len(got) {
			break
		}
		assert.Equalf(t, want[i], got[i], "doc %q event %d", doc, i)
	}
	return in, evs
}

func TestParserBareScalar(t *testing.T) {
	in, evs := assertKinds(t, "hello\n",
		STREAM_START_EVENT, DOCUMENT_START_EVENT, SCALAR_EVENT, DOCUMENT_END_EVENT, STREAM_END_EVENT)
	assert.Equal(t, "hello", in.String(evs[2].Value))
}

func TestParserBlockSequence(t *testing.T) {
	in, evs := assertKinds(t, "- a\n- b\n",
		STREAM_START_EVENT, DOCUMENT_START_EVENT,
		SEQUENCE_START_EVENT, SCALAR_EVENT, SCALAR_EVENT, SEQUENCE_END_EVENT,
		DOCUMENT_END_EVENT, STREAM_END_EVENT)
	assert.Equal(t, "a", in.String(evs[3].Value))
	assert.Equal(t, "b", in.String(evs[4].Value))
	assert.Equal(t, BLOCK_COLLECTION_STYLE, evs[2].Collection)
}

func TestParserBlockMapping(t *testing.T) {
	in, evs := assertKinds(t, "a: 1\nb: 2\n",
		STREAM_START_EVENT, DOCUMENT_START_EVENT,
		MAPPING_START_EVENT, SCALAR_EVENT, SCALAR_EVENT, SCALAR_EVENT, SCALAR_EVENT, MAPPING_END_EVENT,
		DOCUMENT_END_EVENT, STREAM_END_EVENT)
	assert.Equal(t, "a", in.String(evs[3].Value))
	assert.Equal(t, "1", in.String(evs[4].Value))
	assert.Equal(t, "b", in.String(evs[5].Value))
	assert.Equal(t, "2", in.String(evs[6].Value))
}

func TestParserNestedBlockMapping(t *testing.T) {
	assertKinds(t, "a:\n  b: 1\n  c: 2\n",
		STREAM_START_EVENT, DOCUMENT_START_EVENT,
		MAPPING_START_EVENT, SCALAR_EVENT, // "a"
		MAPPING_START_EVENT, SCALAR_EVENT, SCALAR_EVENT, SCALAR_EVENT, SCALAR_EVENT, MAPPING_END_EVENT,
		MAPPING_END_EVENT,
		DOCUMENT_END_EVENT, STREAM_END_EVENT)
}

func TestParserFlowSequence(t *testing.T) {
	in, evs := assertKinds(t, "[1, 2, 3]\n",
		STREAM_START_EVENT, DOCUMENT_START_EVENT,
		SEQUENCE_START_EVENT, SCALAR_EVENT, SCALAR_EVENT, SCALAR_EVENT, SEQUENCE_END_EVENT,
		DOCUMENT_END_EVENT, STREAM_END_EVENT)
	assert.Equal(t, FLOW_COLLECTION_STYLE, evs[2].Collection)
	assert.Equal(t, "2", in.String(evs[4].Value))
}

func TestParserFlowMapping(t *testing.T) {
	assertKinds(t, "{a: 1, b: 2}\n",
		STREAM_START_EVENT, DOCUMENT_START_EVENT,
		MAPPING_START_EVENT, SCALAR_EVENT, SCALAR_EVENT, SCALAR_EVENT, SCALAR_EVENT, MAPPING_END_EVENT,
		DOCUMENT_END_EVENT, STREAM_END_EVENT)
}

func TestParserFlowSequenceOfPairs(t *testing.T) {
	assertKinds(t, "[a: 1, b: 2]\n",
		STREAM_START_EVENT, DOCUMENT_START_EVENT,
		SEQUENCE_START_EVENT,
		MAPPING_START_EVENT, SCALAR_EVENT, SCALAR_EVENT, MAPPING_END_EVENT,
		MAPPING_START_EVENT, SCALAR_EVENT, SCALAR_EVENT, MAPPING_END_EVENT,
		SEQUENCE_END_EVENT,
		DOCUMENT_END_EVENT, STREAM_END_EVENT)
}

// TestParserIndentationViolation: a mapping key indented past its
// enclosing mapping's level is an error, not a new nested mapping.
func TestParserIndentationViolation(t *testing.T) {
	in := NewInterner()
	p := NewParser(in)
	p.SetInputString([]byte("a:\n  b: 1\n   c: 2\n"))
	var lastErr error
	for i := 0; i < 64; i++ {
		_, err := p.Next()
		if err != nil {
			lastErr = err
			break
		}
	}
	if lastErr == nil {
		t.Fatalf("expected an indentation error, got none")
	}
	if _, ok := lastErr.(ParserError); !ok {
		t.Fatalf("expected ParserError, got %T: %v", lastErr, lastErr)
	}
}

func TestParserAnchorAlias(t *testing.T) {
	assertKinds(t, "- &a 1\n- *a\n",
		STREAM_START_EVENT, DOCUMENT_START_EVENT,
		SEQUENCE_START_EVENT, SCALAR_EVENT, ALIAS_EVENT, SEQUENCE_END_EVENT,
		DOCUMENT_END_EVENT, STREAM_END_EVENT)
}

func TestParserMaxDepth(t *testing.T) {
	doc := ""
	for i := 0; i < 8; i++ {
		doc += "a:\n  "
	}
	doc += "b: 1\n"
	in := NewInterner()
	p := NewParser(in, WithMaxDepth(3))
	p.SetInputString([]byte(doc))
	var err error
	for i := 0; i < 64 && err == nil; i++ {
		_, err = p.Next()
	}
	if err == nil {
		t.Fatalf("expected a max-depth error")
	}
}

func TestParserLiteralBlockScalar(t *testing.T) {
	in, evs := assertKinds(t, "a: |\n  one\n  two\nb: 1\n",
		STREAM_START_EVENT, DOCUMENT_START_EVENT,
		MAPPING_START_EVENT, SCALAR_EVENT, SCALAR_EVENT, SCALAR_EVENT, SCALAR_EVENT, MAPPING_END_EVENT,
		DOCUMENT_END_EVENT, STREAM_END_EVENT)
	assert.Equal(t, "a", in.String(evs[3].Value))
	assert.Equal(t, "one\ntwo\n", in.String(evs[4].Value))
	assert.Equal(t, LITERAL_SCALAR_STYLE, evs[4].Style)
	assert.Equal(t, "b", in.String(evs[5].Value))
	assert.Equal(t, "1", in.String(evs[6].Value))
}

func TestParserFoldedBlockScalar(t *testing.T) {
	in, evs := assertKinds(t, "a: >\n  one\n  two\n",
		STREAM_START_EVENT, DOCUMENT_START_EVENT,
		MAPPING_START_EVENT, SCALAR_EVENT, SCALAR_EVENT, MAPPING_END_EVENT,
		DOCUMENT_END_EVENT, STREAM_END_EVENT)
	assert.Equal(t, "one two\n", in.String(evs[4].Value))
	assert.Equal(t, FOLDED_SCALAR_STYLE, evs[4].Style)
}

// TestParserEmptyLiteralBlockScalarDoesNotSwallowSibling regresses a bug
// where an empty block scalar's content indentation fell back to 0, so
// the next line at any indentation was read as more of the scalar
// instead of ending it.
func TestParserEmptyLiteralBlockScalarDoesNotSwallowSibling(t *testing.T) {
	in, evs := assertKinds(t, "a: |\nb: 1\n",
		STREAM_START_EVENT, DOCUMENT_START_EVENT,
		MAPPING_START_EVENT, SCALAR_EVENT, SCALAR_EVENT, SCALAR_EVENT, SCALAR_EVENT, MAPPING_END_EVENT,
		DOCUMENT_END_EVENT, STREAM_END_EVENT)
	assert.Equal(t, "a", in.String(evs[3].Value))
	assert.Equal(t, "", in.String(evs[4].Value))
	assert.Equal(t, "b", in.String(evs[5].Value))
	assert.Equal(t, "1", in.String(evs[6].Value))
}

func TestParserAnnotatedBareScalar(t *testing.T) {
	assertKinds(t, "@deprecated old\n",
		STREAM_START_EVENT, DOCUMENT_START_EVENT,
		ANNOTATION_START_EVENT, SCALAR_EVENT, ANNOTATION_END_EVENT,
		DOCUMENT_END_EVENT, STREAM_END_EVENT)
}

func TestParserAnnotatedAlias(t *testing.T) {
	assertKinds(t, "- &a 1\n- @deprecated *a\n",
		STREAM_START_EVENT, DOCUMENT_START_EVENT,
		SEQUENCE_START_EVENT, SCALAR_EVENT,
		ANNOTATION_START_EVENT, ALIAS_EVENT, ANNOTATION_END_EVENT,
		SEQUENCE_END_EVENT,
		DOCUMENT_END_EVENT, STREAM_END_EVENT)
}

// TestParserAnnotationDoesNotLeakOntoLaterCollection regresses a bug
// where a bare annotated node with no enclosing collection left the
// pending-annotation flag set, so it was later picked up by an
// unrelated sequence or mapping and produced an unmatched
// ANNOTATION_END_EVENT for it.
func TestParserAnnotationDoesNotLeakOntoLaterCollection(t *testing.T) {
	assertKinds(t, "a: @deprecated old\nb:\n  - 1\n  - 2\n",
		STREAM_START_EVENT, DOCUMENT_START_EVENT,
		MAPPING_START_EVENT,
		SCALAR_EVENT,
		ANNOTATION_START_EVENT, SCALAR_EVENT, ANNOTATION_END_EVENT,
		SCALAR_EVENT,
		SEQUENCE_START_EVENT, SCALAR_EVENT, SCALAR_EVENT, SEQUENCE_END_EVENT,
		MAPPING_END_EVENT,
		DOCUMENT_END_EVENT, STREAM_END_EVENT)
}

func TestParserMultiDocument(t *testing.T) {
	assertKinds(t, "---\na\n---\nb\n",
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT, SCALAR_EVENT, DOCUMENT_END_EVENT,
		DOCUMENT_START_EVENT, SCALAR_EVENT, DOCUMENT_END_EVENT,
		STREAM_END_EVENT)
}
