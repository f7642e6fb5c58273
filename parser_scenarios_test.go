// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlcore_test

import (
	"testing"

	gocheck "gopkg.in/check.v1"

	"go.yamlcore.dev/yamlcore"
)

func Test(t *testing.T) { gocheck.TestingT(t) }

type ParserSuite struct{}

var _ = gocheck.Suite(&ParserSuite{})

// kindsOf drains p and returns the event kinds it produced, asserting no
// error occurred along the way.
func kindsOf(c *gocheck.C, p *yamlcore.Parser) []yamlcore.EventKind {
	var got []yamlcore.EventKind
	for {
		ev, err := p.Next()
		c.Assert(err, gocheck.IsNil)
		got = append(got, ev.Kind)
		if ev.Kind == yamlcore.StreamEndEvent {
			return got
		}
	}
}

// An empty stream carries zero documents, only the stream markers.
func (s *ParserSuite) TestEmptyStream(c *gocheck.C) {
	p := yamlcore.NewString(nil)
	got := kindsOf(c, p)
	c.Assert(got, gocheck.DeepEquals, []yamlcore.EventKind{
		yamlcore.StreamStartEvent, yamlcore.StreamEndEvent,
	})
}

// A bare scalar document.
func (s *ParserSuite) TestBareScalar(c *gocheck.C) {
	p := yamlcore.NewString([]byte("hello world\n"))
	got := kindsOf(c, p)
	c.Assert(got, gocheck.DeepEquals, []yamlcore.EventKind{
		yamlcore.StreamStartEvent, yamlcore.DocumentStartEvent, yamlcore.ScalarEvent,
		yamlcore.DocumentEndEvent, yamlcore.StreamEndEvent,
	})
}

// A flat block mapping.
func (s *ParserSuite) TestFlatBlockMapping(c *gocheck.C) {
	p := yamlcore.NewString([]byte("a: 1\nb: 2\n"))
	got := kindsOf(c, p)
	c.Assert(got, gocheck.DeepEquals, []yamlcore.EventKind{
		yamlcore.StreamStartEvent, yamlcore.DocumentStartEvent,
		yamlcore.MappingStartEvent,
		yamlcore.ScalarEvent, yamlcore.ScalarEvent, yamlcore.ScalarEvent, yamlcore.ScalarEvent,
		yamlcore.MappingEndEvent,
		yamlcore.DocumentEndEvent, yamlcore.StreamEndEvent,
	})
}

// A block sequence of scalars.
func (s *ParserSuite) TestBlockSequence(c *gocheck.C) {
	p := yamlcore.NewString([]byte("- a\n- b\n- c\n"))
	got := kindsOf(c, p)
	c.Assert(got, gocheck.DeepEquals, []yamlcore.EventKind{
		yamlcore.StreamStartEvent, yamlcore.DocumentStartEvent,
		yamlcore.SequenceStartEvent,
		yamlcore.ScalarEvent, yamlcore.ScalarEvent, yamlcore.ScalarEvent,
		yamlcore.SequenceEndEvent,
		yamlcore.DocumentEndEvent, yamlcore.StreamEndEvent,
	})
}

// Anchors and aliases resolve to ALIAS events carrying the target
// name, not the value.
func (s *ParserSuite) TestAnchorAlias(c *gocheck.C) {
	p := yamlcore.NewString([]byte("- &x 1\n- *x\n"))
	var values []string
	for {
		ev, err := p.Next()
		c.Assert(err, gocheck.IsNil)
		switch ev.Kind {
		case yamlcore.ScalarEvent:
			values = append(values, p.Strings().String(ev.Value))
		case yamlcore.AliasEvent:
			values = append(values, "*"+p.Strings().String(ev.Target))
		}
		if ev.Kind == yamlcore.StreamEndEvent {
			break
		}
	}
	c.Assert(values, gocheck.DeepEquals, []string{"1", "*x"})
}

// Flow collections round-trip through the same event shape as block
// collections.
func (s *ParserSuite) TestFlowCollections(c *gocheck.C) {
	p := yamlcore.NewString([]byte("{a: [1, 2], b: {}}\n"))
	got := kindsOf(c, p)
	c.Assert(got, gocheck.DeepEquals, []yamlcore.EventKind{
		yamlcore.StreamStartEvent, yamlcore.DocumentStartEvent,
		yamlcore.MappingStartEvent,
		yamlcore.ScalarEvent,
		yamlcore.SequenceStartEvent, yamlcore.ScalarEvent, yamlcore.ScalarEvent, yamlcore.SequenceEndEvent,
		yamlcore.ScalarEvent,
		yamlcore.MappingStartEvent, yamlcore.MappingEndEvent,
		yamlcore.MappingEndEvent,
		yamlcore.DocumentEndEvent, yamlcore.StreamEndEvent,
	})
}

// A literal block scalar keeps its line breaks; a folded one joins them
// into spaces. Both must stop at the enclosing mapping's indentation
// rather than swallowing the next key.
func (s *ParserSuite) TestBlockScalars(c *gocheck.C) {
	p := yamlcore.NewString([]byte("a: |\n  one\n  two\nb: >\n  three\n  four\nc: 1\n"))
	var values []string
	for {
		ev, err := p.Next()
		c.Assert(err, gocheck.IsNil)
		if ev.Kind == yamlcore.ScalarEvent {
			values = append(values, p.Strings().String(ev.Value))
		}
		if ev.Kind == yamlcore.StreamEndEvent {
			break
		}
	}
	c.Assert(values, gocheck.DeepEquals, []string{
		"a", "one\ntwo\n",
		"b", "three four\n",
		"c", "1",
	})
}

// An empty block scalar must not swallow the sibling key that follows
// it at the outer indentation.
func (s *ParserSuite) TestEmptyBlockScalarDoesNotSwallowSibling(c *gocheck.C) {
	p := yamlcore.NewString([]byte("a: |\nb: 1\n"))
	got := kindsOf(c, p)
	c.Assert(got, gocheck.DeepEquals, []yamlcore.EventKind{
		yamlcore.StreamStartEvent, yamlcore.DocumentStartEvent,
		yamlcore.MappingStartEvent,
		yamlcore.ScalarEvent, yamlcore.ScalarEvent, yamlcore.ScalarEvent, yamlcore.ScalarEvent,
		yamlcore.MappingEndEvent,
		yamlcore.DocumentEndEvent, yamlcore.StreamEndEvent,
	})
}

// A bare annotated node with no enclosing collection still closes its
// annotation, and that closure never leaks onto a later, unrelated
// collection.
func (s *ParserSuite) TestAnnotationDoesNotLeakOntoLaterCollection(c *gocheck.C) {
	p := yamlcore.NewString([]byte("a: @deprecated old\nb:\n  - 1\n  - 2\n"))
	got := kindsOf(c, p)
	c.Assert(got, gocheck.DeepEquals, []yamlcore.EventKind{
		yamlcore.StreamStartEvent, yamlcore.DocumentStartEvent,
		yamlcore.MappingStartEvent,
		yamlcore.ScalarEvent,
		yamlcore.AnnotationStartEvent, yamlcore.ScalarEvent, yamlcore.AnnotationEndEvent,
		yamlcore.ScalarEvent,
		yamlcore.SequenceStartEvent, yamlcore.ScalarEvent, yamlcore.ScalarEvent, yamlcore.SequenceEndEvent,
		yamlcore.MappingEndEvent,
		yamlcore.DocumentEndEvent, yamlcore.StreamEndEvent,
	})
}

// A mapping key indented past its enclosing block mapping's column
// is an indentation error, never a silently-accepted nested mapping.
func (s *ParserSuite) TestIndentationViolationIsAnError(c *gocheck.C) {
	p := yamlcore.NewString([]byte("a:\n  b: 1\n   c: 2\n"))
	var err error
	for i := 0; i < 64 && err == nil; i++ {
		_, err = p.Next()
	}
	c.Assert(err, gocheck.ErrorMatches, ".*indentation.*")
}

// Nesting past the configured maximum depth is reported, not a stack
// overflow.
func (s *ParserSuite) TestMaxDepthExceeded(c *gocheck.C) {
	doc := ""
	for i := 0; i < 6; i++ {
		doc += "a:\n  "
	}
	doc += "b: 1\n"
	p := yamlcore.NewString([]byte(doc), yamlcore.WithMaxDepth(2))
	var err error
	for i := 0; i < 64 && err == nil; i++ {
		_, err = p.Next()
	}
	c.Assert(err, gocheck.ErrorMatches, ".*nesting depth.*")
}
