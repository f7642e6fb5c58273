// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Command yamlcore-events prints the structural event stream a YAML
// document parses to, one event per line, grounded on the teacher's own
// cmd/go-yaml/event.go event-dumping tool.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"go.yamlcore.dev/yamlcore"
)

func main() {
	profuse := flag.Bool("p", false, "include start/end positions for every event")
	flag.Parse()

	var r io.Reader = os.Stdin
	if args := flag.Args(); len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "yamlcore-events:", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	if err := run(r, os.Stdout, *profuse); err != nil {
		fmt.Fprintln(os.Stderr, "yamlcore-events:", err)
		os.Exit(1)
	}
}

func run(r io.Reader, w io.Writer, profuse bool) error {
	p := yamlcore.New(r)
	defer p.Close()

	out := bufio.NewWriter(w)
	defer out.Flush()

	for {
		ev, err := p.Next()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, formatEvent(p, ev, profuse))
		if ev.Kind == yamlcore.StreamEndEvent {
			return nil
		}
	}
}

// formatEvent renders one line per event, loosely in the style of the
// teacher's own +STR/+DOC/+MAP/=VAL test-event notation.
func formatEvent(p *yamlcore.Parser, ev yamlcore.Event, profuse bool) string {
	var line string
	switch ev.Kind {
	case yamlcore.StreamStartEvent:
		line = "+STR"
	case yamlcore.StreamEndEvent:
		line = "-STR"
	case yamlcore.DocumentStartEvent:
		line = "+DOC"
		if !ev.Implicit {
			line += " ---"
		}
	case yamlcore.DocumentEndEvent:
		line = "-DOC"
		if !ev.Implicit {
			line += " ..."
		}
	case yamlcore.AliasEvent:
		line = fmt.Sprintf("=ALI *%s", p.Strings().String(ev.Target))
	case yamlcore.ScalarEvent:
		line = "=VAL" + properties(p, ev) + " " + scalarTag(ev.Style) + escapeScalar(p.Strings().String(ev.Value))
	case yamlcore.SequenceStartEvent:
		line = "+SEQ" + properties(p, ev)
		if ev.Collection == yamlcore.FlowCollectionStyle {
			line += " []"
		}
	case yamlcore.SequenceEndEvent:
		line = "-SEQ"
	case yamlcore.MappingStartEvent:
		line = "+MAP" + properties(p, ev)
		if ev.Collection == yamlcore.FlowCollectionStyle {
			line += " {}"
		}
	case yamlcore.MappingEndEvent:
		line = "-MAP"
	case yamlcore.AnnotationStartEvent:
		line = fmt.Sprintf("+ANN @%s", p.Strings().String(ev.Name))
	case yamlcore.AnnotationEndEvent:
		line = "-ANN"
	default:
		line = "?"
	}
	if profuse {
		line += fmt.Sprintf(" %s-%s", ev.Start, ev.End)
	}
	return line
}

func properties(p *yamlcore.Parser, ev yamlcore.Event) string {
	s := ""
	if ev.Props.Anchor.Valid() {
		s += " &" + p.Strings().String(ev.Props.Anchor)
	}
	if ev.Props.Tag.Valid() {
		s += " <" + p.Strings().String(ev.Props.Tag) + ">"
	}
	return s
}

func scalarTag(style yamlcore.ScalarStyle) string {
	switch style {
	case yamlcore.SingleQuotedScalarStyle:
		return "'"
	case yamlcore.DoubleQuotedScalarStyle:
		return "\""
	case yamlcore.LiteralScalarStyle:
		return "|"
	case yamlcore.FoldedScalarStyle:
		return ">"
	default:
		return ":"
	}
}

func escapeScalar(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			out = append(out, '\\', 'n')
		case '\\':
			out = append(out, '\\', '\\')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
