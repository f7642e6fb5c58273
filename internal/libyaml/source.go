// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Source adapter: delivers bytes to the lexer as an advancing cursor
// with lookahead, oblivious to tokens. Three built-in adaptors are
// provided — a reader, a file, and an in-memory byte sequence — matching
// the teacher's SetInputReader/SetInputString split in
// internal/libyaml/api.go. NewReaderSource/NewMemorySource/NewFileSource
// sniff and transcode non-UTF-8 input before any byte reaches the lexer
// (see detectEncoding/transcode below), so the lexer itself only ever
// sees UTF-8.

package libyaml

import (
	"encoding/binary"
	"io"
	"os"
	"unicode/utf16"
	"unicode/utf8"
)

// Source fills a byte buffer, signalling EOF. Implementations may block.
type Source interface {
	// Fill reads into buf, returning how much was written and whether the
	// source is now exhausted. A non-nil err always means a read error
	// (surfaced by the lexer as a Lexer_Error with a read-error sub-kind).
	Fill(buf []byte) (n int, eof bool, err error)
}

// readerSource adapts any io.Reader.
type readerSource struct {
	r io.Reader
}

// NewReaderSource wraps an arbitrary io.Reader as a Source, auto-
// detecting and transcoding any UTF-16/32 encoding to UTF-8.
func NewReaderSource(r io.Reader) Source { return newDetectingSource(&readerSource{r: r}) }

func (s *readerSource) Fill(buf []byte) (int, bool, error) {
	n, err := s.r.Read(buf)
	if err == io.EOF {
		return n, true, nil
	}
	if err != nil {
		return n, false, err
	}
	return n, false, nil
}

// fileSource is the file-path adaptor: opens, streams, closes.
type fileSource struct {
	f *os.File
}

// NewFileSource opens path and returns a Source that streams it, auto-
// detecting and transcoding any UTF-16/32 encoding to UTF-8. The
// returned io.Closer must be closed by the caller once parsing is done
// (mirrors the Source adapter's "oblivious to tokens" contract: it does
// not know when the lexer is finished with it).
func NewFileSource(path string) (Source, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return newDetectingSource(&fileSource{f: f}), f, nil
}

func (s *fileSource) Fill(buf []byte) (int, bool, error) {
	n, err := s.f.Read(buf)
	if err == io.EOF {
		return n, true, nil
	}
	if err != nil {
		return n, false, err
	}
	return n, false, nil
}

// memorySource is the in-memory byte-sequence adaptor.
type memorySource struct {
	data []byte
	pos  int
}

// NewMemorySource wraps an in-memory byte slice as a Source, auto-
// detecting and transcoding any UTF-16/32 encoding to UTF-8.
func NewMemorySource(data []byte) Source {
	return newDetectingSource(&memorySource{data: data})
}

func (s *memorySource) Fill(buf []byte) (int, bool, error) {
	if s.pos >= len(s.data) {
		return 0, true, nil
	}
	n := copy(buf, s.data[s.pos:])
	s.pos += n
	return n, s.pos >= len(s.data), nil
}

// detectingSource wraps an underlying Source, sniffing its leading bytes
// for a BOM or the UTF-16/32 null-byte pattern and transcoding the whole
// stream to UTF-8 before the lexer sees any of it. Detection only needs
// the first few bytes, but transcode works on a complete buffer, so a
// non-UTF-8 stream is drained and converted up front rather than
// incrementally; UTF-8 input, the overwhelmingly common case, still pays
// that one full read but no conversion.
type detectingSource struct {
	inner   Source
	decided bool
	buf     []byte
	pos     int
}

func newDetectingSource(inner Source) Source {
	return &detectingSource{inner: inner}
}

const detectFillChunk = 4096

func (s *detectingSource) Fill(buf []byte) (int, bool, error) {
	if !s.decided {
		raw, err := drain(s.inner)
		if err != nil {
			return 0, false, err
		}
		enc, bomLen := detectEncoding(raw)
		out, err := transcode(enc, raw[bomLen:])
		if err != nil {
			return 0, false, err
		}
		s.buf = out
		s.decided = true
	}
	if s.pos >= len(s.buf) {
		return 0, true, nil
	}
	n := copy(buf, s.buf[s.pos:])
	s.pos += n
	return n, s.pos >= len(s.buf), nil
}

// drain reads src to exhaustion and returns everything it produced.
func drain(src Source) ([]byte, error) {
	var all []byte
	chunk := make([]byte, detectFillChunk)
	for {
		n, eof, err := src.Fill(chunk)
		if err != nil {
			return nil, err
		}
		all = append(all, chunk[:n]...)
		if eof {
			return all, nil
		}
	}
}

// detectEncoding inspects the first bytes of the stream per YAML §5.2 (BOM
// or the pattern of null bytes in the first four bytes) and returns the
// encoding plus how many leading bytes were the BOM itself (0 if none).
// Only entire encodings are detected here; transcoding to UTF-8 happens in
// transcode below.
func detectEncoding(head []byte) (enc Encoding, bomLen int) {
	switch {
	case len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF:
		return UTF8_ENCODING, 3
	case len(head) >= 4 && head[0] == 0xFF && head[1] == 0xFE && head[2] == 0 && head[3] == 0:
		return UTF32LE_ENCODING, 4
	case len(head) >= 4 && head[0] == 0 && head[1] == 0 && head[2] == 0xFE && head[3] == 0xFF:
		return UTF32BE_ENCODING, 4
	case len(head) >= 2 && head[0] == 0xFF && head[1] == 0xFE:
		return UTF16LE_ENCODING, 2
	case len(head) >= 2 && head[0] == 0xFE && head[1] == 0xFF:
		return UTF16BE_ENCODING, 2
	case len(head) >= 4 && head[0] == 0 && head[1] == 0 && head[2] == 0 && head[3] != 0:
		return UTF32BE_ENCODING, 0
	case len(head) >= 4 && head[0] != 0 && head[1] == 0 && head[2] == 0 && head[3] == 0:
		return UTF32LE_ENCODING, 0
	case len(head) >= 2 && head[0] == 0 && head[1] != 0:
		return UTF16BE_ENCODING, 0
	case len(head) >= 2 && head[0] != 0 && head[1] == 0:
		return UTF16LE_ENCODING, 0
	default:
		return UTF8_ENCODING, 0
	}
}

// transcode converts raw bytes in the detected non-UTF-8 encoding to
// UTF-8. UTF-8 input (the overwhelmingly common case) is returned as-is.
func transcode(enc Encoding, raw []byte) ([]byte, error) {
	switch enc {
	case UTF8_ENCODING, ANY_ENCODING:
		return raw, nil
	case UTF16LE_ENCODING, UTF16BE_ENCODING:
		if len(raw)%2 != 0 {
			return nil, &ReaderError{Offset: len(raw) - 1, Err: errTruncatedCodeUnit}
		}
		order := binary.ByteOrder(binary.LittleEndian)
		if enc == UTF16BE_ENCODING {
			order = binary.BigEndian
		}
		units := make([]uint16, len(raw)/2)
		for i := range units {
			units[i] = order.Uint16(raw[i*2:])
		}
		return []byte(string(utf16.Decode(units))), nil
	case UTF32LE_ENCODING, UTF32BE_ENCODING:
		if len(raw)%4 != 0 {
			return nil, &ReaderError{Offset: len(raw) - (len(raw) % 4), Err: errTruncatedCodeUnit}
		}
		order := binary.ByteOrder(binary.LittleEndian)
		if enc == UTF32BE_ENCODING {
			order = binary.BigEndian
		}
		var out []byte
		buf := make([]byte, utf8.UTFMax)
		for i := 0; i+4 <= len(raw); i += 4 {
			r := rune(order.Uint32(raw[i:]))
			n := utf8.EncodeRune(buf, r)
			out = append(out, buf[:n]...)
		}
		return out, nil
	default:
		return raw, nil
	}
}
