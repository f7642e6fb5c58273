// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Text interner: an arena of geometrically growing chunks handing out
// reference-counted, content-comparable string handles.
//
// Grounded on the bump-allocator shape of pingcap-tidb's
// dumpling/tidb-server/arena/arena.go and pkg/parser/ast_arena.go, with a
// refcount header added on top: those arenas
// only ever grow and reset in one shot (a statement's lifetime), while an
// interner here must let individual strings outlive the parser that
// produced them (an Event a consumer is still holding).

package libyaml

import "hash/maphash"

const (
	internerInitialChunkSize = 4 << 10
	internerMaxChunks        = 64
)

// StringRef is an interned string handle: a chunk index plus an offset
// into that chunk's entry table. It is comparable and safe to embed in an
// Event or a Token. The zero StringRef denotes "no string" (distinct from
// the interned empty string, which has its own StringRef from Empty()).
type StringRef struct {
	chunk int32
	slot  int32
	ok    bool
}

// Valid reports whether r actually names an interned entry (as opposed to
// the zero value used for "anchor/tag not present").
func (r StringRef) Valid() bool { return r.ok }

type internedEntry struct {
	data []byte
	refs int32
}

type internerChunk struct {
	entries []internedEntry
	live    int32 // number of entries with refs > 0; chunk is freeable at 0 once non-active.
}

// Interner is owned by one Parser and may outlive it if Events still
// reference strings it produced.
type Interner struct {
	chunks []*internerChunk
	empty  StringRef
	seed   maphash.Seed
}

// NewInterner creates an empty arena with its shared empty-string constant
// already interned.
func NewInterner() *Interner {
	in := &Interner{seed: maphash.MakeSeed()}
	in.chunks = append(in.chunks, &internerChunk{})
	in.empty = in.FromBytes(nil)
	return in
}

// Empty returns the shared empty string handle.
func (in *Interner) Empty() StringRef { return in.empty }

// FromBytes copies b into the arena and returns a handle to it.
// De-duplication is not attempted: callers that want structural identity
// use Equals, not reference equality.
func (in *Interner) FromBytes(b []byte) StringRef {
	chunk := in.chunks[len(in.chunks)-1]
	limit := internerInitialChunkSize << (len(in.chunks) - 1)
	if len(chunk.entries) >= limit && len(in.chunks) < internerMaxChunks {
		chunk = &internerChunk{}
		in.chunks = append(in.chunks, chunk)
	}
	owned := make([]byte, len(b))
	copy(owned, b)
	chunk.entries = append(chunk.entries, internedEntry{data: owned, refs: 1})
	chunk.live++
	return StringRef{chunk: int32(len(in.chunks) - 1), slot: int32(len(chunk.entries) - 1), ok: true}
}

// FromString is a convenience wrapper around FromBytes.
func (in *Interner) FromString(s string) StringRef { return in.FromBytes([]byte(s)) }

func (in *Interner) entry(r StringRef) *internedEntry {
	return &in.chunks[r.chunk].entries[r.slot]
}

// Text returns the interned bytes for r. The returned slice must not be
// mutated; it aliases the arena.
func (in *Interner) Text(r StringRef) []byte {
	if !r.ok {
		return nil
	}
	return in.entry(r).data
}

// String returns the interned string for r.
func (in *Interner) String(r StringRef) string {
	if !r.ok {
		return ""
	}
	return string(in.entry(r).data)
}

// Retain increments r's refcount. Use when handing r across an ownership
// boundary the interner doesn't already track.
func (in *Interner) Retain(r StringRef) {
	if !r.ok {
		return
	}
	in.entry(r).refs++
}

// Release decrements r's refcount, freeing the chunk once every entry in
// it has been released and it is no longer the active (last) chunk.
func (in *Interner) Release(r StringRef) {
	if !r.ok {
		return
	}
	chunk := in.chunks[r.chunk]
	e := &chunk.entries[r.slot]
	if e.refs == 0 {
		return
	}
	e.refs--
	if e.refs == 0 {
		chunk.live--
		if chunk.live == 0 && int(r.chunk) != len(in.chunks)-1 {
			chunk.entries = nil
		}
	}
}

// Equals reports content equality between two handles.
func (in *Interner) Equals(a, b StringRef) bool {
	if a.ok != b.ok {
		return false
	}
	if !a.ok {
		return true
	}
	if a.chunk == b.chunk && a.slot == b.slot {
		return true
	}
	ea, eb := in.entry(a), in.entry(b)
	if len(ea.data) != len(eb.data) {
		return false
	}
	for i := range ea.data {
		if ea.data[i] != eb.data[i] {
			return false
		}
	}
	return true
}

// Hash returns a content hash for r, stable for the lifetime of the arena.
func (in *Interner) Hash(r StringRef) uint64 {
	if !r.ok {
		return 0
	}
	var h maphash.Hash
	h.SetSeed(in.seed)
	h.Write(in.entry(r).data)
	return h.Sum64()
}
