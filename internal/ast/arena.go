// Package ast implements CDTk's SPPF-to-AST conversion, the arena allocator
// backing the resulting nodes, and the pattern-match sub-language that is
// the only public surface where a converted AST escapes the parser.
package ast

// defaultChunkSize is the number of Nodes allocated per chunk; large enough
// that most parses fit in one or two chunks without growing the chunk list.
const defaultChunkSize = 256

// Arena is a bump allocator for AST Nodes: a growable list of fixed-size
// chunks. Alloc hands out the next slot; Reset rewinds the allocation
// cursor without freeing any chunk, so the next parse reuses the same
// backing memory; Dispose drops every chunk. One Arena is owned by one
// parser and reset at the start of each of its Parse calls, matching the
// single-threaded, cooperative scheduling model the rest of the toolkit
// uses.
type Arena struct {
	chunkSize int
	chunks    [][]Node
	chunk     int
	slot      int
}

// NewArena returns an empty Arena using the default chunk size.
func NewArena() *Arena {
	return &Arena{chunkSize: defaultChunkSize}
}

// Alloc returns the next Node slot. If the slot was used by a prior parse,
// its type is reset and its fields map cleared before it's handed out.
func (a *Arena) Alloc() *Node {
	if a.chunkSize <= 0 {
		a.chunkSize = defaultChunkSize
	}
	if a.chunk >= len(a.chunks) {
		a.chunks = append(a.chunks, make([]Node, a.chunkSize))
	}
	n := &a.chunks[a.chunk][a.slot]
	n.reset()

	a.slot++
	if a.slot >= a.chunkSize {
		a.slot = 0
		a.chunk++
	}
	return n
}

// Reset rewinds the allocation cursor to the start without freeing any
// chunk; the next Alloc call reuses existing chunk memory.
func (a *Arena) Reset() {
	a.chunk = 0
	a.slot = 0
}

// Dispose drops every chunk, releasing the arena's backing memory entirely.
func (a *Arena) Dispose() {
	a.chunks = nil
	a.chunk = 0
	a.slot = 0
}

// Len reports how many nodes have been allocated since the last Reset.
func (a *Arena) Len() int {
	return a.chunk*a.chunkSize + a.slot
}
