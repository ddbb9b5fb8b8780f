package ast

import (
	"github.com/arborix/cdtk/internal/diag"
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Node is a single AST node produced by Convert and allocated from an
// Arena. Which fields are meaningful depends on Type:
//
//   - A node converted from an SPPF Terminal carries Lexeme and Span and has
//     no Children or named fields.
//   - A node converted from a Packed alternative with exactly one
//     uncaptured child is simply that child (no wrapping node is
//     allocated).
//   - A node converted from a Packed alternative with more than one child,
//     or with any Named capture, is typed "Sequence" and carries Children
//     (every child, in grammar order, for positional pattern matching) and,
//     for any child that came from a Named capture in the grammar pattern,
//     an entry in the field map keyed by that capture's label.
type Node struct {
	Type   string
	Lexeme string
	Span   diag.Span

	// Children holds every child of a Sequence node in grammar order,
	// regardless of whether it was also captured under a field name. This
	// generalizes spec.md's binary left/right Sequence to the N-ary Packed
	// children this parser's GLL engine actually produces.
	Children []*Node

	fields *linkedhashmap.Map
}

// Field returns the named capture on n, if any.
func (n *Node) Field(name string) (*Node, bool) {
	if n.fields == nil {
		return nil, false
	}
	v, ok := n.fields.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*Node), true
}

// SetField records a named capture on n, preserving insertion order for
// FieldNames.
func (n *Node) SetField(name string, child *Node) {
	if n.fields == nil {
		n.fields = linkedhashmap.New()
	}
	n.fields.Put(name, child)
}

// FieldNames returns n's captured field names in the order they were set.
func (n *Node) FieldNames() []string {
	if n.fields == nil {
		return nil
	}
	keys := n.fields.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

// reset clears n back to its zero value; called by Arena.Alloc when reusing
// a slot from a prior parse so no field leaks across parses.
func (n *Node) reset() {
	n.Type = ""
	n.Lexeme = ""
	n.Span = diag.Span{}
	n.Children = nil
	n.fields = nil
}
