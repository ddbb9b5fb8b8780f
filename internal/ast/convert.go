package ast

import (
	"fmt"

	"github.com/arborix/cdtk/internal/diag"
	"github.com/arborix/cdtk/internal/lexer"
	"github.com/arborix/cdtk/internal/sppf"
)

// Convert walks root depth-first and emits an AST, allocating every node
// from arena. tokens is the exact token slice the parse that produced root
// was run over; it's needed to recover a Terminal node's real source Span,
// since an SPPF Terminal only records a token index, not a char offset.
//
// At a Symbol or Intermediate node with more than one Packed alternative, a
// Warning diagnostic is recorded ("ambiguous parse... using first
// alternative") and the walk descends into the first alternative only,
// matching spec's disambiguation rule. Packed nodes are converted
// generically over however many children they carry (this engine never
// builds Intermediate chains, so in practice every Packed node's children
// are already the full, flat per-alternative list spec.md's binary
// left/right Sequence combiner describes for the two-child case).
//
// Returns (nil, diags) if root is nil (no derivation).
func Convert(root *sppf.Node, tokens []lexer.Token, arena *Arena) (*Node, diag.Collection) {
	var diags diag.Collection
	if root == nil {
		return nil, diags
	}
	c := &converter{tokens: tokens, arena: arena, diags: &diags}
	return c.convert(root), diags
}

type converter struct {
	tokens []lexer.Token
	arena  *Arena
	diags  *diag.Collection
}

func (c *converter) convert(n *sppf.Node) *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case sppf.KindTerminal:
		out := c.arena.Alloc()
		out.Type = n.Label
		out.Lexeme = n.Lexeme
		out.Span = spanFor(c.tokens, n.Left, n.Right)
		return out
	case sppf.KindSymbol, sppf.KindIntermediate:
		if len(n.Packs) == 0 {
			return nil
		}
		if n.Ambiguous() {
			c.diags.Add(diag.Diagnostic{
				Stage:   diag.StageParse,
				Level:   diag.Warning,
				Code:    diag.CodeAmbiguousParse,
				Message: fmt.Sprintf("ambiguous parse for %s at [%d..%d], using first alternative", n.Label, n.Left, n.Right),
				Span:    spanFor(c.tokens, n.Left, n.Right),
			})
		}
		return c.convertPacked(n.Packs[0])
	case sppf.KindPacked:
		return c.convertPacked(n)
	default:
		return nil
	}
}

// convertPacked converts one specific derivation. A Packed node with
// exactly one uncaptured child is transparent: the child is returned
// directly, matching spec's "else return the present child" rule. Any other
// shape (more than one child, or a single captured child) allocates a
// "Sequence" node carrying every converted child positionally in Children
// and, for each Named capture, the same child again under its capture
// label.
func (c *converter) convertPacked(packed *sppf.Node) *Node {
	captured := false
	for _, cap := range packed.Captures {
		if cap != "" {
			captured = true
			break
		}
	}
	if len(packed.Children) == 1 && !captured {
		return c.convert(packed.Children[0])
	}

	out := c.arena.Alloc()
	out.Type = "Sequence"
	out.Span = spanFor(c.tokens, packed.Left, packed.Right)
	for i, child := range packed.Children {
		converted := c.convert(child)
		if converted == nil {
			continue
		}
		out.Children = append(out.Children, converted)
		if i < len(packed.Captures) && packed.Captures[i] != "" {
			out.SetField(packed.Captures[i], converted)
		}
	}
	return out
}

// spanFor builds the source Span covering token indices [left,right) by
// looking up the real token Spans at those positions, since an SPPF node
// only carries token-count positions.
func spanFor(tokens []lexer.Token, left, right int) diag.Span {
	if left < 0 || left >= len(tokens) {
		return diag.NoSpan
	}
	if right <= left || right-1 >= len(tokens) {
		return tokens[left].Span
	}
	return diag.Covers(tokens[left].Span, tokens[right-1].Span)
}
