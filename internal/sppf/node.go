// Package sppf implements CDTk's Shared Packed Parse Forest: the
// structure the AG-LL parser's GLL fallback path builds during parsing
// and that internal/ast later walks to produce a plain AST.
//
// An SPPF node is one of four kinds, following the classical GLL/SPPF
// node split (Scott & Johnstone; conceptually grounded in
// npillmayer/gorgo's lr/sppf package, reimplemented here from scratch in
// CDTk's own naming):
//
//   - Terminal nodes are leaves: a recognized token spanning [Left,Right).
//   - Symbol nodes are "OR-nodes": all the ways a nonterminal was
//     recognized spanning [Left,Right). More than one Packed child means
//     the input is ambiguous at that span.
//   - Intermediate nodes are OR-nodes for a partially-recognized
//     production (built via Forest.AddIntermediate before every symbol of
//     a rule's right-hand side has been matched), keeping sharing
//     effective for long productions instead of only sharing at rule
//     boundaries. The agll GLL engine does not build them; it keeps
//     partial matches in its own accumulator.
//   - Packed nodes are "AND-nodes": one specific derivation, an ordered
//     list of children (each a Terminal/Symbol/Intermediate node) plus,
//     for any child that came from a Named capture in the grammar
//     pattern, the capture label to propagate into the AST.
package sppf

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	KindTerminal Kind = iota
	KindSymbol
	KindPacked
	KindIntermediate
)

func (k Kind) String() string {
	switch k {
	case KindTerminal:
		return "Terminal"
	case KindSymbol:
		return "Symbol"
	case KindPacked:
		return "Packed"
	case KindIntermediate:
		return "Intermediate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is a single SPPF node. Which fields are meaningful depends on Kind:
//
//   - Terminal: Label is the token type name, Lexeme its matched text,
//     Left/Right its input position span.
//   - Symbol: Label is the rule name; Packs holds every alternative
//     derivation (a Packed node each) recognized spanning [Left,Right).
//   - Intermediate: Label identifies the production slot (e.g.
//     "Rule#alt2@2", meaning "two symbols into alternative 2 of Rule");
//     Packs holds the alternative ways of reaching that slot.
//   - Packed: Label identifies which alternative this is (mirrors the
//     owning Symbol/Intermediate's disambiguation, e.g. "alt0"); Children
//     is the ordered list of child nodes for that derivation and
//     Captures parallels it with any Named-capture label (empty string
//     for a child with no capture).
type Node struct {
	Kind  Kind
	Label string
	Left  int
	Right int

	// Terminal only.
	Lexeme string

	// Symbol / Intermediate only: the set of alternative derivations.
	// len(Packs) > 1 means this span is ambiguous.
	Packs []*Node

	// Packed only.
	Children []*Node
	Captures []string
}

// Ambiguous reports whether n (a Symbol or Intermediate node) has more
// than one packed alternative.
func (n *Node) Ambiguous() bool {
	return len(n.Packs) > 1
}

func (n *Node) String() string {
	switch n.Kind {
	case KindTerminal:
		return fmt.Sprintf("%s[%d,%d)=%q", n.Label, n.Left, n.Right, n.Lexeme)
	case KindSymbol, KindIntermediate:
		return fmt.Sprintf("%s[%d,%d)", n.Label, n.Left, n.Right)
	case KindPacked:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = c.String()
		}
		return fmt.Sprintf("%s(%s)", n.Label, strings.Join(parts, " "))
	default:
		return "?"
	}
}
