package sppf

import (
	"fmt"

	"github.com/cnf/structhash"
)

// Forest is a Shared Packed Parse Forest: a set of Symbol/Intermediate/
// Terminal nodes, deduplicated by (kind, label, left, right), plus Packed
// nodes deduplicated additionally by which specific children they join
// (so two different derivations of the same span stay as two distinct
// Packed alternatives instead of collapsing into one).
type Forest struct {
	symbols       map[string]*Node
	intermediates map[string]*Node
	terminals     map[string]*Node
	packed        map[string]*Node
	root          *Node
}

// NewForest returns an empty forest.
func NewForest() *Forest {
	return &Forest{
		symbols:       map[string]*Node{},
		intermediates: map[string]*Node{},
		terminals:     map[string]*Node{},
		packed:        map[string]*Node{},
	}
}

func spanKey(kind Kind, label string, left, right int) string {
	return fmt.Sprintf("%d|%s|%d|%d", kind, label, left, right)
}

// AddTerminal returns the (shared) Terminal node for a token of the given
// type and lexeme recognized at [left,right). Terminal nodes for the same
// span are only ever created once.
func (f *Forest) AddTerminal(tokenType, lexeme string, left, right int) *Node {
	key := spanKey(KindTerminal, tokenType, left, right)
	if n, ok := f.terminals[key]; ok {
		return n
	}
	n := &Node{Kind: KindTerminal, Label: tokenType, Left: left, Right: right, Lexeme: lexeme}
	f.terminals[key] = n
	return n
}

// packedSignature identifies one specific derivation: it combines the
// owning node's rule/alternative tag with the identity of every child, so
// that adding the same derivation twice (e.g. the GLL engine revisiting a
// descriptor) is a no-op, while two genuinely different derivations of
// the same span both survive as distinct Packed alternatives.
func (f *Forest) packedSignature(altLabel string, children []*Node) (string, error) {
	type childRef struct {
		Kind  Kind
		Label string
		Left  int
		Right int
	}
	entry := struct {
		Alt      string
		Children []childRef
	}{Alt: altLabel}
	for _, c := range children {
		entry.Children = append(entry.Children, childRef{Kind: c.Kind, Label: c.Label, Left: c.Left, Right: c.Right})
	}
	return structhash.Hash(entry, 1)
}

// addOrNode is the shared logic behind AddSymbol and AddIntermediate: find
// or create the OR-node for (kind, label, span), then attach a Packed
// alternative for this specific derivation if an identical one isn't
// already present.
func (f *Forest) addOrNode(table map[string]*Node, kind Kind, label string, left, right int, altLabel string, children []*Node, captures []string) (*Node, error) {
	key := spanKey(kind, label, left, right)
	orNode, ok := table[key]
	if !ok {
		orNode = &Node{Kind: kind, Label: label, Left: left, Right: right}
		table[key] = orNode
	}

	sig, err := f.packedSignature(key+"/"+altLabel, children)
	if err != nil {
		return nil, fmt.Errorf("sppf: hashing packed signature: %w", err)
	}
	if existing, ok := f.packed[sig]; ok {
		if !containsPack(orNode.Packs, existing) {
			orNode.Packs = append(orNode.Packs, existing)
		}
		return orNode, nil
	}

	packedNode := &Node{Kind: KindPacked, Label: altLabel, Left: left, Right: right, Children: children, Captures: captures}
	f.packed[sig] = packedNode
	orNode.Packs = append(orNode.Packs, packedNode)
	return orNode, nil
}

func containsPack(packs []*Node, target *Node) bool {
	for _, p := range packs {
		if p == target {
			return true
		}
	}
	return false
}

// AddSymbol records that rule produced children as one derivation
// spanning [left,right), under alternative tag altLabel (e.g. "alt0"),
// and returns the (possibly pre-existing) Symbol OR-node for that span.
// captures parallels children with any Named-capture label carried
// through from the grammar pattern (empty string for no capture).
func (f *Forest) AddSymbol(rule, altLabel string, left, right int, children []*Node, captures []string) (*Node, error) {
	return f.addOrNode(f.symbols, KindSymbol, rule, left, right, altLabel, children, captures)
}

// AddEpsilon records the empty derivation of rule at position pos (a
// Symbol node spanning the empty interval [pos,pos)), used when a
// nullable rule or alternative matches zero input.
func (f *Forest) AddEpsilon(rule string, pos int) (*Node, error) {
	return f.AddSymbol(rule, "ε", pos, pos, nil, nil)
}

// AddIntermediate records one more symbol matched along a production's
// right-hand side before it's fully recognized: label identifies the
// slot (e.g. "Rule#alt0@2"), children is the ordered list of symbols
// matched so far (its last element the one just matched), and captures
// parallels it with any Named-capture label (mirroring AddSymbol's
// convention, so a capture on an early child of a long production isn't
// lost the way a prev/next-only signature would lose it).
func (f *Forest) AddIntermediate(label string, left, right int, children []*Node, captures []string) (*Node, error) {
	return f.addOrNode(f.intermediates, KindIntermediate, label, left, right, label, children, captures)
}

// FindSymbol returns the existing Symbol node for (rule, left, right), or
// nil if no such derivation has been recorded. Used to check for overall
// parse success: per the GLL success criterion, a derivation exists iff
// the Symbol node for (startRule, 0, tokenCount) is present.
func (f *Forest) FindSymbol(rule string, left, right int) *Node {
	return f.symbols[spanKey(KindSymbol, rule, left, right)]
}

// SetRoot records which Symbol node is the top of the parse.
func (f *Forest) SetRoot(n *Node) {
	f.root = n
}

// Root returns the node set by SetRoot, or nil if none was set.
func (f *Forest) Root() *Node {
	return f.root
}

// NodeCount returns the total number of distinct nodes stored in f
// (terminals, symbols, intermediates, and packed alternatives), useful
// for tests asserting that sharing kept the forest from growing
// unboundedly.
func (f *Forest) NodeCount() int {
	return len(f.terminals) + len(f.symbols) + len(f.intermediates) + len(f.packed)
}
