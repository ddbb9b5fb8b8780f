// Package grammar implements grammar definition, analysis (nullable,
// FIRST, FOLLOW), and left-recursion detection/elimination for CDTk.
package grammar

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of an Expr node.
type Kind int

const (
	KindTerminalType Kind = iota
	KindTerminalLiteral
	KindNonTerminal
	KindSequence
	KindChoice
	KindRepeat
	KindOptional
	KindNamed
)

func (k Kind) String() string {
	switch k {
	case KindTerminalType:
		return "TerminalType"
	case KindTerminalLiteral:
		return "TerminalLiteral"
	case KindNonTerminal:
		return "NonTerminal"
	case KindSequence:
		return "Sequence"
	case KindChoice:
		return "Choice"
	case KindRepeat:
		return "Repeat"
	case KindOptional:
		return "Optional"
	case KindNamed:
		return "Named"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Unbounded is the Max value of a Repeat with no upper bound.
const Unbounded = -1

// Expr is a node in a rule's pattern tree. Which fields are meaningful
// depends on Kind:
//
//   - TerminalType:    Name is the referenced token type.
//   - TerminalLiteral: Literal is the literal text.
//   - NonTerminal:     Name is the referenced rule.
//   - Sequence:        Items holds the items in order; may be empty (an
//     empty Sequence matches the empty string, i.e. epsilon).
//   - Choice:          Items holds the alternatives.
//   - Repeat:          Items[0] is the repeated item; Min/Max bound the count.
//   - Optional:        Items[0] is the optional item (equivalent to
//     Repeat{Min: 0, Max: 1}, kept distinct for readability of the tree).
//   - Named:           Items[0] is the captured item; Name is the capture label.
type Expr struct {
	Kind    Kind
	Name    string
	Literal string
	Items   []*Expr
	Min     int
	Max     int
}

func term(name string) *Expr        { return &Expr{Kind: KindTerminalType, Name: name} }
func literal(text string) *Expr     { return &Expr{Kind: KindTerminalLiteral, Literal: text} }
func nonTerminal(name string) *Expr { return &Expr{Kind: KindNonTerminal, Name: name} }

func sequence(items ...*Expr) *Expr { return &Expr{Kind: KindSequence, Items: items} }

// choice collapses a single-alternative Choice down to the alternative
// itself, so elimination passes that may end up with exactly one
// alternative (e.g. a rule with only one non-recursive base case) don't
// leave a degenerate one-armed Choice node in the tree.
func choice(alts ...*Expr) *Expr {
	if len(alts) == 1 {
		return alts[0]
	}
	return &Expr{Kind: KindChoice, Items: alts}
}

func repeat(item *Expr, min, max int) *Expr {
	return &Expr{Kind: KindRepeat, Items: []*Expr{item}, Min: min, Max: max}
}

func optional(item *Expr) *Expr { return &Expr{Kind: KindOptional, Items: []*Expr{item}} }

func named(label string, item *Expr) *Expr {
	return &Expr{Kind: KindNamed, Name: label, Items: []*Expr{item}}
}

// epsilon is an empty Sequence: it matches the empty string.
func epsilon() *Expr { return &Expr{Kind: KindSequence} }

func isEpsilon(e *Expr) bool {
	return e.Kind == KindSequence && len(e.Items) == 0
}

// String renders e in the same surface syntax the pattern compiler accepts,
// useful for diagnostics and tests.
func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case KindTerminalType:
		return "@" + e.Name
	case KindTerminalLiteral:
		return "'" + strings.ReplaceAll(e.Literal, "'", "\\'") + "'"
	case KindNonTerminal:
		return e.Name
	case KindSequence:
		if len(e.Items) == 0 {
			return "ε"
		}
		parts := make([]string, len(e.Items))
		for i, it := range e.Items {
			parts[i] = it.String()
		}
		return strings.Join(parts, " ")
	case KindChoice:
		parts := make([]string, len(e.Items))
		for i, it := range e.Items {
			parts[i] = it.String()
		}
		return strings.Join(parts, " | ")
	case KindRepeat:
		suffix := fmt.Sprintf("{%d,%d}", e.Min, e.Max)
		if e.Min == 0 && e.Max == Unbounded {
			suffix = "*"
		} else if e.Min == 1 && e.Max == Unbounded {
			suffix = "+"
		}
		return "(" + e.Items[0].String() + ")" + suffix
	case KindOptional:
		return "(" + e.Items[0].String() + ")?"
	case KindNamed:
		return e.Name + ":" + e.Items[0].String()
	default:
		return "?"
	}
}

// alternatives returns the top-level alternatives of e: if e is a Choice,
// its Items; otherwise the single-element slice [e]. Used by the left
// recursion and FIRST/FOLLOW passes, which reason per-alternative.
func alternatives(e *Expr) []*Expr {
	if e.Kind == KindChoice {
		return e.Items
	}
	return []*Expr{e}
}

// sequenceItems returns e's items when it's a Sequence, or a one-element
// slice of e otherwise, so callers can treat any alternative uniformly as
// a list of leading items.
func sequenceItems(e *Expr) []*Expr {
	if e.Kind == KindSequence {
		return e.Items
	}
	return []*Expr{e}
}
