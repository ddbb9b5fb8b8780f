// Package regexir defines the intermediate representation that CDTk's regex
// parser produces and that the automaton package's Thompson construction
// consumes. It supports the common subset of POSIX/PCRE syntax a lexer
// actually needs: literals, character classes, concatenation, alternation,
// and the Kleene operators. Lookaround, backreferences, atomic groups, named
// capture groups, and inline flags are explicitly out of scope and reported
// via ErrUnsupported.
package regexir

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned (wrapped) by Parse when the pattern uses a
// regex feature that has no finite-automaton equivalent.
var ErrUnsupported = errors.New("unsupported regex feature")

// Kind discriminates the variants of Node.
type Kind int

const (
	KindEpsilon Kind = iota
	KindChar
	KindClass
	KindDot
	KindConcat
	KindAlt
	KindStar
	KindPlus
	KindOptional
)

func (k Kind) String() string {
	switch k {
	case KindEpsilon:
		return "Epsilon"
	case KindChar:
		return "Char"
	case KindClass:
		return "Class"
	case KindDot:
		return "Dot"
	case KindConcat:
		return "Concat"
	case KindAlt:
		return "Alt"
	case KindStar:
		return "Star"
	case KindPlus:
		return "Plus"
	case KindOptional:
		return "Optional"
	default:
		return "Unknown"
	}
}

// RuneRange is an inclusive range of runes, used by KindClass nodes.
type RuneRange struct {
	Lo rune
	Hi rune
}

func (r RuneRange) Contains(c rune) bool {
	return c >= r.Lo && c <= r.Hi
}

// Node is a single node of a regex abstract syntax tree. The meaning of its
// fields depends on Kind:
//
//   - KindChar: Char holds the literal rune.
//   - KindClass: Ranges holds the (possibly negated) set of accepted runes.
//   - KindConcat, KindAlt: Children holds the operands, left to right.
//   - KindStar, KindPlus, KindOptional: Children holds exactly one operand.
type Node struct {
	Kind     Kind
	Char     rune
	Ranges   []RuneRange
	Negated  bool
	Children []*Node
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindChar:
		return fmt.Sprintf("Char(%q)", n.Char)
	case KindClass:
		return fmt.Sprintf("Class(negated=%v, ranges=%d)", n.Negated, len(n.Ranges))
	case KindDot:
		return "Dot"
	case KindEpsilon:
		return "Epsilon"
	default:
		return fmt.Sprintf("%s(%d children)", n.Kind, len(n.Children))
	}
}

// Matches reports whether c is accepted by a KindClass or KindDot node.
// Dot matches any rune except newline, matching the convention the rest of
// the pack's regex-based lexers (regexp.Regexp) follow by default.
func (n *Node) Matches(c rune) bool {
	switch n.Kind {
	case KindDot:
		return c != '\n'
	case KindChar:
		return c == n.Char
	case KindClass:
		in := false
		for _, r := range n.Ranges {
			if r.Contains(c) {
				in = true
				break
			}
		}
		if n.Negated {
			return !in
		}
		return in
	default:
		return false
	}
}
