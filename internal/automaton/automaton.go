// Package automaton provides generic NFA and DFA types and the Thompson
// construction, subset construction, and Hopcroft minimization algorithms
// CDTk's lexer compiler uses to turn a regex IR tree into a minimal DFA.
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arborix/cdtk/internal/util"
)

// Epsilon is the transition-table key for an ε-move.
const Epsilon = ""

// FATransition is a single edge of a finite automaton: an input symbol (the
// empty string for ε) and the state it leads to.
type FATransition struct {
	input string
	next  string
}

func (t FATransition) String() string {
	inp := t.input
	if inp == Epsilon {
		inp = "ε"
	}
	return fmt.Sprintf("=(%s)=> %s", inp, t.next)
}

// NFAState is one state of an NFA[E]: a name, an attached value, its
// transition table (possibly several transitions per input symbol), and
// whether it accepts.
type NFAState[E any] struct {
	name        string
	value       E
	transitions map[string][]FATransition
	accepting   bool
}

func (ns NFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)
	for i, input := range inputs {
		var tStrings []string
		for _, t := range ns.transitions[input] {
			tStrings = append(tStrings, t.String())
		}
		sort.Strings(tStrings)
		for tIdx, t := range tStrings {
			moves.WriteString(t)
			if tIdx+1 < len(tStrings) || i+1 < len(inputs) {
				moves.WriteString(", ")
			}
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())
	if ns.accepting {
		str = "(" + str + ")"
	}
	return str
}

func (ns NFAState[E]) Copy() NFAState[E] {
	cp := NFAState[E]{
		name:        ns.name,
		value:       ns.value,
		accepting:   ns.accepting,
		transitions: make(map[string][]FATransition, len(ns.transitions)),
	}
	for k, v := range ns.transitions {
		cp.transitions[k] = append([]FATransition{}, v...)
	}
	return cp
}

// DFAState is one state of a DFA[E]: at most one transition per input
// symbol.
type DFAState[E any] struct {
	name        string
	value       E
	transitions map[string]FATransition
	accepting   bool
}

func (ns DFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)
	for i, input := range inputs {
		moves.WriteString(ns.transitions[input].String())
		if i+1 < len(inputs) {
			moves.WriteString(", ")
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())
	if ns.accepting {
		str = "(" + str + ")"
	}
	return str
}
