package automaton

import (
	"fmt"
	"strings"

	"github.com/arborix/cdtk/internal/util"
)

// NFA is a generic non-deterministic finite automaton. States are named by
// string and carry an attached value of type E, set independently of the
// automaton's shape (the lexer compiler uses E to tag accepting states with
// the token definition that pattern belongs to).
type NFA[E any] struct {
	states map[string]NFAState[E]
	Start  string
}

func (nfa NFA[E]) States() util.StringSet {
	states := util.NewStringSet()
	for k := range nfa.states {
		states.Add(k)
	}
	return states
}

func (nfa NFA[E]) AcceptingStates() util.StringSet {
	accepting := util.NewStringSet()
	for k, st := range nfa.states {
		if st.accepting {
			accepting.Add(k)
		}
	}
	return accepting
}

func (nfa *NFA[E]) AddState(state string, accepting bool) {
	if _, ok := nfa.states[state]; ok {
		return
	}
	if nfa.states == nil {
		nfa.states = map[string]NFAState[E]{}
	}
	nfa.states[state] = NFAState[E]{
		name:        state,
		transitions: make(map[string][]FATransition),
		accepting:   accepting,
	}
}

func (nfa *NFA[E]) SetAccepting(state string, accepting bool) {
	s, ok := nfa.states[state]
	if !ok {
		panic(fmt.Sprintf("setting accepting on non-existing state: %q", state))
	}
	s.accepting = accepting
	nfa.states[state] = s
}

func (nfa *NFA[E]) SetValue(state string, v E) {
	s, ok := nfa.states[state]
	if !ok {
		panic(fmt.Sprintf("setting value on non-existing state: %q", state))
	}
	s.value = v
	nfa.states[state] = s
}

func (nfa NFA[E]) GetValue(state string) E {
	s, ok := nfa.states[state]
	if !ok {
		panic(fmt.Sprintf("getting value on non-existing state: %q", state))
	}
	return s.value
}

func (nfa *NFA[E]) AddTransition(fromState string, input string, toState string) {
	curFromState, ok := nfa.states[fromState]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", fromState))
	}
	if _, ok := nfa.states[toState]; !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", toState))
	}

	curFromState.transitions[input] = append(curFromState.transitions[input], FATransition{input: input, next: toState})
	nfa.states[fromState] = curFromState
}

// InputSymbols returns every non-ε input symbol used by some transition.
func (nfa NFA[E]) InputSymbols() util.StringSet {
	symbols := util.NewStringSet()
	for _, st := range nfa.states {
		for a := range st.transitions {
			if a != Epsilon {
				symbols.Add(a)
			}
		}
	}
	return symbols
}

// MOVE returns the set of states reachable with one transition from some
// state in X on input a. Purple dragon book algorithm 3.20, MOVE(T, a).
func (nfa NFA[E]) MOVE(X util.ISet[string], a string) util.StringSet {
	moves := util.NewStringSet()
	for _, s := range X.Elements() {
		st, ok := nfa.states[s]
		if !ok {
			continue
		}
		for _, t := range st.transitions[a] {
			moves.Add(t.next)
		}
	}
	return moves
}

// EpsilonClosure gives the set of states reachable from state using zero or
// more ε-moves.
func (nfa NFA[E]) EpsilonClosure(s string) util.StringSet {
	stateItem, ok := nfa.states[s]
	if !ok {
		return nil
	}

	closure := util.NewStringSet()
	stack := util.Stack[NFAState[E]]{}
	stack.Push(stateItem)

	for stack.Len() > 0 {
		checking := stack.Pop()
		if closure.Has(checking.name) {
			continue
		}
		closure.Add(checking.name)

		for _, move := range checking.transitions[Epsilon] {
			next, ok := nfa.states[move.next]
			if !ok {
				panic(fmt.Sprintf("points to invalid state: %q", move.next))
			}
			stack.Push(next)
		}
	}

	return closure
}

// EpsilonClosureOfSet gives the set of states reachable from some state in X
// using zero or more ε-moves.
func (nfa NFA[E]) EpsilonClosureOfSet(X util.ISet[string]) util.StringSet {
	all := util.NewStringSet()
	for _, s := range X.Elements() {
		all.AddAll(nfa.EpsilonClosure(s))
	}
	return all
}

// ToDFA converts the NFA into a deterministic finite automaton accepting the
// same language, via subset construction (purple dragon book algorithm
// 3.20). Each resulting DFA state is valued with the set of NFA states (and
// their values) that subset comprises, so a caller can recover which of
// several merged accepting NFA states "won" (e.g. by priority) at each DFA
// accepting state.
func (nfa NFA[E]) ToDFA() DFA[util.SVSet[E]] {
	inputSymbols := nfa.InputSymbols()

	dStart := nfa.EpsilonClosure(nfa.Start)

	marked := util.NewStringSet()
	dStates := map[string]util.StringSet{}
	dStates[dStart.StringOrdered()] = dStart

	dfa := DFA[util.SVSet[E]]{states: map[string]DFAState[util.SVSet[E]]{}}

	for {
		names := util.StringSetOf(util.OrderedKeys(dStates))
		unmarked := names.Difference(marked)
		if unmarked.Len() < 1 {
			break
		}

		for _, tName := range unmarked.Elements() {
			T := dStates[tName]
			marked.Add(tName)

			values := util.NewSVSet[E]()
			for nfaStateName := range T {
				values.Set(nfaStateName, nfa.GetValue(nfaStateName))
			}

			newState := DFAState[util.SVSet[E]]{name: tName, value: values, transitions: map[string]FATransition{}}
			if T.Any(func(v string) bool { return nfa.states[v].accepting }) {
				newState.accepting = true
			}

			for a := range inputSymbols {
				U := nfa.EpsilonClosureOfSet(nfa.MOVE(T, a))
				if U.Empty() {
					continue
				}
				if !names.Has(U.StringOrdered()) {
					names.Add(U.StringOrdered())
					dStates[U.StringOrdered()] = U
				}
				newState.transitions[a] = FATransition{input: a, next: U.StringOrdered()}
			}

			dfa.states[tName] = newState
			if dfa.Start == "" {
				dfa.Start = tName
			}
		}
	}

	return dfa
}

func (nfa NFA[E]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<START: %q, STATES:", nfa.Start)

	ordered := util.OrderedKeys(nfa.states)
	for i, name := range ordered {
		sb.WriteString("\n\t")
		sb.WriteString(nfa.states[name].String())
		if i+1 < len(ordered) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}
	sb.WriteRune('>')
	return sb.String()
}
