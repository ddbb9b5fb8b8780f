package automaton

import (
	"fmt"

	"github.com/arborix/cdtk/internal/regexir"
)

// Thompson builds an NFA from a regexir AST using Thompson's construction
// (Dragon book algorithm 3.23): each subexpression becomes a fragment with a
// single start state and a single accepting state, composed by adding
// ε-transitions between fragments. State names are taken from a shared
// counter so repeated calls into the same NFA (building multiple token
// patterns that are later unioned) never collide.
//
// Literal and class matches are translated through a regexir.Alphabet,
// which partitions rune space into a finite set of symbols ahead of time so
// the resulting NFA's transition table uses plain string equality instead
// of evaluating predicates at match time. Build an Alphabet from every
// pattern a lexer will use before constructing any one of them.
type Thompson[E any] struct {
	nfa      *NFA[E]
	alphabet *regexir.Alphabet
	counter  int
}

// NewThompson returns a builder that will add states into nfa using symbols
// drawn from alphabet. nfa may already contain states from previous Build
// calls, which is how several token patterns end up sharing one NFA ahead
// of subset construction.
func NewThompson[E any](nfa *NFA[E], alphabet *regexir.Alphabet) *Thompson[E] {
	return &Thompson[E]{nfa: nfa, alphabet: alphabet}
}

func (b *Thompson[E]) newState() string {
	name := fmt.Sprintf("t%d", b.counter)
	b.counter++
	b.nfa.AddState(name, false)
	return name
}

// Build adds a fragment for node into the underlying NFA and returns its
// start and accepting state names. Build does not mark the accepting state
// as accepting and leaves its value at E's zero value; callers mark it via
// SetAccepting and tag it via SetValue.
func (b *Thompson[E]) Build(node *regexir.Node) (start, accept string) {
	switch node.Kind {
	case regexir.KindEpsilon:
		return b.buildEpsilon()
	case regexir.KindChar:
		return b.buildSymbol(b.alphabet.SymbolFor(node.Char))
	case regexir.KindDot, regexir.KindClass:
		return b.buildClass(node)
	case regexir.KindConcat:
		return b.buildConcat(node.Children)
	case regexir.KindAlt:
		return b.buildAlt(node.Children)
	case regexir.KindStar:
		return b.buildStar(node.Children[0])
	case regexir.KindPlus:
		return b.buildPlus(node.Children[0])
	case regexir.KindOptional:
		return b.buildOptional(node.Children[0])
	default:
		panic(fmt.Sprintf("automaton: unhandled regexir kind %s", node.Kind))
	}
}

func (b *Thompson[E]) buildEpsilon() (string, string) {
	s := b.newState()
	a := b.newState()
	b.nfa.AddTransition(s, Epsilon, a)
	return s, a
}

func (b *Thompson[E]) buildSymbol(symbol string) (string, string) {
	s := b.newState()
	a := b.newState()
	b.nfa.AddTransition(s, symbol, a)
	return s, a
}

// buildClass adds one parallel transition per alphabet symbol the class or
// dot node matches, all from the same start state to the same accept state.
func (b *Thompson[E]) buildClass(node *regexir.Node) (string, string) {
	s := b.newState()
	a := b.newState()
	for _, symbol := range b.alphabet.SymbolsFor(node) {
		b.nfa.AddTransition(s, symbol, a)
	}
	return s, a
}

func (b *Thompson[E]) buildConcat(children []*regexir.Node) (string, string) {
	start, accept := b.Build(children[0])
	for _, c := range children[1:] {
		nextStart, nextAccept := b.Build(c)
		b.nfa.AddTransition(accept, Epsilon, nextStart)
		accept = nextAccept
	}
	return start, accept
}

func (b *Thompson[E]) buildAlt(children []*regexir.Node) (string, string) {
	start := b.newState()
	accept := b.newState()
	for _, c := range children {
		cStart, cAccept := b.Build(c)
		b.nfa.AddTransition(start, Epsilon, cStart)
		b.nfa.AddTransition(cAccept, Epsilon, accept)
	}
	return start, accept
}

func (b *Thompson[E]) buildStar(child *regexir.Node) (string, string) {
	start := b.newState()
	accept := b.newState()
	cStart, cAccept := b.Build(child)

	b.nfa.AddTransition(start, Epsilon, cStart)
	b.nfa.AddTransition(start, Epsilon, accept)
	b.nfa.AddTransition(cAccept, Epsilon, cStart)
	b.nfa.AddTransition(cAccept, Epsilon, accept)

	return start, accept
}

func (b *Thompson[E]) buildPlus(child *regexir.Node) (string, string) {
	cStart, cAccept := b.Build(child)
	accept := b.newState()

	b.nfa.AddTransition(cAccept, Epsilon, cStart)
	b.nfa.AddTransition(cAccept, Epsilon, accept)

	return cStart, accept
}

func (b *Thompson[E]) buildOptional(child *regexir.Node) (string, string) {
	start := b.newState()
	accept := b.newState()
	cStart, cAccept := b.Build(child)

	b.nfa.AddTransition(start, Epsilon, cStart)
	b.nfa.AddTransition(start, Epsilon, accept)
	b.nfa.AddTransition(cAccept, Epsilon, accept)

	return start, accept
}
