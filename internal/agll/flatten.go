// Package agll implements CDTk's AG-LL parser: an adaptive-lookahead LL(*)
// predictive path with a graph-structured-stack GLL engine as fallback,
// producing a Shared Packed Parse Forest for ambiguous input.
//
// The grammar IR built by internal/grammar is a tree (Sequence/Choice/
// Optional/Repeat/Named nested arbitrarily), but GLL's classical
// formulation works over a flat BNF: a rule is a set of alternatives, each
// alternative a linear list of terminal/nonterminal symbols. flatten.go
// desugars the tree into that flat form once per compiled grammar,
// introducing a synthetic helper rule for every Optional, Repeat, and
// nested (grouped) Choice the same way a parser generator desugars EBNF
// into BNF; a bare grouped Sequence with no quantifier is spliced inline
// instead, since it doesn't need its own GSS stack frame.
package agll

import (
	"fmt"

	"github.com/arborix/cdtk/internal/grammar"
	"github.com/arborix/cdtk/internal/lexer"
)

// StepKind distinguishes a terminal match from a rule call within a
// flattened alternative.
type StepKind int

const (
	StepTerminal StepKind = iota
	StepNonTerminal
)

// Step is one position in a flattened alternative.
type Step struct {
	Kind StepKind

	// Terminal only: Literal selects exact-lexeme matching (a quoted
	// literal in the pattern) vs token-type matching (an '@name'
	// reference).
	Literal bool
	Text    string // literal text, token type name, or rule name

	// Capture is the Named-capture label carried from the grammar
	// pattern ("" if this step isn't captured).
	Capture string
}

// Matches reports whether tok satisfies a terminal Step.
func (s Step) Matches(tok lexer.Token) bool {
	if s.Kind != StepTerminal {
		return false
	}
	if s.Literal {
		return tok.Lexeme == s.Text
	}
	return tok.Type == s.Text
}

// firstElem renders the FIRST-set element a terminal Step contributes, in
// the same "'literal'" / "@Type" form internal/grammar uses.
func (s Step) firstElem() string {
	if s.Literal {
		return "'" + s.Text + "'"
	}
	return "@" + s.Text
}

// Alt is one flattened alternative of a rule.
type Alt struct {
	Label string
	Steps []Step
}

// FlatGrammar is the desugared, GLL-ready form of a compiled grammar.Grammar.
type FlatGrammar struct {
	Rules  map[string][]Alt
	Start  string
	Source *grammar.Grammar

	analysis *flatAnalysis
}

// Flatten desugars g (which must already have had EnsureCompiled called)
// into a FlatGrammar. g is not mutated.
func Flatten(g *grammar.Grammar) *FlatGrammar {
	fg := &FlatGrammar{
		Rules:  map[string][]Alt{},
		Start:  g.Start(),
		Source: g,
	}
	counter := 0
	nextSynthName := func(owner string) string {
		counter++
		return fmt.Sprintf("__%s_g%d__", owner, counter)
	}

	var flattenRuleBody func(name string, pattern *grammar.Expr)
	var stepFor func(owner string, item *grammar.Expr) Step
	var flattenSeq func(owner string, items []*grammar.Expr) []Step

	flattenSeq = func(owner string, items []*grammar.Expr) []Step {
		var steps []Step
		for _, item := range items {
			if item.Kind == grammar.KindSequence {
				// A bare group with no quantifier: splice its items
				// inline, it doesn't introduce a new derivation boundary.
				steps = append(steps, flattenSeq(owner, item.Items)...)
				continue
			}
			steps = append(steps, stepFor(owner, item))
		}
		return steps
	}

	stepFor = func(owner string, item *grammar.Expr) Step {
		switch item.Kind {
		case grammar.KindTerminalType:
			return Step{Kind: StepTerminal, Literal: false, Text: item.Name}
		case grammar.KindTerminalLiteral:
			return Step{Kind: StepTerminal, Literal: true, Text: item.Literal}
		case grammar.KindNonTerminal:
			return Step{Kind: StepNonTerminal, Text: item.Name}
		case grammar.KindNamed:
			inner := stepFor(owner, item.Items[0])
			inner.Capture = item.Name
			return inner
		case grammar.KindOptional:
			name := nextSynthName(owner)
			fg.Rules[name] = []Alt{
				{Label: "alt0", Steps: flattenSeq(name, []*grammar.Expr{item.Items[0]})},
				{Label: "alt1", Steps: nil},
			}
			return Step{Kind: StepNonTerminal, Text: name}
		case grammar.KindRepeat:
			// item.Max is ignored: internal/grammar's pattern compiler only
			// ever produces Repeat{Max: Unbounded} (the */+/? surface
			// syntax has no bounded-count form), so there is no bounded
			// repeat for this desugaring to express yet.
			starName := nextSynthName(owner)
			fg.Rules[starName] = []Alt{
				{Label: "alt0", Steps: append(flattenSeq(starName, []*grammar.Expr{item.Items[0]}), Step{Kind: StepNonTerminal, Text: starName})},
				{Label: "alt1", Steps: nil},
			}
			if item.Min <= 0 {
				return Step{Kind: StepNonTerminal, Text: starName}
			}
			plusName := nextSynthName(owner)
			fg.Rules[plusName] = []Alt{
				{Label: "alt0", Steps: append(flattenSeq(plusName, []*grammar.Expr{item.Items[0]}), Step{Kind: StepNonTerminal, Text: starName})},
			}
			return Step{Kind: StepNonTerminal, Text: plusName}
		case grammar.KindChoice:
			name := nextSynthName(owner)
			flattenRuleBody(name, item)
			return Step{Kind: StepNonTerminal, Text: name}
		case grammar.KindSequence:
			name := nextSynthName(owner)
			fg.Rules[name] = []Alt{{Label: "alt0", Steps: flattenSeq(name, item.Items)}}
			return Step{Kind: StepNonTerminal, Text: name}
		default:
			return Step{}
		}
	}

	flattenRuleBody = func(name string, pattern *grammar.Expr) {
		var alts []*grammar.Expr
		if pattern.Kind == grammar.KindChoice {
			alts = pattern.Items
		} else {
			alts = []*grammar.Expr{pattern}
		}
		out := make([]Alt, len(alts))
		for i, alt := range alts {
			var items []*grammar.Expr
			if alt.Kind == grammar.KindSequence {
				items = alt.Items
			} else {
				items = []*grammar.Expr{alt}
			}
			out[i] = Alt{Label: fmt.Sprintf("alt%d", i), Steps: flattenSeq(name, items)}
		}
		fg.Rules[name] = out
	}

	for _, rule := range g.Rules() {
		flattenRuleBody(rule.Name, rule.Pattern)
	}

	return fg
}
