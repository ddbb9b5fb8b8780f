package agll

import (
	"github.com/arborix/cdtk/internal/lexer"
)

// PredictResult is the outcome of one ALL(*) decision at a choice point.
type PredictResult struct {
	// AltIndex is meaningful only when Unique is true.
	AltIndex      int
	Unique        bool
	LookaheadUsed int
}

const maxLookahead = 30

// Predict chooses the alternative of rule's flattened alternatives that's
// consistent with the upcoming tokens, using adaptive lookahead (spec's
// ALL(*) predictive path): prune by FIRST-set/nullability against the
// current token, then widen the lookahead depth one token at a time until
// either exactly one alternative survives (commit) or widening stops
// changing the surviving set (real ambiguity at this depth).
func Predict(fg *FlatGrammar, rule string, tokens []lexer.Token, pos int) PredictResult {
	alts := fg.Rules[rule]
	if len(alts) == 0 {
		return PredictResult{Unique: false}
	}
	if len(alts) == 1 {
		return PredictResult{AltIndex: 0, Unique: true, LookaheadUsed: 0}
	}

	viable := pruneByFirstToken(fg, rule, alts, tokens, pos)
	if len(viable) == 1 {
		return PredictResult{AltIndex: viable[0], Unique: true, LookaheadUsed: 1}
	}

	k := 1
	prev := append([]int(nil), viable...)
	for k < maxLookahead {
		k++
		next := filterByLookahead(fg, alts, viable, tokens, pos, k)
		if len(next) == 1 {
			return PredictResult{AltIndex: next[0], Unique: true, LookaheadUsed: k}
		}
		if sameSet(next, prev) {
			return PredictResult{Unique: false, LookaheadUsed: k}
		}
		prev = next
		viable = next
	}
	return PredictResult{Unique: false, LookaheadUsed: k}
}

// pruneByFirstToken drops alternatives whose FIRST set (including FOLLOW
// when the alternative is nullable) doesn't admit tokens[pos]. If that
// would eliminate every alternative, all alternatives are kept instead (a
// safe fallback rather than a false certainty).
func pruneByFirstToken(fg *FlatGrammar, rule string, alts []Alt, tokens []lexer.Token, pos int) []int {
	all := make([]int, len(alts))
	for i := range alts {
		all[i] = i
	}
	if pos >= len(tokens) {
		return all
	}
	tok := tokens[pos]

	var kept []int
	for i, alt := range alts {
		first, nullable := firstOfAlt(fg, alt)
		matches := false
		for _, elem := range first.Elements() {
			if firstElemMatches(elem, tok) {
				matches = true
				break
			}
		}
		if !matches && nullable {
			for _, elem := range fg.Follow(rule).Elements() {
				if firstElemMatches(elem, tok) {
					matches = true
					break
				}
			}
		}
		if matches {
			kept = append(kept, i)
		}
	}
	if len(kept) == 0 {
		return all
	}
	return kept
}

func firstElemMatches(elem string, tok lexer.Token) bool {
	if len(elem) == 0 {
		return false
	}
	switch elem[0] {
	case '\'':
		return tok.Lexeme == elem[1:len(elem)-1]
	case '@':
		return tok.Type == elem[1:]
	}
	return false
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[int]bool{}
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			return false
		}
	}
	return true
}

// filterByLookahead narrows candidates to those whose flattened steps can
// still consistently match tokens[pos:pos+k] (or fewer, if the candidate's
// own derivation or the input ends first).
func filterByLookahead(fg *FlatGrammar, alts []Alt, candidates []int, tokens []lexer.Token, pos, k int) []int {
	var kept []int
	for _, idx := range candidates {
		if altViableAt(fg, alts[idx].Steps, tokens, pos, k) {
			kept = append(kept, idx)
		}
	}
	if len(kept) == 0 {
		return candidates
	}
	return kept
}

// simConfig is one pending continuation during the bounded lookahead
// simulation: a stack of (steps, index) frames, the innermost (current)
// frame on top.
type simConfig struct {
	frames []contFrame
}

type contFrame struct {
	steps []Step
	idx   int
}

const maxSimConfigs = 4000

// altViableAt reports whether steps (one alternative's flattened symbol
// sequence) can derive a string consistent with tokens[pos:pos+k]. Running
// out of real input, or the alternative completing before k tokens are
// consumed, both count as viable (lookahead can't disprove them); a
// configuration budget bounds the epsilon-closure work so a pathological
// grammar degrades to "assume viable" rather than hanging.
func altViableAt(fg *FlatGrammar, steps []Step, tokens []lexer.Token, pos, k int) bool {
	configs := []simConfig{{frames: []contFrame{{steps: steps, idx: 0}}}}
	budget := maxSimConfigs

	for consumed := 0; consumed < k; consumed++ {
		expanded, accepted := epsilonClose(fg, configs, &budget)
		if accepted || budget <= 0 {
			return true
		}
		if len(expanded) == 0 {
			return false
		}
		if pos+consumed >= len(tokens) {
			return true
		}
		tok := tokens[pos+consumed]

		var next []simConfig
		for _, c := range expanded {
			top := c.frames[len(c.frames)-1]
			step := top.steps[top.idx]
			if !step.Matches(tok) {
				continue
			}
			advanced := advanceFrame(c, top.idx+1)
			next = append(next, advanced)
		}
		if len(next) == 0 {
			return false
		}
		configs = next
	}
	return true
}

// advanceFrame returns a copy of c with its top frame's index set to idx.
func advanceFrame(c simConfig, idx int) simConfig {
	frames := append([]contFrame(nil), c.frames...)
	frames[len(frames)-1] = contFrame{steps: frames[len(frames)-1].steps, idx: idx}
	return simConfig{frames: frames}
}

// epsilonClose expands every config by popping completed frames and
// entering NonTerminal steps (which consume no input), until each
// surviving config is either "accepted" (the whole call stack is
// exhausted, meaning the alternative can fully derive within the tokens
// consumed so far) or positioned at a terminal Step awaiting a token. A
// per-config visited-rule set prevents infinite unfolding of a cyclic
// call that never consumes input.
func epsilonClose(fg *FlatGrammar, configs []simConfig, budget *int) ([]simConfig, bool) {
	var out []simConfig
	type work struct {
		c       simConfig
		visited map[string]bool
	}
	var stack []work
	for _, c := range configs {
		stack = append(stack, work{c: c, visited: map[string]bool{}})
	}

	for len(stack) > 0 {
		*budget--
		if *budget <= 0 {
			return nil, true
		}
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := w.c
		if len(c.frames) == 0 {
			return nil, true // accepted
		}
		top := c.frames[len(c.frames)-1]
		if top.idx >= len(top.steps) {
			// frame complete, pop and continue in the caller
			rest := append([]contFrame(nil), c.frames[:len(c.frames)-1]...)
			if len(rest) == 0 {
				return nil, true
			}
			parent := rest[len(rest)-1]
			rest[len(rest)-1] = contFrame{steps: parent.steps, idx: parent.idx + 1}
			stack = append(stack, work{c: simConfig{frames: rest}, visited: w.visited})
			continue
		}
		step := top.steps[top.idx]
		if step.Kind == StepTerminal {
			out = append(out, c)
			continue
		}
		if w.visited[step.Text] {
			continue // cyclic call with no consumption; drop this branch
		}
		subAlts := fg.Rules[step.Text]
		visited := map[string]bool{}
		for k, v := range w.visited {
			visited[k] = v
		}
		visited[step.Text] = true
		for _, sub := range subAlts {
			frames := append(append([]contFrame(nil), c.frames...), contFrame{steps: sub.Steps, idx: 0})
			stack = append(stack, work{c: simConfig{frames: frames}, visited: visited})
		}
	}
	return out, false
}
