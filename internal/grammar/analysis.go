package grammar

import (
	"fmt"

	"github.com/arborix/cdtk/internal/diag"
	"github.com/arborix/cdtk/internal/util"
)

const endOfInput = "$"

// EnsureCompiled recomputes the left-recursion elimination pass, the
// nullable/FIRST/FOLLOW tables, and runs Validate, if the grammar has
// changed since the last call. It is safe and cheap to call repeatedly;
// per-rule left-recursion elimination runs at most once per rule even
// across multiple EnsureCompiled calls, so synthetic "__<rule>_LR__"
// rules are never generated twice for the same source rule.
func (g *Grammar) EnsureCompiled() (diag.Collection, error) {
	var diags diag.Collection
	if !g.dirty && g.compiled {
		return diags, nil
	}

	// nullable is needed by the left-edge relation (a Sequence's left edge
	// walks past nullable prefix items), so compute it once against the
	// pre-elimination rule set, then again below against the final one.
	// Elimination only adds epsilon-producing synthetic rules; it never
	// changes the nullability of an existing rule.
	g.computeNullable()

	lrDiags := g.eliminateLeftRecursion()
	diags.Merge(lrDiags)

	g.computeNullable()
	g.computeFirst()
	g.computeFollow()

	diags.Merge(g.Validate())

	g.dirty = false
	g.compiled = true
	return diags, nil
}

// --- nullable -------------------------------------------------------------

func (g *Grammar) computeNullable() {
	nullable := map[string]bool{}
	for _, name := range g.order {
		nullable[name] = false
	}

	changed := true
	for changed {
		changed = false
		for _, name := range g.order {
			if nullable[name] {
				continue
			}
			if g.exprNullable(g.rules[name].Pattern, nullable) {
				nullable[name] = true
				changed = true
			}
		}
	}
	g.nullable = nullable
}

func (g *Grammar) exprNullable(e *Expr, nullable map[string]bool) bool {
	switch e.Kind {
	case KindTerminalType, KindTerminalLiteral:
		return false
	case KindNonTerminal:
		return nullable[e.Name]
	case KindSequence:
		for _, item := range e.Items {
			if !g.exprNullable(item, nullable) {
				return false
			}
		}
		return true
	case KindChoice:
		for _, alt := range e.Items {
			if g.exprNullable(alt, nullable) {
				return true
			}
		}
		return false
	case KindOptional:
		return true
	case KindRepeat:
		if e.Min == 0 {
			return true
		}
		return g.exprNullable(e.Items[0], nullable)
	case KindNamed:
		return g.exprNullable(e.Items[0], nullable)
	default:
		return false
	}
}

// IsNullable reports whether rule can derive the empty string. Valid only
// after EnsureCompiled.
func (g *Grammar) IsNullable(rule string) bool {
	return g.nullable[rule]
}

// --- FIRST ------------------------------------------------------------

func (g *Grammar) computeFirst() {
	first := map[string]util.StringSet{}
	for _, name := range g.order {
		first[name] = util.NewStringSet()
	}

	changed := true
	for changed {
		changed = false
		for _, name := range g.order {
			before := first[name].Len()
			g.exprFirstInto(g.rules[name].Pattern, first, first[name])
			if first[name].Len() != before {
				changed = true
			}
		}
	}
	g.first = first
}

// exprFirstInto accumulates FIRST(e) into out, using the fixed-point table
// first for NonTerminal lookups.
func (g *Grammar) exprFirstInto(e *Expr, first map[string]util.StringSet, out util.StringSet) {
	switch e.Kind {
	case KindTerminalLiteral:
		out.Add("'" + e.Literal + "'")
	case KindTerminalType:
		out.Add("@" + e.Name)
	case KindNonTerminal:
		out.AddAll(first[e.Name])
	case KindSequence:
		for _, item := range e.Items {
			g.exprFirstInto(item, first, out)
			if !g.exprNullable(item, g.nullable) {
				break
			}
		}
	case KindChoice:
		for _, alt := range e.Items {
			g.exprFirstInto(alt, first, out)
		}
	case KindOptional:
		g.exprFirstInto(e.Items[0], first, out)
	case KindRepeat:
		g.exprFirstInto(e.Items[0], first, out)
	case KindNamed:
		g.exprFirstInto(e.Items[0], first, out)
	}
}

// First returns FIRST(rule), a set of strings of the form "'literal'" or
// "@TokenType". Valid only after EnsureCompiled.
func (g *Grammar) First(rule string) util.StringSet {
	return g.first[rule]
}

// --- FOLLOW -----------------------------------------------------------

func (g *Grammar) computeFollow() {
	follow := map[string]util.StringSet{}
	for _, name := range g.order {
		follow[name] = util.NewStringSet()
	}
	if g.start != "" {
		follow[g.start].Add(endOfInput)
	}

	changed := true
	for changed {
		changed = false
		for _, name := range g.order {
			before := map[string]int{}
			for k, v := range follow {
				before[k] = v.Len()
			}
			g.exprFollow(g.rules[name].Pattern, follow, follow[name])
			for k, v := range follow {
				if v.Len() != before[k] {
					changed = true
				}
			}
		}
	}
	g.follow = follow
}

// exprFollow walks e (the pattern of some rule whose own FOLLOW set is
// trailing, the set that would follow e itself in context) and propagates
// into the FOLLOW of every NonTerminal referenced inside e, per the
// standard A -> αBβ rule: FOLLOW(B) gains FIRST(β); if β is nullable (or
// empty), FOLLOW(B) also gains trailing.
func (g *Grammar) exprFollow(e *Expr, follow map[string]util.StringSet, trailing util.StringSet) {
	switch e.Kind {
	case KindSequence:
		for i, item := range e.Items {
			rest := e.Items[i+1:]
			restFirst, restNullable := g.firstOfSeq(rest)
			innerTrailing := restFirst
			if restNullable {
				innerTrailing = util.NewStringSet()
				innerTrailing.AddAll(restFirst)
				innerTrailing.AddAll(trailing)
			}
			g.exprFollow(item, follow, innerTrailing)
		}
	case KindChoice:
		for _, alt := range e.Items {
			g.exprFollow(alt, follow, trailing)
		}
	case KindOptional, KindRepeat, KindNamed:
		g.exprFollow(e.Items[0], follow, trailing)
	case KindNonTerminal:
		follow[e.Name].AddAll(trailing)
	}
}

// firstOfSeq computes FIRST of a sequence of items (possibly empty) plus
// whether the whole sequence is nullable.
func (g *Grammar) firstOfSeq(items []*Expr) (util.StringSet, bool) {
	out := util.NewStringSet()
	for _, item := range items {
		g.exprFirstInto(item, g.first, out)
		if !g.exprNullable(item, g.nullable) {
			return out, false
		}
	}
	return out, true
}

// Follow returns FOLLOW(rule). Valid only after EnsureCompiled.
func (g *Grammar) Follow(rule string) util.StringSet {
	return g.follow[rule]
}

// firstFollowTable renders every non-synthetic rule's FIRST and FOLLOW
// sets as a bordered table, for attaching to a diagnostic as debug
// context (e.g. when the start rule turns out to be nullable and a
// developer needs to see why).
func (g *Grammar) firstFollowTable() string {
	rows := make([][]string, 0, len(g.order))
	for _, name := range g.order {
		if g.rules[name].Synthetic {
			continue
		}
		rows = append(rows, []string{name, g.first[name].StringOrdered(), g.follow[name].StringOrdered()})
	}
	return diag.Table([]string{"Rule", "FIRST", "FOLLOW"}, rows)
}

// --- left-edge relation and left-recursion -----------------------------

// leftEdge returns the set of nonterminal names that can be the leftmost
// symbol reached by a single derivation step from e: NonTerminal
// contributes itself; Sequence walks items left to right, stopping after
// the first non-nullable item; Choice unions over alternatives;
// Optional/Repeat/Named pass through to their inner item.
func (g *Grammar) leftEdge(e *Expr) util.StringSet {
	out := util.NewStringSet()
	switch e.Kind {
	case KindNonTerminal:
		out.Add(e.Name)
	case KindSequence:
		for _, item := range e.Items {
			out.AddAll(g.leftEdge(item))
			if !g.exprNullable(item, g.nullable) {
				break
			}
		}
	case KindChoice:
		for _, alt := range e.Items {
			out.AddAll(g.leftEdge(alt))
		}
	case KindOptional, KindRepeat, KindNamed:
		out.AddAll(g.leftEdge(e.Items[0]))
	}
	return out
}

// leftRecursiveCycles returns the set of rule names that participate in a
// left-recursive cycle (i.e. a rule reachable from itself via the
// transitive closure of the left-edge relation).
func (g *Grammar) leftRecursiveCycles() map[string]bool {
	edges := map[string]util.StringSet{}
	for _, name := range g.order {
		edges[name] = g.leftEdge(g.rules[name].Pattern)
	}

	// Tarjan's SCC algorithm over the left-edge graph.
	index := 0
	indices := map[string]int{}
	lowlink := map[string]int{}
	onStack := map[string]bool{}
	var stack []string
	inCycle := map[string]bool{}

	var strongConnect func(v string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range edges[v].Elements() {
			if _, ok := g.rules[w]; !ok {
				continue // undefined reference, reported separately by Validate
			}
			if _, seen := indices[w]; !seen {
				strongConnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if len(scc) > 1 {
				for _, m := range scc {
					inCycle[m] = true
				}
			} else if len(scc) == 1 && edges[scc[0]].Has(scc[0]) {
				inCycle[scc[0]] = true
			}
		}
	}

	for _, name := range g.order {
		if _, seen := indices[name]; !seen {
			strongConnect(name)
		}
	}
	return inCycle
}

// eliminateLeftRecursion detects left-recursive rules via the left-edge
// SCC analysis and removes DIRECT left recursion (a rule with an
// alternative that begins, syntactically, with a reference to itself) by
// the standard transformation: a rule
//
//	A -> A a1 | A a2 | ... | b1 | b2 | ...   (no bi begins with A)
//
// becomes
//
//	A       -> b1 A' | b2 A' | ...
//	A'      -> a1 A' | a2 A' | ... | ε
//
// where A' is named "__A_LR__" and marked Synthetic. Left-recursive rules
// whose recursion is only indirect (through another rule) or where every
// alternative is recursive (no base case, hence unremovable) are reported
// as diagnostics and left untouched, per the explicit allowance that
// indirect/mutual left recursion may be detected without being rewritten.
func (g *Grammar) eliminateLeftRecursion() diag.Collection {
	var diags diag.Collection
	cycles := g.leftRecursiveCycles()

	for _, name := range append([]string(nil), g.order...) {
		if !cycles[name] || g.lrHandled.Has(name) {
			continue
		}
		rule := g.rules[name]

		var betas, alphas []*Expr
		unremovable := false
		for _, alt := range alternatives(rule.Pattern) {
			items := sequenceItems(alt)
			if len(items) > 0 && items[0].Kind == KindNonTerminal && items[0].Name == name {
				rest := items[1:]
				if len(rest) == 0 {
					// A -> A with nothing else: no amount of rewriting
					// removes this cycle.
					diags.Add(diag.Diagnostic{
						Stage:   diag.StageGrammar,
						Level:   diag.Error,
						Code:    diag.CodeUnremovableLeftRec,
						Message: fmt.Sprintf("rule %q has an alternative that is left-recursive with no distinguishing suffix and cannot be eliminated", name),
					})
					unremovable = true
					break
				}
				alphas = append(alphas, sequenceOf(rest))
			} else {
				betas = append(betas, alt)
			}
		}

		if unremovable {
			g.lrHandled.Add(name)
			continue
		}

		if len(alphas) == 0 {
			// Not direct left recursion at the syntactic level (e.g. only
			// indirect, through another rule's left edge).
			diags.Add(diag.Diagnostic{
				Stage:   diag.StageGrammar,
				Level:   diag.Warning,
				Code:    diag.CodeUnremovableLeftRec,
				Message: fmt.Sprintf("rule %q participates in left recursion that is not a direct self-reference and was not automatically rewritten", name),
			})
			g.lrHandled.Add(name)
			continue
		}
		if len(betas) == 0 {
			diags.Add(diag.Diagnostic{
				Stage:   diag.StageGrammar,
				Level:   diag.Error,
				Code:    diag.CodeUnremovableLeftRec,
				Message: fmt.Sprintf("rule %q is left-recursive in every alternative and has no base case", name),
			})
			g.lrHandled.Add(name)
			continue
		}

		primeName := "__" + name + "_LR__"
		primeRef := nonTerminal(primeName)

		newAAlts := make([]*Expr, len(betas))
		for i, b := range betas {
			newAAlts[i] = sequence(append(sequenceItems(b), primeRef)...)
		}
		rule.Pattern = choice(newAAlts...)

		primeAlts := make([]*Expr, 0, len(alphas)+1)
		for _, a := range alphas {
			primeAlts = append(primeAlts, sequence(append(sequenceItems(a), primeRef)...))
		}
		primeAlts = append(primeAlts, epsilon())
		g.addSyntheticRule(primeName, choice(primeAlts...))

		g.lrHandled.Add(name)
	}

	return diags
}

func sequenceOf(items []*Expr) *Expr {
	if len(items) == 0 {
		return epsilon()
	}
	if len(items) == 1 {
		return items[0]
	}
	return sequence(items...)
}
