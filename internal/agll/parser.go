package agll

import (
	"fmt"
	"sync/atomic"

	"github.com/arborix/cdtk/internal/diag"
	"github.com/arborix/cdtk/internal/grammar"
	"github.com/arborix/cdtk/internal/lexer"
	"github.com/arborix/cdtk/internal/sppf"
	"github.com/google/uuid"
)

// Parser is a compiled, reusable AG-LL parser for one grammar. Build it
// once with Compile and call Parse as many times as needed; each Parse
// call gets its own GSS/forest/controller scope, so separate calls never
// share mutable state, but two calls can't run concurrently on the same
// *Parser (see the busy guard in Parse).
type Parser struct {
	fg      *FlatGrammar
	grammar *grammar.Grammar
	busy    atomic.Bool
}

// Compile flattens g (a copy of it, so later mutation of the caller's
// Grammar can't retroactively change an already-built Parser, mirroring
// GenerateLL1Parser's own g.Copy() in the teacher) into a Parser ready to
// run AG-LL parses against it.
func Compile(g *grammar.Grammar) (*Parser, error) {
	if g.Start() == "" {
		return nil, fmt.Errorf("agll: grammar has no start rule")
	}
	owned := g.Copy()
	return &Parser{
		fg:      Flatten(owned),
		grammar: owned,
	}, nil
}

// Parse runs the AG-LL algorithm over tokens starting from start (or the
// grammar's declared start rule if start is ""): first a whole-parse
// ALL(*) predictive attempt (tryPredictive), falling back to the full GLL
// engine when prediction can't commit to a unique alternative anywhere in
// the derivation. Per spec.md's Open Question #2 resolution, a predictive
// parse that succeeds in full bypasses GLL (and its SPPF construction)
// entirely, which is what gives AG-LL its linear-time-on-LL(k) guarantee;
// GLL only ever runs when prediction genuinely can't decide.
func (p *Parser) Parse(tokens []lexer.Token, start string) (*sppf.Node, diag.Collection, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return nil, diag.Collection{}, fmt.Errorf("agll: Parse called re-entrantly on the same *Parser")
	}
	defer p.busy.Store(false)

	parseID := uuid.New().String()
	node, diags, err := p.parse(tokens, start)
	return node, tagParseID(diags, parseID), err
}

// tagParseID stamps every diagnostic in diags with id, so diagnostics from
// two concurrent Parse calls (each with its own Parser or its own call,
// serialized by the busy guard) are distinguishable downstream without a
// shared counter or lock.
func tagParseID(diags diag.Collection, id string) diag.Collection {
	var out diag.Collection
	for _, d := range diags.Items() {
		d.ParseID = id
		out.Add(d)
	}
	return out
}

func (p *Parser) parse(tokens []lexer.Token, start string) (*sppf.Node, diag.Collection, error) {
	if start == "" {
		start = p.fg.Start
	}
	if _, ok := p.fg.Rules[start]; !ok {
		return nil, diag.Collection{}, fmt.Errorf("agll: unknown start rule %q", start)
	}

	ctl := NewController()
	if node, diags, ok := p.tryPredictive(start, tokens, ctl); ok {
		return node, diags, nil
	}

	eng := newEngine(p.fg)
	root, diags := eng.run(start, tokens)
	if root != nil {
		return root, diags, nil
	}

	recovered, recDiags, ok := p.tryRecover(start, tokens)
	diags.Merge(recDiags)
	if ok {
		return recovered, diags, nil
	}

	diags.Add(diag.Diagnostic{
		Stage:   diag.StageParse,
		Level:   diag.Error,
		Code:    diag.CodeNoViableAlt,
		Message: fmt.Sprintf("no derivation of %q covers the full input", start),
	})
	return nil, diags, nil
}

// tryPredictive attempts a full recursive-descent parse of start driven
// entirely by Predict, escalating to the caller (returning ok=false) the
// moment any choice point fails to commit to a unique alternative, so the
// whole attempt is abandoned rather than partially trusted.
func (p *Parser) tryPredictive(start string, tokens []lexer.Token, ctl *Controller) (*sppf.Node, diag.Collection, bool) {
	var diags diag.Collection
	forest := sppf.NewForest()

	var walk func(rule string, pos int) (*sppf.Node, int, bool)
	walk = func(rule string, pos int) (*sppf.Node, int, bool) {
		alts := p.fg.Rules[rule]
		if len(alts) == 0 {
			return nil, pos, false
		}

		result := Predict(p.fg, rule, tokens, pos)
		if !result.Unique {
			ctl.ShouldEscalate(Metrics{MaxLookahead: result.LookaheadUsed})
			return nil, pos, false
		}

		alt := alts[result.AltIndex]
		cur := pos
		var children []*sppf.Node
		var captures []string
		for _, step := range alt.Steps {
			if step.Kind == StepTerminal {
				if cur >= len(tokens) || !step.Matches(tokens[cur]) {
					return nil, pos, false
				}
				children = append(children, forest.AddTerminal(tokens[cur].Type, tokens[cur].Lexeme, cur, cur+1))
				captures = append(captures, step.Capture)
				cur++
				continue
			}
			child, next, ok := walk(step.Text, cur)
			if !ok {
				return nil, pos, false
			}
			children = append(children, child)
			captures = append(captures, step.Capture)
			cur = next
		}

		sym, err := forest.AddSymbol(rule, alt.Label, pos, cur, children, captures)
		if err != nil {
			diags.Add(diag.Diagnostic{
				Stage:   diag.StageParse,
				Level:   diag.Error,
				Code:    diag.CodeInternalError,
				Message: fmt.Sprintf("predictive parse: building forest node for %q: %s", rule, err),
			})
			return nil, pos, false
		}
		return sym, cur, true
	}

	root, end, ok := walk(start, 0)
	if !ok || end != len(tokens) {
		return nil, diags, false
	}
	forest.SetRoot(root)
	return root, diags, true
}

// tryRecover repeatedly invokes recoverAt at the GLL engine's failure point
// (approximated here by furthestReached) and re-runs the GLL engine from the
// adjusted position, stopping once a full parse succeeds or recovery
// itself can no longer find a strategy that scores above zero.
func (p *Parser) tryRecover(start string, tokens []lexer.Token) (*sppf.Node, diag.Collection, bool) {
	var diags diag.Collection
	pos := p.furthestReached(start, tokens)

	const maxRecoveryAttempts = 25
	for attempt := 0; attempt < maxRecoveryAttempts; attempt++ {
		result, ok := recoverAt(p.fg, tokens, start, pos)
		if !ok {
			diags.Add(diag.Diagnostic{
				Stage:   diag.StageParse,
				Level:   diag.Error,
				Code:    diag.CodeRecoveryExhausted,
				Message: fmt.Sprintf("no recovery strategy scored above zero at position %d", pos),
			})
			return nil, diags, false
		}
		diags.Add(result.Diag)

		remainder := tokens[result.NewPos:]
		eng := newEngine(p.fg)
		root, subDiags := eng.run(start, remainder)
		diags.Merge(subDiags)
		if root != nil {
			return root, diags, true
		}
		pos = result.NewPos + p.furthestReached(start, remainder)
		if pos >= len(tokens) {
			return nil, diags, false
		}
	}
	return nil, diags, false
}

// furthestReached re-runs the GLL engine over prefixes of tokens,
// binary-searching for the longest prefix that still yields at least one
// partial derivation, as a cheap estimate of "how far did parsing get"
// for recovery to anchor on. It's deliberately simple rather than having
// the engine track its own high-water mark, since recovery only needs an
// approximate anchor, not an exact failure position.
func (p *Parser) furthestReached(start string, tokens []lexer.Token) int {
	lo, hi := 0, len(tokens)
	best := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		eng := newEngine(p.fg)
		eng.run(start, tokens[:mid])
		if eng.forest.NodeCount() > 0 {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best
}
