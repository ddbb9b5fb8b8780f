package lexer

import (
	"fmt"
	"regexp"

	"github.com/arborix/cdtk/internal/automaton"
	"github.com/arborix/cdtk/internal/diag"
	"github.com/arborix/cdtk/internal/regexir"
	"github.com/arborix/cdtk/internal/util"
)

// tokenTag is the value attached to an accepting automaton state: which
// definition it accepts for, so the scanner can recover name and priority
// after running the merged DFA. Valid is false for the zero value, so a
// winning-tag computation can tell a real tag apart from "no tag here" when
// scanning a DFA state's underlying NFA-state subset.
type tokenTag struct {
	name    string
	index   int
	ignored bool
	valid   bool
}

// Lexer is a compiled set of token definitions. Per spec.md §3 lifecycle
// invariant (i), a Lexer's automaton and Scanner are built once, by Build,
// and are immutable afterward.
type Lexer struct {
	defs    []TokenDef
	opts    Options
	built   bool
	hash    uint64
	scanner *scanner
}

// New registers defs in priority order (earlier definitions win length
// ties) and returns an unbuilt Lexer. Call Build before Tokenize.
func New(defs []TokenDef, opts Options) *Lexer {
	cp := make([]TokenDef, len(defs))
	copy(cp, defs)
	for i := range cp {
		cp[i].Index = i
		if cp[i].Timeout == 0 {
			cp[i].Timeout = opts.RegexTimeout
		}
	}
	return &Lexer{defs: cp, opts: opts}
}

// Build compiles the regex patterns into a merged, minimized DFA plus a
// fallback regex path for any pattern regexir can't express, and — per
// spec.md §4.1 — auto-injects a whitespace token if the definitions imply
// one is needed but none was supplied. It is safe to call Build more than
// once; later calls are no-ops if the definition set is unchanged (checked
// via the definitionHash cache), matching spec.md §4.1's token-definition
// caching.
func (l *Lexer) Build() (diag.Collection, error) {
	var diags diag.Collection

	defs := l.defs
	if injected, note := maybeInjectWhitespace(defs); note != "" {
		defs = injected
		diags.Add(diag.Diagnostic{Stage: diag.StageLex, Level: diag.Info, Code: diag.CodeAutoInjectedWS, Message: note})
	}

	h, err := definitionHash(defs)
	if err != nil {
		return diags, fmt.Errorf("lexer: hashing definitions: %w", err)
	}
	if l.built && h == l.hash {
		return diags, nil
	}

	sc, buildDiags, err := compileScanner(defs, l.opts)
	diags.Merge(buildDiags)
	if err != nil {
		return diags, err
	}

	l.defs = defs
	l.scanner = sc
	l.hash = h
	l.built = true
	return diags, nil
}

// scanner is the compiled form: a minimized DFA over the merged alphabet
// (each state valued with the winning token tag for that state, if any),
// plus fallback compiled regexes for any pattern regexir rejected.
type scanner struct {
	dfa       automaton.DFA[tokenTag]
	alphabet  *regexir.Alphabet
	fallbacks []fallbackPattern
	defs      []TokenDef
}

type fallbackPattern struct {
	re  *regexp.Regexp
	tag tokenTag
}

func compileScanner(defs []TokenDef, opts Options) (*scanner, diag.Collection, error) {
	var diags diag.Collection

	type compiled struct {
		tag  tokenTag
		node *regexir.Node
	}
	var trees []*regexir.Node
	var okDefs []compiled
	var fallbacks []fallbackPattern

	for i, d := range defs {
		tag := tokenTag{name: d.Name, index: i, ignored: d.Ignored, valid: true}
		node, err := regexir.Parse(d.Pattern)
		if err != nil {
			re, reErr := regexp.Compile("^(?:" + d.Pattern + ")")
			if reErr != nil {
				return nil, diags, fmt.Errorf("lexer: definition %q: pattern invalid for both automaton and fallback regex: %w", d.Name, reErr)
			}
			fallbacks = append(fallbacks, fallbackPattern{re: re, tag: tag})
			continue
		}
		okDefs = append(okDefs, compiled{tag: tag, node: node})
		trees = append(trees, node)
	}

	alphabet := regexir.BuildAlphabet(trees)

	var nfa automaton.NFA[tokenTag]
	nfa.AddState("root", false)
	nfa.Start = "root"

	builder := automaton.NewThompson[tokenTag](&nfa, alphabet)
	for _, c := range okDefs {
		start, accept := builder.Build(c.node)
		nfa.AddTransition("root", automaton.Epsilon, start)
		nfa.SetAccepting(accept, true)
		nfa.SetValue(accept, c.tag)
	}

	subsetDFA := nfa.ToDFA()
	winners := automaton.MapValues(subsetDFA, func(_ string, subset util.SVSet[tokenTag]) tokenTag {
		return winningTag(subset)
	})

	var final automaton.DFA[tokenTag]
	if opts.UseDFAOptimisation {
		final = winners.Minimize(func(_ string, tag tokenTag) string {
			if !tag.valid {
				return ""
			}
			return fmt.Sprintf("%s#%d", tag.name, tag.index)
		})
	} else {
		final = winners
	}

	return &scanner{dfa: final, alphabet: alphabet, fallbacks: fallbacks, defs: defs}, diags, nil
}

// winningTag picks, among the accepting NFA states folded into a DFA
// state's subset, the one with the lowest definition Index — spec.md
// §4.1's "earlier-defined tokens have higher priority on length ties" and
// "the minimum-priority accepting NFA state in the subset".
func winningTag(subset util.SVSet[tokenTag]) tokenTag {
	best := tokenTag{}
	for _, name := range subset.Elements() {
		tag := subset.Get(name)
		if !tag.valid {
			continue
		}
		if !best.valid || tag.index < best.index {
			best = tag
		}
	}
	return best
}
