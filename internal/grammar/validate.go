package grammar

import (
	"fmt"

	"github.com/arborix/cdtk/internal/diag"
	"github.com/arborix/cdtk/internal/util"
)

// StrictMode controls which checks in Validate report as errors versus
// warnings.
type StrictMode int

const (
	// Lenient treats a nullable start rule and literals that no declared
	// token type produces as warnings.
	Lenient StrictMode = iota
	// Strict treats them as errors.
	Strict
)

// Validate checks the grammar for undefined references, unreachable
// rules, unproduced literals, and a nullable start rule (a Warning here in
// Lenient mode, an Error in Strict mode).
// It assumes nullable/FIRST/FOLLOW have already been computed by
// EnsureCompiled; call it directly only for checks that don't depend on
// those tables (undefined references, reachability).
func (g *Grammar) Validate() diag.Collection {
	return g.validate(Lenient)
}

// ValidateStrict is Validate with Strict mode.
func (g *Grammar) ValidateStrict() diag.Collection {
	return g.validate(Strict)
}

func (g *Grammar) validate(mode StrictMode) diag.Collection {
	var diags diag.Collection

	g.checkUndefinedReferences(&diags)
	g.checkUnreachableRules(&diags)
	g.checkNullableStart(&diags, mode)
	g.checkLiteralsProduced(&diags, mode)

	return diags
}

func (g *Grammar) checkUndefinedReferences(diags *diag.Collection) {
	var walk func(name string, e *Expr)
	walk = func(name string, e *Expr) {
		switch e.Kind {
		case KindNonTerminal:
			if _, ok := g.rules[e.Name]; !ok {
				diags.Add(diag.Diagnostic{
					Stage:   diag.StageGrammar,
					Level:   diag.Error,
					Code:    diag.CodeUndefinedReference,
					Message: fmt.Sprintf("rule %q references undefined rule %q", name, e.Name),
				})
			}
		case KindTerminalType:
			if !g.terminals.Has(e.Name) {
				diags.Add(diag.Diagnostic{
					Stage:   diag.StageGrammar,
					Level:   diag.Error,
					Code:    diag.CodeUndefinedReference,
					Message: fmt.Sprintf("rule %q references undefined token type %q", name, e.Name),
				})
			}
		case KindSequence, KindChoice:
			for _, item := range e.Items {
				walk(name, item)
			}
		case KindOptional, KindRepeat, KindNamed:
			walk(name, e.Items[0])
		}
	}

	for _, name := range g.order {
		walk(name, g.rules[name].Pattern)
	}
}

func (g *Grammar) checkUnreachableRules(diags *diag.Collection) {
	if g.start == "" {
		return
	}
	reached := util.NewStringSet()
	queue := []string{g.start}
	reached.Add(g.start)

	var collectRefs func(e *Expr, out util.StringSet)
	collectRefs = func(e *Expr, out util.StringSet) {
		switch e.Kind {
		case KindNonTerminal:
			out.Add(e.Name)
		case KindSequence, KindChoice:
			for _, item := range e.Items {
				collectRefs(item, out)
			}
		case KindOptional, KindRepeat, KindNamed:
			collectRefs(e.Items[0], out)
		}
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		rule, ok := g.rules[n]
		if !ok {
			continue
		}
		refs := util.NewStringSet()
		collectRefs(rule.Pattern, refs)
		for _, r := range refs.Elements() {
			if !reached.Has(r) {
				reached.Add(r)
				queue = append(queue, r)
			}
		}
	}

	for _, name := range g.order {
		if g.rules[name].Synthetic {
			continue
		}
		if !reached.Has(name) {
			diags.Add(diag.Diagnostic{
				Stage:   diag.StageGrammar,
				Level:   diag.Warning,
				Code:    diag.CodeUnreachableRule,
				Message: fmt.Sprintf("rule %q is unreachable from the start rule %q", name, g.start),
			})
		}
	}
}

func (g *Grammar) checkNullableStart(diags *diag.Collection, mode StrictMode) {
	if g.start == "" || g.nullable == nil {
		return
	}
	if !g.nullable[g.start] {
		return
	}
	level := diag.Warning
	if mode == Strict {
		level = diag.Error
	}
	diags.Add(diag.Diagnostic{
		Stage:       diag.StageGrammar,
		Level:       level,
		Code:        diag.CodeNullableStart,
		Message:     fmt.Sprintf("start rule %q is nullable", g.start),
		Suggestions: []string{"FIRST/FOLLOW sets:\n" + g.firstFollowTable()},
	})
}

// checkLiteralsProduced reports, at most once per unique literal text, any
// literal referenced by a rule pattern that no declared token type's
// lexeme set is known to produce. Since Grammar has no visibility into
// the lexer's compiled patterns, "known to produce" means the literal's
// text was registered via RegisterProducedLiteral; when nothing has been
// registered at all, the check is skipped.
func (g *Grammar) checkLiteralsProduced(diags *diag.Collection, mode StrictMode) {
	if g.producedLiterals == nil {
		return
	}
	seen := util.NewStringSet()

	var walk func(name string, e *Expr)
	walk = func(name string, e *Expr) {
		switch e.Kind {
		case KindTerminalLiteral:
			if g.producedLiterals.Has(e.Literal) || seen.Has(e.Literal) {
				return
			}
			seen.Add(e.Literal)
			level := diag.Warning
			if mode == Strict {
				level = diag.Error
			}
			diags.Add(diag.Diagnostic{
				Stage:   diag.StageGrammar,
				Level:   level,
				Code:    diag.CodeLiteralNotProduced,
				Message: fmt.Sprintf("literal %q in rule %q is not produced by any declared token type", e.Literal, name),
			})
		case KindSequence, KindChoice:
			for _, item := range e.Items {
				walk(name, item)
			}
		case KindOptional, KindRepeat, KindNamed:
			walk(name, e.Items[0])
		}
	}

	for _, name := range g.order {
		walk(name, g.rules[name].Pattern)
	}
}

// RegisterProducedLiteral tells the grammar that literal is known to be
// produced by some declared token type's lexemes (typically supplied by
// whatever built the lexer's TokenDef set from literal collection).
// Without any registered literals, the literal-not-produced check is
// skipped entirely rather than flagging every literal as unproduced.
func (g *Grammar) RegisterProducedLiteral(literal string) {
	if g.producedLiterals == nil {
		g.producedLiterals = util.NewStringSet()
	}
	g.producedLiterals.Add(literal)
}
