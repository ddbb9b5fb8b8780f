package grammar

import (
	"fmt"
	"strings"

	"github.com/arborix/cdtk/internal/diag"
	"github.com/arborix/cdtk/internal/util"
)

// Rule is a single named production. Pattern may contain top-level
// alternatives (a Choice node) compiled from the '|' operator in the
// surface pattern syntax.
type Rule struct {
	Name       string
	Pattern    *Expr
	Returns    []string
	Validators []string
	Span       diag.Span

	// Synthetic marks a rule generated by left-recursion elimination
	// (named "__<rule>_LR__"); these are hidden from diagnostics that
	// enumerate user-facing rule names.
	Synthetic bool
}

// Grammar holds a set of token-type declarations and rules, plus the
// derived analysis (nullable/FIRST/FOLLOW) computed by EnsureCompiled.
type Grammar struct {
	rules      map[string]*Rule
	order      []string
	terminals  util.StringSet
	start      string
	dirty      bool
	compiled   bool
	lrHandled  util.StringSet

	nullable map[string]bool
	first    map[string]util.StringSet
	follow   map[string]util.StringSet

	producedLiterals util.StringSet
}

// New returns an empty Grammar.
func New() *Grammar {
	return &Grammar{
		rules:     map[string]*Rule{},
		terminals: util.NewStringSet(),
		lrHandled: util.NewStringSet(),
		dirty:     true,
	}
}

// AddTerm declares a token type name that rule patterns may reference via
// '@name'. Declaring a term that already exists is a no-op.
func (g *Grammar) AddTerm(name string) {
	g.terminals.Add(name)
}

// Terminals returns the declared token-type names.
func (g *Grammar) Terminals() []string {
	return g.terminals.Elements()
}

// AddRule compiles pattern and stores it under name. Calling AddRule twice
// with the same name returns a GrammarError wrapping CodeDuplicateRule
// rather than silently overwriting the earlier definition.
func (g *Grammar) AddRule(name, pattern string) error {
	if _, exists := g.rules[name]; exists {
		return &GrammarError{Code: diag.CodeDuplicateRule, Message: fmt.Sprintf("rule %q is already defined", name)}
	}
	expr, err := ParsePattern(pattern)
	if err != nil {
		return &GrammarError{Code: diag.CodePatternParseFailure, Message: fmt.Sprintf("rule %q: %s", name, err)}
	}
	g.order = append(g.order, name)
	g.rules[name] = &Rule{Name: name, Pattern: expr}
	if g.start == "" {
		g.start = name
	}
	g.dirty = true
	g.compiled = false
	return nil
}

// AddRuleWithMeta is AddRule plus Returns/Validators/Span metadata carried
// through from a higher-level rule declaration (e.g. a fishi-style grammar
// source file).
func (g *Grammar) AddRuleWithMeta(name, pattern string, returns, validators []string, span diag.Span) error {
	if err := g.AddRule(name, pattern); err != nil {
		return err
	}
	r := g.rules[name]
	r.Returns = returns
	r.Validators = validators
	r.Span = span
	return nil
}

// String renders the rule as "Name -> pattern", in the same surface
// syntax the pattern compiler accepts.
func (r *Rule) String() string {
	return fmt.Sprintf("%s -> %s", r.Name, r.Pattern.String())
}

// ParseRule parses a "Name -> pattern" string, the same surface syntax
// Rule.String produces, into a Rule. Useful for writing grammar test
// fixtures as plain strings instead of a sequence of AddRule calls.
func ParseRule(s string) (Rule, error) {
	idx := strings.Index(s, "->")
	if idx < 0 {
		return Rule{}, fmt.Errorf("grammar: rule %q missing '->'", s)
	}
	name := strings.TrimSpace(s[:idx])
	if name == "" {
		return Rule{}, fmt.Errorf("grammar: rule %q has an empty name", s)
	}
	expr, err := ParsePattern(strings.TrimSpace(s[idx+2:]))
	if err != nil {
		return Rule{}, fmt.Errorf("grammar: rule %q: %w", name, err)
	}
	return Rule{Name: name, Pattern: expr}, nil
}

// Rule returns the named rule, or nil if undefined.
func (g *Grammar) Rule(name string) *Rule {
	return g.rules[name]
}

// Rules returns all rules in declaration order.
func (g *Grammar) Rules() []*Rule {
	out := make([]*Rule, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.rules[name])
	}
	return out
}

// SetStart overrides the start rule (by default, the first rule added).
func (g *Grammar) SetStart(name string) {
	g.start = name
	g.dirty = true
}

// Start returns the start rule's name.
func (g *Grammar) Start() string {
	return g.start
}

// Copy returns an independent deep copy of g: later mutation of the
// original (e.g. AddRule) never retroactively changes a grammar already
// captured by a caller that built something from it (mirroring
// ictiobus/parse/ll1.go's GenerateLL1Parser storing g.Copy() rather than
// the caller's grammar value).
func (g *Grammar) Copy() *Grammar {
	out := New()
	out.terminals = util.NewStringSet()
	out.terminals.AddAll(g.terminals)
	out.start = g.start

	out.order = make([]string, len(g.order))
	copy(out.order, g.order)

	out.rules = make(map[string]*Rule, len(g.rules))
	for name, r := range g.rules {
		cp := *r
		cp.Returns = append([]string(nil), r.Returns...)
		cp.Validators = append([]string(nil), r.Validators...)
		out.rules[name] = &cp
	}

	return out
}

func (g *Grammar) addSyntheticRule(name string, pattern *Expr) {
	g.rules[name] = &Rule{Name: name, Pattern: pattern, Synthetic: true}
	g.order = append(g.order, name)
}

// GrammarError is a grammar-stage error carrying a stable diagnostic code,
// for callers that want to branch on the kind of failure (e.g. treating a
// duplicate-rule error differently from a pattern-parse failure).
type GrammarError struct {
	Code    diag.Code
	Message string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("grammar: %s: %s", e.Code, e.Message)
}
