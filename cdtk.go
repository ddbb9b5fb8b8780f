package cdtk

import (
	"github.com/arborix/cdtk/internal/agll"
	"github.com/arborix/cdtk/internal/ast"
	"github.com/arborix/cdtk/internal/diag"
	"github.com/arborix/cdtk/internal/grammar"
	"github.com/arborix/cdtk/internal/lexer"
)

// Re-exported types so a caller never needs to import internal/lexer or
// internal/ast directly.
type (
	// TokenDef describes one token a Lexer recognizes.
	TokenDef = lexer.TokenDef
	// LexerOptions configures a Lexer's build and scan behavior.
	LexerOptions = lexer.Options
	// Token is one lexeme produced by Lexer.Tokenize.
	Token = lexer.Token
	// ASTNode is one node of a Parse result, allocated from the Parser's
	// arena. Its shape is described by internal/ast.Node's doc comment.
	ASTNode = ast.Node
	// Diagnostics is the ordered, deduplicated collection every stage
	// returns alongside its result.
	Diagnostics = diag.Collection
)

// DefaultLexerOptions returns the lexer's recommended defaults (max token
// count, regex timeout, whitespace handling); see internal/lexer.Options.
func DefaultLexerOptions() LexerOptions {
	return lexer.DefaultOptions()
}

// Lexer compiles a set of token definitions into a DFA-driven scanner with
// regex fallback, per spec.md §6's Lexer interface.
type Lexer struct {
	inner *lexer.Lexer
}

// NewLexer builds defs into a Lexer. The returned Diagnostics may carry
// Info or Warning entries (e.g. the Info noting auto-injected whitespace)
// even when err is nil; any Error
// in the collection means the Lexer is unusable and err is non-nil.
func NewLexer(defs []TokenDef, opts LexerOptions) (*Lexer, Diagnostics, error) {
	l := lexer.New(defs, opts)
	diags, err := l.Build()
	if err != nil {
		return nil, diags, err
	}
	return &Lexer{inner: l}, diags, nil
}

// Tokenize scans source into a token stream. Unrecognized characters are
// skipped (diagnosed, not fatal); tokenization always returns every token
// it could recognize.
func (l *Lexer) Tokenize(source string) ([]Token, Diagnostics, error) {
	return l.inner.Tokenize(source)
}

// RuleDef describes one grammar rule: its pattern in internal/grammar's
// pattern-compiler syntax, plus the declarative layer's return-type and
// validator names (opaque to the core, carried through only for the
// external mapping layer to consume).
type RuleDef struct {
	Name       string
	Pattern    string
	Returns    []string
	Validators []string
}

// ParseOptions configures NewParser. DisallowNullableStart is the only
// option: it selects strict grammar validation. There are no options for
// preferring the longest alternative, capping parse steps, or turning the
// arena or the predictive path off.
type ParseOptions struct {
	// DisallowNullableStart rejects a grammar whose start rule is
	// nullable, per spec.md's Strict-mode GrammarError.
	DisallowNullableStart bool
}

// ParseResult is spec.md §6's Parser interface output:
// (ast?, is_partial, errors_recovered, diagnostics).
type ParseResult struct {
	AST             *ASTNode
	IsPartial       bool
	ErrorsRecovered int
	Diagnostics     Diagnostics
}

// Parser compiles a rule table into an AG-LL parser (adaptive prediction
// computed from FIRST/FOLLOW sets at each choice point, with no precomputed
// (rule, lookahead) table + GLL/SPPF fallback + region-scoped recovery)
// and converts its SPPF output
// into an AST, owning one arena across every Parse call.
type Parser struct {
	inner   *agll.Parser
	grammar *grammar.Grammar
	arena   *ast.Arena
}

// NewParser compiles terminals and rules into a Parser rooted at start. The
// returned Diagnostics carries any grammar-analysis Warnings (e.g.
// unreachable rules); an Error in it means err is non-nil and the Parser
// is unusable.
func NewParser(terminals []string, rules []RuleDef, start string, opts ParseOptions) (*Parser, Diagnostics, error) {
	var diags diag.Collection

	g := grammar.New()
	for _, t := range terminals {
		g.AddTerm(t)
	}
	for _, r := range rules {
		if err := g.AddRuleWithMeta(r.Name, r.Pattern, r.Returns, r.Validators, diag.NoSpan); err != nil {
			return nil, diags, err
		}
	}
	g.SetStart(start)

	compileDiags, err := g.EnsureCompiled()
	diags.Merge(compileDiags)
	if err != nil {
		return nil, diags, err
	}

	var validateDiags diag.Collection
	if opts.DisallowNullableStart {
		validateDiags = g.ValidateStrict()
	} else {
		validateDiags = g.Validate()
	}
	diags.Merge(validateDiags)
	if diags.HasErrors() {
		code := diag.CodeInternalError
		msg := "grammar failed validation"
		for _, d := range diags.Items() {
			if d.Level == diag.Error {
				code, msg = d.Code, d.Message
				break
			}
		}
		return nil, diags, &grammar.GrammarError{Code: code, Message: msg}
	}

	inner, err := agll.Compile(g)
	if err != nil {
		return nil, diags, err
	}
	return &Parser{inner: inner, grammar: g, arena: ast.NewArena()}, diags, nil
}

// Parse runs the AG-LL engine over tokens, starting at start (or the
// grammar's default start rule if start is empty), and converts the
// resulting SPPF into an AST. The arena is reset at the start of every
// call; the AST from a previous Parse must not be retained past the next
// one, per spec.md §5's resource policy.
func (p *Parser) Parse(tokens []Token, start string) (ParseResult, error) {
	p.arena.Reset()

	root, diags, err := p.inner.Parse(tokens, start)
	if err != nil {
		return ParseResult{Diagnostics: diags}, err
	}

	astRoot, convDiags := ast.Convert(root, tokens, p.arena)
	diags.Merge(convDiags)

	recovered := 0
	for _, d := range diags.Items() {
		if d.Code == diag.CodeNoViableAlt && d.Level == diag.Warning {
			recovered++
		}
	}

	return ParseResult{
		AST:             astRoot,
		IsPartial:       astRoot == nil || diags.HasErrors(),
		ErrorsRecovered: recovered,
		Diagnostics:     diags,
	}, nil
}
