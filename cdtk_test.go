package cdtk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newArithParser(t *testing.T) (*Lexer, *Parser) {
	t.Helper()

	lx, diags, err := NewLexer([]TokenDef{
		{Name: "NUM", Pattern: `[0-9]+`},
		{Name: "PLUS", Pattern: `\+`},
		{Name: "TIMES", Pattern: `\*`},
		{Name: "LPAREN", Pattern: `\(`},
		{Name: "RPAREN", Pattern: `\)`},
		{Name: "WS", Pattern: `\s+`, Ignored: true},
	}, DefaultLexerOptions())
	if err != nil {
		t.Fatalf("NewLexer: %s (%v)", err, diags.Items())
	}

	p, diags, err := NewParser(
		[]string{"NUM", "PLUS", "TIMES", "LPAREN", "RPAREN"},
		[]RuleDef{
			{Name: "Expr", Pattern: "Expr @PLUS Term | Term"},
			{Name: "Term", Pattern: "Term @TIMES Factor | Factor"},
			{Name: "Factor", Pattern: "@LPAREN Expr @RPAREN | @NUM"},
		},
		"Expr",
		ParseOptions{},
	)
	if err != nil {
		t.Fatalf("NewParser: %s (%v)", err, diags.Items())
	}
	return lx, p
}

func Test_EndToEnd_ArithmeticExpression_ProducesFullAST(t *testing.T) {
	assert := assert.New(t)
	lx, p := newArithParser(t)

	tokens, diags, err := lx.Tokenize("1 + 2 * 3")
	if err != nil {
		t.Fatalf("Tokenize: %s", err)
	}
	assert.False(diags.HasErrors())

	result, err := p.Parse(tokens, "")
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	assert.False(result.IsPartial)
	assert.Equal(0, result.ErrorsRecovered)
	if result.AST == nil {
		t.Fatalf("expected a non-nil AST")
	}
}

func Test_EndToEnd_Tokenize_SkipsUnrecognizedCharacterButContinues(t *testing.T) {
	assert := assert.New(t)
	lx, _ := newArithParser(t)

	tokens, diags, err := lx.Tokenize("1 # 2")
	if err != nil {
		t.Fatalf("Tokenize: %s", err)
	}
	assert.True(diags.Len() > 0)
	assert.True(diags.HasErrors())

	var types []string
	for _, tk := range tokens {
		types = append(types, tk.Type)
	}
	assert.Equal([]string{"NUM", "NUM"}, types)
}

func Test_EndToEnd_Parse_UnparsableInputReportsPartial(t *testing.T) {
	assert := assert.New(t)
	lx, p := newArithParser(t)

	tokens, _, err := lx.Tokenize("1 +")
	if err != nil {
		t.Fatalf("Tokenize: %s", err)
	}

	result, err := p.Parse(tokens, "")
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	assert.True(result.IsPartial)
	assert.True(result.Diagnostics.HasErrors())
}

func Test_EndToEnd_Parse_ReusesArenaAcrossCalls(t *testing.T) {
	assert := assert.New(t)
	lx, p := newArithParser(t)

	tokens, _, err := lx.Tokenize("1 + 2")
	if err != nil {
		t.Fatalf("Tokenize: %s", err)
	}

	first, err := p.Parse(tokens, "")
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	second, err := p.Parse(tokens, "")
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if first.AST == nil || second.AST == nil {
		t.Fatalf("expected both parses to produce an AST")
	}
	assert.Same(first.AST, second.AST)
}

func Test_NewParser_RejectsGrammarWithUndefinedReference(t *testing.T) {
	assert := assert.New(t)
	_, diags, err := NewParser(
		[]string{"NUM"},
		[]RuleDef{{Name: "Start", Pattern: "Missing"}},
		"Start",
		ParseOptions{},
	)
	assert.Error(err)
	assert.True(diags.HasErrors())
}
