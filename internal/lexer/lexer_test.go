package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Lexer_BasicTokenize(t *testing.T) {
	assert := assert.New(t)

	lx := New([]TokenDef{
		{Name: "IDENT", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "NUMBER", Pattern: `[0-9]+`},
		{Name: "WS", Pattern: `\s+`, Ignored: true},
		{Name: "PLUS", Pattern: `\+`},
	}, DefaultOptions())

	diags, err := lx.Build()
	assert.NoError(err)
	assert.False(diags.HasErrors())

	tokens, diags, err := lx.Tokenize("foo + 42")
	assert.NoError(err)
	assert.False(diags.HasErrors())

	assert.Len(tokens, 3)
	assert.Equal("IDENT", tokens[0].Type)
	assert.Equal("foo", tokens[0].Lexeme)
	assert.Equal("PLUS", tokens[1].Type)
	assert.Equal("NUMBER", tokens[2].Type)
	assert.Equal("42", tokens[2].Lexeme)
}

func Test_Lexer_PriorityOnLengthTie(t *testing.T) {
	assert := assert.New(t)

	lx := New([]TokenDef{
		{Name: "KW_IF", Pattern: `if`},
		{Name: "IDENT", Pattern: `[a-z]+`},
	}, DefaultOptions())

	_, err := lx.Build()
	_ = err

	tokens, _, err := lx.Tokenize("if")
	assert.NoError(err)
	assert.Len(tokens, 1)
	assert.Equal("KW_IF", tokens[0].Type)
}

func Test_Lexer_LongestMatchWins(t *testing.T) {
	assert := assert.New(t)

	lx := New([]TokenDef{
		{Name: "IDENT", Pattern: `[a-z]+`},
		{Name: "KW_IF", Pattern: `if`},
	}, DefaultOptions())

	_, err := lx.Build()
	assert.NoError(err)

	tokens, _, err := lx.Tokenize("iffy")
	assert.NoError(err)
	assert.Len(tokens, 1)
	assert.Equal("IDENT", tokens[0].Type)
	assert.Equal("iffy", tokens[0].Lexeme)
}

func Test_Lexer_UnrecognizedCharacterProducesDiagnostic(t *testing.T) {
	assert := assert.New(t)

	lx := New([]TokenDef{
		{Name: "IDENT", Pattern: `[a-z]+`},
		{Name: "WS", Pattern: `\s+`, Ignored: true},
	}, DefaultOptions())
	_, err := lx.Build()
	assert.NoError(err)

	tokens, diags, err := lx.Tokenize("abc $ def")
	assert.NoError(err)
	assert.True(diags.HasErrors())
	assert.Len(tokens, 2)
}

func Test_Lexer_AutoInjectsWhitespace(t *testing.T) {
	assert := assert.New(t)

	lx := New([]TokenDef{
		{Name: "IDENT", Pattern: `[a-z]+`},
	}, DefaultOptions())

	diags, err := lx.Build()
	assert.NoError(err)

	found := false
	for _, d := range diags.Items() {
		if d.Code == "auto-injected-whitespace" {
			found = true
		}
	}
	assert.True(found)

	tokens, _, err := lx.Tokenize("foo bar")
	assert.NoError(err)
	assert.Len(tokens, 2)
}

func Test_Lexer_FallsBackToRegexForUnsupportedPattern(t *testing.T) {
	assert := assert.New(t)

	lx := New([]TokenDef{
		{Name: "NAMEDGROUP", Pattern: `(?P<word>[a-z]+)`},
		{Name: "WS", Pattern: `\s+`, Ignored: true},
	}, DefaultOptions())

	_, err := lx.Build()
	assert.NoError(err)
	assert.NotNil(lx.scanner)
	assert.Len(lx.scanner.fallbacks, 1)
}

func Test_Lexer_NullablePatternNeverStalls(t *testing.T) {
	assert := assert.New(t)

	lx := New([]TokenDef{
		{Name: "AS", Pattern: `a*`},
	}, DefaultOptions())

	_, err := lx.Build()
	assert.NoError(err)

	tokens, diags, err := lx.Tokenize("b")
	assert.NoError(err)
	assert.True(diags.HasErrors())
	assert.Len(tokens, 0)
}

func Test_Lexer_BuildIsIdempotentForUnchangedDefinitions(t *testing.T) {
	assert := assert.New(t)

	lx := New([]TokenDef{{Name: "A", Pattern: "a"}}, DefaultOptions())
	_, err := lx.Build()
	assert.NoError(err)
	firstScanner := lx.scanner

	_, err = lx.Build()
	assert.NoError(err)
	assert.Same(firstScanner, lx.scanner)
}
