package agll

import (
	"testing"

	"github.com/arborix/cdtk/internal/lexer"
	"github.com/stretchr/testify/assert"
)

func tok(typ, lexeme string) lexer.Token {
	return lexer.Token{Type: typ, Lexeme: lexeme}
}

func Test_Predict_SingleAlt_AlwaysUniqueWithZeroLookahead(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"NUM"}, map[string]string{
		"Start": "@NUM",
	}, "Start")
	fg := Flatten(g)

	result := Predict(fg, "Start", []lexer.Token{tok("NUM", "1")}, 0)
	assert.True(result.Unique)
	assert.Equal(0, result.AltIndex)
	assert.Equal(0, result.LookaheadUsed)
}

func Test_Predict_DistinctFirstTokens_CommitsAtLookaheadOne(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"NUM", "IDENT"}, map[string]string{
		"Start": "@NUM | @IDENT",
	}, "Start")
	fg := Flatten(g)

	result := Predict(fg, "Start", []lexer.Token{tok("IDENT", "x")}, 0)
	assert.True(result.Unique)
	assert.Equal(1, result.AltIndex)
	assert.Equal(1, result.LookaheadUsed)
}

func Test_Predict_SameFirstToken_NeedsDeeperLookahead(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"A", "B", "C"}, map[string]string{
		"Start": "@A @B | @A @C",
	}, "Start")
	fg := Flatten(g)

	result := Predict(fg, "Start", []lexer.Token{tok("A", "a"), tok("C", "c")}, 0)
	assert.True(result.Unique)
	assert.Equal(1, result.AltIndex)
	assert.GreaterOrEqual(result.LookaheadUsed, 2)
}

func Test_Predict_GenuineAmbiguity_NeverCommits(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"A"}, map[string]string{
		"Start": "@A | @A",
	}, "Start")
	fg := Flatten(g)

	result := Predict(fg, "Start", []lexer.Token{tok("A", "a")}, 0)
	assert.False(result.Unique)
}
