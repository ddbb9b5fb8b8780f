package agll

import (
	"testing"

	"github.com/arborix/cdtk/internal/lexer"
	"github.com/stretchr/testify/assert"
)

func Test_RecoveryRegion_ScansToBlockBoundaries(t *testing.T) {
	assert := assert.New(t)
	tokens := []lexer.Token{
		tok("LBRACE", "{"),
		tok("IDENT", "x"),
		tok("BADTOK", "???"),
		tok("IDENT", "y"),
		tok("SEMI", ";"),
		tok("RBRACE", "}"),
	}
	start, end := recoveryRegion(tokens, 2)
	assert.Equal(1, start)
	assert.Equal(5, end)
}

func Test_RecoveryRegion_CapsAtTenTokensPastPosWithNoTerminator(t *testing.T) {
	assert := assert.New(t)
	tokens := make([]lexer.Token, 0, 20)
	for i := 0; i < 20; i++ {
		tokens = append(tokens, tok("IDENT", "x"))
	}
	_, end := recoveryRegion(tokens, 5)
	assert.Equal(15, end)
}

func Test_Recover_SkipScoresHigherWhenResultLandsInFollow(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"A", "B", "C", "JUNK"}, map[string]string{
		"S": "@A X @C",
		"X": "@B",
	}, "S")
	fg := Flatten(g)

	// X's @B is replaced by garbage; skipping it lands directly on @C,
	// which is in FOLLOW(X), so skip should out-score both inserting a
	// (still FOLLOW-less) @B and resyncing to the same position by a
	// plainer route.
	tokens := []lexer.Token{tok("A", "a"), tok("JUNK", "?"), tok("C", "c")}
	result, ok := recoverAt(fg, tokens, "X", 1)
	assert.True(ok)
	assert.Equal("skip", result.Strategy)
	assert.Equal(2, result.NewPos)
}

func Test_Recover_NoStrategyScoresPositive_ReturnsFalse(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"A"}, map[string]string{
		"S": "@A",
	}, "S")
	fg := Flatten(g)

	_, ok := recoverAt(fg, nil, "__nonexistent__", 0)
	assert.False(ok)
}
