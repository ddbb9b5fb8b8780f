package agll

import (
	"testing"

	"github.com/arborix/cdtk/internal/lexer"
	"github.com/stretchr/testify/assert"
)

func Test_Engine_Run_SimpleSequenceProducesSingleDerivation(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"A", "B"}, map[string]string{
		"S": "@A @B",
	}, "S")
	fg := Flatten(g)

	e := newEngine(fg)
	root, diags := e.run("S", []lexer.Token{tok("A", "a"), tok("B", "b")})
	if root == nil {
		t.Fatalf("expected a derivation, got nil root")
	}
	assert.Equal(0, diags.Len())
	assert.Len(root.Packs, 1)
	assert.Len(root.Packs[0].Children, 2)
}

func Test_Engine_Run_AmbiguousGrammarProducesTwoPacks(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"A"}, map[string]string{
		"S": "@A | @A",
	}, "S")
	fg := Flatten(g)

	e := newEngine(fg)
	root, _ := e.run("S", []lexer.Token{tok("A", "a")})
	if root == nil {
		t.Fatalf("expected a derivation, got nil root")
	}
	assert.Len(root.Packs, 2)
	assert.True(root.Ambiguous())
}

func Test_Engine_Run_LeftRecursiveCountingGrammar(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"A"}, map[string]string{
		"S": "S @A | @A",
	}, "S")
	fg := Flatten(g)

	e := newEngine(fg)
	tokens := []lexer.Token{tok("A", "a"), tok("A", "a"), tok("A", "a")}
	root, _ := e.run("S", tokens)
	if root == nil {
		t.Fatalf("expected a derivation over 3 tokens, got nil root")
	}
	assert.Equal(0, root.Left)
	assert.Equal(3, root.Right)
}

func Test_Engine_Run_NoDerivation_ReturnsNilRoot(t *testing.T) {
	assert := assert.New(t)
	g := buildGrammar(t, []string{"A", "B"}, map[string]string{
		"S": "@A @B",
	}, "S")
	fg := Flatten(g)

	e := newEngine(fg)
	root, _ := e.run("S", []lexer.Token{tok("A", "a")})
	assert.Nil(root)
}
