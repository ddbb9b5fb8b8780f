package sppf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Forest_AddTerminal_SharesIdenticalSpan(t *testing.T) {
	assert := assert.New(t)
	f := NewForest()

	a := f.AddTerminal("IDENT", "foo", 0, 3)
	b := f.AddTerminal("IDENT", "foo", 0, 3)
	assert.Same(a, b)

	c := f.AddTerminal("IDENT", "bar", 3, 6)
	assert.NotSame(a, c)
}

func Test_Forest_AddSymbol_SameDerivationDeduped(t *testing.T) {
	assert := assert.New(t)
	f := NewForest()

	tok := f.AddTerminal("IDENT", "x", 0, 1)

	sym1, err := f.AddSymbol("Atom", "alt0", 0, 1, []*Node{tok}, []string{""})
	assert.NoError(err)

	sym2, err := f.AddSymbol("Atom", "alt0", 0, 1, []*Node{tok}, []string{""})
	assert.NoError(err)

	assert.Same(sym1, sym2)
	assert.Len(sym1.Packs, 1)
}

func Test_Forest_AddSymbol_AmbiguousSpanGetsTwoPacks(t *testing.T) {
	assert := assert.New(t)
	f := NewForest()

	a := f.AddTerminal("A", "a", 0, 1)
	b := f.AddTerminal("B", "b", 0, 1)

	sym1, err := f.AddSymbol("X", "alt0", 0, 1, []*Node{a}, []string{""})
	assert.NoError(err)

	sym2, err := f.AddSymbol("X", "alt1", 0, 1, []*Node{b}, []string{""})
	assert.NoError(err)

	assert.Same(sym1, sym2)
	assert.Len(sym1.Packs, 2)
	assert.True(sym1.Ambiguous())
}

func Test_Forest_AddEpsilon_ZeroWidthSpan(t *testing.T) {
	assert := assert.New(t)
	f := NewForest()

	n, err := f.AddEpsilon("Opt", 4)
	assert.NoError(err)
	assert.Equal(4, n.Left)
	assert.Equal(4, n.Right)
	assert.Len(n.Packs, 1)
	assert.Empty(n.Packs[0].Children)
}

func Test_Forest_AddIntermediate_ChainsSymbols(t *testing.T) {
	assert := assert.New(t)
	f := NewForest()

	s1 := f.AddTerminal("A", "a", 0, 1)
	s2 := f.AddTerminal("B", "b", 1, 2)

	mid, err := f.AddIntermediate("Seq#alt0@1", 0, 1, []*Node{s1}, []string{"first"})
	assert.NoError(err)
	assert.Len(mid.Packs[0].Children, 1)
	assert.Equal("first", mid.Packs[0].Captures[0])

	full, err := f.AddIntermediate("Seq#alt0@2", 0, 2, []*Node{mid, s2}, []string{"", "second"})
	assert.NoError(err)
	assert.Len(full.Packs[0].Children, 2)
	assert.Equal("second", full.Packs[0].Captures[1])
}

func Test_Forest_RootTracking(t *testing.T) {
	assert := assert.New(t)
	f := NewForest()
	assert.Nil(f.Root())

	tok := f.AddTerminal("A", "a", 0, 1)
	sym, err := f.AddSymbol("Start", "alt0", 0, 1, []*Node{tok}, []string{""})
	assert.NoError(err)

	f.SetRoot(sym)
	assert.Same(sym, f.Root())
}

func Test_Forest_NodeCount_ReflectsSharing(t *testing.T) {
	assert := assert.New(t)
	f := NewForest()

	tok := f.AddTerminal("A", "a", 0, 1)
	_, err := f.AddSymbol("X", "alt0", 0, 1, []*Node{tok}, []string{""})
	assert.NoError(err)
	countBefore := f.NodeCount()

	_, err = f.AddSymbol("X", "alt0", 0, 1, []*Node{tok}, []string{""})
	assert.NoError(err)
	assert.Equal(countBefore, f.NodeCount())
}

func Test_Node_String(t *testing.T) {
	assert := assert.New(t)
	f := NewForest()
	tok := f.AddTerminal("IDENT", "foo", 0, 3)
	assert.Equal(`IDENT[0,3)="foo"`, tok.String())

	sym, err := f.AddSymbol("Atom", "alt0", 0, 3, []*Node{tok}, []string{""})
	assert.NoError(err)
	assert.Contains(sym.String(), "Atom[0,3)")
}
