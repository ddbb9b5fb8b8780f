package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParsePattern_Literal(t *testing.T) {
	assert := assert.New(t)
	e, err := ParsePattern(`'foo'`)
	assert.NoError(err)
	assert.Equal(KindTerminalLiteral, e.Kind)
	assert.Equal("foo", e.Literal)
}

func Test_ParsePattern_LiteralEscape(t *testing.T) {
	assert := assert.New(t)
	e, err := ParsePattern(`'it\'s'`)
	assert.NoError(err)
	assert.Equal("it's", e.Literal)
}

func Test_ParsePattern_TokenTypeAndRuleReference(t *testing.T) {
	assert := assert.New(t)

	e, err := ParsePattern(`@Ident`)
	assert.NoError(err)
	assert.Equal(KindTerminalType, e.Kind)
	assert.Equal("Ident", e.Name)

	e, err = ParsePattern(`Expr`)
	assert.NoError(err)
	assert.Equal(KindNonTerminal, e.Kind)
	assert.Equal("Expr", e.Name)
}

func Test_ParsePattern_Alternation(t *testing.T) {
	assert := assert.New(t)
	e, err := ParsePattern(`'a' | 'b' | 'c'`)
	assert.NoError(err)
	assert.Equal(KindChoice, e.Kind)
	assert.Len(e.Items, 3)
}

func Test_ParsePattern_Sequence(t *testing.T) {
	assert := assert.New(t)
	e, err := ParsePattern(`'(' Expr ')'`)
	assert.NoError(err)
	assert.Equal(KindSequence, e.Kind)
	assert.Len(e.Items, 3)
}

func Test_ParsePattern_Suffixes(t *testing.T) {
	assert := assert.New(t)

	e, err := ParsePattern(`Expr?`)
	assert.NoError(err)
	assert.Equal(KindOptional, e.Kind)

	e, err = ParsePattern(`Expr*`)
	assert.NoError(err)
	assert.Equal(KindRepeat, e.Kind)
	assert.Equal(0, e.Min)
	assert.Equal(Unbounded, e.Max)

	e, err = ParsePattern(`Expr+`)
	assert.NoError(err)
	assert.Equal(KindRepeat, e.Kind)
	assert.Equal(1, e.Min)
	assert.Equal(Unbounded, e.Max)
}

func Test_ParsePattern_GroupedSuffix(t *testing.T) {
	assert := assert.New(t)
	e, err := ParsePattern(`('a' 'b')+`)
	assert.NoError(err)
	assert.Equal(KindRepeat, e.Kind)
	assert.Equal(KindSequence, e.Items[0].Kind)
}

func Test_ParsePattern_NamedCapture(t *testing.T) {
	assert := assert.New(t)
	e, err := ParsePattern(`head:@Ident tail:Expr*`)
	assert.NoError(err)
	assert.Equal(KindSequence, e.Kind)
	assert.Len(e.Items, 2)

	assert.Equal(KindNamed, e.Items[0].Kind)
	assert.Equal("head", e.Items[0].Name)
	assert.Equal(KindTerminalType, e.Items[0].Items[0].Kind)

	assert.Equal(KindNamed, e.Items[1].Kind)
	assert.Equal("tail", e.Items[1].Name)
	assert.Equal(KindRepeat, e.Items[1].Items[0].Kind)
}

func Test_ParsePattern_EmptyAlternativeIsEpsilon(t *testing.T) {
	assert := assert.New(t)
	e, err := ParsePattern(`'a' | `)
	assert.NoError(err)
	assert.Equal(KindChoice, e.Kind)
	assert.True(isEpsilon(e.Items[1]))
}

func Test_ParsePattern_UnterminatedLiteral(t *testing.T) {
	assert := assert.New(t)
	_, err := ParsePattern(`'abc`)
	assert.Error(err)
}

func Test_ParsePattern_UnbalancedParen(t *testing.T) {
	assert := assert.New(t)
	_, err := ParsePattern(`('a'`)
	assert.Error(err)
}

func Test_ParsePattern_TrailingGarbage(t *testing.T) {
	assert := assert.New(t)
	_, err := ParsePattern(`'a')`)
	assert.Error(err)
}

func Test_Expr_String_RoundTripsReadably(t *testing.T) {
	assert := assert.New(t)
	e, err := ParsePattern(`List ',' @Ident | @Ident`)
	assert.NoError(err)
	assert.Equal("List ',' @Ident | @Ident", e.String())
}
