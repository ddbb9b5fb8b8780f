package regexir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse_Literal(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse("abc")
	assert.NoError(err)
	assert.Equal(KindConcat, n.Kind)
	assert.Len(n.Children, 3)
}

func Test_Parse_Alternation(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse("a|b|c")
	assert.NoError(err)
	assert.Equal(KindAlt, n.Kind)
	assert.Len(n.Children, 3)
}

func Test_Parse_KleeneStar(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse("a*")
	assert.NoError(err)
	assert.Equal(KindStar, n.Kind)
}

func Test_Parse_CharacterClass(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse("[a-z0-9_]")
	assert.NoError(err)
	assert.Equal(KindClass, n.Kind)
	assert.False(n.Negated)
	assert.True(n.Matches('m'))
	assert.True(n.Matches('5'))
	assert.True(n.Matches('_'))
	assert.False(n.Matches('!'))
}

func Test_Parse_NegatedClass(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse("[^a-z]")
	assert.NoError(err)
	assert.True(n.Negated)
	assert.False(n.Matches('m'))
	assert.True(n.Matches('M'))
}

func Test_Parse_DigitShorthand(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse(`\d+`)
	assert.NoError(err)
	assert.Equal(KindPlus, n.Kind)
	assert.True(n.Children[0].Matches('3'))
	assert.False(n.Children[0].Matches('x'))
}

func Test_Parse_NonCapturingGroup(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse("(?:ab)+")
	assert.NoError(err)
	assert.Equal(KindPlus, n.Kind)
}

func Test_Parse_Lookahead_Unsupported(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("a(?=b)")
	assert.Error(err)
	assert.True(errors.Is(err, ErrUnsupported))
}

func Test_Parse_NamedGroup_Unsupported(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("(?P<name>a)")
	assert.Error(err)
	assert.True(errors.Is(err, ErrUnsupported))
}

func Test_Parse_Backreference_Unsupported(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse(`(a)\1`)
	assert.Error(err)
	assert.True(errors.Is(err, ErrUnsupported))
}

func Test_Parse_Dot(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse(".")
	assert.NoError(err)
	assert.Equal(KindDot, n.Kind)
	assert.True(n.Matches('x'))
	assert.False(n.Matches('\n'))
}
