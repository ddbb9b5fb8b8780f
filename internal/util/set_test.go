package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_StringSet_Union(t *testing.T) {
	assert := assert.New(t)

	s1 := StringSetOf([]string{"a", "b"})
	s2 := StringSetOf([]string{"b", "c"})

	union := s1.Union(s2)

	assert.True(union.Has("a"))
	assert.True(union.Has("b"))
	assert.True(union.Has("c"))
	assert.Equal(3, union.Len())
}

func Test_StringSet_Intersection(t *testing.T) {
	assert := assert.New(t)

	s1 := StringSetOf([]string{"a", "b", "c"})
	s2 := StringSetOf([]string{"b", "c", "d"})

	inter := s1.Intersection(s2)

	assert.Equal(2, inter.Len())
	assert.True(inter.Has("b"))
	assert.True(inter.Has("c"))
}

func Test_SVSet_PreservesValues(t *testing.T) {
	assert := assert.New(t)

	s := NewSVSet[int]()
	s.Set("x", 1)
	s.Set("y", 2)

	assert.Equal(1, s.Get("x"))
	assert.Equal(2, s.Get("y"))
	assert.Equal(0, s.Get("z"))
}

func Test_Stack_PushPopPeek(t *testing.T) {
	assert := assert.New(t)

	var s Stack[int]
	assert.True(s.Empty())

	s.Push(1)
	s.Push(2)
	s.Push(3)

	assert.Equal(3, s.Len())
	assert.Equal(3, s.Peek())
	assert.Equal(3, s.Pop())
	assert.Equal(2, s.Pop())
	assert.Equal(1, s.Len())
}

func Test_OrderedKeys_Sorted(t *testing.T) {
	assert := assert.New(t)

	m := map[string]int{"z": 1, "a": 2, "m": 3}
	assert.Equal([]string{"a", "m", "z"}, OrderedKeys(m))
}

func Test_MakeTextList(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("", MakeTextList(nil))
	assert.Equal("a", MakeTextList([]string{"a"}))
	assert.Equal("a and b", MakeTextList([]string{"a", "b"}))
	assert.Equal("a, b, and c", MakeTextList([]string{"a", "b", "c"}))
}
