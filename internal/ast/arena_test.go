package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Arena_Alloc_ReturnsDistinctNodes(t *testing.T) {
	assert := assert.New(t)
	a := NewArena()

	n1 := a.Alloc()
	n2 := a.Alloc()
	assert.NotSame(n1, n2)
	assert.Equal(2, a.Len())
}

func Test_Arena_Alloc_GrowsPastOneChunk(t *testing.T) {
	assert := assert.New(t)
	a := &Arena{chunkSize: 4}

	seen := map[*Node]bool{}
	for i := 0; i < 10; i++ {
		n := a.Alloc()
		assert.False(seen[n])
		seen[n] = true
	}
	assert.Equal(10, a.Len())
	assert.Len(a.chunks, 3)
}

func Test_Arena_Reset_RewindsCursorWithoutFreeingChunks(t *testing.T) {
	assert := assert.New(t)
	a := &Arena{chunkSize: 4}

	for i := 0; i < 6; i++ {
		a.Alloc()
	}
	chunksBefore := len(a.chunks)

	a.Reset()
	assert.Equal(0, a.Len())
	assert.Len(a.chunks, chunksBefore)
}

func Test_Arena_Alloc_AfterReset_ClearsPriorNodeFields(t *testing.T) {
	assert := assert.New(t)
	a := &Arena{chunkSize: 4}

	first := a.Alloc()
	first.Type = "Leftover"
	first.Lexeme = "stale"
	first.SetField("x", a.Alloc())

	a.Reset()
	reused := a.Alloc()
	assert.Same(first, reused)
	assert.Empty(reused.Type)
	assert.Empty(reused.Lexeme)
	_, ok := reused.Field("x")
	assert.False(ok)
}

func Test_Arena_Reset_AllocatingKNodesReturnsKDistinctNodes(t *testing.T) {
	assert := assert.New(t)
	a := &Arena{chunkSize: 8}

	for i := 0; i < 20; i++ {
		a.Alloc()
	}
	a.Reset()

	seen := map[*Node]bool{}
	for i := 0; i < 20; i++ {
		n := a.Alloc()
		assert.False(seen[n], "node reused twice in the same generation")
		seen[n] = true
	}
	assert.Len(seen, 20)
}

func Test_Arena_Dispose_DropsChunks(t *testing.T) {
	assert := assert.New(t)
	a := &Arena{chunkSize: 4}
	a.Alloc()
	a.Alloc()

	a.Dispose()
	assert.Equal(0, a.Len())
	assert.Empty(a.chunks)
}
