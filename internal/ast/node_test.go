package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Node_SetField_FieldRoundTrips(t *testing.T) {
	assert := assert.New(t)
	n := &Node{Type: "Binary"}
	left := &Node{Type: "NUM", Lexeme: "1"}

	_, ok := n.Field("left")
	assert.False(ok)

	n.SetField("left", left)
	got, ok := n.Field("left")
	assert.True(ok)
	assert.Same(left, got)
}

func Test_Node_FieldNames_PreservesInsertionOrder(t *testing.T) {
	assert := assert.New(t)
	n := &Node{Type: "Binary"}
	n.SetField("right", &Node{Type: "NUM"})
	n.SetField("left", &Node{Type: "NUM"})
	n.SetField("op", &Node{Type: "PLUS"})

	assert.Equal([]string{"right", "left", "op"}, n.FieldNames())
}

func Test_Node_FieldNames_EmptyWhenNoFieldsSet(t *testing.T) {
	assert := assert.New(t)
	n := &Node{Type: "Leaf"}
	assert.Nil(n.FieldNames())
}
