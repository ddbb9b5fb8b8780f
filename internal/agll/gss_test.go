package agll

import (
	"testing"

	"github.com/arborix/cdtk/internal/sppf"
	"github.com/stretchr/testify/assert"
)

func Test_GSS_Create_NewNodeHasNoReplays(t *testing.T) {
	assert := assert.New(t)
	s := newGSS()

	v, replays := s.create(s.root, returnSlot{Rule: "X", Pos: 1}, 0, nil, "cap")
	assert.NotNil(v)
	assert.Nil(replays)
	assert.Len(v.edges, 1)
	assert.Equal("cap", v.edges[0].capture)
}

func Test_GSS_Create_SameCallerAndFragmentDeduped(t *testing.T) {
	assert := assert.New(t)
	s := newGSS()

	v1, _ := s.create(s.root, returnSlot{Rule: "X", Pos: 1}, 0, nil, "")
	v2, _ := s.create(s.root, returnSlot{Rule: "X", Pos: 1}, 0, nil, "")
	assert.Same(v1, v2)
	assert.Len(v1.edges, 1)
}

func Test_GSS_Pop_ResumesEveryEdgeIntoNode(t *testing.T) {
	assert := assert.New(t)
	s := newGSS()
	forest := sppf.NewForest()
	leaf := forest.AddTerminal("A", "a", 0, 1)

	v, _ := s.create(s.root, returnSlot{Rule: "X", Pos: 1}, 0, nil, "lhs")
	conts := s.pop(v, leaf)
	if len(conts) != 1 {
		t.Fatalf("expected 1 continuation, got %d", len(conts))
	}
	assert.Same(s.root, conts[0].caller)
	assert.Equal(1, conts[0].pos)
	assert.Len(conts[0].fragment.children, 1)
	assert.Equal("lhs", conts[0].fragment.captures[0])
}

func Test_GSS_Pop_SameResultTwiceIsNoOp(t *testing.T) {
	assert := assert.New(t)
	s := newGSS()
	forest := sppf.NewForest()
	leaf := forest.AddTerminal("A", "a", 0, 1)

	v, _ := s.create(s.root, returnSlot{Rule: "X", Pos: 1}, 0, nil, "")
	s.pop(v, leaf)
	conts := s.pop(v, leaf)
	assert.Nil(conts)
}

func Test_GSS_Create_AfterPop_ReplaysPoppedResults(t *testing.T) {
	assert := assert.New(t)
	s := newGSS()
	forest := sppf.NewForest()
	leaf := forest.AddTerminal("A", "a", 0, 1)

	v, _ := s.create(s.root, returnSlot{Rule: "X", Pos: 1}, 0, nil, "")
	s.pop(v, leaf)

	otherCaller := &gssNode{label: returnSlot{Rule: "Y", Pos: 0}, pos: 0}
	_, replays := s.create(otherCaller, returnSlot{Rule: "X", Pos: 1}, 0, nil, "rhs")
	if len(replays) != 1 {
		t.Fatalf("expected 1 replay, got %d", len(replays))
	}
	assert.Same(otherCaller, replays[0].caller)
	assert.Equal("rhs", replays[0].fragment.captures[0])
}

func Test_Accum_Extend_DoesNotMutateOriginal(t *testing.T) {
	assert := assert.New(t)
	forest := sppf.NewForest()
	a := forest.AddTerminal("A", "a", 0, 1)
	b := forest.AddTerminal("B", "b", 1, 2)

	base := (*accum)(nil).extend(a, "first")
	extended := base.extend(b, "second")

	assert.Len(base.children, 1)
	assert.Len(extended.children, 2)
}
