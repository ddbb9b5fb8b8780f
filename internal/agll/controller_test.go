package agll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Controller_WarmupPeriod_AlwaysEscalates(t *testing.T) {
	assert := assert.New(t)
	c := NewController()

	for i := 0; i < warmupEscalations; i++ {
		assert.True(c.ShouldEscalate(Metrics{}))
	}
	assert.Equal(warmupEscalations, c.Escalations())
}

func Test_Controller_AfterWarmup_FollowsScoreAgainstThreshold(t *testing.T) {
	assert := assert.New(t)
	c := NewController()
	for i := 0; i < warmupEscalations; i++ {
		c.ShouldEscalate(Metrics{})
	}

	assert.False(c.ShouldEscalate(Metrics{}))
	assert.True(c.ShouldEscalate(Metrics{DescriptorGrowthRate: 1, MaxGSSDepth: 50, MaxLookahead: maxLookahead, SPPFNodeGrowth: 1}))
}

func Test_Controller_Score_WeightsSumToOneAtMaxMetrics(t *testing.T) {
	assert := assert.New(t)
	c := NewController()
	score := c.Score(Metrics{DescriptorGrowthRate: 1, MaxGSSDepth: 50, MaxLookahead: maxLookahead, SPPFNodeGrowth: 1})
	assert.InDelta(1.0, score, 1e-9)
}

func Test_Controller_Score_ClampsOutOfRangeMetrics(t *testing.T) {
	assert := assert.New(t)
	c := NewController()
	score := c.Score(Metrics{DescriptorGrowthRate: 5, MaxGSSDepth: 1000, MaxLookahead: 1000, SPPFNodeGrowth: -3})
	assert.InDelta(0.80, score, 1e-9)
}
